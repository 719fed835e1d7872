// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package assembler implements the Mano basic computer's two-pass
// assembler: label resolution in pass 1, word emission in pass 2. Pass 2
// never runs if pass 1 reported any error, matching the specification's
// diagnostic-complete contract — the assembler never panics on bad
// input, it accumulates errors and returns success=false.
package assembler

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/mano-cs/manoemu/pkg/word"
)

// statement is a single parsed, not-yet-resolved line of source: enough
// information from pass 1 to emit its word in pass 2 without re-parsing.
type statement struct {
	position Cursor
	addr     uint16
	usage    Usage

	pseudo   string // "HEX" or "DEC"; empty for mnemonic statements
	mnemonic string
	operand  string
	indirect bool

	word uint16 // fully resolved for HEX/DEC in pass 1; MRI/RRI/IOI resolved in pass 2
}

// isLabelStart/isLabelContinue implement the label grammar
// [A-Za-z_][A-Za-z0-9_]* without pulling in regexp, matching the rest of
// this package's hand-rolled character classification.
func isLabelStart(r rune) bool {
	return r <= unicode.MaxASCII && (unicode.IsLetter(r) || r == '_')
}

func isLabelContinue(r rune) bool {
	return r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

func validLabel(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isLabelStart(r) {
				return false
			}
			continue
		}
		if !isLabelContinue(r) {
			return false
		}
	}
	return true
}

// stripComment removes everything from the first "/" onward, per the
// source format's line-comment rule.
func stripComment(line string) string {
	if idx := strings.IndexByte(line, '/'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// splitLabel separates an optional "LABEL," prefix from the rest of the
// line. The language has no other use for a comma, so the first comma
// always marks the end of a label.
func splitLabel(line string) (label, rest string, hasLabel bool) {
	idx := strings.IndexByte(line, ',')
	if idx < 0 {
		return "", line, false
	}
	return strings.TrimSpace(line[:idx]), line[idx+1:], true
}

// Assemble runs both passes over source and returns the machine-word
// map, symbol table, usage map, start address, and any diagnostics.
func Assemble(source string) Result {
	lines := strings.Split(source, "\n")

	labels := make(map[string]uint16)
	statements := make([]statement, 0, len(lines))
	errs := make([]error, 0)

	var loc uint32
	var start uint16
	var sawOrg bool
	var lineByte int64

	for i, raw := range lines {
		lineNo := i + 1
		cursor := Cursor{Line: lineNo, Column: 1, LineByte: lineByte}
		lineByte += int64(len(raw)) + 1

		body := stripComment(raw)
		label, rest, hasLabel := splitLabel(body)
		rest = strings.TrimSpace(rest)

		if hasLabel {
			upper := strings.ToUpper(label)
			if !validLabel(label) {
				errs = append(errs, &InvalidLabelError{cursor, label})
			} else if _, dup := labels[upper]; dup {
				errs = append(errs, &DuplicateLabelError{cursor, label})
			} else {
				labels[upper] = uint16(loc & 0x0FFF)
			}
		}

		if rest == "" {
			continue
		}

		fields := strings.Fields(rest)
		head := strings.ToUpper(fields[0])
		operand := ""
		if len(fields) > 1 {
			operand = fields[1]
		}

		switch head {
		case pseudoORG:
			if operand == "" {
				errs = append(errs, &MissingOperandError{cursor, head})
				continue
			}
			v, ok := word.DecodeHex(operand)
			if !ok || v > word.Mask12 {
				errs = append(errs, &OrgRangeError{cursor, operand})
				continue
			}
			loc = uint32(v)
			if !sawOrg {
				start = v
				sawOrg = true
			}

		case pseudoEND:
			// Marks end of source; ignored by the machine. Stop scanning
			// further lines the way a hardware assembler's EOF would.
			goto donePass1

		case pseudoHEX:
			if operand == "" {
				errs = append(errs, &MissingOperandError{cursor, head})
				continue
			}
			v, ok := word.DecodeHex(operand)
			if !ok {
				errs = append(errs, &LiteralRangeError{cursor, operand, "0000..FFFF"})
				continue
			}
			statements = append(statements, statement{
				position: cursor,
				addr:     uint16(loc & 0x0FFF),
				usage:    UsageData,
				pseudo:   pseudoHEX,
				word:     v,
			})
			loc++

		case pseudoDEC:
			if operand == "" {
				errs = append(errs, &MissingOperandError{cursor, head})
				continue
			}
			n, perr := strconv.Atoi(operand)
			if perr != nil {
				errs = append(errs, &LiteralRangeError{cursor, operand, "-32768..32767"})
				continue
			}
			v, ok := word.DecToWord16(n)
			if !ok {
				errs = append(errs, &LiteralRangeError{cursor, operand, "-32768..32767"})
				continue
			}
			statements = append(statements, statement{
				position: cursor,
				addr:     uint16(loc & 0x0FFF),
				usage:    UsageData,
				pseudo:   pseudoDEC,
				word:     v,
			})
			loc++

		default:
			info, known := mnemonics[head]
			if !known {
				errs = append(errs, &UnknownMnemonicError{cursor, fields[0]})
				continue
			}

			st := statement{
				position: cursor,
				addr:     uint16(loc & 0x0FFF),
				usage:    UsageCode,
				mnemonic: head,
			}

			if info.class == classMRI {
				if operand == "" {
					errs = append(errs, &MissingOperandError{cursor, head})
					continue
				}
				st.operand = operand
				if len(fields) > 2 && strings.EqualFold(fields[2], "I") {
					st.indirect = true
				}
			} else {
				st.word = info.code
			}

			statements = append(statements, st)
			loc++
		}
	}

donePass1:
	if len(errs) > 0 {
		return Result{
			Success: false,
			Words:   map[uint16]uint16{},
			Labels:  labels,
			Usage:   map[uint16]Usage{},
			Start:   start,
			Errors:  errs,
		}
	}

	words := make(map[uint16]uint16, len(statements))
	usage := make(map[uint16]Usage, len(statements))
	symbols := make(map[uint16]int64, len(statements))

	for _, st := range statements {
		if st.pseudo != "" {
			words[st.addr] = st.word
			usage[st.addr] = st.usage
			symbols[st.addr] = st.position.LineByte
			continue
		}
		info := mnemonics[st.mnemonic]
		var w uint16

		switch info.class {
		case classMRI:
			addr, ok := resolveOperand(st.operand, labels)
			if !ok {
				errs = append(errs, &UnresolvedOperandError{st.position, st.operand})
				continue
			}
			w = (uint16(info.code) << 12) | addr
			if st.indirect {
				w |= indirectBit
			}
		default: // classRRI, classIOI
			w = info.code
		}

		words[st.addr] = w
		usage[st.addr] = st.usage
		symbols[st.addr] = st.position.LineByte
	}

	if len(errs) > 0 {
		return Result{
			Success: false,
			Words:   map[uint16]uint16{},
			Labels:  labels,
			Usage:   map[uint16]Usage{},
			Start:   start,
			Errors:  errs,
		}
	}

	lineLabels := make(map[uint16]string, len(labels))
	for name, addr := range labels {
		lineLabels[addr] = name
	}

	return Result{
		Success: true,
		Words:   words,
		Labels:  labels,
		Usage:   usage,
		Start:   start,
		Errors:  nil,
		SymTable: &SymTable{
			Source:  source,
			Start:   start,
			Symbols: symbols,
			Labels:  lineLabels,
		},
	}
}

// resolveOperand implements the specification's operand-resolution
// order: the symbol table is consulted before the operand is ever tried
// as a literal, so a defined label shadows a syntactically valid hex
// literal of the same text (e.g. a label named "A").
func resolveOperand(operand string, labels map[string]uint16) (uint16, bool) {
	if addr, ok := labels[strings.ToUpper(operand)]; ok {
		return addr, true
	}
	if len(operand) > 3 {
		return 0, false
	}
	v, ok := word.DecodeHex(operand)
	if !ok {
		return 0, false
	}
	return v & word.Mask12, true
}
