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

package assembler

import "fmt"

// Cursor locates a diagnostic within the source text: the 1-indexed line
// of the offending statement, a column that Assemble always sets to 1
// (diagnostics locate the line, not the token within it), plus the byte
// offset of the start of that line, which seeds the debug SymTable's
// per-address offsets.
type Cursor struct {
	Line     int
	Column   int
	LineByte int64
}

// Usage tags an assembled address as holding an instruction or a literal
// value, for display collaborators that disassemble code-tagged words and
// print data-tagged ones verbatim. The CPU never consults this.
type Usage int

const (
	UsageCode Usage = iota
	UsageData
)

func (u Usage) String() string {
	switch u {
	case UsageData:
		return "data"
	default:
		return "code"
	}
}

// SymTable is the assembler's debug sidecar: the source text plus a
// byte offset per assembled address, letting a host map an address back
// to the source line that produced it.
type SymTable struct {
	Source  string
	Start   uint16
	Symbols map[uint16]int64
	Labels  map[uint16]string
}

// TokenError is satisfied by every assembler error type, letting a host
// underline the offending source line the way cmd/manoctl's asm
// subcommand does.
type TokenError interface {
	error
	GetPosition() Cursor
}

// Result is what Assemble returns: the machine-word map, symbol table,
// usage map, start address, and diagnostics. Words is empty whenever
// Success is false; pass 2 never runs if pass 1 reported any error.
type Result struct {
	Success  bool
	Words    map[uint16]uint16
	Labels   map[string]uint16
	Usage    map[uint16]Usage
	Start    uint16
	Errors   []error
	SymTable *SymTable
}

type InvalidLabelError struct {
	Position Cursor
	Received string
}

func (err *InvalidLabelError) GetPosition() Cursor { return err.Position }

func (err *InvalidLabelError) Error() string {
	return fmt.Sprintf(
		"%d:%d: invalid label '%s'\n\twant: [A-Za-z_][A-Za-z0-9_]*",
		err.Position.Line, err.Position.Column, err.Received,
	)
}

type DuplicateLabelError struct {
	Position Cursor
	Received string
}

func (err *DuplicateLabelError) GetPosition() Cursor { return err.Position }

func (err *DuplicateLabelError) Error() string {
	return fmt.Sprintf(
		"%d:%d: duplicate label '%s'",
		err.Position.Line, err.Position.Column, err.Received,
	)
}

type UnknownMnemonicError struct {
	Position Cursor
	Received string
}

func (err *UnknownMnemonicError) GetPosition() Cursor { return err.Position }

func (err *UnknownMnemonicError) Error() string {
	return fmt.Sprintf(
		"%d:%d: unknown mnemonic '%s'",
		err.Position.Line, err.Position.Column, err.Received,
	)
}

type MissingOperandError struct {
	Position Cursor
	Received string // the statement that needed an operand
}

func (err *MissingOperandError) GetPosition() Cursor { return err.Position }

func (err *MissingOperandError) Error() string {
	return fmt.Sprintf(
		"%d:%d: missing operand for '%s'",
		err.Position.Line, err.Position.Column, err.Received,
	)
}

type LiteralRangeError struct {
	Position Cursor
	Received string
	Want     string
}

func (err *LiteralRangeError) GetPosition() Cursor { return err.Position }

func (err *LiteralRangeError) Error() string {
	return fmt.Sprintf(
		"%d:%d: literal '%s' out of range\n\twant: %s",
		err.Position.Line, err.Position.Column, err.Received, err.Want,
	)
}

type OrgRangeError struct {
	Position Cursor
	Received string
}

func (err *OrgRangeError) GetPosition() Cursor { return err.Position }

func (err *OrgRangeError) Error() string {
	return fmt.Sprintf(
		"%d:%d: ORG address '%s' out of range\n\twant: 000..FFF",
		err.Position.Line, err.Position.Column, err.Received,
	)
}

// UnresolvedOperandError is a pass-2 error: an MRI operand that is
// neither a defined label nor a literal of at most three hex digits.
type UnresolvedOperandError struct {
	Position Cursor
	Received string
}

func (err *UnresolvedOperandError) GetPosition() Cursor { return err.Position }

func (err *UnresolvedOperandError) Error() string {
	return fmt.Sprintf(
		"%d:%d: '%s' is neither a defined label nor a 3-digit hex literal",
		err.Position.Line, err.Position.Column, err.Received,
	)
}
