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

package assembler_test

import (
	"reflect"
	"testing"

	"github.com/mano-cs/manoemu/pkg/assembler"
)

type testCase struct {
	Name   string
	Input  string
	Output map[uint16]uint16
	Usage  map[uint16]assembler.Usage
	Start  uint16
}

type failCase struct {
	Name  string
	Input string
	Error error
}

func testAssemblerSuccess(t *testing.T, test *testCase) {
	result := assembler.Assemble(test.Input)

	if !result.Success {
		t.Fatalf("%s: expected success, got errors: %v", test.Name, result.Errors)
	}

	if !reflect.DeepEqual(result.Words, test.Output) {
		t.Fatalf(
			"%s: word map mismatch\nwant:%#04x\nhave:%#04x",
			test.Name, test.Output, result.Words,
		)
	}

	if test.Usage != nil && !reflect.DeepEqual(result.Usage, test.Usage) {
		t.Fatalf(
			"%s: usage map mismatch\nwant:%v\nhave:%v",
			test.Name, test.Usage, result.Usage,
		)
	}

	if test.Start != 0 && result.Start != test.Start {
		t.Fatalf(
			"%s: start address mismatch\nwant:%#03x\nhave:%#03x",
			test.Name, test.Start, result.Start,
		)
	}

	if result.SymTable == nil {
		t.Fatalf("%s: expected a symbol table on success", test.Name)
	}
}

func testAssemblerFailure(t *testing.T, test *failCase) {
	result := assembler.Assemble(test.Input)

	if result.Success {
		t.Fatalf("%s: expected failure, assembled cleanly", test.Name)
	}

	if len(result.Words) != 0 {
		t.Fatalf("%s: expected an empty word map on failure, got %v", test.Name, result.Words)
	}

	if len(result.Errors) == 0 {
		t.Fatalf("%s: expected at least one error", test.Name)
	}

	if reflect.TypeOf(result.Errors[0]) != reflect.TypeOf(test.Error) {
		t.Fatalf(
			"%s: error type mismatch\nwant:%T\nhave:%T (%v)",
			test.Name, test.Error, result.Errors[0], result.Errors[0],
		)
	}
}

func TestAssemblerSuccess(t *testing.T) {
	tests := []testCase{
		{
			Name: "add two numbers",
			Input: "ORG 100\n" +
				"LDA A\n" +
				"ADD B\n" +
				"STA C\n" +
				"HLT\n" +
				"A, DEC 5\n" +
				"B, DEC 3\n" +
				"C, DEC 0\n" +
				"END\n",
			Output: map[uint16]uint16{
				0x100: 0x2104,
				0x101: 0x1105,
				0x102: 0x3106,
				0x103: 0x7001,
				0x104: 0x0005,
				0x105: 0x0003,
				0x106: 0x0000,
			},
			Usage: map[uint16]assembler.Usage{
				0x100: assembler.UsageCode,
				0x101: assembler.UsageCode,
				0x102: assembler.UsageCode,
				0x103: assembler.UsageCode,
				0x104: assembler.UsageData,
				0x105: assembler.UsageData,
				0x106: assembler.UsageData,
			},
			Start: 0x100,
		},
		{
			Name: "subroutine via BSA",
			Input: "ORG 100\n" +
				"BSA SUB\n" +
				"HLT\n" +
				"SUB, HEX 0\n" +
				"LDA X\n" +
				"CMA\n" +
				"INC\n" +
				"STA X\n" +
				"BUN SUB I\n" +
				"X, DEC 5\n" +
				"END\n",
			Output: map[uint16]uint16{
				0x100: 0x5102, // BSA SUB: opcode 5<<12 | addr(SUB=0x102)
				0x101: 0x7001,
				0x102: 0x0000, // SUB, HEX 0: the label binds to this cell
				0x103: 0x2108, // LDA X: addr(X=0x108)
				0x104: 0x7200,
				0x105: 0x7020,
				0x106: 0x3108, // STA X
				0x107: 0xC102, // BUN SUB I: opcode 4<<12 | 0x102 | indirect bit
				0x108: 0x0005,
			},
			Start: 0x100,
		},
		{
			Name:  "literal shadowed by label",
			Input: "A, HEX 7\nLDA A\n",
			Output: map[uint16]uint16{
				0x000: 0x0007,
				0x001: 0x2000,
			},
		},
		{
			Name:  "label binds before ORG changes the counter",
			Input: "L, ORG 100\nHLT\n",
			Output: map[uint16]uint16{
				0x100: 0x7001,
			},
		},
		{
			Name:  "RRI mnemonic encodes its fixed word",
			Input: "CLA\n",
			Output: map[uint16]uint16{
				0x000: 0x7800,
			},
		},
		{
			Name:  "IOI mnemonics encode fixed words",
			Input: "INP\nOUT\nSKI\nSKO\nION\nIOF\n",
			Output: map[uint16]uint16{
				0x000: 0xF800,
				0x001: 0xF400,
				0x002: 0xF200,
				0x003: 0xF100,
				0x004: 0xF080,
				0x005: 0xF040,
			},
		},
		{
			Name:  "comments and blank lines are ignored",
			Input: "/ this is a program\n\nCLA / clear AC\n\n",
			Output: map[uint16]uint16{
				0x000: 0x7800,
			},
		},
		{
			Name:  "mnemonics and directives are case-insensitive",
			Input: "org 10\nhlt\nend\n",
			Output: map[uint16]uint16{
				0x010: 0x7001,
			},
			Start: 0x010,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			testAssemblerSuccess(t, &test)
		})
	}
}

func TestAssemblerFailure(t *testing.T) {
	tests := []failCase{
		{
			Name:  "invalid label",
			Input: "1BAD, HLT\n",
			Error: &assembler.InvalidLabelError{},
		},
		{
			Name:  "duplicate label",
			Input: "A, HLT\nA, HLT\n",
			Error: &assembler.DuplicateLabelError{},
		},
		{
			Name:  "unknown mnemonic",
			Input: "FOO\n",
			Error: &assembler.UnknownMnemonicError{},
		},
		{
			Name:  "missing operand on MRI",
			Input: "LDA\n",
			Error: &assembler.MissingOperandError{},
		},
		{
			Name:  "missing operand on HEX",
			Input: "HEX\n",
			Error: &assembler.MissingOperandError{},
		},
		{
			Name:  "literal out of range for DEC",
			Input: "DEC 99999\n",
			Error: &assembler.LiteralRangeError{},
		},
		{
			Name:  "literal out of range for HEX",
			Input: "HEX 1FFFF\n",
			Error: &assembler.LiteralRangeError{},
		},
		{
			Name:  "ORG out of range",
			Input: "ORG 1000\n",
			Error: &assembler.OrgRangeError{},
		},
		{
			Name:  "undefined operand",
			Input: "LDA NOPE\n",
			Error: &assembler.UnresolvedOperandError{},
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			testAssemblerFailure(t, &test)
		})
	}
}

func TestAssemblerEndStopsScanning(t *testing.T) {
	result := assembler.Assemble("CLA\nEND\nHLT\n")

	if !result.Success {
		t.Fatalf("expected success, got errors: %v", result.Errors)
	}

	if _, ok := result.Words[0x001]; ok {
		t.Fatalf("expected nothing assembled after END, found a word at 0x001")
	}
}
