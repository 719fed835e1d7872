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

package cpu

// Memory-reference opcodes, IR bits 14..12.
const (
	OpAND uint8 = 0
	OpADD uint8 = 1
	OpLDA uint8 = 2
	OpSTA uint8 = 3
	OpBUN uint8 = 4
	OpBSA uint8 = 5
	OpISZ uint8 = 6
)

// Register-reference operation bits, IR[0..11] when opcode is 7 and I=0.
const (
	MaskCLA uint16 = 0x800
	MaskCLE uint16 = 0x400
	MaskCMA uint16 = 0x200
	MaskCME uint16 = 0x100
	MaskCIR uint16 = 0x080
	MaskCIL uint16 = 0x040
	MaskINC uint16 = 0x020
	MaskSPA uint16 = 0x010
	MaskSNA uint16 = 0x008
	MaskSZA uint16 = 0x004
	MaskSZE uint16 = 0x002
	MaskHLT uint16 = 0x001
)

// Input/output operation bits, IR[0..11] when opcode is 7 and I=1.
const (
	MaskINP uint16 = 0x800
	MaskOUT uint16 = 0x400
	MaskSKI uint16 = 0x200
	MaskSKO uint16 = 0x100
	MaskION uint16 = 0x080
	MaskIOF uint16 = 0x040
)

// InterruptVector is the fixed address the interrupt cycle vectors the
// program counter to.
const InterruptVector uint16 = 1

// SaveVector is the fixed address the interrupt cycle saves the return PC
// into, M[0].
const SaveVector uint16 = 0
