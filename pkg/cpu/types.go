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

import "github.com/mano-cs/manoemu/pkg/memory"

// State is the result of a single Step() call.
type State int

const (
	// Run means the CPU executed a micro-operation and is ready for the
	// next Step() call.
	Run State = iota
	// Halt means S is false; the CPU will not mutate on further Step()
	// calls until SetPC sets S again (Reset leaves S false).
	Halt
	// WaitInput means the current instruction is an INP blocked on
	// FGI=0. The same INP re-executes on the next Step() call.
	WaitInput
)

func (s State) String() string {
	switch s {
	case Run:
		return "run"
	case Halt:
		return "halt"
	case WaitInput:
		return "wait-input"
	default:
		return "unknown"
	}
}

// instrClass is the tagged variant an instruction is decoded into at T2,
// carried through the remaining micro-op phases instead of being
// re-derived from IR at every step.
type instrClass int

const (
	classMRI instrClass = iota
	classRRI
	classIOI
)

// decoded is the T2 decode result.
type decoded struct {
	class  instrClass
	opcode uint8  // valid when class == classMRI
	mask   uint16 // valid when class == classRRI or classIOI
}

// StepResult describes what a single Step() call did: the micro-op
// executed, the phase it left the CPU in, and a snapshot of every
// register and flag a display collaborator might want. No exceptions
// propagate out of the core; a Step() that ran into an internal
// inconsistency reports it through Message instead.
type StepResult struct {
	State   State
	Message string

	SC uint8
	PC uint16
	AR uint16
	AC uint16
	DR uint16
	IR uint16
	TR uint16

	INPR uint8
	OUTR uint8

	I    bool
	E    bool
	S    bool
	IEN  bool
	FGI  bool
	FGO  bool
	R    bool
}

// CPU is the Mano basic computer's micro-op sequencer, register file,
// flag set, and I/O hand-off to collaborators. It mutates only in
// response to Step, Reset, SetPC, SetInput, and ClearInput.
type CPU struct {
	mem *memory.Memory

	AC, DR, IR, TR uint16
	AR, PC         uint16
	INPR, OUTR     uint8

	SC uint8
	I  bool
	E  bool
	S  bool

	IEN, FGI, FGO, R bool

	decoded decoded

	// OnOutput is invoked synchronously, before Step returns, whenever
	// OUT latches a new OUTR value.
	OnOutput func(ch uint8)

	// OnInputRequired is invoked whenever an INP cannot proceed because
	// FGI is clear. It may be called repeatedly while the CPU sits in
	// WaitInput; the collaborator is free to ignore repeats.
	OnInputRequired func()

	// Warnf, if set, receives a formatted warning for internal
	// inconsistencies (an unreachable SC value). The core never panics.
	Warnf func(format string, args ...interface{})
}

// New creates a CPU bound to mem. The CPU does not own mem's lifecycle;
// the host loads programs into it and may inspect it independently.
func New(mem *memory.Memory) *CPU {
	c := &CPU{mem: mem}
	c.Reset()
	return c
}
