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

package debugger

import (
	"os"

	"github.com/mano-cs/manoemu/pkg/assembler"
	"github.com/mano-cs/manoemu/pkg/cpu"
)

type WatchpointType uint

const (
	ReadWatch WatchpointType = iota
	WriteWatch
	ReadWriteWatch
)

type Watchpoint struct {
	Addr uint16
	Type WatchpointType
}

type Breakpoint struct {
	Addr uint16
}

// Debugger is a host-facing collaborator: it watches a CPU/Memory pair
// from the outside and reacts to PC breakpoints and memory watchpoints.
// It is not part of the core — spec.md explicitly treats trace/debug
// panels as external collaborators — but cmd/manoctl wires one in to
// demonstrate the core end to end.
type Debugger struct {
	Break bool

	Breakpoints []Breakpoint
	Watchpoints []Watchpoint

	Source   *os.File
	Binary   *os.File
	SymTable *assembler.SymTable

	HandleBreak func(*Debugger, *cpu.CPU)
	HandleRead  func(uint16, *Debugger, *cpu.CPU)
	HandleWrite func(uint16, *Debugger, *cpu.CPU)
}
