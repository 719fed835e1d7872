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

package debugger_test

import (
	"testing"

	"github.com/mano-cs/manoemu/pkg/cpu"
	"github.com/mano-cs/manoemu/pkg/debugger"
	"github.com/mano-cs/manoemu/pkg/memory"
)

func TestStepFiresBreakpoint(t *testing.T) {
	var mem memory.Memory
	c := cpu.New(&mem)
	c.SetPC(0x100)

	var fired bool
	dbg := &debugger.Debugger{
		Breakpoints: []debugger.Breakpoint{{Addr: 0x100}},
		HandleBreak: func(d *debugger.Debugger, c *cpu.CPU) {
			fired = true
			d.Break = false
		},
	}

	dbg.Step(c)

	if !fired {
		t.Fatal("expected HandleBreak to fire when PC matches a breakpoint")
	}
}

func TestWriteFiresWatchpoint(t *testing.T) {
	var mem memory.Memory
	c := cpu.New(&mem)

	var fired bool
	dbg := &debugger.Debugger{
		Watchpoints: []debugger.Watchpoint{{Addr: 0x200, Type: debugger.WriteWatch}},
		HandleWrite: func(addr uint16, d *debugger.Debugger, c *cpu.CPU) {
			fired = true
		},
	}

	mem.Write(0x200, 0x1234)
	dbg.Write(0x200, c)

	if !fired {
		t.Fatal("expected HandleWrite to fire when addr matches a watchpoint")
	}
}

func TestReadIgnoresWriteOnlyWatchpoint(t *testing.T) {
	var mem memory.Memory
	c := cpu.New(&mem)

	var fired bool
	dbg := &debugger.Debugger{
		Watchpoints: []debugger.Watchpoint{{Addr: 0x200, Type: debugger.WriteWatch}},
		HandleRead: func(addr uint16, d *debugger.Debugger, c *cpu.CPU) {
			fired = true
		},
	}

	dbg.Read(0x200, c)

	if fired {
		t.Fatal("a write-only watchpoint must not fire on Read")
	}
}
