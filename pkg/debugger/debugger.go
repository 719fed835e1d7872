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

// Package debugger is a thin host-side collaborator for cmd/manoctl's
// "run -debug" REPL: breakpoints on PC and watchpoints on memory
// addresses, wired into the CPU and Memory from outside rather than
// built into them, the way spec.md keeps trace/debug panels out of the
// core.
package debugger

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mano-cs/manoemu/pkg/cpu"
	"github.com/mano-cs/manoemu/pkg/memory"
)

// Step is called by the host once per completed instruction (SC back to
// 0). It fires HandleBreak if a breakpoint matches the CPU's PC, or if
// the debugger is already sitting at a break from a prior Step call.
func (dbg *Debugger) Step(c *cpu.CPU) {
	if dbg.Break {
		dbg.HandleBreak(dbg, c)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if c.PC == breakpoint.Addr {
			dbg.HandleBreak(dbg, c)
			break
		}
	}
}

// Read is called by the host immediately after a memory read at addr;
// it fires HandleRead if a read or read/write watchpoint matches.
func (dbg *Debugger) Read(addr uint16, c *cpu.CPU) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, c)
			break
		}
	}
}

// Write is called by the host immediately after a memory write at addr;
// it fires HandleWrite if a write or read/write watchpoint matches.
func (dbg *Debugger) Write(addr uint16, c *cpu.CPU) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, c)
			break
		}
	}
}

// PrintSource prints count lines of source starting at the line that
// produced addr, using the byte offsets in SymTable.Symbols.
func (dbg *Debugger) PrintSource(addr uint16, count uint16) {
	if dbg.Source == nil {
		fmt.Println("No source file loaded")
		return
	}

	if dbg.SymTable == nil {
		fmt.Println("No symbol table loaded")
		return
	}

	if offset, exists := dbg.SymTable.Symbols[addr]; exists {
		if _, err := dbg.Source.Seek(offset, os.SEEK_SET); err != nil {
			fmt.Println(err)
			return
		}

		scanner := bufio.NewScanner(dbg.Source)
		scanner.Split(bufio.ScanLines)

		for i := uint16(0); i < count; i++ {
			if !scanner.Scan() {
				break
			}

			line := scanner.Text()

			foundaddr := false
			for lineaddr, linebyte := range dbg.SymTable.Symbols {
				if linebyte == offset {
					fmt.Printf("\033[1m[%#03x]\033[0m ", lineaddr)
					foundaddr = true
					break
				}
			}

			if !foundaddr {
				fmt.Print("\033[1;30m~~~~~\033[0m ")
			}

			fmt.Println(line)

			offset += int64(len(line) + 1)
		}

		if err := scanner.Err(); err != nil {
			fmt.Println(err)
		}
	} else {
		fmt.Printf("No instruction found at %#03x\n", addr)
	}
}

// PrintMem prints count words of mem starting at addr, four to a line,
// dimming zero cells so a populated program stands out against
// untouched memory.
func (dbg *Debugger) PrintMem(mem *memory.Memory, addr, count uint16) {
	for i := addr; i < addr+count; i++ {
		if i == addr {
			fmt.Printf("\033[1m[%#03x]\033[0m ", i)
		} else if (i-addr)%4 == 0 {
			fmt.Println()
			fmt.Printf("\033[1m[%#03x]\033[0m ", i)
		}

		result := mem.Read(i)

		if result == 0 {
			fmt.Printf("\033[1;30m%#04x\033[0m ", result)
		} else {
			fmt.Printf("%#04x ", result)
		}
	}

	fmt.Println()
}
