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

package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/mano-cs/manoemu/pkg/cpu"
	"github.com/mano-cs/manoemu/pkg/debugger"
	"github.com/mano-cs/manoemu/pkg/memory"
	"github.com/mano-cs/manoemu/pkg/word"
)

var lastcmd []string

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [0x####]"

	if len(args) == 0 {
		var fmtstring string
		{
			digits := len(fmt.Sprintf("%d", len(dbg.Breakpoints)+1))
			fmtstring = fmt.Sprintf("#%%0%dd: %%#03x\n", digits)
		}
		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}
		return
	}

	addr, ok := word.DecodeHex(args[0])
	if !ok {
		log.Println(usage)
		return
	}
	addr &= word.Mask12

	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, debugger.Breakpoint{Addr: addr})
	fmt.Printf("Breakpoint added [%#03x]\n", addr)
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [0x####] [read|write|readwrite]"

	if len(args) == 0 {
		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf("#%d: %#03x %s\n", i, watchpoint.Addr, watchTypeName(watchpoint.Type))
		}
		return
	}

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	addr, ok := word.DecodeHex(args[0])
	if !ok {
		log.Println(usage)
		return
	}
	addr &= word.Mask12

	wtype := debugger.ReadWriteWatch
	if len(args) == 2 {
		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, debugger.Watchpoint{Addr: addr, Type: wtype})
	fmt.Printf("Watchpoint added [%#03x] (%s)\n", addr, watchTypeName(wtype))
}

func watchTypeName(t debugger.WatchpointType) string {
	switch t {
	case debugger.ReadWatch:
		return "read"
	case debugger.WriteWatch:
		return "write"
	default:
		return "readwrite"
	}
}

// debugRegs prints every register and flag cpu.StepResult exposes, the
// same fields a StepResult snapshot carries.
func debugRegs(c *cpu.CPU) {
	fmt.Printf(
		"\033[1mAC:\033[0m %#04x  \033[1mDR:\033[0m %#04x  \033[1mIR:\033[0m %#04x  \033[1mTR:\033[0m %#04x\n",
		c.AC, c.DR, c.IR, c.TR,
	)
	fmt.Printf(
		"\033[1mAR:\033[0m %#03x  \033[1mPC:\033[0m %#03x  \033[1mSC:\033[0m %d\n",
		c.AR, c.PC, c.SC,
	)
	fmt.Printf(
		"\033[1mINPR:\033[0m %#02x  \033[1mOUTR:\033[0m %#02x\n", c.INPR, c.OUTR,
	)
	fmt.Printf(
		"\033[1mI:\033[0m %t  \033[1mE:\033[0m %t  \033[1mS:\033[0m %t  "+
			"\033[1mIEN:\033[0m %t  \033[1mFGI:\033[0m %t  \033[1mFGO:\033[0m %t  \033[1mR:\033[0m %t\n",
		c.I, c.E, c.S, c.IEN, c.FGI, c.FGO, c.R,
	)
}

func debugPrint(dbg *debugger.Debugger, c *cpu.CPU, mem *memory.Memory, args []string) {
	const usage = "print [0x####] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	addr := c.PC
	var size uint16 = 1

	if len(args) > 0 {
		v, ok := word.DecodeHex(args[0])
		if !ok {
			log.Println(usage)
			return
		}
		addr = v & word.Mask12
	}

	if len(args) > 1 {
		n, ok := word.DecodeHex(args[1])
		if !ok {
			log.Println(usage)
			return
		}
		size = n
	}

	dbg.PrintMem(mem, addr, size)
}

func debugLabels(dbg *debugger.Debugger) {
	if dbg.SymTable == nil {
		fmt.Println("No symbol table loaded")
		return
	}

	keys := make([]uint16, 0, len(dbg.SymTable.Labels))
	for addr := range dbg.SymTable.Labels {
		keys = append(keys, addr)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, addr := range keys {
		fmt.Printf("\033[1m[%#03x]\033[0m %s\n", addr, dbg.SymTable.Labels[addr])
	}
}

// debugREPL drops the terminal out of raw mode for line-buffered REPL
// input, the same trade the teacher's debug console makes, and restores
// raw mode on return so console I/O resumes uninterrupted.
func debugREPL(dbg *debugger.Debugger, c *cpu.CPU, mem *memory.Memory) {
	exitRawTerm()
	defer enterRawTerm()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Println()
			shouldExit = true
			return
		}

		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = append([]string{}, args...)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "break":
			debugBreak(dbg, args)

		case "w", "watch":
			debugWatch(dbg, args)

		case "r", "regs", "registers":
			debugRegs(c)

		case "p", "print":
			debugPrint(dbg, c, mem, args)

		case "src", "source":
			dbg.PrintSource(c.PC, 8)

		case "l", "labels":
			debugLabels(dbg)

		case "s", "step":
			dbg.Break = true
			return

		case "c", "continue":
			dbg.Break = false
			return

		case "q", "quit", "exit":
			shouldExit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, c *cpu.CPU) {
	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
		dbg.PrintSource(c.PC, 8)
	}
	debugREPL(dbg, c, currentMem)
}

func handleRead(addr uint16, dbg *debugger.Debugger, c *cpu.CPU) {
	fmt.Println()
	fmt.Println("Program stopped (read watch)")
	dbg.PrintMem(currentMem, addr, 1)
	debugREPL(dbg, c, currentMem)
}

func handleWrite(addr uint16, dbg *debugger.Debugger, c *cpu.CPU) {
	fmt.Println()
	fmt.Println("Program stopped (write watch)")
	dbg.PrintMem(currentMem, addr, 1)
	debugREPL(dbg, c, currentMem)
}
