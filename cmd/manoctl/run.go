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
	"encoding/binary"
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/mano-cs/manoemu/pkg/assembler"
	"github.com/mano-cs/manoemu/pkg/cpu"
	"github.com/mano-cs/manoemu/pkg/debugger"
	"github.com/mano-cs/manoemu/pkg/memory"
	"github.com/mano-cs/manoemu/pkg/word"
)

const runUsage = "manoctl run [-debug] <binary>"

var shouldExit bool

// currentMem lets handleBreak/handleRead/handleWrite reach the memory
// being debugged; the debugger.Debugger callback signatures carry only
// *cpu.CPU, matching the core's narrow host API.
var currentMem *memory.Memory

func runMachine(argv []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)

	var debugFlag bool
	fs.BoolVar(&debugFlag, "debug", false, "drive the machine through a source-level debug REPL")
	fs.Parse(argv)

	args := fs.Args()
	if len(args) != 1 {
		log.Println(runUsage)
		return 1
	}

	binfile := args[0]
	file, err := os.Open(binfile)
	if err != nil {
		log.Println(err)
		return 1
	}
	defer file.Close()

	var mem memory.Memory
	mem.Warnf = log.Printf

	var words [memory.Size]uint16
	if err := binary.Read(file, binary.BigEndian, &words); err != nil {
		log.Println("error reading binary:", err)
		return 1
	}

	program := make(map[uint16]uint16, memory.Size)
	for addr, w := range words {
		if w != 0 {
			program[uint16(addr)] = w
		}
	}
	mem.LoadProgram(program)
	currentMem = &mem

	c := cpu.New(&mem)

	// input is read off stdin by a background goroutine so Step() never
	// blocks the main loop; SetInput is only ever called from here.
	input := make(chan uint8, 1)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		for {
			b, err := reader.ReadByte()
			if err != nil {
				return
			}
			input <- b
		}
	}()

	c.OnOutput = func(ch uint8) {
		os.Stdout.Write([]byte{ch})
		c.FGO = true
	}
	c.OnInputRequired = func() {}

	var dbg *debugger.Debugger
	if debugFlag {
		dbg = &debugger.Debugger{
			HandleBreak: handleBreak,
			HandleRead:  handleRead,
			HandleWrite: handleWrite,
			Binary:      file,
		}

		dbfile := strings.TrimSuffix(binfile, filepath.Ext(binfile)) + ".manodb"
		if symfile, err := os.Open(dbfile); err == nil {
			var symtable assembler.SymTable
			if err := gob.NewDecoder(symfile).Decode(&symtable); err == nil {
				dbg.SymTable = &symtable
			} else {
				log.Println("error loading symbol table:", err)
			}
			symfile.Close()
		} else {
			log.Println("error loading symbol table:", err)
		}

		if dbg.SymTable != nil {
			c.SetPC(dbg.SymTable.Start)

			if dbg.SymTable.Source != "" {
				if srcfile, err := os.Open(dbg.SymTable.Source); err == nil {
					dbg.Source = srcfile
					defer srcfile.Close()
				} else {
					log.Println("error loading source file:", err)
				}
			}
		} else {
			c.SetPC(0)
		}

		sig := make(chan os.Signal, 1)
		defer close(sig)
		signal.Notify(sig, os.Interrupt)
		go func() {
			for range sig {
				fmt.Println()
				dbg.Break = true
			}
		}()
	} else {
		c.SetPC(0)
	}

	enterRawTerm()
	defer exitRawTerm()

	if debugFlag {
		debugREPL(dbg, c, &mem)
	}

	for !shouldExit {
		select {
		case b := <-input:
			c.SetInput(b)
		default:
		}

		result := c.Step()

		if dbg != nil {
			watchMemory(dbg, c, &mem, result.Message)
			if result.SC == 0 {
				dbg.Step(c)
			}
		}

		if result.State == cpu.Halt {
			shouldExit = true
		}
	}

	return 0
}

// watchMemory fires read/write watchpoints by inspecting the micro-op
// message Step() reports, the only place the core names which phase just
// touched memory at AR. The core itself never calls back into the
// debugger; this is strictly a host-side observation.
func watchMemory(dbg *debugger.Debugger, c *cpu.CPU, mem *memory.Memory, msg string) {
	switch {
	case strings.Contains(msg, "M[AR] <-") || strings.Contains(msg, "M[0] <-"):
		addr := c.AR
		if strings.Contains(msg, "M[0] <-") {
			addr = 0
		} else if strings.Contains(msg, "AR <- AR+1") {
			// BSA has already advanced AR past the cell it wrote.
			addr = (c.AR - 1) & word.Mask12
		}
		dbg.Write(addr, c)
	case strings.Contains(msg, "<- M[AR]"):
		dbg.Read(c.AR, c)
	}
}
