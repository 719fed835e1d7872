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

// Command manoctl assembles and runs programs for the Mano basic
// computer. It has two subcommands: "asm" translates source text into a
// flat big-endian word stream, and "run" loads that stream into the
// core and drives it to completion.
package main

import (
	"fmt"
	"log"
	"os"
)

const usage = "manoctl [asm|run] ...\n" +
	"  manoctl asm [-debug] [-out file] <source.mano>\n" +
	"  manoctl run [-debug] <binary>"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	var code int

	switch os.Args[1] {
	case "asm":
		code = runAsm(os.Args[2:])
	case "run":
		code = runMachine(os.Args[2:])
	case "-help", "--help", "help":
		fmt.Println(usage)
		code = 0
	default:
		fmt.Println(usage)
		code = 1
	}

	os.Exit(code)
}
