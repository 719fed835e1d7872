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
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mano-cs/manoemu/pkg/assembler"
	"github.com/mano-cs/manoemu/pkg/memory"
)

const asmUsage = "manoctl asm [-debug] [-out file] <source.mano>"

func runAsm(argv []string) int {
	fs := flag.NewFlagSet("asm", flag.ExitOnError)

	var debugFlag bool
	var outFlag string

	fs.BoolVar(&debugFlag, "debug", false,
		"write a .manodb symbol-table sidecar next to the output file")
	fs.StringVar(&outFlag, "out", "",
		"override the default output filename")
	fs.Parse(argv)

	args := fs.Args()
	if len(args) != 1 {
		log.Println(asmUsage)
		return 1
	}

	infile := args[0]
	source, err := os.ReadFile(infile)
	if err != nil {
		log.Println(err)
		return 1
	}

	filename := filepath.Base(infile)
	log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m ", filename))

	outfile := outFlag
	if outfile == "" {
		outfile = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".bin"
	}

	result := assembler.Assemble(string(source))

	if !result.Success {
		for _, err := range result.Errors {
			printAsmError(string(source), err)
		}
		return 1
	}

	var words [memory.Size]uint16
	for addr, w := range result.Words {
		words[addr] = w
	}

	buffer := new(bytes.Buffer)
	if err := binary.Write(buffer, binary.BigEndian, words); err != nil {
		log.Println("error encoding output:", err)
		return 1
	}

	if err := os.WriteFile(outfile, buffer.Bytes(), 0666); err != nil {
		log.Println("error writing output file:", err)
		return 1
	}

	if debugFlag {
		symtable := result.SymTable
		if abs, err := filepath.Abs(infile); err == nil {
			symtable.Source = abs
		}

		dbfile := strings.TrimSuffix(outfile, filepath.Ext(outfile)) + ".manodb"
		file, err := os.OpenFile(dbfile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			log.Println("error creating symbol table:", err)
			return 1
		}
		defer file.Close()

		if err := gob.NewEncoder(file).Encode(symtable); err != nil {
			log.Println("error writing symbol table:", err)
			return 1
		}
	}

	return 0
}

// printAsmError underlines the offending line for any error that
// implements assembler.TokenError, the same way golc3-asm's error path
// locates the source line via its Cursor's LineByte offset.
func printAsmError(source string, err error) {
	tokenErr, ok := err.(assembler.TokenError)
	if !ok {
		log.Println(err)
		return
	}

	cursor := tokenErr.GetPosition()
	reader := bufio.NewReader(strings.NewReader(source[cursor.LineByte:]))
	line, _ := reader.ReadString('\n')
	line = strings.TrimSuffix(line, "\n")

	log.Printf("%s\n%s\n%s\n", err, line, strings.Repeat("~", len(line)))
}
