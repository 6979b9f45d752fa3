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
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lassandro/intcode/pkg/assembler"
	"github.com/lassandro/intcode/pkg/encoding"
)

var helpvar bool
var debugvar bool
var outvar string

const usage = "intcode-asm [-debug] [-out outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.icdb'",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flag.Parse()
}

func printErrors(input io.ReadSeeker, errs []error) {
	for _, err := range errs {
		tokenErr, ok := err.(assembler.TokenError)

		if !ok || input == os.Stdin {
			log.Println(err)
			continue
		}

		cursor := tokenErr.GetPosition()

		if _, err := input.Seek(cursor.LineByte, io.SeekStart); err != nil {
			panic(err)
		}

		line, _ := bufio.NewReader(input).ReadString('\n')
		line = strings.TrimRight(line, "\r\n")

		size := int(cursor.Size)
		if size < 1 {
			size = 1
		}

		underlinefmt := fmt.Sprintf(
			"%% %ds%s",
			int(cursor.Byte-cursor.LineByte)+1,
			strings.Repeat("~", size-1),
		)

		log.Printf(
			"%s\n%s\n\033[31m%s\033[0m",
			err,
			line,
			fmt.Sprintf(underlinefmt, "^"),
		)
	}
}

func intcode_asm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	var infile string
	var input io.ReadSeeker

	if stat, _ := os.Stdin.Stat(); stat.Mode()&os.ModeCharDevice == 0 {
		input = os.Stdin
		log.SetPrefix("\033[1m<stdin>:\033[0m")

		if outvar == "" {
			outvar = "out.ic"
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else if stat.IsDir() {
			log.Printf("%s is not a valid intcode assembly file", filename)
			return 1
		}

		input = file
		infile = file.Name()
		log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m", filename))

		if outvar == "" {
			outvar = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".ic"
		}
	}

	var symtable assembler.SymTable
	var symtarget *assembler.SymTable = nil

	if debugvar {
		if input != os.Stdin {
			var err error
			if symtable.Source, err = filepath.Abs(infile); err != nil {
				log.Println(err)
				symtable.Source = ""
			}
		}
		symtable.Symbols = make(map[int64]int64)
		symtable.Labels = make(map[int64]string)
		symtarget = &symtable
	}

	result, errs := assembler.AssembleSource(input, symtarget)

	if len(errs) > 0 {
		printErrors(input, errs)
		return 1
	}

	{
		buffer := new(bytes.Buffer)

		if err := encoding.Format(buffer, result); err != nil {
			log.Println("Error writing output file")
			log.Println(err)
			return 1
		}

		if err := os.WriteFile(outvar, buffer.Bytes(), 0666); err != nil {
			log.Println("Error writing output file")
			log.Println(err)
			return 1
		}
	}

	if debugvar {
		filename := filepath.Join(
			filepath.Dir(outvar),
			strings.TrimSuffix(filepath.Base(outvar), filepath.Ext(outvar))+".icdb",
		)

		file, err := os.Create(filename)

		if err != nil {
			log.Println("Error creating symbol table")
			log.Println(err)
			return 1
		}

		defer file.Close()

		if err := assembler.WriteSymTable(file, &symtable); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	os.Exit(intcode_asm())
}
