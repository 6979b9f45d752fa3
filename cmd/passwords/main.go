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
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lassandro/intcode/pkg/password"
)

var helpvar bool

const usage = "passwords lo hi"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.Parse()
}

func passwords() int {
	if helpvar {
		fmt.Println(usage)
		return 0
	}

	args := flag.Args()

	if len(args) != 2 {
		log.Println(usage)
		return 1
	}

	var bounds [2]int

	for i, arg := range args {
		value, err := strconv.Atoi(arg)

		if err != nil {
			log.Printf("'%s' is not a valid integer\n", arg)
			return 1
		}

		bounds[i] = value
	}

	if bounds[0] > bounds[1] {
		log.Println("lo must not exceed hi")
		return 1
	}

	fmt.Println(password.Count(bounds[0], bounds[1]))

	return 0
}

func main() {
	os.Exit(passwords())
}
