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
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lassandro/intcode/pkg/debugger"
	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
)

var lastcmd []string

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [addr|label]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := dbg.Address(args[0], encoding.DecodeNumber)

		if err != nil {
			log.Println(err)
			return
		}

		if dbg.AddBreakpoint(addr) {
			fmt.Printf("Breakpoint added [%d]\n", addr)
		}

	case "l", "ls", "list":
		const usage = "break list"

		if len(args) != 0 {
			log.Println(usage)
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Breakpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: [%%d]\n", int64(digits)+1)
		}

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Breakpoints)) {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = make([]debugger.Breakpoint, 0)
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
		log.Println(usage)
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|rm|clear]"

	if len(args) == 0 {
		log.Println(usage)
		return
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [addr|label] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := dbg.Address(args[0], encoding.DecodeNumber)

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "rwrite", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		if dbg.AddWatchpoint(addr, wtype) {
			fmt.Printf("Watchpoint added [%d] (%s)\n", addr, wtype)
		}

	case "l", "ls", "list":
		const usage = "watch list"

		if len(args) != 0 {
			log.Println(usage)
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Watchpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: [%%d] %%s\n", int64(digits)+1)
		}

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, watchpoint.Type)
		}

	case "r", "rm", "remove":
		const usage = "watch rm [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Watchpoints)) {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = make([]debugger.Watchpoint, 0)
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
	}
}

func debugState(mc *machine.Machine, args []string) {
	const usage = "state"

	if len(args) > 0 {
		log.Println(usage)
		return
	}

	fmt.Printf(
		"\033[1mPC:\033[0m %d\t\033[1mState:\033[0m %s\t\033[1mSize:\033[0m %d\n",
		mc.PC(),
		mc.State(),
		mc.Len(),
	)
}

// Parses an optional [addr|label|#] [#] argument pair
func parseRange(dbg *debugger.Debugger, mc *machine.Machine, args []string, size int64) (int64, int64, bool) {
	addr := mc.PC()

	if len(args) > 0 {
		var err error

		if addr, err = dbg.Address(args[0], encoding.DecodeHex); err != nil {
			value, err := strconv.ParseInt(args[0], 10, 64)

			if err != nil {
				log.Println(err)
				return 0, 0, false
			}

			addr = mc.PC()
			size = value
		}
	}

	if len(args) > 1 {
		value, err := strconv.ParseInt(args[1], 10, 64)

		if err != nil {
			log.Println(err)
			return 0, 0, false
		}

		size = value
	}

	return addr, size, true
}

func debugSource(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "source [0x####|label|#] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	if addr, size, ok := parseRange(dbg, mc, args, 3); ok {
		dbg.PrintSource(mc, addr, int(size))
	}
}

func debugJump(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "jump [addr|label]"

	if len(args) != 1 {
		fmt.Println(usage)
		return
	}

	if mc.State() != machine.STATE_RUNNING {
		fmt.Printf("Cannot jump while machine is %s\n", mc.State())
		return
	}

	addr, err := dbg.Address(args[0], encoding.DecodeNumber)

	if err != nil {
		fmt.Printf("Unable to find '%s'\n", args[0])
		return
	}

	mc.Jump(addr)

	fmt.Printf("\033[1mPC:\033[0m %d\n", addr)
}

func debugMemory(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "memory [0x####|label|#] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	if addr, size, ok := parseRange(dbg, mc, args, 1); ok {
		dbg.PrintMem(mc, addr, size, consoleColumns(os.Stdout))
	}
}

func debugSet(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "set [addr|label] [value]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := dbg.Address(args[0], encoding.DecodeNumber)

	if err != nil {
		log.Println(err)
		return
	}

	value, err := encoding.DecodeNumber(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	if err := mc.Poke(addr, value); err != nil {
		log.Println(err)
		return
	}

	dbg.PrintMem(mc, addr, 1, 1)
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		line, err := stdin.ReadString('\n')

		if err == io.EOF && line == "" {
			fmt.Println()
			shouldexit = true
			return
		}

		args := strings.Fields(line)

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "st", "state":
			debugState(mc, args)

		case "s", "src", "source":
			debugSource(dbg, mc, args)

		case "l", "label", "labels":
			dbg.PrintLabels()

		case "j", "jmp", "jump":
			debugJump(dbg, mc, args)

		case "m", "mem", "memory":
			debugMemory(dbg, mc, args)

		case "set":
			debugSet(dbg, mc, args)

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			mc.Reset()
			fmt.Println("Machine reset")

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
	}
	dbg.PrintSource(mc, mc.PC(), 1)
	debugREPL(dbg, mc)
}

func handleRead(addr int64, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(mc, addr, 1, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr int64, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(mc, addr, 1, 1)
	debugREPL(dbg, mc)
}
