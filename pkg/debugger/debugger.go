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
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/lassandro/intcode/pkg/assembler"
	"github.com/lassandro/intcode/pkg/machine"
)

func (dbg *Debugger) out() io.Writer {
	if dbg.Output == nil {
		return os.Stdout
	}

	return dbg.Output
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.HandleBreak == nil {
		return
	}

	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.PC() == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr int64, mc *machine.Machine) {
	if dbg.HandleRead == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr int64, mc *machine.Machine) {
	if dbg.HandleWrite == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// AddBreakpoint returns false if a breakpoint already exists at addr
func (dbg *Debugger) AddBreakpoint(addr int64) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{addr})
	return true
}

// AddWatchpoint returns false if an identical watchpoint already exists
func (dbg *Debugger) AddWatchpoint(addr int64, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type == wtype {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{addr, wtype})
	return true
}

// Resolves an address argument that is either a number or a known label
func (dbg *Debugger) Address(arg string, parse func(string) (int64, error)) (int64, error) {
	if dbg.SymTable != nil {
		if addr, exists := dbg.SymTable.Lookup(arg); exists {
			return addr, nil
		}
	}

	return parse(arg)
}

// PrintSource lists count statements starting at addr, from the assembly
// source when one is loaded and by disassembling memory otherwise
func (dbg *Debugger) PrintSource(mc *machine.Machine, addr int64, count int) {
	w := dbg.out()

	if dbg.Source == nil || dbg.SymTable == nil {
		dbg.printDisassembly(mc, addr, count)
		return
	}

	offset, exists := dbg.SymTable.Symbols[addr]

	if !exists {
		fmt.Fprintf(w, "No instruction found at [%d]\n", addr)
		return
	}

	if _, err := dbg.Source.Seek(offset, io.SeekStart); err != nil {
		fmt.Fprintln(w, err)
		return
	}

	lineaddrs := make(map[int64]int64, len(dbg.SymTable.Symbols))
	for lineaddr, linebyte := range dbg.SymTable.Symbols {
		lineaddrs[linebyte] = lineaddr
	}

	scanner := bufio.NewScanner(dbg.Source)
	scanner.Split(bufio.ScanLines)

	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()

		if lineaddr, found := lineaddrs[offset]; found {
			fmt.Fprintf(w, "\033[1m[%6d]\033[0m ", lineaddr)
		} else {
			fmt.Fprint(w, "\033[1;30m~~~~~~~~\033[0m ")
		}

		fmt.Fprintln(w, line)

		offset += int64(len(line) + 1)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(w, err)
	}
}

func (dbg *Debugger) printDisassembly(mc *machine.Machine, addr int64, count int) {
	w := dbg.out()
	memory := mc.Memory()

	if addr < 0 || addr >= int64(len(memory)) {
		fmt.Fprintf(w, "No instruction found at [%d]\n", addr)
		return
	}

	for i := 0; i < count && addr < int64(len(memory)); i++ {
		text, width := assembler.Disassemble(memory, addr, dbg.SymTable)

		if dbg.SymTable != nil {
			if label, exists := dbg.SymTable.Labels[addr]; exists {
				fmt.Fprintf(w, "\033[1;30m%s:\033[0m\n", label)
			}
		}

		if addr == mc.PC() {
			fmt.Fprintf(w, "\033[1m[%6d]\033[0m > %s\n", addr, text)
		} else {
			fmt.Fprintf(w, "\033[1m[%6d]\033[0m   %s\n", addr, text)
		}

		addr += int64(width)
	}
}

// PrintMem dumps count cells starting at addr, columns cells per row
func (dbg *Debugger) PrintMem(mc *machine.Machine, addr int64, count int64, columns int) {
	w := dbg.out()

	if columns < 1 {
		columns = 4
	}

	for i := addr; i < addr+count; i++ {
		if i == addr {
			fmt.Fprintf(w, "\033[1m[%6d]\033[0m ", i)
		} else if (i-addr)%int64(columns) == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%6d]\033[0m ", i)
		}

		result, err := mc.Peek(i)

		if err != nil {
			fmt.Fprint(w, "\033[1;30m------\033[0m ")
		} else if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%6d\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%6d ", result)
		}
	}

	fmt.Fprintln(w)
}

// PrintLabels lists every known label by address
func (dbg *Debugger) PrintLabels() {
	w := dbg.out()

	if dbg.SymTable == nil {
		fmt.Fprintln(w, "No symbol table loaded")
		return
	}

	keys := make([]int64, 0, len(dbg.SymTable.Labels))
	for addr := range dbg.SymTable.Labels {
		keys = append(keys, addr)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, addr := range keys {
		fmt.Fprintf(
			w, "\033[1m[%6d]\033[0m %s\n", addr, dbg.SymTable.Labels[addr],
		)
	}
}
