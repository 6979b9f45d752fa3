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

package assembler

import (
	"strconv"
	"strings"

	"github.com/lassandro/intcode/pkg/machine"
)

// Disassemble renders the instruction at addr and returns its width in cells.
// Cells that do not decode, or whose operands run past the end of memory, are
// rendered as a single .FILL. Position operands are replaced by label names
// when symtable knows them. The output assembles back into the same cells.
func Disassemble(memory []int64, addr int64, symtable *SymTable) (string, int) {
	if addr < 0 || addr >= int64(len(memory)) {
		return "", 0
	}

	fill := func() (string, int) {
		return ".FILL " + strconv.FormatInt(memory[addr], 10), 1
	}

	op, modes, err := machine.Decode(memory[addr])

	if err != nil {
		return fill()
	}

	width := op.Width()

	if int64(len(memory))-addr < int64(width) {
		return fill()
	}

	// Mode digits an instruction does not use cannot be reassembled
	if machine.Encode(op, modes) != memory[addr] {
		return fill()
	}

	for i := width - 1; i < machine.MODE_SLOTS; i++ {
		if modes[i] != machine.MODE_POSITION {
			return fill()
		}
	}

	var builder strings.Builder
	builder.WriteString(strings.ToUpper(op.String()))

	for i := 1; i < width; i++ {
		if i == 1 {
			builder.WriteString(" ")
		} else {
			builder.WriteString(", ")
		}

		value := memory[addr+int64(i)]

		if modes[i-1] == machine.MODE_IMMEDIATE {
			builder.WriteString("#")
			builder.WriteString(strconv.FormatInt(value, 10))
			continue
		}

		if symtable != nil {
			if label, exists := symtable.Labels[value]; exists {
				builder.WriteString(label)
				continue
			}
		}

		builder.WriteString(strconv.FormatInt(value, 10))
	}

	return builder.String(), width
}
