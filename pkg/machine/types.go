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

package machine

import (
	"fmt"
)

type Opcode uint8
type Mode uint8
type State uint
type Status uint

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr int64, mc *Machine)
	Write(addr int64, mc *Machine)
}

// Machine is an intcode interpreter. Code and data share one flat memory of
// signed 64-bit cells; arithmetic wraps around on overflow.
type Machine struct {
	Debugger MachineDebugger

	memory  []int64
	initial []int64
	pc      int64
	state   State

	// Operand mode of the instruction held by AwaitingInput/AwaitingOutput
	pending Mode
}

type InvalidOpcodeError struct {
	Addr  int64
	Value int64
}

func (err *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("[%d]: Invalid opcode %d", err.Addr, err.Value)
}

type InvalidModeError struct {
	Addr    int64
	Operand int
	Value   int64
}

func (err *InvalidModeError) Error() string {
	return fmt.Sprintf(
		"[%d]: Invalid mode %d for operand %d", err.Addr, err.Value, err.Operand,
	)
}

type OutOfBoundsError struct {
	Addr int64
	Size int
}

func (err *OutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"Address %d out of bounds\n\tmemory size:%d", err.Addr, err.Size,
	)
}
