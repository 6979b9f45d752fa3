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
	"github.com/pkg/errors"
)

const (
	OP_ADD  Opcode = 1
	OP_MUL  Opcode = 2
	OP_IN   Opcode = 3
	OP_OUT  Opcode = 4
	OP_JIT  Opcode = 5
	OP_JIF  Opcode = 6
	OP_LT   Opcode = 7
	OP_EQ   Opcode = 8
	OP_STOP Opcode = 99
)

const (
	MODE_POSITION  Mode = 0
	MODE_IMMEDIATE Mode = 1
)

const (
	STATE_RUNNING State = iota
	STATE_AWAITING_INPUT
	STATE_AWAITING_OUTPUT
	STATE_STOPPED
)

const (
	STATUS_OK Status = iota
	STATUS_INPUT
	STATUS_OUTPUT
	STATUS_STOPPED
)

// Number of mode digits decoded for every instruction, used or not
const MODE_SLOTS = 3

var ErrEmptyMemory = errors.New("Cannot create machine from empty memory")

// Returns the total number of cells the instruction occupies, opcode
// included
func (op Opcode) Width() int {
	switch op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		return 4
	case OP_JIT, OP_JIF:
		return 3
	case OP_IN, OP_OUT:
		return 2
	case OP_STOP:
		return 1
	}

	panic("Invalid opcode")
}

func (op Opcode) String() string {
	switch op {
	case OP_ADD:
		return "add"
	case OP_MUL:
		return "mul"
	case OP_IN:
		return "in"
	case OP_OUT:
		return "out"
	case OP_JIT:
		return "jit"
	case OP_JIF:
		return "jif"
	case OP_LT:
		return "lt"
	case OP_EQ:
		return "eq"
	case OP_STOP:
		return "stop"
	}

	return "<invalid>"
}

func (mode Mode) String() string {
	switch mode {
	case MODE_POSITION:
		return "position"
	case MODE_IMMEDIATE:
		return "immediate"
	}

	return "<invalid>"
}

func (state State) String() string {
	switch state {
	case STATE_RUNNING:
		return "running"
	case STATE_AWAITING_INPUT:
		return "awaiting input"
	case STATE_AWAITING_OUTPUT:
		return "awaiting output"
	case STATE_STOPPED:
		return "stopped"
	}

	return "<invalid>"
}

func (status Status) String() string {
	switch status {
	case STATUS_OK:
		return "ok"
	case STATUS_INPUT:
		return "input"
	case STATUS_OUTPUT:
		return "output"
	case STATUS_STOPPED:
		return "stopped"
	}

	return "<invalid>"
}

// Converts a raw opcode number into an Opcode, rejecting anything outside the
// instruction set
func ParseOpcode(value int64) (Opcode, error) {
	switch op := Opcode(value); op {
	case OP_ADD, OP_MUL, OP_IN, OP_OUT, OP_JIT, OP_JIF, OP_LT, OP_EQ, OP_STOP:
		if int64(op) == value {
			return op, nil
		}
	}

	return 0, &InvalidOpcodeError{Value: value}
}

func ParseMode(value int64) (Mode, error) {
	switch value {
	case int64(MODE_POSITION):
		return MODE_POSITION, nil
	case int64(MODE_IMMEDIATE):
		return MODE_IMMEDIATE, nil
	}

	return 0, &InvalidModeError{Value: value}
}
