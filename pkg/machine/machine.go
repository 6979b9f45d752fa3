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

// New creates a machine from an initial memory snapshot. The snapshot is
// copied; nothing besides its length is validated until the program runs.
func New(memory []int64) (*Machine, error) {
	if len(memory) == 0 {
		return nil, ErrEmptyMemory
	}

	mc := &Machine{initial: make([]int64, len(memory))}
	copy(mc.initial, memory)
	mc.Reset()

	return mc, nil
}

// Reset restores the initial memory snapshot and rewinds the machine
func (mc *Machine) Reset() {
	mc.memory = make([]int64, len(mc.initial))
	copy(mc.memory, mc.initial)

	mc.pc = 0
	mc.state = STATE_RUNNING
	mc.pending = MODE_POSITION
}

// Clone returns an independent deep copy of the machine. The debugger is not
// carried over.
func (mc *Machine) Clone() *Machine {
	clone := &Machine{
		memory:  make([]int64, len(mc.memory)),
		initial: make([]int64, len(mc.initial)),
		pc:      mc.pc,
		state:   mc.state,
		pending: mc.pending,
	}

	copy(clone.memory, mc.memory)
	copy(clone.initial, mc.initial)

	return clone
}

// Decode splits an instruction cell into its opcode and the three operand
// modes stored in its hundreds, thousands and ten-thousands digits
func Decode(value int64) (op Opcode, modes [MODE_SLOTS]Mode, err error) {
	if op, err = ParseOpcode(value % 100); err != nil {
		return
	}

	divisor := int64(100)

	for i := range modes {
		digit := (value / divisor) % 10

		if modes[i], err = ParseMode(digit); err != nil {
			err = &InvalidModeError{Operand: i + 1, Value: digit}
			return
		}

		divisor *= 10
	}

	return
}

// Encode is the inverse of Decode
func Encode(op Opcode, modes [MODE_SLOTS]Mode) int64 {
	value := int64(op)
	multiplier := int64(100)

	for _, mode := range modes {
		value += int64(mode) * multiplier
		multiplier *= 10
	}

	return value
}

func (mc *Machine) PC() int64 {
	return mc.pc
}

func (mc *Machine) State() State {
	return mc.state
}

func (mc *Machine) Len() int {
	return len(mc.memory)
}

// Running reports whether the machine has not yet stopped. A machine
// suspended on input or output is still running.
func (mc *Machine) Running() bool {
	return mc.state != STATE_STOPPED
}

// Memory returns a copy of the current memory contents
func (mc *Machine) Memory() []int64 {
	result := make([]int64, len(mc.memory))
	copy(result, mc.memory)
	return result
}

// Peek reads a memory cell without notifying the debugger
func (mc *Machine) Peek(addr int64) (int64, error) {
	if !mc.inBounds(addr) {
		return 0, &OutOfBoundsError{addr, len(mc.memory)}
	}

	return mc.memory[addr], nil
}

// Poke overwrites a memory cell without notifying the debugger
func (mc *Machine) Poke(addr int64, value int64) error {
	if !mc.inBounds(addr) {
		return &OutOfBoundsError{addr, len(mc.memory)}
	}

	mc.memory[addr] = value
	return nil
}

// Jump moves the program counter. Only a running machine that is not
// suspended on input or output may be redirected.
func (mc *Machine) Jump(addr int64) {
	if mc.state != STATE_RUNNING {
		panic("Cannot jump while machine is " + mc.state.String())
	}

	mc.pc = addr
}

func (mc *Machine) inBounds(addr int64) bool {
	return addr >= 0 && addr < int64(len(mc.memory))
}

func (mc *Machine) read(addr int64) (int64, error) {
	if !mc.inBounds(addr) {
		return 0, &OutOfBoundsError{addr, len(mc.memory)}
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.memory[addr], nil
}

func (mc *Machine) write(addr int64, value int64) error {
	if !mc.inBounds(addr) {
		return &OutOfBoundsError{addr, len(mc.memory)}
	}

	mc.memory[addr] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}

	return nil
}

func (mc *Machine) resolve(operand int64, mode Mode) (int64, error) {
	if mode == MODE_IMMEDIATE {
		return operand, nil
	}

	return mc.read(operand)
}

func (mc *Machine) status() Status {
	switch mc.state {
	case STATE_AWAITING_INPUT:
		return STATUS_INPUT
	case STATE_AWAITING_OUTPUT:
		return STATUS_OUTPUT
	case STATE_STOPPED:
		return STATUS_STOPPED
	}

	return STATUS_OK
}

func (mc *Machine) fault(err error) (Status, error) {
	switch e := err.(type) {
	case *InvalidOpcodeError:
		e.Addr = mc.pc
	case *InvalidModeError:
		e.Addr = mc.pc
	}

	return mc.status(), errors.Wrap(err, "Step")
}

// Step executes exactly one instruction and reports what the caller has to do
// next. Input and output instructions only announce themselves here; they are
// completed by Input and Output, which also advance the program counter.
//
// On error the program counter still addresses the faulting instruction.
// Calling Step while input or output is pending panics.
func (mc *Machine) Step() (Status, error) {
	switch mc.state {
	case STATE_STOPPED:
		return STATUS_STOPPED, nil
	case STATE_AWAITING_INPUT:
		panic("Step called while machine is awaiting input")
	case STATE_AWAITING_OUTPUT:
		panic("Step called while machine is awaiting output")
	}

	if mc.pc < 0 {
		return mc.fault(&OutOfBoundsError{mc.pc, len(mc.memory)})
	}

	// Running off the end of memory is an implicit halt
	if mc.pc >= int64(len(mc.memory)) {
		mc.state = STATE_STOPPED
		return STATUS_STOPPED, nil
	}

	op, modes, err := Decode(mc.memory[mc.pc])

	if err != nil {
		return mc.fault(err)
	}

	width := int64(op.Width())

	if int64(len(mc.memory))-mc.pc < width {
		mc.state = STATE_STOPPED
		return STATUS_STOPPED, nil
	}

	var operands [MODE_SLOTS]int64
	copy(operands[:], mc.memory[mc.pc+1:mc.pc+width])

	switch op {
	// ADD  |a|b|dst|  dst = a + b
	// MUL  |a|b|dst|  dst = a * b
	// LT   |a|b|dst|  dst = a < b
	// EQ   |a|b|dst|  dst = a == b
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		a, err := mc.resolve(operands[0], modes[0])

		if err != nil {
			return mc.fault(err)
		}

		b, err := mc.resolve(operands[1], modes[1])

		if err != nil {
			return mc.fault(err)
		}

		var result int64

		switch op {
		case OP_ADD:
			result = a + b
		case OP_MUL:
			result = a * b
		case OP_LT:
			if a < b {
				result = 1
			}
		case OP_EQ:
			if a == b {
				result = 1
			}
		}

		// The destination is always a raw address, whatever its mode digit
		if err := mc.write(operands[2], result); err != nil {
			return mc.fault(err)
		}

		mc.pc += width

	// IN   |dst|  held until Input
	case OP_IN:
		mc.state = STATE_AWAITING_INPUT
		mc.pending = modes[0]

	// OUT  |src|  held until Output
	case OP_OUT:
		mc.state = STATE_AWAITING_OUTPUT
		mc.pending = modes[0]

	// JIT  |cond|target|  jump when cond != 0
	// JIF  |cond|target|  jump when cond == 0
	case OP_JIT, OP_JIF:
		cond, err := mc.resolve(operands[0], modes[0])

		if err != nil {
			return mc.fault(err)
		}

		if (cond != 0) == (op == OP_JIT) {
			target, err := mc.resolve(operands[1], modes[1])

			if err != nil {
				return mc.fault(err)
			}

			mc.pc = target
		} else {
			mc.pc += width
		}

	case OP_STOP:
		mc.state = STATE_STOPPED
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return mc.status(), nil
}

// Input completes a pending input instruction by storing value at its
// destination. An immediate-mode destination overwrites the instruction's own
// operand cell. Panics if the machine is not awaiting input.
func (mc *Machine) Input(value int64) error {
	if mc.state != STATE_AWAITING_INPUT {
		panic("Input supplied while machine is " + mc.state.String())
	}

	addr := mc.pc + 1

	if mc.pending == MODE_POSITION {
		addr = mc.memory[addr]
	}

	if err := mc.write(addr, value); err != nil {
		return errors.Wrap(err, "Input")
	}

	mc.pc += int64(OP_IN.Width())
	mc.state = STATE_RUNNING

	return nil
}

// Output completes a pending output instruction and returns the value it
// produces. Memory is left untouched. Panics if the machine is not awaiting
// output.
func (mc *Machine) Output() (int64, error) {
	if mc.state != STATE_AWAITING_OUTPUT {
		panic("Output taken while machine is " + mc.state.String())
	}

	value, err := mc.resolve(mc.memory[mc.pc+1], mc.pending)

	if err != nil {
		return 0, errors.Wrap(err, "Output")
	}

	mc.pc += int64(OP_OUT.Width())
	mc.state = STATE_RUNNING

	return value, nil
}

// Run steps the machine until it suspends on input or output, stops, or
// fails, and returns the number of instructions that completed without
// needing the caller. Returns immediately if the machine is not running.
func (mc *Machine) Run() (int, error) {
	steps := 0

	if mc.state != STATE_RUNNING {
		return steps, nil
	}

	for {
		status, err := mc.Step()

		if err != nil || status != STATUS_OK {
			return steps, err
		}

		steps++
	}
}
