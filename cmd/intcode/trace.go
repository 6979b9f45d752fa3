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
	"github.com/tliron/commonlog"
	"github.com/tliron/commonlog/simple"

	"github.com/lassandro/intcode/pkg/assembler"
	"github.com/lassandro/intcode/pkg/machine"
)

// Installs an unbuffered simple backend. A nil path logs to stderr.
func configureLogging(verbosity int, path *string) {
	backend := simple.NewBackend()
	backend.Buffered = false
	backend.Configure(verbosity, path)
	commonlog.SetBackend(backend)
}

// tracer logs every instruction and memory access at debug level, then
// forwards the event to the interactive debugger when one is attached
type tracer struct {
	log      commonlog.Logger
	inner    machine.MachineDebugger
	symtable *assembler.SymTable
}

// Logs the instruction about to be stepped
func (tr *tracer) Before(mc *machine.Machine) {
	text, _ := assembler.Disassemble(mc.Memory(), mc.PC(), tr.symtable)
	tr.log.Debugf("[%6d] %s", mc.PC(), text)
}

func (tr *tracer) Step(mc *machine.Machine) {
	if mc.State() != machine.STATE_RUNNING {
		tr.log.Debugf("         %s", mc.State())
	}

	if tr.inner != nil {
		tr.inner.Step(mc)
	}
}

func (tr *tracer) Read(addr int64, mc *machine.Machine) {
	value, _ := mc.Peek(addr)
	tr.log.Debugf("         read  [%d] = %d", addr, value)

	if tr.inner != nil {
		tr.inner.Read(addr, mc)
	}
}

func (tr *tracer) Write(addr int64, mc *machine.Machine) {
	value, _ := mc.Peek(addr)
	tr.log.Debugf("         write [%d] = %d", addr, value)

	if tr.inner != nil {
		tr.inner.Write(addr, mc)
	}
}
