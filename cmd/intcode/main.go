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
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"github.com/tliron/kutil/util"

	"github.com/lassandro/intcode/pkg/assembler"
	"github.com/lassandro/intcode/pkg/config"
	"github.com/lassandro/intcode/pkg/debugger"
	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
)

var helpvar bool
var debugvar bool
var asciivar bool
var tracevar bool
var verbosevar int
var configvar string
var logvar string
var inputvar string
var peekvar string
var patchvar = patchFlag{}
var shouldexit bool

var stdin = bufio.NewReader(os.Stdin)
var stdout = bufio.NewWriter(os.Stdout)

const usage = "intcode [-debug] [-ascii] [-trace] [-config file] " +
	"[-input n,n,...] [-set addr=value] [-peek addr,...] [-log file] [filename]"

// patchFlag collects repeated -set addr=value arguments
type patchFlag map[int64]int64

func (patches patchFlag) String() string {
	parts := make([]string, 0, len(patches))

	for addr, value := range patches {
		parts = append(parts, fmt.Sprintf("%d=%d", addr, value))
	}

	return strings.Join(parts, ",")
}

func (patches patchFlag) Set(s string) error {
	parts := strings.SplitN(s, "=", 2)

	if len(parts) != 2 {
		return errors.Errorf("expected addr=value, got %q", s)
	}

	addr, err := encoding.DecodeNumber(strings.TrimSpace(parts[0]))

	if err != nil {
		return err
	}

	value, err := encoding.DecodeInt(strings.TrimSpace(parts[1]))

	if err != nil {
		return err
	}

	patches[addr] = value
	return nil
}

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.BoolVar(
		&asciivar, "ascii", false,
		"Exchanges input lines and outputs below 128 as characters",
	)
	flag.BoolVar(
		&tracevar, "trace", false,
		"Logs every executed instruction and memory access",
	)
	flag.IntVar(&verbosevar, "v", 0, "Log verbosity")
	flag.StringVar(
		&configvar, "config", "",
		"Reads program, inputs and patches from a TOML file",
	)
	flag.StringVar(
		&inputvar, "input", "",
		"Comma separated inputs supplied before reading stdin",
	)
	flag.StringVar(
		&peekvar, "peek", "",
		"Comma separated addresses printed once the program stops",
	)
	flag.Var(
		patchvar, "set",
		"Overwrites a memory cell before running, as addr=value (repeatable)",
	)
	flag.StringVar(
		&logvar, "log", "",
		"Writes log messages to a file instead of stderr",
	)
}

// driver feeds the machine's input requests and consumes its outputs
type driver struct {
	mc     *machine.Machine
	inputs []int64
	ascii  bool
	prompt bool
	log    commonlog.Logger
}

func (d *driver) input() (int64, error) {
	for len(d.inputs) == 0 {
		if d.prompt {
			fmt.Fprint(stdout, "> ")
			stdout.Flush()
		}

		line, err := stdin.ReadString('\n')

		if err == io.EOF && line == "" {
			return 0, errors.New("Input requested but stdin is closed")
		} else if err != nil && err != io.EOF {
			return 0, err
		}

		if d.ascii {
			line = strings.TrimRight(line, "\r\n") + "\n"

			for _, char := range []byte(line) {
				d.inputs = append(d.inputs, int64(char))
			}

			break
		}

		value, err := encoding.DecodeInt(strings.TrimSpace(line))

		if err != nil {
			if d.prompt {
				log.Println(err)
				continue
			}

			return 0, errors.Wrap(err, "Invalid input")
		}

		d.inputs = append(d.inputs, value)
	}

	value := d.inputs[0]
	d.inputs = d.inputs[1:]

	d.log.Infof("input %d", value)

	return value, nil
}

func (d *driver) output(value int64) {
	d.log.Infof("output %d", value)

	if d.ascii && value >= 0 && value < 128 {
		stdout.WriteByte(byte(value))
	} else {
		fmt.Fprintln(stdout, value)
	}

	stdout.Flush()
}

func parseList(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	return encoding.ParseString(s)
}

func loadSymbols(dbg *debugger.Debugger, program string) {
	filename := strings.TrimSuffix(program, filepath.Ext(program)) + ".icdb"

	file, err := os.Open(filename)

	if err != nil {
		log.Println("Error loading symbol file")
		log.Println(err)
		return
	}

	defer file.Close()

	symtable, err := assembler.ReadSymTable(file)

	if err != nil {
		log.Println("Error loading symbol file")
		log.Println(err)
		return
	}

	dbg.SymTable = symtable

	if symtable.Source != "" {
		if source, err := os.Open(symtable.Source); err == nil {
			dbg.Source = source
		} else {
			log.Println("Error loading source file")
			log.Println(err)
		}
	}
}

func intcode() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	cfg := &config.Config{}

	if configvar != "" {
		var err error

		if cfg, err = config.Load(configvar); err != nil {
			log.Println(err)
			return 1
		}
	}

	if verbosevar == 0 {
		verbosevar = cfg.Verbosity
	}

	if tracevar && verbosevar < 2 {
		verbosevar = 2
	}

	if logvar != "" {
		configureLogging(verbosevar, &logvar)
	} else {
		configureLogging(verbosevar, nil)
	}

	logger := commonlog.GetLogger("intcode")

	args := flag.Args()
	filename := cfg.ProgramPath()

	if len(args) == 1 {
		filename = args[0]
	} else if len(args) > 1 || filename == "" {
		log.Println(usage)
		return 1
	}

	file, err := os.Open(filename)

	if err != nil {
		log.Println(err)
		return 1
	}

	memory, err := encoding.Parse(file)
	file.Close()

	if err != nil {
		log.Printf("%s: %v", filename, err)
		return 1
	}

	mc, err := machine.New(memory)

	if err != nil {
		log.Printf("%s: %v", filename, err)
		return 1
	}

	patches, err := cfg.Patches()

	if err != nil {
		log.Println(err)
		return 1
	}

	for addr, value := range patchvar {
		patches[addr] = value
	}

	for addr, value := range patches {
		if err := mc.Poke(addr, value); err != nil {
			log.Println(err)
			return 1
		}

		logger.Infof("patched [%d] = %d", addr, value)
	}

	inputs, err := parseList(inputvar)

	if err != nil {
		log.Println(err)
		return 1
	}

	peeks, err := parseList(peekvar)

	if err != nil {
		log.Println(err)
		return 1
	}

	d := &driver{
		mc:     mc,
		inputs: append(inputs, cfg.Inputs...),
		ascii:  asciivar || cfg.ASCII,
		prompt: isTerminal(os.Stdin),
		log:    logger,
	}

	var dbg *debugger.Debugger
	var tr *tracer
	var interrupts chan os.Signal

	if debugvar {
		dbg = &debugger.Debugger{
			HandleBreak: handleBreak,
			HandleRead:  handleRead,
			HandleWrite: handleWrite,
		}
		mc.Debugger = dbg

		loadSymbols(dbg, filename)

		if dbg.Source != nil {
			defer dbg.Source.Close()
		}

		interrupts = make(chan os.Signal, 1)

		signal.Notify(interrupts, os.Interrupt)
		defer signal.Stop(interrupts)
	}

	if tracevar {
		tr = &tracer{log: logger}

		if dbg != nil {
			tr.inner = dbg
			tr.symtable = dbg.SymTable
		}

		mc.Debugger = tr
	}

	advance := mc.Run

	if debugvar || tracevar {
		advance = func() (int, error) {
			if tr != nil {
				tr.Before(mc)
			}

			status, err := mc.Step()

			if err == nil && status == machine.STATUS_OK {
				return 1, nil
			}

			return 0, err
		}
	}

	if debugvar {
		debugREPL(dbg, mc)
	}

	total := 0

	for !shouldexit {
		pollInterrupt(dbg, interrupts)

		steps, err := advance()
		total += steps

		if err != nil {
			log.Println(err)

			if debugvar {
				fmt.Println("Program faulted")
				dbg.PrintSource(mc, mc.PC(), 1)
				debugREPL(dbg, mc)
			}

			return 1
		}

		switch mc.State() {
		case machine.STATE_AWAITING_INPUT:
			value, err := d.input()

			if err != nil {
				log.Println(err)
				return 1
			}

			if err := mc.Input(value); err != nil {
				log.Println(err)
				return 1
			}

		case machine.STATE_AWAITING_OUTPUT:
			value, err := mc.Output()

			if err != nil {
				log.Println(err)
				return 1
			}

			d.output(value)

		case machine.STATE_STOPPED:
			shouldexit = true
		}
	}

	logger.Infof("stopped at [%d] after %d steps", mc.PC(), total)

	for _, addr := range append(peeks, cfg.Peek...) {
		value, err := mc.Peek(addr)

		if err != nil {
			log.Println(err)
			return 1
		}

		fmt.Fprintf(stdout, "[%d] %d\n", addr, value)
	}

	stdout.Flush()

	return 0
}

// Breaks into the debugger if an interrupt arrived since the last step
func pollInterrupt(dbg *debugger.Debugger, interrupts <-chan os.Signal) {
	select {
	case <-interrupts:
		fmt.Println()
		dbg.Break = true
	default:
	}
}

func main() {
	flag.Parse()
	util.Exit(intcode())
}
