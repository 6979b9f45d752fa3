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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tliron/commonlog"

	"github.com/lassandro/intcode/pkg/debugger"
	"github.com/lassandro/intcode/pkg/machine"
)

func withStdio(t *testing.T, input string) *bytes.Buffer {
	output := new(bytes.Buffer)
	oldin, oldout := stdin, stdout

	stdin = bufio.NewReader(strings.NewReader(input))
	stdout = bufio.NewWriter(output)

	t.Cleanup(func() {
		stdin, stdout = oldin, oldout
	})

	return output
}

func TestPatchFlag(t *testing.T) {
	tests := []struct {
		Input string
		Addr  int64
		Value int64
	}{
		{"1=12", 1, 12},
		{" 2 = #-3 ", 2, -3},
		{"x10=7", 16, 7},
	}

	for _, test := range tests {
		patches := patchFlag{}

		if err := patches.Set(test.Input); err != nil {
			t.Fatalf("Set(%q): %v", test.Input, err)
		}

		if have, ok := patches[test.Addr]; !ok || have != test.Value {
			t.Fatalf(
				"Patch mismatch for %q\nwant:[%d]=%d\nhave:%v",
				test.Input,
				test.Addr,
				test.Value,
				patches,
			)
		}
	}

	for _, input := range []string{"12", "a=1", "1=x", "1=2=3"} {
		if err := (patchFlag{}).Set(input); err == nil {
			t.Fatalf("Set(%q) accepted", input)
		}
	}
}

func TestParseList(t *testing.T) {
	if values, err := parseList("  "); err != nil || len(values) != 0 {
		t.Fatalf("Empty list\nwant:[]\nhave:%v (%v)", values, err)
	}

	values, err := parseList("1, -2,3")

	if err != nil {
		t.Fatal(err)
	}

	want := []int64{1, -2, 3}

	if len(values) != len(want) {
		t.Fatalf("List mismatch\nwant:%v\nhave:%v", want, values)
	}

	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("List mismatch\nwant:%v\nhave:%v", want, values)
		}
	}

	if _, err := parseList("1,b"); err == nil {
		t.Fatal("Invalid list accepted")
	}
}

func TestDriverInput(t *testing.T) {
	withStdio(t, "7\n#-4\n")

	d := &driver{inputs: []int64{1}, log: commonlog.GetLogger("intcode")}

	for _, want := range []int64{1, 7, -4} {
		have, err := d.input()

		if err != nil {
			t.Fatal(err)
		}

		if have != want {
			t.Fatalf("Input mismatch\nwant:%d\nhave:%d", want, have)
		}
	}

	if _, err := d.input(); err == nil {
		t.Fatal("Expected an error once stdin is closed")
	}

	withStdio(t, "oops\n")

	if _, err := d.input(); err == nil {
		t.Fatal("Invalid input accepted")
	}
}

func TestDriverASCII(t *testing.T) {
	output := withStdio(t, "hi\r\n")

	d := &driver{ascii: true, log: commonlog.GetLogger("intcode")}

	for _, want := range []int64{'h', 'i', '\n'} {
		have, err := d.input()

		if err != nil {
			t.Fatal(err)
		}

		if have != want {
			t.Fatalf("Input mismatch\nwant:%d\nhave:%d", want, have)
		}
	}

	for _, value := range []int64{'o', 'k', '\n', 1000} {
		d.output(value)
	}

	if have, want := output.String(), "ok\n1000\n"; have != want {
		t.Fatalf("Output mismatch\nwant:%q\nhave:%q", want, have)
	}
}

func TestTracer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")

	configureLogging(2, &path)
	t.Cleanup(func() { configureLogging(-4, nil) })

	mc, err := machine.New([]int64{1101, 2, 3, 0, 99})

	if err != nil {
		t.Fatal(err)
	}

	tr := &tracer{log: commonlog.GetLogger("intcode")}
	mc.Debugger = tr

	for mc.Running() {
		tr.Before(mc)

		if _, err := mc.Step(); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)

	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"ADD #2, #3, 0", "write [0] = 5", "STOP"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("Trace is missing %q\nhave:\n%s", want, data)
		}
	}
}

func TestPollInterrupt(t *testing.T) {
	var dbg debugger.Debugger

	interrupts := make(chan os.Signal, 1)
	pollInterrupt(&dbg, interrupts)

	if dbg.Break {
		t.Fatal("Break set without an interrupt")
	}

	interrupts <- os.Interrupt
	pollInterrupt(&dbg, interrupts)

	if !dbg.Break {
		t.Fatal("Interrupt did not break into the debugger")
	}

	pollInterrupt(nil, nil)
}
