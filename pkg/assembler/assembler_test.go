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

package assembler_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lassandro/intcode/pkg/assembler"
	"github.com/lassandro/intcode/pkg/machine"
)

type testCase struct {
	Name     string
	Input    string
	Output   []int64
	SymTable *assembler.SymTable
}

type failCase struct {
	Name     string
	Input    string
	Error    error
	Position assembler.Cursor
}

func testAssemblerSuccess(t *testing.T, test *testCase) {
	var symtable assembler.SymTable
	var symtarget *assembler.SymTable = nil

	if test.SymTable != nil {
		symtable.Symbols = make(map[int64]int64)
		symtable.Labels = make(map[int64]string)
		symtarget = &symtable
	}

	result, errs := assembler.AssembleSource(
		strings.NewReader(test.Input), symtarget,
	)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	if len(result) != len(test.Output) {
		t.Fatalf(
			"Program length mismatch\nwant:%d\nhave:%d (%v)",
			len(test.Output),
			len(result),
			result,
		)
	}

	for addr, want := range test.Output {
		if have := result[addr]; have != want {
			t.Fatalf(
				"Cell mismatch\n"+
					"want:%d (test.Output[%d])\n"+
					"have:%d",
				want,
				addr,
				have,
			)
		}
	}

	if test.SymTable != nil {
		if !reflect.DeepEqual(symtable.Symbols, test.SymTable.Symbols) {
			t.Fatalf(
				"Symtable symbols mismatch\nwant:%v\nhave:%v",
				test.SymTable.Symbols,
				symtable.Symbols,
			)
		}

		if !reflect.DeepEqual(symtable.Labels, test.SymTable.Labels) {
			t.Fatalf(
				"Symtable labels mismatch\nwant:%v\nhave:%v",
				test.SymTable.Labels,
				symtable.Labels,
			)
		}
	}
}

func testAssemblerFail(t *testing.T, test *failCase) {
	_, errs := assembler.AssembleSource(strings.NewReader(test.Input), nil)

	if len(errs) == 0 {
		t.Fatal("Expected an error")
	}

	if have, want := reflect.TypeOf(errs[0]), reflect.TypeOf(test.Error); have != want {
		t.Fatalf("Error type mismatch\nwant:%v\nhave:%v (%v)", want, have, errs[0])
	}

	tokenErr, ok := errs[0].(assembler.TokenError)

	if !ok {
		t.Fatalf("Error %v has no position", errs[0])
	}

	have := tokenErr.GetPosition()

	if have.Line != test.Position.Line || have.Column != test.Position.Column {
		t.Fatalf(
			"Error position mismatch\nwant:%02d:%02d\nhave:%02d:%02d",
			test.Position.Line,
			test.Position.Column,
			have.Line,
			have.Column,
		)
	}

	if test.Position.Size != 0 {
		if have.Byte != test.Position.Byte || have.Size != test.Position.Size {
			t.Fatalf(
				"Error span mismatch\nwant:%d+%d\nhave:%d+%d",
				test.Position.Byte,
				test.Position.Size,
				have.Byte,
				have.Size,
			)
		}
	}
}

func TestAssemble(t *testing.T) {
	tests := []testCase{
		{
			Name:   "Empty",
			Input:  "; nothing here\n\n",
			Output: []int64{},
		},
		{
			Name:   "ADD Position",
			Input:  "add 0, 0, 0\nstop\n",
			Output: []int64{1, 0, 0, 0, 99},
		},
		{
			Name:   "MUL Immediate",
			Input:  "MUL 4, #3, 4\n.FILL 33",
			Output: []int64{1002, 4, 3, 4, 33},
		},
		{
			Name:   "Negative And Hex",
			Input:  "add #-1, x10, 0 ; comment\n",
			Output: []int64{101, -1, 16, 0},
		},
		{
			Name:   "IO",
			Input:  "in 0\nout 0\nhalt",
			Output: []int64{3, 0, 4, 0, 99},
		},
		{
			Name: "Labels",
			Input: "" +
				"start in    value\n" +
				"      eq    value, #8, value\n" +
				"      out   value\n" +
				"      jz    #0, #start\n" +
				"value .fill -1\n",
			Output: []int64{3, 11, 1008, 11, 8, 11, 4, 11, 1106, 0, 0, -1},
		},
		{
			Name:   "Forward Reference",
			Input:  "jnz #1, #end\n.blkw 2\nend stop\n",
			Output: []int64{1105, 1, 5, 0, 0, 99},
		},
		{
			Name:   "Fill List",
			Input:  "data .fill 1, 2, data\n.end\nstop",
			Output: []int64{1, 2, 0},
		},
		{
			Name:   "Symbol Table",
			Input:  "loop in n\n; skip\nn .fill 0\n",
			Output: []int64{3, 2, 0},
			SymTable: &assembler.SymTable{
				Symbols: map[int64]int64{0: 0, 2: 17},
				Labels:  map[int64]string{0: "loop", 2: "n"},
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			testAssemblerSuccess(t, &test)
		})
	}
}

func TestAssembleFail(t *testing.T) {
	tests := []failCase{
		{
			Name:     "Wrong Operand Count",
			Input:    "add 1, 2\n",
			Error:    &assembler.InvalidNumArgumentsError{},
			Position: assembler.Cursor{Line: 1, Column: 1},
		},
		{
			Name:     "Unknown Label",
			Input:    "stop\nout nowhere\n",
			Error:    &assembler.UnknownLabelError{},
			Position: assembler.Cursor{Line: 2, Column: 5},
		},
		{
			Name:     "Redeclared Label",
			Input:    "a stop\na stop\n",
			Error:    &assembler.RedeclaredLabelError{},
			Position: assembler.Cursor{Line: 2, Column: 1},
		},
		{
			Name:     "Unknown Identifier",
			Input:    "label frob 1\n",
			Error:    &assembler.UnknownIdentifierError{},
			Position: assembler.Cursor{Line: 1, Column: 7},
		},
		{
			Name:     "Unexpected Character",
			Input:    "out 1:\n",
			Error:    &assembler.UnexpectedCharacterError{},
			Position: assembler.Cursor{Line: 1, Column: 6},
		},
		{
			Name:     "Invalid Literal",
			Input:    "out 12ab\n",
			Error:    &assembler.InvalidLiteralError{},
			Position: assembler.Cursor{Line: 1, Column: 5, Byte: 4, Size: 4},
		},
		{
			Name:     "Invalid Immediate Literal",
			Input:    "out #12ab\n",
			Error:    &assembler.InvalidLiteralError{},
			Position: assembler.Cursor{Line: 1, Column: 5, Byte: 4, Size: 5},
		},
		{
			Name:     "Directive Operand",
			Input:    ".fill .end\n",
			Error:    &assembler.InvalidOperandError{},
			Position: assembler.Cursor{Line: 1, Column: 7},
		},
		{
			Name:     "Non ASCII",
			Input:    "out é\n",
			Error:    &assembler.OversizedCharacterError{},
			Position: assembler.Cursor{Line: 1, Column: 5},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			testAssemblerFail(t, &test)
		})
	}
}

func TestDisassemble(t *testing.T) {
	symtable := &assembler.SymTable{Labels: map[int64]string{12: "value"}}
	memory := []int64{3, 12, 1008, 12, 8, 12, 4, 12, 1106, 0, 0, -1, 77, 100099}

	tests := []struct {
		Addr  int64
		Text  string
		Width int
	}{
		{0, "IN value", 2},
		{2, "EQ value, #8, value", 4},
		{6, "OUT value", 2},
		{8, "JIF #0, #0", 3},
		{11, ".FILL -1", 1},
		{13, ".FILL 100099", 1},
		{14, "", 0},
	}

	for _, test := range tests {
		text, width := assembler.Disassemble(memory, test.Addr, symtable)

		if text != test.Text || width != test.Width {
			t.Errorf(
				"Disassembly mismatch at %d\nwant:%q (%d)\nhave:%q (%d)",
				test.Addr,
				test.Text,
				test.Width,
				text,
				width,
			)
		}
	}

	// Truncated instructions fall back to raw cells
	if text, width := assembler.Disassemble([]int64{1, 0}, 0, nil); text != ".FILL 1" || width != 1 {
		t.Errorf("Truncated disassembly mismatch\nwant:\".FILL 1\" (1)\nhave:%q (%d)", text, width)
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	memory := []int64{
		3, 21, 1008, 21, 8, 20, 1005, 20, 22, 107, 8, 21, 20, 1006, 20, 31,
		1106, 0, 36, 98, 0, 0, 1002, 21, 125, 20, 4, 20, 1105, 1, 46, 104,
		999, 1105, 1, 46, 1101, 1000, 1, 20, 4, 20, 1105, 1, 46, 98, 99,
	}

	var source strings.Builder

	for addr := int64(0); addr < int64(len(memory)); {
		text, width := assembler.Disassemble(memory, addr, nil)
		source.WriteString(text + "\n")
		addr += int64(width)
	}

	result, errs := assembler.AssembleSource(strings.NewReader(source.String()), nil)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	if !reflect.DeepEqual(result, memory) {
		t.Fatalf("Round trip mismatch\nwant:%v\nhave:%v\nsource:\n%s", memory, result, source.String())
	}

	// The reassembled program behaves identically
	mc, err := machine.New(result)

	if err != nil {
		t.Fatal(err)
	}

	mc.Run()
	mc.Input(8)
	mc.Run()

	if have, _ := mc.Output(); have != 1000 {
		t.Fatalf("Output mismatch\nwant:1000\nhave:%d", have)
	}
}
