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
	"bytes"
	"reflect"
	"testing"

	"github.com/lassandro/intcode/pkg/assembler"
)

func TestSymTableFile(t *testing.T) {
	want := &assembler.SymTable{
		Source:  "/src/day5.ics",
		Symbols: map[int64]int64{0: 0, 2: 14, 6: 30},
		Labels:  map[int64]string{0: "start", 6: "value"},
	}

	var first, second bytes.Buffer

	if err := assembler.WriteSymTable(&first, want); err != nil {
		t.Fatal(err)
	}

	if err := assembler.WriteSymTable(&second, want); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("Symbol table encoding is not deterministic")
	}

	have, err := assembler.ReadSymTable(&first)

	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(have, want) {
		t.Fatalf("Symbol table mismatch\nwant:%+v\nhave:%+v", want, have)
	}

	if addr, ok := have.Lookup("value"); !ok || addr != 6 {
		t.Fatalf("Lookup mismatch\nwant:6\nhave:%d", addr)
	}

	if _, err := assembler.ReadSymTable(bytes.NewReader([]byte{0xff})); err == nil {
		t.Fatal("Corrupt symbol table accepted")
	}
}
