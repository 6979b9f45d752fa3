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

package encoding_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lassandro/intcode/pkg/encoding"
)

func TestParse(t *testing.T) {
	tests := []struct {
		Name   string
		Input  string
		Output []int64
	}{
		{"Empty", "", []int64{}},
		{"Single", "99", []int64{99}},
		{"Program", "1,0,0,0,99", []int64{1, 0, 0, 0, 99}},
		{"Whitespace", " 1, -2 ,\n3\t,4\n", []int64{1, -2, 3, 4}},
		{"Trailing Comma", "1,2,\n", []int64{1, 2}},
		{"Wide", "104,1125899906842624,99", []int64{104, 1125899906842624, 99}},
	}

	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			result, err := encoding.ParseString(test.Input)

			if err != nil {
				t.Fatal(err)
			}

			if len(result) != len(test.Output) {
				t.Fatalf(
					"Length mismatch\nwant:%d\nhave:%d (%v)",
					len(test.Output),
					len(result),
					result,
				)
			}

			for i, want := range test.Output {
				if have := result[i]; have != want {
					t.Fatalf("Cell mismatch\nwant:%d (at %d)\nhave:%d", want, i, have)
				}
			}
		})
	}

	for _, input := range []string{"1,,2", "1,a,3", "1;2", "99999999999999999999"} {
		if _, err := encoding.ParseString(input); err == nil {
			t.Errorf("Parse(%q) accepted", input)
		}
	}
}

func TestFormat(t *testing.T) {
	var buf bytes.Buffer

	if err := encoding.Format(&buf, []int64{3, 0, -4, 99}); err != nil {
		t.Fatal(err)
	}

	if have := buf.String(); have != "3,0,-4,99\n" {
		t.Fatalf("Format mismatch\nwant:%q\nhave:%q", "3,0,-4,99\n", have)
	}

	result, err := encoding.Parse(strings.NewReader(buf.String()))

	if err != nil || len(result) != 4 || result[2] != -4 {
		t.Fatalf("Parse of formatted program failed: %v %v", result, err)
	}
}

func TestDecodeNumber(t *testing.T) {
	tests := map[string]int64{
		"#12":  12,
		"12":   12,
		"#-3":  -3,
		"x1F":  31,
		"0x1f": 31,
		"X10":  16,
	}

	for input, want := range tests {
		have, err := encoding.DecodeNumber(input)

		if err != nil {
			t.Fatalf("DecodeNumber(%q): %v", input, err)
		}

		if have != want {
			t.Fatalf("DecodeNumber(%q)\nwant:%d\nhave:%d", input, want, have)
		}
	}

	for _, input := range []string{"1x2", "#", "abc", "0xZZ"} {
		if _, err := encoding.DecodeNumber(input); err == nil {
			t.Errorf("DecodeNumber(%q) accepted", input)
		}
	}
}
