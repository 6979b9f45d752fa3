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

package encoding

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Decodes an intcode program: integers separated by commas, with any amount
// of surrounding whitespace. A single trailing comma is tolerated.
func Parse(reader io.Reader) ([]int64, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	scanner.Split(scanCells)

	result := make([]int64, 0, 1024)

	for scanner.Scan() {
		cell := strings.TrimSpace(scanner.Text())

		if cell == "" {
			return nil, errors.Errorf("Empty cell at index %d", len(result))
		}

		value, err := strconv.ParseInt(cell, 10, 64)

		if err != nil {
			return nil, errors.Wrapf(err, "Invalid cell at index %d", len(result))
		}

		result = append(result, value)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "Parse")
	}

	return result, nil
}

func ParseString(s string) ([]int64, error) {
	return Parse(strings.NewReader(s))
}

// Splits on commas, dropping a final cell that holds only whitespace
func scanCells(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i, b := range data {
		if b == ',' {
			return i + 1, data[:i], nil
		}
	}

	if !atEOF {
		return 0, nil, nil
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return len(data), nil, nil
	}

	return len(data), data, bufio.ErrFinalToken
}

// Encodes memory in the same comma separated form Parse reads
func Format(writer io.Writer, memory []int64) error {
	buffered := bufio.NewWriter(writer)

	for i, value := range memory {
		if i > 0 {
			buffered.WriteByte(',')
		}

		buffered.WriteString(strconv.FormatInt(value, 10))
	}

	buffered.WriteByte('\n')

	return buffered.Flush()
}

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (int64, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	return strconv.ParseInt(s, 0, 64)
}

// Decodes a base-10 string in the formats: #123, 123, #-123, -123
func DecodeInt(s string) (int64, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	return strconv.ParseInt(s, 10, 64)
}

// Decodes either a hexidecimal or a base-10 string
func DecodeNumber(s string) (int64, error) {
	if strings.ContainsAny(s, "xX") {
		return DecodeHex(s)
	}

	return DecodeInt(s)
}
