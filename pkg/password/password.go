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

// Package password counts the candidate passwords of a numeric range: numbers
// whose decimal digits never decrease and that contain at least one group of
// exactly two equal adjacent digits.
package password

import (
	"strconv"
)

func Valid(n int) bool {
	if n < 0 {
		return false
	}

	digits := strconv.Itoa(n)
	double := false
	run := 1

	for i := 1; i < len(digits); i++ {
		if digits[i] < digits[i-1] {
			return false
		}

		if digits[i] == digits[i-1] {
			run++
			continue
		}

		if run == 2 {
			double = true
		}

		run = 1
	}

	return double || run == 2
}

// Count returns the number of valid passwords in [lo, hi)
func Count(lo, hi int) int {
	count := 0

	for n := lo; n < hi; n++ {
		if Valid(n) {
			count++
		}
	}

	return count
}
