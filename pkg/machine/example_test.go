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

package machine_test

import (
	"fmt"

	"github.com/lassandro/intcode/pkg/machine"
)

// Doubles a single input value. Run returns whenever the machine needs the
// caller to supply an input or take an output.
func ExampleMachine_Run() {
	mc, err := machine.New([]int64{3, 9, 1002, 9, 2, 9, 4, 9, 99, 0})

	if err != nil {
		panic(err)
	}

	for mc.State() != machine.STATE_STOPPED {
		if _, err := mc.Run(); err != nil {
			panic(err)
		}

		switch mc.State() {
		case machine.STATE_AWAITING_INPUT:
			if err := mc.Input(21); err != nil {
				panic(err)
			}

		case machine.STATE_AWAITING_OUTPUT:
			value, err := mc.Output()

			if err != nil {
				panic(err)
			}

			fmt.Println(value)
		}
	}

	fmt.Println(mc.State())
	// Output:
	// 42
	// stopped
}
