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

package assembler

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// Symbol files are CBOR in canonical mode so identical sources produce
// identical files
var symEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("assembler: failed to create CBOR enc mode: %v", err))
	}
	symEncMode = em
}

func WriteSymTable(w io.Writer, symtable *SymTable) error {
	if err := symEncMode.NewEncoder(w).Encode(symtable); err != nil {
		return errors.Wrap(err, "write symbol table")
	}

	return nil
}

func ReadSymTable(r io.Reader) (*SymTable, error) {
	var symtable SymTable

	if err := cbor.NewDecoder(r).Decode(&symtable); err != nil {
		return nil, errors.Wrap(err, "read symbol table")
	}

	if symtable.Symbols == nil {
		symtable.Symbols = make(map[int64]int64)
	}

	if symtable.Labels == nil {
		symtable.Labels = make(map[int64]string)
	}

	return &symtable, nil
}
