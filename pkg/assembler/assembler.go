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
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
)

func parseDirective(ident string) DirectiveType {
	switch strings.ToUpper(ident) {
	case ".FILL":
		return DIRECTIVE_FILL
	case ".BLKW":
		return DIRECTIVE_BLKW
	case ".END":
		return DIRECTIVE_END
	}

	return DIRECTIVE_INVALID
}

func parseInstruction(ident string) (machine.Opcode, bool) {
	switch strings.ToUpper(ident) {
	case "ADD":
		return machine.OP_ADD, true
	case "MUL":
		return machine.OP_MUL, true
	case "IN":
		return machine.OP_IN, true
	case "OUT":
		return machine.OP_OUT, true
	case "JIT", "JNZ":
		return machine.OP_JIT, true
	case "JIF", "JZ":
		return machine.OP_JIF, true
	case "LT":
		return machine.OP_LT, true
	case "EQ":
		return machine.OP_EQ, true
	case "STOP", "HALT":
		return machine.OP_STOP, true
	}

	return 0, false
}

func parseLiteral(token *Token) (int64, error) {
	result, err := encoding.DecodeNumber(token.Value)

	if err != nil {
		return 0, &InvalidLiteralError{token.Position}
	}

	return result, nil
}

func isLiteral(value string) bool {
	if len(value) == 0 {
		return false
	}

	if value[0] == '-' || unicode.IsDigit(rune(value[0])) {
		return true
	}

	// Hex literals have no leading zero (i.e. x2A)
	if value[0] == 'x' || value[0] == 'X' {
		for _, char := range value[1:] {
			if !unicode.Is(unicode.ASCII_Hex_Digit, char) {
				return false
			}
		}

		return len(value) > 1
	}

	return false
}

// Splits a line into tokens. Operands are separated by whitespace or commas
// and ';' starts a comment.
func tokenize(line string, cursor Cursor) (tokens []Token, errs []error) {
	var builder strings.Builder
	var tokenStart int
	var immediate bool

	flush := func() {
		if builder.Len() == 0 && !immediate {
			return
		}

		token := Token{
			Value:     builder.String(),
			Immediate: immediate,
			Position: Cursor{
				Line:     cursor.Line,
				Column:   tokenStart,
				Byte:     cursor.LineByte + int64(tokenStart-1),
				Size:     int64(builder.Len()),
				LineByte: cursor.LineByte,
			},
		}

		if immediate {
			token.Position.Size++
		}

		switch {
		case strings.HasPrefix(token.Value, "."):
			token.Type = TOKEN_DIRECTIVE
		case isLiteral(token.Value):
			token.Type = TOKEN_LITERAL
		default:
			token.Type = TOKEN_IDENT
		}

		tokens = append(tokens, token)
		builder.Reset()
		immediate = false
	}

	for i, char := range line {
		cursor.Column = i + 1

		if char > unicode.MaxASCII {
			errs = append(errs, &OversizedCharacterError{cursor})
			continue
		}

		switch {
		case char == ';':
			flush()
			return

		case unicode.IsSpace(char) || char == ',':
			flush()

		case char == '#':
			if builder.Len() > 0 || immediate {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
				continue
			}

			tokenStart = cursor.Column
			immediate = true

		case char == '.':
			if builder.Len() > 0 || immediate {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
				continue
			}

			tokenStart = cursor.Column
			builder.WriteRune(char)

		case char == '-':
			if builder.Len() > 0 {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
				continue
			}

			if !immediate {
				tokenStart = cursor.Column
			}

			builder.WriteRune(char)

		case char == '_' || unicode.IsLetter(char) || unicode.IsDigit(char):
			if builder.Len() == 0 && !immediate {
				tokenStart = cursor.Column
			}

			builder.WriteRune(char)

		default:
			errs = append(errs, &UnexpectedCharacterError{cursor, char})
		}
	}

	flush()
	return
}

// AssembleSource translates intcode assembly into a program image. Every
// error found is collected rather than stopping at the first one. When
// symtable is non-nil it receives the source offset of every statement and
// every label's address.
//
//	loop    in    value          ; position operand
//	        mul   value, #2, out ; immediate operand
//	        out   out
//	        jit   #1, #loop
//	value   .fill 0
//	out     .blkw 1
func AssembleSource(input io.Reader, symtable *SymTable) (result []int64, errs []error) {
	type LabelRef struct {
		Label    string
		Addr     int64
		Position Cursor
	}

	var labels = make(map[string]int64)
	var labelRefs []LabelRef

	var scanner = bufio.NewScanner(input)
	var cursor = Cursor{Line: 1}

	result = make([]int64, 0, 256)
	errs = make([]error, 0)

	next := func(line string) {
		cursor.Line++
		cursor.LineByte += int64(len(line) + 1)
		cursor.Byte = cursor.LineByte
	}

	// Emits one cell for an operand, deferring labels until the whole source
	// has been read
	emit := func(operand *Token) {
		switch operand.Type {
		case TOKEN_LITERAL:
			literal, err := parseLiteral(operand)

			if err != nil {
				errs = append(errs, err)
			}

			result = append(result, literal)

		case TOKEN_IDENT:
			if addr, exists := labels[operand.Value]; exists {
				result = append(result, addr)
			} else {
				labelRefs = append(
					labelRefs,
					LabelRef{
						operand.Value,
						int64(len(result)),
						operand.Position,
					},
				)
				result = append(result, 0)
			}

		default:
			errs = append(
				errs,
				&InvalidOperandError{
					operand.Position,
					[]TokenType{TOKEN_LITERAL, TOKEN_IDENT},
					operand.Type,
				},
			)
			result = append(result, 0)
		}
	}

	for scanner.Scan() {
		line := scanner.Text()

		tokens, lineErrs := tokenize(line, cursor)

		if len(lineErrs) > 0 {
			errs = append(errs, lineErrs...)
			next(line)
			continue
		}

		if len(tokens) == 0 {
			next(line)
			continue
		}

		// A leading identifier that is not a mnemonic declares a label
		if tokens[0].Type == TOKEN_IDENT && !tokens[0].Immediate {
			if _, isInstruction := parseInstruction(tokens[0].Value); !isInstruction {
				label := &tokens[0]

				if _, exists := labels[label.Value]; !exists {
					labels[label.Value] = int64(len(result))

					if symtable != nil {
						symtable.Labels[int64(len(result))] = label.Value
					}
				} else {
					errs = append(
						errs, &RedeclaredLabelError{label.Position, label.Value},
					)
				}

				tokens = tokens[1:]
			}
		}

		if len(tokens) == 0 {
			next(line)
			continue
		}

		keyword := &tokens[0]
		operands := tokens[1:]

		if symtable != nil {
			symtable.Symbols[int64(len(result))] = cursor.LineByte
		}

		if op, isInstruction := parseInstruction(keyword.Value); isInstruction {
			if count := len(operands); count != op.Width()-1 {
				errs = append(
					errs,
					&InvalidNumArgumentsError{
						keyword.Position, op.Width() - 1, count,
					},
				)

				next(line)
				continue
			}

			var modes [machine.MODE_SLOTS]machine.Mode

			for i, operand := range operands {
				if operand.Immediate {
					modes[i] = machine.MODE_IMMEDIATE
				}
			}

			result = append(result, machine.Encode(op, modes))

			for i := range operands {
				emit(&operands[i])
			}

			next(line)
			continue
		}

		directive := DIRECTIVE_INVALID

		if keyword.Type == TOKEN_DIRECTIVE {
			directive = parseDirective(keyword.Value)
		}

		if directive == DIRECTIVE_END {
			if count := len(operands); count != 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 0, count},
				)
			}

			break
		}

		switch directive {
		// .FILL #[, #...]
		case DIRECTIVE_FILL:
			if len(operands) == 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, 0},
				)
			}

			for i := range operands {
				emit(&operands[i])
			}

		// .BLKW #
		case DIRECTIVE_BLKW:
			if count := len(operands); count != 1 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, count},
				)

				break
			}

			if operands[0].Type != TOKEN_LITERAL {
				errs = append(
					errs,
					&InvalidOperandError{
						operands[0].Position,
						[]TokenType{TOKEN_LITERAL},
						operands[0].Type,
					},
				)

				break
			}

			size, err := parseLiteral(&operands[0])

			if err != nil {
				errs = append(errs, err)
				break
			}

			if size < 0 {
				errs = append(errs, &InvalidLiteralError{operands[0].Position})
				break
			}

			result = append(result, make([]int64, size)...)

		default:
			errs = append(
				errs,
				&UnknownIdentifierError{keyword.Position, keyword.Value},
			)
		}

		next(line)
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}

	for _, ref := range labelRefs {
		if addr, exists := labels[ref.Label]; exists {
			result[ref.Addr] = addr
		} else {
			errs = append(errs, &UnknownLabelError{ref.Position, ref.Label})
		}
	}

	return result, errs
}
