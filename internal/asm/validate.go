package asm

import (
	"strconv"
	"strings"
)

// validate.go validates directive and instruction syntax: `.data`,
// `.string`, `.extern`, `.entry`, and the sixteen instructions with their
// per-opcode addressing-mode rules. Validators never touch the symbol
// table or the image; they only classify a line and report ErrorKind
// diagnostics, so first pass and second pass can trust their output.

// Operand is a parsed instruction operand, not yet resolved against the
// symbol table (that happens in encode.go / secondpass.go).
type Operand struct {
	Mode  AddressingMode
	Reg   uint8  // valid when Mode == Register
	Value int32  // valid when Mode == Immediate
	Label string // valid when Mode == Direct or Mode == Relative
}

// parseOperand classifies a single operand token.
func parseOperand(tok string) (Operand, ErrorKind) {
	switch {
	case tok == "":
		return Operand{}, ErrInvalidParamCount

	case strings.HasPrefix(tok, "#"):
		n, err := strconv.ParseInt(tok[1:], 10, 32)
		if err != nil {
			return Operand{}, ErrInvalidImmediateOperand
		}

		return Operand{Mode: Immediate, Value: int32(n)}, ErrNone

	case strings.HasPrefix(tok, "&"):
		label := tok[1:]
		if !isValidLabelName(label) {
			return Operand{}, ErrIllegalLabel
		}

		return Operand{Mode: Relative, Label: label}, ErrNone

	default:
		if reg, ok := isRegister(tok); ok {
			return Operand{Mode: Register, Reg: reg}, ErrNone
		}

		if !isValidLabelName(tok) {
			return Operand{}, ErrIllegalLabel
		}

		return Operand{Mode: Direct, Label: tok}, ErrNone
	}
}

// validateOperand checks a parsed operand against the legal addressing
// modes for its position, returning onInvalid (the specific error the
// instruction table names for that slot) if the mode isn't legal.
func validateOperand(op Operand, legal uint8, onInvalid ErrorKind) ErrorKind {
	if legal&(1<<op.Mode) != 0 {
		return ErrNone
	}

	return onInvalid
}

// ParsedInstruction is a fully validated instruction line, ready for
// encode.go.
type ParsedInstruction struct {
	Op    Opcode
	Funct uint8
	Src   *Operand
	Dest  *Operand
}

// ValidateInstruction parses and validates operator/operands against the
// instruction table (image.go). It does not know about labels already
// defined on this line (see ErrLabelUsedInSameLine, checked in firstpass.go
// where the label context is available).
func ValidateInstruction(operator string, operandText string) (ParsedInstruction, ErrorKind) {
	entry, known := instructionTable[operator]
	if !known {
		return ParsedInstruction{}, ErrUnknownCommand
	}

	operandText = strings.TrimSpace(operandText)

	var operands []string

	if operandText != "" {
		rest := operandText

		for {
			head, tail, hasComma := splitComma(rest)

			if head == "" {
				if len(operands) > 0 {
					return ParsedInstruction{}, ErrConsecutiveCommas
				}

				return ParsedInstruction{}, ErrInvalidParamCount
			}

			operands = append(operands, head)

			if !hasComma {
				break
			}

			if tail == "" {
				return ParsedInstruction{}, ErrConsecutiveCommas
			}

			rest = tail
		}
	}

	if len(operands) != entry.Params.Count {
		return ParsedInstruction{}, ErrInvalidParamCount
	}

	result := ParsedInstruction{Op: entry.Op, Funct: entry.Funct}

	switch entry.Params.Count {
	case 0:
		// nothing to parse

	case 1:
		op, kind := parseOperand(operands[0])
		if kind != ErrNone {
			return ParsedInstruction{}, kind
		}

		if kind := validateOperand(op, entry.Params.Dest, entry.Params.DestErr); kind != ErrNone {
			return ParsedInstruction{}, kind
		}

		result.Dest = &op

	case 2:
		src, kind := parseOperand(operands[0])
		if kind != ErrNone {
			return ParsedInstruction{}, kind
		}

		if kind := validateOperand(src, entry.Params.Src, entry.Params.SrcErr); kind != ErrNone {
			return ParsedInstruction{}, kind
		}

		dest, kind := parseOperand(operands[1])
		if kind != ErrNone {
			return ParsedInstruction{}, kind
		}

		if kind := validateOperand(dest, entry.Params.Dest, entry.Params.DestErr); kind != ErrNone {
			return ParsedInstruction{}, kind
		}

		result.Src = &src
		result.Dest = &dest
	}

	return result, ErrNone
}

// DataDirective is a validated `.data` directive: a list of integers, each
// within the machine's 24-bit signed range.
type DataDirective struct {
	Values []int32
}

const (
	dataMin = -(1 << 23)
	dataMax = (1 << 23) - 1
)

// ValidateData validates the text following `.data`.
func ValidateData(text string) (DataDirective, ErrorKind) {
	text = strings.TrimSpace(text)
	if text == "" {
		return DataDirective{}, ErrInvalidDataNoNumber
	}

	var values []int32

	rest := text

	for {
		head, tail, hasComma := splitComma(rest)

		if head == "" {
			return DataDirective{}, ErrInvalidDataTrailingComma
		}

		n, err := strconv.ParseInt(head, 10, 64)
		if err != nil {
			switch {
			case strings.ContainsRune(head, '.'):
				return DataDirective{}, ErrInvalidDataRealNumber
			case strings.ContainsAny(head, " \t"):
				return DataDirective{}, ErrInvalidDataMissingComma
			default:
				return DataDirective{}, ErrInvalidDataNonNumeric
			}
		}

		if n < dataMin || n > dataMax {
			return DataDirective{}, ErrInvalidDataTooLarge
		}

		values = append(values, int32(n))

		if !hasComma {
			break
		}

		if tail == "" {
			return DataDirective{}, ErrInvalidDataTrailingComma
		}

		rest = tail
	}

	return DataDirective{Values: values}, ErrNone
}

// ValidateString validates the text following `.string`: a double-quoted
// string with no trailing characters.
func ValidateString(text string) (string, ErrorKind) {
	text = strings.TrimSpace(text)

	if text == "" {
		return "", ErrStringNoValue
	}

	if text[0] != '"' {
		return "", ErrInvalidStringNoQuote
	}

	end := strings.IndexByte(text[1:], '"')
	if end < 0 {
		return "", ErrInvalidStringMissingEndQuote
	}

	end++ // index was relative to text[1:]

	if strings.TrimSpace(text[end+1:]) != "" {
		return "", ErrInvalidStringExtraChars
	}

	return text[1:end], ErrNone
}

// ValidateLabelDecl validates a label declaration (the part before the
// colon) against length, character set, and the reserved-word list.
func ValidateLabelDecl(name string) ErrorKind {
	if name == "" {
		return ErrIllegalLabelStart
	}

	if len(name) > maxLabelLen {
		return ErrLabelTooLong
	}

	if !isLetter(name[0]) {
		return ErrIllegalLabelStart
	}

	for i := 1; i < len(name); i++ {
		if !isAlnum(name[i]) {
			return ErrIllegalLabelChar
		}
	}

	if reservedWords[name] {
		return ErrLabelIsReservedWord
	}

	if _, ok := isRegister(name); ok {
		return ErrLabelIsRegister
	}

	return ErrNone
}
