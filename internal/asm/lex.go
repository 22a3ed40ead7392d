package asm

import "strings"

// lex.go holds the small lexical helpers shared by the macro preprocessor
// and the two assembly passes: whitespace and token skipping, and the
// register and label-name recognizers used throughout operand validation.

const (
	maxLabelLen = 30
	maxLineLen  = 80
	maxSymbols  = 100
	maxMacros   = 50
)

var reservedWords = map[string]bool{
	"mov": true, "cmp": true, "add": true, "sub": true, "lea": true,
	"clr": true, "not": true, "inc": true, "dec": true, "jmp": true,
	"bne": true, "jsr": true, "red": true, "prn": true, "rts": true,
	"stop": true,
	".data": true, ".string": true, ".entry": true, ".extern": true,
	"mcro": true, "mcroend": true,
}

// skipSpace returns s with leading space/tab runes removed.
func skipSpace(s string) string {
	return strings.TrimLeft(s, " \t")
}

// splitToken splits s at the first run of whitespace, returning the token
// and the (space-trimmed) remainder.
func splitToken(s string) (token, rest string) {
	s = skipSpace(s)

	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}

	return s[:i], skipSpace(s[i:])
}

// splitComma splits s at the first comma, trimming surrounding space from
// both halves. ok is false if no comma was present.
func splitComma(s string) (head, rest string, ok bool) {
	i := strings.IndexByte(s, ',')
	if i < 0 {
		return strings.TrimSpace(s), "", false
	}

	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
}

// isRegister reports whether tok names one of the eight machine registers,
// and if so, which.
func isRegister(tok string) (reg uint8, ok bool) {
	if len(tok) != 2 || tok[0] != 'r' {
		return 0, false
	}

	if tok[1] < '0' || tok[1] > '7' {
		return 0, false
	}

	return tok[1] - '0', true
}

// resemblesInvalidRegister reports whether tok looks like an attempt at a
// register name but names a digit outside 0-7, e.g. "r9" or "r12".
func resemblesInvalidRegister(tok string) bool {
	if len(tok) < 2 || tok[0] != 'r' {
		return false
	}

	for _, c := range tok[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}

	_, ok := isRegister(tok)

	return !ok
}

// isLetter and isDigit mirror the C library predicates the original
// assembler used to validate label and macro names.
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool  { return isLetter(c) || isDigit(c) }

// isValidLabelName reports whether name follows the label grammar: starts
// with a letter, continues with letters and digits only, and is within the
// length limit.
func isValidLabelName(name string) bool {
	if name == "" || len(name) > maxLabelLen {
		return false
	}

	if !isLetter(name[0]) {
		return false
	}

	for i := 1; i < len(name); i++ {
		if !isAlnum(name[i]) {
			return false
		}
	}

	return true
}
