package asm

// encode.go turns a validated ParsedInstruction into one or more Words: the
// instruction word itself, plus one extension word per non-register operand
// (register operands are packed directly into the instruction word's own
// register fields, so never need an extra word in this machine).
//
// Extension words for Direct and Relative operands cannot be fully resolved
// here: the first pass doesn't yet know every label's final address (and,
// for Relative, may not have scanned far enough ahead to know it at all).
// Such words are emitted with Tag set to the label name and Value left at
// zero; the second pass (secondpass.go) finds them by Tag and patches Value
// in place.

const (
	opcodeShift   = 18
	destModeShift = 16
	destRegShift  = 13
	srcModeShift  = 11
	srcRegShift   = 8
	functShift    = 3
)

// EncodeInstruction returns the words for instr. Only Immediate operands are
// fully resolved; Direct and Relative operands produce a tagged placeholder
// word for the second pass.
func EncodeInstruction(instr ParsedInstruction) []Word {
	word := Word{
		Value: int32(uint32(instr.Op)<<opcodeShift) | int32(uint32(instr.Funct)<<functShift) | int32(Absolute),
	}

	if instr.Dest != nil {
		word.Value |= int32(uint32(instr.Dest.Mode) << destModeShift)
		if instr.Dest.Mode == Register {
			word.Value |= int32(uint32(instr.Dest.Reg) << destRegShift)
		}
	}

	if instr.Src != nil {
		word.Value |= int32(uint32(instr.Src.Mode) << srcModeShift)
		if instr.Src.Mode == Register {
			word.Value |= int32(uint32(instr.Src.Reg) << srcRegShift)
		}
	}

	words := []Word{word}

	if instr.Src != nil {
		if w, ok := extensionWord(*instr.Src); ok {
			words = append(words, w)
		}
	}

	if instr.Dest != nil {
		if w, ok := extensionWord(*instr.Dest); ok {
			words = append(words, w)
		}
	}

	return words
}

// extensionWord returns the extra word an operand needs, if any.
func extensionWord(op Operand) (Word, bool) {
	switch op.Mode {
	case Immediate:
		return Word{Value: int32(uint32(op.Value&0x1FFFFF)<<functShift) | int32(Absolute)}, true
	case Direct:
		return Word{Tag: op.Label, Patch: PatchDirect}, true
	case Relative:
		return Word{Tag: op.Label, Patch: PatchRelative}, true
	default: // Register
		return Word{}, false
	}
}

// EncodeData returns the words for a `.data` directive's values.
func EncodeData(d DataDirective) []Word {
	words := make([]Word, len(d.Values))

	for i, v := range d.Values {
		words[i] = Word{Value: v & 0xFFFFFF}
	}

	return words
}

// EncodeString returns the words for a `.string` directive: one word per
// character plus a trailing NUL terminator word, matching the original
// assembler's null-terminated string storage.
func EncodeString(s string) []Word {
	words := make([]Word, len(s)+1)

	for i := 0; i < len(s); i++ {
		words[i] = Word{Value: int32(s[i])}
	}

	words[len(s)] = Word{Value: 0}

	return words
}
