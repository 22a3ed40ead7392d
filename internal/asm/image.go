package asm

import "fmt"

// image.go defines the in-memory representation of an assembled program: the
// 24-bit machine word, the virtual program-counter storage array, and the
// fixed opcode/funct table and addressing-mode rules of the instruction set.
//
// The layout mirrors the machine's own bit packing so that Encode and the
// second pass can build and patch words without any intermediate model:
//
//	instruction word, bits 23..0:
//	  23..18 opcode   (6 bits)
//	  17..16 dest mode (2 bits)
//	  15..13 dest reg  (3 bits)
//	  12..11 src mode  (2 bits)
//	  10..8  src reg   (3 bits)
//	  7..3   funct     (5 bits)
//	  2..0   A,R,E     (1 bit each)
//
//	operand extension word, bits 23..0:
//	  23..3  value or address (21 bits)
//	  2..0   A,R,E
const storageSize = 1 << 21

// Word is a single 24-bit storage cell. Tag carries the name of a symbol
// whose address this word's value depends on; it is empty once a word no
// longer needs second-pass resolution. The field exists because the two
// passes are separated: the first pass cannot know a label's final address,
// so it leaves a breadcrumb for the second pass to follow.
type Word struct {
	Value int32
	Tag   string
	Patch PatchKind
	Line  int // source line that produced this word, for diagnostics
}

// PatchKind tells the second pass how to resolve a tagged word.
type PatchKind uint8

const (
	// NoPatch words need no second-pass resolution.
	NoPatch PatchKind = iota
	// PatchDirect words hold a label address, linkage bits set to
	// Relocatable or External depending on the symbol.
	PatchDirect
	// PatchRelative words hold a code-relative signed offset, linkage
	// bits always Absolute.
	PatchRelative
)

// Masked returns a word's value with all but the low 24 bits cleared, the
// shape every word must have before it is written out.
func (w Word) Masked() uint32 {
	return uint32(w.Value) & 0xFFFFFF
}

// ARE are the linkage bits appended to every operand extension word.
type ARE uint8

const (
	// Absolute marks a word whose value needs no further relocation: an
	// immediate operand, or a relative offset computed entirely within
	// this file.
	Absolute ARE = 0b100
	// Relocatable marks a direct-addressed word pointing at a code or
	// data symbol defined in this file; a linker would need to adjust it
	// if the file were relocated.
	Relocatable ARE = 0b010
	// External marks a direct-addressed word pointing at a symbol
	// imported via .extern; a linker resolves it against another file.
	External ARE = 0b001
)

// AddressingMode identifies how an operand's machine address is computed.
//
//go:generate go run golang.org/x/tools/cmd/stringer -type=AddressingMode
type AddressingMode uint8

const (
	// Immediate operands carry a literal constant, e.g. #7.
	Immediate AddressingMode = 0b00
	// Direct operands name a label, e.g. LOOP.
	Direct AddressingMode = 0b01
	// Relative operands are code-only, signed by &, e.g. &LOOP.
	Relative AddressingMode = 0b10
	// Register operands name one of the eight general registers.
	Register AddressingMode = 0b11
)

// Opcode identifies one of the sixteen instructions.
//
//go:generate go run golang.org/x/tools/cmd/stringer -type=Opcode
type Opcode uint8

const (
	MOV Opcode = iota
	CMP
	ADD
	SUB
	LEA
	CLR
	NOT
	INC
	DEC
	JMP
	BNE
	JSR
	RED
	PRN
	RTS
	STOP
)

// Operands describes how many and which kind of operands an opcode takes,
// which addressing modes are legal for each, and which diagnostic to raise
// when an operand violates them.
type Operands struct {
	Count int
	// Src/Dest hold the bitset of legal AddressingMode values (1<<mode)
	// for the source and destination operand, respectively. A Count of 1
	// instruction uses only Dest.
	Src, Dest uint8
	// SrcErr/DestErr name the specific diagnostic the original assembler
	// reports for that slot; which one applies depends on both the slot
	// and the opcode's legal mode set, not just the slot alone (e.g. a
	// two-operand instruction whose source only allows direct addressing
	// reports a different error than one that also allows immediate and
	// register addressing).
	SrcErr, DestErr ErrorKind
}

func modes(ms ...AddressingMode) uint8 {
	var set uint8
	for _, m := range ms {
		set |= 1 << m
	}

	return set
}

// instructionTable is the fixed opcode/funct/addressing-mode table. It is
// the single source of truth for how an instruction is validated and
// encoded; first pass, validate.go, and encode.go all consult it instead of
// re-deriving the rules from the opcode's name.
var instructionTable = map[string]struct {
	Op     Opcode
	Funct  uint8
	Params Operands
}{
	"mov": {MOV, 0, Operands{
		Count: 2,
		Src:   modes(Immediate, Direct, Register), SrcErr: ErrInvalidImmediateDirectOrRegisterFirstOperand,
		Dest: modes(Direct, Register), DestErr: ErrInvalidDirectOrRegisterSecondOperand,
	}},
	"cmp": {CMP, 0, Operands{
		Count: 2,
		Src:   modes(Immediate, Direct, Register), SrcErr: ErrInvalidImmediateDirectOrRegisterFirstOperand,
		Dest: modes(Immediate, Direct, Register), DestErr: ErrInvalidImmediateDirectOrRegisterSecondOperand,
	}},
	"add": {ADD, 1, Operands{
		Count: 2,
		Src:   modes(Immediate, Direct, Register), SrcErr: ErrInvalidImmediateDirectOrRegisterFirstOperand,
		Dest: modes(Direct, Register), DestErr: ErrInvalidDirectOrRegisterSecondOperand,
	}},
	"sub": {SUB, 2, Operands{
		Count: 2,
		Src:   modes(Immediate, Direct, Register), SrcErr: ErrInvalidImmediateDirectOrRegisterFirstOperand,
		Dest: modes(Direct, Register), DestErr: ErrInvalidDirectOrRegisterSecondOperand,
	}},
	"lea": {LEA, 0, Operands{
		Count: 2,
		Src:   modes(Direct), SrcErr: ErrInvalidDirectFirstOperand,
		Dest: modes(Direct, Register), DestErr: ErrInvalidDirectOrRegisterSecondOperand,
	}},
	"clr":  {CLR, 1, Operands{Count: 1, Dest: modes(Direct, Register), DestErr: ErrInvalidDirectOrRegisterOperand}},
	"not":  {NOT, 2, Operands{Count: 1, Dest: modes(Direct, Register), DestErr: ErrInvalidDirectOrRegisterOperand}},
	"inc":  {INC, 3, Operands{Count: 1, Dest: modes(Direct, Register), DestErr: ErrInvalidDirectOrRegisterOperand}},
	"dec":  {DEC, 4, Operands{Count: 1, Dest: modes(Direct, Register), DestErr: ErrInvalidDirectOrRegisterOperand}},
	"jmp":  {JMP, 0, Operands{Count: 1, Dest: modes(Direct, Relative), DestErr: ErrInvalidRelativeOrDirectOperand}},
	"bne":  {BNE, 1, Operands{Count: 1, Dest: modes(Direct, Relative), DestErr: ErrInvalidRelativeOrDirectOperand}},
	"jsr":  {JSR, 2, Operands{Count: 1, Dest: modes(Direct, Relative), DestErr: ErrInvalidRelativeOrDirectOperand}},
	"red":  {RED, 0, Operands{Count: 1, Dest: modes(Direct, Register), DestErr: ErrInvalidDirectOrRegisterOperand}},
	"prn":  {PRN, 0, Operands{Count: 1, Dest: modes(Immediate, Direct, Register), DestErr: ErrInvalidImmediateDirectOrRegisterOperand}},
	"rts":  {RTS, 0, Operands{Count: 0}},
	"stop": {STOP, 0, Operands{Count: 0}},
}

// Image is the virtual program-counter store: a flat array of words plus the
// instruction and data counters used to fill it.
type Image struct {
	Storage [storageSize]Word
	IC      uint32 // next free code address, starts at icBase
	DC      uint32 // count of data words emitted so far, relative to 0
}

// icBase is the first address code is stored at. The low addresses are
// reserved by convention, following the original machine's memory map.
const icBase = 100

// NewImage returns an Image with IC initialized to icBase.
func NewImage() *Image {
	return &Image{IC: icBase}
}

// AppendCode stores a word at the current IC and advances it by one.
func (img *Image) AppendCode(w Word) (uint32, error) {
	addr := img.IC
	if int(addr) >= storageSize {
		return 0, fmt.Errorf("%w: code address %d", errStorageFull, addr)
	}

	img.Storage[addr] = w
	img.IC++

	return addr, nil
}
