package asm

import (
	"bufio"
	"io"
	"strings"
)

// firstpass.go is the first-pass driver (C8): it scans the expanded `.am`
// source line by line, builds the symbol table, and partially encodes the
// image. Data directives are buffered in a queue using DC-relative
// addresses, since their final, absolute addresses aren't known until every
// line of code has been counted; Finish appends the queue to the image and
// fixes up the data symbols' addresses once the final IC is known.

type entryRequest struct {
	Name string
	Line int
}

type externRequest struct {
	Name string
	Line int
}

// FirstPass holds the state accumulated while scanning one source file.
type FirstPass struct {
	Image   *Image
	Symbols *SymbolTable
	sink    Sink

	dataQueue []Word
	entries   []entryRequest
	externs   []externRequest

	ok bool
}

// NewFirstPass returns a FirstPass reporting diagnostics to sink.
func NewFirstPass(sink Sink) *FirstPass {
	return &FirstPass{
		Image:   NewImage(),
		Symbols: NewSymbolTable(),
		sink:    sink,
		ok:      true,
	}
}

// Run scans every line of in.
func (fp *FirstPass) Run(in io.Reader) bool {
	scanner := bufio.NewScanner(in)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fp.line(lineNo, scanner.Text())
	}

	return fp.ok
}

func (fp *FirstPass) report(line int, kind ErrorKind) {
	fp.sink.Report(Diagnostic{Line: line, Err: kind})
	fp.ok = false
}

func (fp *FirstPass) warn(line int, kind WarningKind) {
	fp.sink.Report(Diagnostic{Line: line, Warn: kind})
}

func (fp *FirstPass) line(lineNo int, raw string) {
	text := strings.TrimRight(raw, " \t")
	if strings.TrimSpace(text) == "" || strings.HasPrefix(strings.TrimSpace(text), ";") {
		return
	}

	label := ""

	if i := strings.IndexByte(text, ':'); i >= 0 && !strings.ContainsAny(text[:i], " \t") {
		label = text[:i]
		text = strings.TrimSpace(text[i+1:])

		if kind := ValidateLabelDecl(label); kind != ErrNone {
			fp.report(lineNo, kind)
			return
		}

		if resemblesInvalidRegister(label) {
			fp.warn(lineNo, WarnLabelResemblesInvalidRegister)
		}
	}

	operator, rest := splitToken(text)

	switch operator {
	case ".extern":
		if label != "" {
			fp.warn(lineNo, WarnLabelBeforeExtern)
		}

		fp.externDirective(lineNo, rest)

	case ".entry":
		if label != "" {
			fp.warn(lineNo, WarnLabelBeforeEntry)
		}

		fp.entryDirective(lineNo, rest)

	case ".data":
		fp.dataDirective(lineNo, label, rest)

	case ".string":
		fp.stringDirective(lineNo, label, rest)

	default:
		fp.instruction(lineNo, label, operator, rest)
	}
}

func (fp *FirstPass) externDirective(lineNo int, rest string) {
	name := strings.TrimSpace(rest)
	if name == "" {
		fp.report(lineNo, ErrExternMissingLabel)
		return
	}

	tok, extra := splitToken(name)
	if extra != "" {
		fp.report(lineNo, ErrExternExtraText)
		return
	}

	if kind := ValidateLabelDecl(tok); kind != ErrNone {
		fp.report(lineNo, kind)
		return
	}

	if existing, ok := fp.Symbols.Lookup(tok); ok {
		if existing.Kind&SymExternal != 0 {
			fp.report(lineNo, ErrLabelAlreadyExtern)
			return
		}

		fp.report(lineNo, ErrExternLabelConflict)

		return
	}

	if err := fp.Symbols.Insert(Symbol{Name: tok, Line: lineNo, Kind: SymExternal}); err != nil {
		fp.report(lineNo, ErrVPCStorageFull)
	}

	fp.externs = append(fp.externs, externRequest{Name: tok, Line: lineNo})
}

func (fp *FirstPass) entryDirective(lineNo int, rest string) {
	name := strings.TrimSpace(rest)
	if name == "" {
		fp.report(lineNo, ErrEntryMissingLabel)
		return
	}

	tok, extra := splitToken(name)
	if extra != "" {
		fp.report(lineNo, ErrEntryExtraText)
		return
	}

	if !isValidLabelName(tok) {
		fp.report(lineNo, ErrIllegalLabel)
		return
	}

	fp.entries = append(fp.entries, entryRequest{Name: tok, Line: lineNo})
}

func (fp *FirstPass) declareLabel(lineNo int, label string, kind SymbolKind, addr uint32) {
	if label == "" {
		return
	}

	if _, exists := fp.Symbols.Lookup(label); exists {
		fp.report(lineNo, ErrLabelDuplicate)
		return
	}

	if err := fp.Symbols.Insert(Symbol{Name: label, Line: lineNo, Kind: kind, Address: addr}); err != nil {
		fp.report(lineNo, ErrVPCStorageFull)
	}
}

func (fp *FirstPass) dataDirective(lineNo int, label, rest string) {
	d, kind := ValidateData(rest)
	if kind != ErrNone {
		fp.report(lineNo, kind)
		return
	}

	fp.declareLabel(lineNo, label, SymData, uint32(len(fp.dataQueue)))

	fp.dataQueue = append(fp.dataQueue, EncodeData(d)...)
	fp.Image.DC += uint32(len(d.Values))
}

func (fp *FirstPass) stringDirective(lineNo int, label, rest string) {
	s, kind := ValidateString(rest)
	if kind != ErrNone {
		fp.report(lineNo, kind)
		return
	}

	fp.declareLabel(lineNo, label, SymData, uint32(len(fp.dataQueue)))

	words := EncodeString(s)
	fp.dataQueue = append(fp.dataQueue, words...)
	fp.Image.DC += uint32(len(words))
}

func (fp *FirstPass) instruction(lineNo int, label, operator, rest string) {
	instr, kind := ValidateInstruction(operator, rest)
	if kind != ErrNone {
		fp.report(lineNo, kind)
		return
	}

	if label != "" {
		if instr.Src != nil && instr.Src.Label == label {
			fp.report(lineNo, ErrLabelUsedInSameLine)
			return
		}

		if instr.Dest != nil && instr.Dest.Label == label {
			fp.report(lineNo, ErrLabelUsedInSameLine)
			return
		}
	}

	addr := fp.Image.IC

	fp.declareLabel(lineNo, label, SymCode, addr)

	words := EncodeInstruction(instr)

	for i := range words {
		words[i].Line = lineNo
	}

	for _, w := range words {
		if _, err := fp.Image.AppendCode(w); err != nil {
			fp.report(lineNo, ErrVPCStorageFull)
			return
		}
	}
}

// Finish appends the buffered data queue after the code section and
// relocates every data symbol's address by the final instruction counter,
// per §4.7. It returns the final IC, i.e. where data now begins.
func (fp *FirstPass) Finish() uint32 {
	base := fp.Image.IC

	for _, w := range fp.dataQueue {
		_, _ = fp.Image.AppendCode(w)
	}

	fp.Symbols.RelocateData(base)

	return base
}

// Entries returns the `.entry` directives collected during the scan, for
// the second pass to validate once the whole symbol table is known.
func (fp *FirstPass) Entries() []entryRequest { return fp.entries }

// Externs returns the `.extern` directives collected during the scan.
func (fp *FirstPass) Externs() []externRequest { return fp.externs }
