package asm

import (
	"fmt"
	"io"
	"sort"
)

// emit.go is the emitter (C10): it writes the three artifacts an assembled
// file produces. Formats match the original assembler's output exactly,
// since downstream tooling (a would-be linker) depends on them byte for
// byte:
//
//	.ob   "%7d %d\n" header (code words, data words), then one
//	      "%07d %06x\n" line per word from icBase to the end of data.
//	.ent  one "%s %07u\n" line per entry symbol, sorted by address.
//	.ext  one "%s %07u\n" line per external use site, in patch order.

// Emitter writes the object, entry, and external files for one assembled
// unit.
type Emitter struct {
	Image   *Image
	Symbols *SymbolTable
	Externs []ExternalUse

	// CodeEnd is the address immediately past the last code word, i.e. the
	// Image.IC value the first pass left behind before Finish appended the
	// data queue. Image.IC itself has since advanced past the data too, so
	// WriteObject must use this instead to tell code words from data words.
	CodeEnd uint32
}

// NewEmitter returns an Emitter for the given assembled state. codeEnd is
// the first pass's final IC, i.e. the boundary between code and data.
func NewEmitter(image *Image, codeEnd uint32, symbols *SymbolTable, externs []ExternalUse) *Emitter {
	return &Emitter{Image: image, CodeEnd: codeEnd, Symbols: symbols, Externs: externs}
}

// WriteObject writes the `.ob` file: a header of (code word count, data
// word count), followed by one line per word.
func (e *Emitter) WriteObject(out io.Writer) error {
	codeCount := int(e.CodeEnd) - icBase
	dataCount := int(e.Image.DC)

	if _, err := fmt.Fprintf(out, "%7d %d\n", codeCount, dataCount); err != nil {
		return err
	}

	for addr := icBase; addr < icBase+codeCount+dataCount; addr++ {
		w := e.Image.Storage[addr]
		if _, err := fmt.Fprintf(out, "%07d %06x\n", addr, w.Masked()); err != nil {
			return err
		}
	}

	return nil
}

// WriteEntries writes the `.ent` file: entry symbols sorted by address. It
// writes nothing (not even an empty file marker) if there are no entries;
// the caller decides whether to create the file at all.
func (e *Emitter) WriteEntries(out io.Writer) error {
	var entries []*Symbol

	e.Symbols.Iterate(func(s *Symbol) {
		if s.Kind&SymEntry != 0 {
			entries = append(entries, s)
		}
	})

	sort.Slice(entries, func(i, j int) bool { return entries[i].Address < entries[j].Address })

	for _, s := range entries {
		if _, err := fmt.Fprintf(out, "%s %07d\n", s.Name, s.Address); err != nil {
			return err
		}
	}

	return nil
}

// HasEntries reports whether any symbol was marked `.entry`, so the caller
// can skip creating an empty `.ent` file.
func (e *Emitter) HasEntries() bool {
	found := false

	e.Symbols.Iterate(func(s *Symbol) {
		if s.Kind&SymEntry != 0 {
			found = true
		}
	})

	return found
}

// WriteExterns writes the `.ext` file: one line per use site of an external
// symbol, in the order the second pass patched them.
func (e *Emitter) WriteExterns(out io.Writer) error {
	for _, use := range e.Externs {
		if _, err := fmt.Fprintf(out, "%s %07d\n", use.Name, use.Address); err != nil {
			return err
		}
	}

	return nil
}
