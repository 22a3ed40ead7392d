package asm

// secondpass.go is the second-pass driver (C9): it walks the image built by
// the first pass, patches every tagged extension word against the now-
// complete symbol table, and validates `.entry` directives that could not
// be checked until every label in the file had been seen.

// ExternalUse records one site where an external symbol's address was
// patched into a word, for the `.ext` emitter.
type ExternalUse struct {
	Name    string
	Address uint32
}

// SecondPass resolves tagged words in img against symbols.
type SecondPass struct {
	Image   *Image
	Symbols *SymbolTable
	sink    Sink
	ok      bool

	ExternalUses []ExternalUse
}

// NewSecondPass returns a SecondPass reporting to sink.
func NewSecondPass(image *Image, symbols *SymbolTable, sink Sink) *SecondPass {
	return &SecondPass{Image: image, Symbols: symbols, sink: sink, ok: true}
}

// Run patches every tagged word in [icBase, Image.IC) and validates the
// given entry directives. After FirstPass.Finish, Image.IC lies past the
// appended data as well as the code. seenEntries holds names already
// marked, so a repeated .entry warns instead of failing.
func (sp *SecondPass) Run(entries []entryRequest, seenEntries map[string]bool) bool {
	for addr := uint32(icBase); addr < sp.Image.IC; addr++ {
		w := &sp.Image.Storage[addr]

		if w.Patch == NoPatch {
			continue
		}

		sym, ok := sp.Symbols.Lookup(w.Tag)
		if !ok {
			kind := ErrUndefinedLabel
			if w.Patch == PatchRelative {
				kind = ErrUndefinedLabelRelative
			}

			sp.report(w.Line, kind)

			continue
		}

		switch w.Patch {
		case PatchRelative:
			if sym.Kind&SymExternal != 0 {
				sp.report(w.Line, ErrRelativeAddressingExternalLabel)
				continue
			}

			if sym.Kind&SymData != 0 {
				sp.report(w.Line, ErrRelativeAddressingToData)
				continue
			}

			offset := int32(sym.Address) - int32(addr-1)
			w.Value = ((offset & 0x1FFFFF) << 3) | int32(Absolute)

		case PatchDirect:
			are := Relocatable
			if sym.Kind&SymExternal != 0 {
				are = External
				sp.ExternalUses = append(sp.ExternalUses, ExternalUse{Name: sym.Name, Address: addr})
			}

			w.Value = (int32(sym.Address&0x1FFFFF) << 3) | int32(are)
		}

		w.Tag = ""
		w.Patch = NoPatch
	}

	for _, e := range entries {
		if seenEntries[e.Name] {
			sp.sink.Report(Diagnostic{Line: e.Line, Warn: WarnRedundantEntry})
			continue
		}

		seenEntries[e.Name] = true

		if kind := sp.Symbols.MarkEntry(e.Name); kind != ErrNone {
			sp.report(e.Line, kind)
		}
	}

	return sp.ok
}

func (sp *SecondPass) report(line int, kind ErrorKind) {
	sp.sink.Report(Diagnostic{Line: line, Err: kind})
	sp.ok = false
}
