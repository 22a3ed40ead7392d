package asm

import (
	"errors"
	"fmt"
)

var (
	errDuplicateSymbol = errors.New(ErrLabelDuplicate.Message())
	errSymbolTableFull = errors.New("symbol table is full")
)

// symtab.go implements the symbol table: an ordered, fixed-capacity
// collection of labels with their kind and, once resolved, their address.
// Code and data symbols are added during the first pass with addresses that
// are later fixed up (data symbols are DC-relative until the final IC is
// known); external symbols carry no address at all.

// SymbolKind is a bitset: Entry is OR'd onto Code or Data once a .entry
// directive names the symbol.
type SymbolKind uint8

const (
	SymCode SymbolKind = 1 << iota
	SymData
	SymExternal
	SymEntry
)

func (k SymbolKind) String() string {
	switch {
	case k&SymExternal != 0:
		return "external"
	case k&SymData != 0 && k&SymEntry != 0:
		return "data+entry"
	case k&SymData != 0:
		return "data"
	case k&SymCode != 0 && k&SymEntry != 0:
		return "code+entry"
	case k&SymCode != 0:
		return "code"
	default:
		return "unknown"
	}
}

// Symbol is one entry in the symbol table.
type Symbol struct {
	Name    string
	Line    int
	Address uint32
	Kind    SymbolKind
}

// SymbolTable is the ordered, fixed-capacity label table of a single
// assembly unit. Order matters for deterministic .ent output (callers sort
// by address, not insertion order, per the emitter's contract) and for
// Iterate, which callers rely on during the entry-fixup pass.
type SymbolTable struct {
	order []string
	byName map[string]*Symbol
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byName: make(map[string]*Symbol)}
}

// Lookup returns the symbol named name, if any.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// Insert adds a new symbol. It returns an error wrapping errDuplicateSymbol
// if the name is already present, and one wrapping errSymbolTableFull if the
// table is at capacity.
func (t *SymbolTable) Insert(sym Symbol) error {
	if _, exists := t.byName[sym.Name]; exists {
		return fmt.Errorf("%s: %w", sym.Name, errDuplicateSymbol)
	}

	if len(t.order) >= maxSymbols {
		return fmt.Errorf("%s: %w", sym.Name, errSymbolTableFull)
	}

	cp := sym
	t.byName[sym.Name] = &cp
	t.order = append(t.order, sym.Name)

	return nil
}

// MarkEntry marks an existing symbol as an entry point. It diagnoses the
// three ways this can go wrong: the name isn't defined at all, the name is
// defined but only as an external (so it cannot also be an entry, in this
// file), or it is already marked.
func (t *SymbolTable) MarkEntry(name string) ErrorKind {
	sym, ok := t.byName[name]
	if !ok {
		return ErrUndefinedEntryLabel
	}

	if sym.Kind&SymExternal != 0 {
		return ErrLabelNotDefinedInFile
	}

	if sym.Kind&SymEntry != 0 {
		return ErrDuplicateEntryLabel
	}

	sym.Kind |= SymEntry

	return ErrNone
}

// Iterate calls fn for every symbol in insertion order.
func (t *SymbolTable) Iterate(fn func(*Symbol)) {
	for _, name := range t.order {
		fn(t.byName[name])
	}
}

// Count returns the number of symbols currently in the table.
func (t *SymbolTable) Count() int { return len(t.order) }

// RelocateData adds base to the address of every data symbol, converting
// the DC-relative addresses assigned during the first pass into absolute
// addresses once the final instruction counter is known (§4.7).
func (t *SymbolTable) RelocateData(base uint32) {
	for _, name := range t.order {
		sym := t.byName[name]
		if sym.Kind&SymData != 0 {
			sym.Address += base
		}
	}
}
