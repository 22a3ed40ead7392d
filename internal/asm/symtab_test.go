package asm

import (
	"fmt"
	"testing"
)

func TestSymbolTable_InsertLookup(t *testing.T) {
	tab := NewSymbolTable()

	if err := tab.Insert(Symbol{Name: "LOOP", Line: 1, Kind: SymCode, Address: 100}); err != nil {
		t.Fatalf("Insert: %s", err)
	}

	sym, ok := tab.Lookup("LOOP")
	if !ok {
		t.Fatal("expected LOOP to be found")
	}

	if sym.Address != 100 || sym.Kind != SymCode {
		t.Errorf("Lookup(LOOP) = %+v, want Address=100 Kind=SymCode", sym)
	}

	if _, ok := tab.Lookup("NOPE"); ok {
		t.Error("expected NOPE to be absent")
	}
}

func TestSymbolTable_InsertDuplicate(t *testing.T) {
	tab := NewSymbolTable()
	_ = tab.Insert(Symbol{Name: "LOOP", Kind: SymCode})

	if err := tab.Insert(Symbol{Name: "LOOP", Kind: SymCode}); err == nil {
		t.Error("expected an error inserting a duplicate symbol")
	}
}

func TestSymbolTable_InsertFull(t *testing.T) {
	tab := NewSymbolTable()

	for i := 0; i < maxSymbols; i++ {
		name := fmt.Sprintf("sym%d", i)
		if err := tab.Insert(Symbol{Name: name, Kind: SymCode}); err != nil {
			t.Fatalf("Insert #%d: %s", i, err)
		}
	}

	if err := tab.Insert(Symbol{Name: "overflow", Kind: SymCode}); err == nil {
		t.Error("expected an error inserting past capacity")
	}
}

func TestSymbolTable_MarkEntry(t *testing.T) {
	tab := NewSymbolTable()
	_ = tab.Insert(Symbol{Name: "MAIN", Kind: SymCode})
	_ = tab.Insert(Symbol{Name: "EXT1", Kind: SymExternal})

	if kind := tab.MarkEntry("MISSING"); kind != ErrUndefinedEntryLabel {
		t.Errorf("MarkEntry(missing) = %v, want ErrUndefinedEntryLabel", kind)
	}

	if kind := tab.MarkEntry("EXT1"); kind != ErrLabelNotDefinedInFile {
		t.Errorf("MarkEntry(extern) = %v, want ErrLabelNotDefinedInFile", kind)
	}

	if kind := tab.MarkEntry("MAIN"); kind != ErrNone {
		t.Fatalf("MarkEntry(MAIN) = %v, want ErrNone", kind)
	}

	sym, _ := tab.Lookup("MAIN")
	if sym.Kind&SymEntry == 0 {
		t.Error("expected MAIN to be marked SymEntry")
	}

	if kind := tab.MarkEntry("MAIN"); kind != ErrDuplicateEntryLabel {
		t.Errorf("MarkEntry(MAIN) twice = %v, want ErrDuplicateEntryLabel", kind)
	}
}

func TestSymbolTable_RelocateData(t *testing.T) {
	tab := NewSymbolTable()
	_ = tab.Insert(Symbol{Name: "CODE", Kind: SymCode, Address: 100})
	_ = tab.Insert(Symbol{Name: "NUM", Kind: SymData, Address: 0})
	_ = tab.Insert(Symbol{Name: "STR", Kind: SymData, Address: 2})

	tab.RelocateData(109)

	code, _ := tab.Lookup("CODE")
	if code.Address != 100 {
		t.Errorf("code symbol moved: got %d, want 100", code.Address)
	}

	num, _ := tab.Lookup("NUM")
	if num.Address != 109 {
		t.Errorf("NUM address = %d, want 109", num.Address)
	}

	str, _ := tab.Lookup("STR")
	if str.Address != 111 {
		t.Errorf("STR address = %d, want 111", str.Address)
	}
}
