package asm

import (
	"errors"
	"testing"
)

func TestImage_AppendCode(t *testing.T) {
	img := NewImage()

	if img.IC != icBase {
		t.Fatalf("IC = %d, want %d", img.IC, icBase)
	}

	addr, err := img.AppendCode(Word{Value: 0x1})
	if err != nil {
		t.Fatalf("AppendCode: %s", err)
	}

	if addr != icBase {
		t.Errorf("addr = %d, want %d", addr, icBase)
	}

	if img.IC != icBase+1 {
		t.Errorf("IC = %d, want %d", img.IC, icBase+1)
	}

	if img.Storage[addr].Value != 0x1 {
		t.Errorf("stored word = %+v, want Value=1", img.Storage[addr])
	}
}

func TestImage_AppendCodeFull(t *testing.T) {
	img := &Image{IC: storageSize}

	if _, err := img.AppendCode(Word{}); !errors.Is(err, errStorageFull) {
		t.Errorf("AppendCode at capacity: got %v, want errStorageFull", err)
	}
}

func TestWord_Masked(t *testing.T) {
	w := Word{Value: -3}
	if got, want := w.Masked(), uint32(0xfffffd); got != want {
		t.Errorf("Masked() = %#06x, want %#06x", got, want)
	}
}
