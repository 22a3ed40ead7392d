package asm

import (
	"strings"
	"testing"
)

func TestPreprocessor_Expand(t *testing.T) {
	src := "mcro CLEAR\nclr r1\nclr r2\nmcroend\nCLEAR\nstop\n"

	sink := &CollectingSink{}
	pre := NewPreprocessor(sink)

	var out strings.Builder
	if !pre.Expand(strings.NewReader(src), &out) {
		t.Fatalf("Expand failed: %+v", sink.Diagnostics)
	}

	want := "clr r1\nclr r2\nstop\n"
	if out.String() != want {
		t.Errorf("Expand() = %q, want %q", out.String(), want)
	}
}

func TestPreprocessor_DuplicateMacro(t *testing.T) {
	src := "mcro CLEAR\nclr r1\nmcroend\nmcro CLEAR\nclr r2\nmcroend\n"

	sink := &CollectingSink{}
	pre := NewPreprocessor(sink)

	var out strings.Builder
	if pre.Expand(strings.NewReader(src), &out) {
		t.Fatal("expected Expand to fail on duplicate macro name")
	}

	if !sink.HasErrors() {
		t.Fatal("expected a diagnostic for the duplicate macro")
	}

	if sink.Errors()[0].Err != ErrMcroDuplicate {
		t.Errorf("got %v, want ErrMcroDuplicate", sink.Errors()[0].Err)
	}
}

func TestPreprocessor_ReservedMacroName(t *testing.T) {
	src := "mcro mov\nclr r1\nmcroend\n"

	sink := &CollectingSink{}
	pre := NewPreprocessor(sink)

	var out strings.Builder
	if pre.Expand(strings.NewReader(src), &out) {
		t.Fatal("expected Expand to fail on a reserved macro name")
	}

	if sink.Errors()[0].Err != ErrMcroReservedName {
		t.Errorf("got %v, want ErrMcroReservedName", sink.Errors()[0].Err)
	}
}

func TestPreprocessor_CallWithExtraText(t *testing.T) {
	src := "mcro CLEAR\nclr r1\nmcroend\nCLEAR extra\n"

	sink := &CollectingSink{}
	pre := NewPreprocessor(sink)

	var out strings.Builder
	if pre.Expand(strings.NewReader(src), &out) {
		t.Fatal("expected Expand to fail on extra text after macro call")
	}

	if sink.Errors()[0].Err != ErrMacroCallExtraText {
		t.Errorf("got %v, want ErrMacroCallExtraText", sink.Errors()[0].Err)
	}
}

func TestPreprocessor_McroendWithComment(t *testing.T) {
	src := "mcro CLEAR\nclr r1\nmcroend ; done\nCLEAR\nstop\n"

	sink := &CollectingSink{}
	pre := NewPreprocessor(sink)

	var out strings.Builder
	if !pre.Expand(strings.NewReader(src), &out) {
		t.Fatalf("Expand failed: %+v", sink.Diagnostics)
	}

	want := "clr r1\nstop\n"
	if out.String() != want {
		t.Errorf("Expand() = %q, want %q", out.String(), want)
	}
}

func TestPreprocessor_McroendWithExtraText(t *testing.T) {
	src := "mcro CLEAR\nclr r1\nmcroend foo\nCLEAR\nstop\n"

	sink := &CollectingSink{}
	pre := NewPreprocessor(sink)

	var out strings.Builder
	if pre.Expand(strings.NewReader(src), &out) {
		t.Fatal("expected Expand to fail on extra text after mcroend")
	}

	if sink.Errors()[0].Err != ErrExtraTextAfterCommand {
		t.Errorf("got %v, want ErrExtraTextAfterCommand", sink.Errors()[0].Err)
	}
}

func TestPreprocessor_DropsBlankLines(t *testing.T) {
	src := "clr r1\n\n   \nclr r2\n"

	sink := &CollectingSink{}
	pre := NewPreprocessor(sink)

	var out strings.Builder
	if !pre.Expand(strings.NewReader(src), &out) {
		t.Fatalf("Expand failed: %+v", sink.Diagnostics)
	}

	if out.String() != "clr r1\nclr r2\n" {
		t.Errorf("Expand() = %q, blank lines should be dropped", out.String())
	}
}
