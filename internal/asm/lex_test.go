package asm

import "testing"

func TestSplitToken(t *testing.T) {
	tcs := []struct {
		in         string
		tok, rest string
	}{
		{"mov r1, r2", "mov", "r1, r2"},
		{"  stop  ", "stop", ""},
		{"", "", ""},
		{"\tmov", "mov", ""},
	}

	for _, tc := range tcs {
		tok, rest := splitToken(tc.in)
		if tok != tc.tok || rest != tc.rest {
			t.Errorf("splitToken(%q) = (%q, %q), want (%q, %q)", tc.in, tok, rest, tc.tok, tc.rest)
		}
	}
}

func TestSplitComma(t *testing.T) {
	tcs := []struct {
		in               string
		head, rest string
		ok               bool
	}{
		{"r1, r2", "r1", "r2", true},
		{"r1", "r1", "", false},
		{"r1 , r2 , r3", "r1", "r2 , r3", true},
		{"", "", "", false},
	}

	for _, tc := range tcs {
		head, rest, ok := splitComma(tc.in)
		if head != tc.head || rest != tc.rest || ok != tc.ok {
			t.Errorf("splitComma(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.in, head, rest, ok, tc.head, tc.rest, tc.ok)
		}
	}
}

func TestIsRegister(t *testing.T) {
	tcs := []struct {
		tok string
		reg uint8
		ok  bool
	}{
		{"r0", 0, true},
		{"r7", 7, true},
		{"r8", 0, false},
		{"r", 0, false},
		{"rr", 0, false},
		{"R1", 0, false},
	}

	for _, tc := range tcs {
		reg, ok := isRegister(tc.tok)
		if reg != tc.reg || ok != tc.ok {
			t.Errorf("isRegister(%q) = (%d, %v), want (%d, %v)", tc.tok, reg, ok, tc.reg, tc.ok)
		}
	}
}

func TestResemblesInvalidRegister(t *testing.T) {
	tcs := []struct {
		tok string
		out bool
	}{
		{"r9", true},
		{"r12", true},
		{"r7", false},
		{"r0", false},
		{"rx", false},
		{"ready", false},
	}

	for _, tc := range tcs {
		if got := resemblesInvalidRegister(tc.tok); got != tc.out {
			t.Errorf("resemblesInvalidRegister(%q) = %v, want %v", tc.tok, got, tc.out)
		}
	}
}

func TestIsValidLabelName(t *testing.T) {
	tcs := []struct {
		name string
		ok   bool
	}{
		{"LOOP", true},
		{"l1", true},
		{"", false},
		{"1loop", false},
		{"lo op", false},
	}

	for _, tc := range tcs {
		if got := isValidLabelName(tc.name); got != tc.ok {
			t.Errorf("isValidLabelName(%q) = %v, want %v", tc.name, got, tc.ok)
		}
	}

	long := make([]byte, maxLabelLen+1)
	for i := range long {
		long[i] = 'a'
	}

	if isValidLabelName(string(long)) {
		t.Errorf("isValidLabelName accepted a name longer than %d", maxLabelLen)
	}
}
