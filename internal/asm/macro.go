package asm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// macro.go implements the macro table and the text-substitution
// preprocessor that expands "mcro NAME" / "mcroend" blocks into a `.am`
// intermediate, before any label or instruction semantics apply.

// Macro is a named block of source lines, recorded verbatim.
type Macro struct {
	Name string
	Body []string
}

// MacroTable holds macros by name and records their definition order, whose
// length caps the table at maxMacros. A call that appears before its
// macro's definition is not diagnosed here; the line is copied through
// unchanged.
type MacroTable struct {
	order []string
	byName map[string]*Macro
}

// NewMacroTable returns an empty table.
func NewMacroTable() *MacroTable {
	return &MacroTable{byName: make(map[string]*Macro)}
}

func (t *MacroTable) lookup(name string) (*Macro, bool) {
	m, ok := t.byName[name]
	return m, ok
}

func (t *MacroTable) define(name string) (*Macro, error) {
	if _, exists := t.byName[name]; exists {
		return nil, fmt.Errorf("%s: %w", name, ErrMcroDuplicate.Err())
	}

	if len(t.order) >= maxMacros {
		return nil, fmt.Errorf("%s: %w", name, ErrMcroTooLong.Err())
	}

	m := &Macro{Name: name}
	t.byName[name] = m
	t.order = append(t.order, name)

	return m, nil
}

// Preprocessor expands macro definitions and calls from a source reader
// into a `.am` intermediate, reporting diagnostics to sink as it goes.
type Preprocessor struct {
	macros *MacroTable
	sink   Sink
}

// NewPreprocessor returns a Preprocessor reporting to sink.
func NewPreprocessor(sink Sink) *Preprocessor {
	return &Preprocessor{macros: NewMacroTable(), sink: sink}
}

// Expand reads source lines from in and writes the expanded program to out.
// It returns false if any error diagnostic was reported.
func (p *Preprocessor) Expand(in io.Reader, out io.Writer) bool {
	scanner := bufio.NewScanner(in)
	ok := true

	var (
		defining    *Macro
		lineNo      int
	)

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if len(line) > maxLineLen {
			p.sink.Report(Diagnostic{Line: lineNo, Err: ErrLineTooLong})
			ok = false

			continue
		}

		trimmed := strings.TrimSpace(line)

		endTok, endRest := splitToken(trimmed)

		switch {
		case defining != nil && endTok == "mcroend":
			endRest = strings.TrimSpace(endRest)
			if endRest != "" && !strings.HasPrefix(endRest, ";") {
				p.sink.Report(Diagnostic{Line: lineNo, Err: ErrExtraTextAfterCommand})
				ok = false

				continue
			}

			defining = nil
			continue

		case defining != nil:
			defining.Body = append(defining.Body, line)
			continue

		case strings.HasPrefix(trimmed, "mcro"):
			rest := strings.TrimSpace(trimmed[len("mcro"):])
			name, extra := splitToken(rest)

			if name == "" {
				p.sink.Report(Diagnostic{Line: lineNo, Err: ErrMcroNoName})
				ok = false

				continue
			}

			if extra != "" {
				p.sink.Report(Diagnostic{Line: lineNo, Err: ErrMcroUnexpectedText})
				ok = false

				continue
			}

			if kind := p.validateMacroName(name); kind != ErrNone {
				p.sink.Report(Diagnostic{Line: lineNo, Err: kind})
				ok = false

				continue
			}

			m, err := p.macros.define(name)
			if err != nil {
				p.sink.Report(Diagnostic{Line: lineNo, Err: ErrMcroDuplicate})
				ok = false

				continue
			}

			defining = m

		default:
			word := firstWord(trimmed)

			if m, found := p.macros.lookup(word); found {
				extra := strings.TrimSpace(trimmed[len(word):])
				if extra != "" && !strings.HasPrefix(extra, ";") {
					p.sink.Report(Diagnostic{Line: lineNo, Err: ErrMacroCallExtraText})
					ok = false

					continue
				}

				for _, bodyLine := range m.Body {
					if strings.TrimSpace(bodyLine) != "" {
						fmt.Fprintln(out, bodyLine)
					}
				}

				continue
			}

			if strings.TrimSpace(line) != "" {
				fmt.Fprintln(out, line)
			}
		}
	}

	if defining != nil {
		p.sink.Report(Diagnostic{Line: lineNo, Err: ErrFileProcessing})
		ok = false
	}

	return ok
}

func (p *Preprocessor) validateMacroName(name string) ErrorKind {
	if len(name) > maxLabelLen {
		return ErrMcroTooLong
	}

	if _, isReg := isRegister(name); isReg {
		return ErrMcroIsRegister
	}

	if !isLetter(name[0]) {
		return ErrMcroIllegalStart
	}

	for i := 0; i < len(name); i++ {
		if !isAlnum(name[i]) {
			return ErrMcroIllegalChar
		}
	}

	if reservedWords[name] {
		return ErrMcroReservedName
	}

	return ErrNone
}

func firstWord(s string) string {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s
	}

	return s[:i]
}
