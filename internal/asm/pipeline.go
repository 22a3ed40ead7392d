package asm

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/wordvm/masm/internal/encoding"
)

// pipeline.go wires the four stages together for a single source file:
// macro expansion, first pass, second pass, and the emitter. It is the one
// place that knows the `.as`/`.am`/`.ob`/`.ent`/`.ext` file-naming
// convention described in SPEC_FULL.md §7.

// Options configures a pipeline run.
type Options struct {
	// Hex, when true, additionally writes a `<name>.hex` Intel-Hex-style
	// record file alongside the `.ob` file.
	Hex bool
}

// Result summarizes one file's assembly.
type Result struct {
	Name   string
	OK     bool
	Errors []Diagnostic
}

// AssembleFile runs the full pipeline against the named source file
// (without its `.as` suffix) rooted at dir, writing its outputs beside it.
// logger receives debug-level progress; diagnostics go to errOut, colored
// if errOut is a terminal.
func AssembleFile(dir, name string, opts Options, errOut io.Writer, logger *slog.Logger) Result {
	color := false
	if f, ok := errOut.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}

	sink := &CollectingSink{}
	writerSink := NewWriterSink(errOut, color)

	srcPath := filepath.Join(dir, name+".as")

	src, err := os.Open(srcPath)
	if err != nil {
		writerSink.Report(Diagnostic{Err: ErrFileNotExist})
		return Result{Name: name, OK: false}
	}
	defer src.Close()

	logger.Debug("expanding macros", "file", name)

	pre := NewPreprocessor(sink)

	var am bytes.Buffer
	if !pre.Expand(src, &am) {
		flush(sink, writerSink)
		return Result{Name: name, OK: false, Errors: sink.Errors()}
	}

	amPath := filepath.Join(dir, name+".am")
	if err := os.WriteFile(amPath, am.Bytes(), 0o644); err != nil {
		writerSink.Report(Diagnostic{Err: ErrFileWrite})
		return Result{Name: name, OK: false}
	}

	logger.Debug("first pass", "file", name)

	fp := NewFirstPass(sink)
	fp.Run(bytes.NewReader(am.Bytes()))
	base := fp.Finish()

	logger.Debug("first pass complete", "file", name, "ic", base, "dc", fp.Image.DC)

	if sink.HasErrors() {
		flush(sink, writerSink)
		return Result{Name: name, OK: false, Errors: sink.Errors()}
	}

	logger.Debug("second pass", "file", name)

	sp := NewSecondPass(fp.Image, fp.Symbols, sink)
	seenEntries := make(map[string]bool)
	sp.Run(fp.Entries(), seenEntries)

	flush(sink, writerSink)

	if sink.HasErrors() {
		return Result{Name: name, OK: false, Errors: sink.Errors()}
	}

	logger.Debug("emitting", "file", name)

	if err := emitOutputs(dir, name, fp.Image, base, fp.Symbols, sp.ExternalUses, opts); err != nil {
		writerSink.Report(Diagnostic{Err: ErrAssemblyFailed})
		return Result{Name: name, OK: false}
	}

	return Result{Name: name, OK: true}
}

func flush(sink *CollectingSink, writerSink *WriterSink) {
	for _, d := range sink.Diagnostics {
		writerSink.Report(d)
	}
}

func emitOutputs(dir, name string, image *Image, codeEnd uint32, symbols *SymbolTable, externs []ExternalUse, opts Options) error {
	emitter := NewEmitter(image, codeEnd, symbols, externs)

	obFile, err := os.Create(filepath.Join(dir, name+".ob"))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrObjectFileCreate.Err(), err)
	}
	defer obFile.Close()

	if err := emitter.WriteObject(obFile); err != nil {
		return err
	}

	if emitter.HasEntries() {
		entFile, err := os.Create(filepath.Join(dir, name+".ent"))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrEntryFileCreate.Err(), err)
		}
		defer entFile.Close()

		if err := emitter.WriteEntries(entFile); err != nil {
			return err
		}
	}

	if len(externs) > 0 {
		extFile, err := os.Create(filepath.Join(dir, name+".ext"))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrExternalFileCreate.Err(), err)
		}
		defer extFile.Close()

		if err := emitter.WriteExterns(extFile); err != nil {
			return err
		}
	}

	if opts.Hex {
		hexFile, err := os.Create(filepath.Join(dir, name+".hex"))
		if err != nil {
			return err
		}
		defer hexFile.Close()

		count := int(codeEnd) - icBase + int(image.DC)
		words := make([]uint32, count)

		for i := 0; i < count; i++ {
			words[i] = image.Storage[icBase+i].Masked()
		}

		bs, err := encoding.EncodeImage(icBase, words)
		if err != nil {
			return err
		}

		if _, err := hexFile.Write(bs); err != nil {
			return err
		}
	}

	return nil
}

// SplitName strips a trailing ".as" suffix, so the CLI can accept either
// "prog" or "prog.as" as an argument.
func SplitName(arg string) string {
	return strings.TrimSuffix(arg, ".as")
}
