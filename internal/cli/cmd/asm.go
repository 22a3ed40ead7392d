package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/wordvm/masm/internal/asm"
	"github.com/wordvm/masm/internal/cli"
	"github.com/wordvm/masm/internal/log"
)

// Assembler is the command that translates source files into object,
// entry, and external files.
//
//	masm asm [-debug] [-hex] FILE[.as] [FILE2[.as] ...]
func Assembler() cli.Command {
	return new(assembler)
}

type assembler struct {
	debug bool
	hex   bool
}

func (assembler) Description() string {
	return "assemble source files into object code"
}

func (assembler) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `asm [-debug] [-hex] FILE[.as] [FILE2[.as] ...]

Assemble one or more source files. For each FILE.as this writes FILE.am
(post-macro-expansion source), FILE.ob (object code), and, when needed,
FILE.ent (entry points) and FILE.ext (external references) beside it.`)

	return err
}

func (a *assembler) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("asm", flag.ExitOnError)
	fs.BoolVar(&a.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&a.hex, "hex", false, "additionally emit an Intel-Hex-style FILE.hex")

	return fs
}

// Run assembles each named file in turn, continuing past failures so one
// bad file in a batch doesn't hide errors in the rest.
func (a *assembler) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if a.debug {
		log.LogLevel.Set(log.Debug)
	}

	if len(args) == 0 {
		logger.Error("assemble error", "err", asm.ErrMissingASFile.Message())
		return 1
	}

	opts := asm.Options{Hex: a.hex}
	code := 0

	for _, arg := range args {
		name := asm.SplitName(arg)

		res := asm.AssembleFile(".", name, opts, stdout, logger)
		if !res.OK {
			logger.Error("assemble failed", "file", name, "errors", len(res.Errors))
			code = 1

			continue
		}

		logger.Debug("assembled", "file", name)
	}

	return code
}
