// command masm is the command-line interface to the assembler for the
// 24-bit word machine.
package main

import (
	"context"
	"os"

	"github.com/wordvm/masm/internal/cli"
	"github.com/wordvm/masm/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Assembler(),
}

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
