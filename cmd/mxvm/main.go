// mxvm is the command-line interface to the MXVM toolchain: a
// register-oriented virtual machine interpreter and two-target assembly
// compiler.
package main

import (
	"context"
	"os"

	"github.com/lostjared/MXVM-sub000/internal/cli"
	"github.com/lostjared/MXVM-sub000/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Runner(),
	cmd.Builder(),
}

func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
