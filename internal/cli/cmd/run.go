package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lostjared/MXVM-sub000/internal/cli"
	"github.com/lostjared/MXVM-sub000/internal/log"
	"github.com/lostjared/MXVM-sub000/internal/mxvm"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/interp"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/module"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/module/iofile"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/module/std"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/module/strmod"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/parser"
)

// Runner returns the "run" sub-command: parse, flatten, validate, and
// interpret an MXVM program text file.
func Runner() cli.Command {
	return &runner{log: log.DefaultLogger()}
}

type runner struct {
	logLevel slog.Level
	log      *log.Logger
}

func (runner) Description() string { return "run an MXVM program" }

func (runner) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `run program.mxvm

Parses, validates, and interprets an MXVM program.`)

	return err
}

func (r *runner) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Func("loglevel", "set log `level`", func(s string) error {
		return r.logLevel.UnmarshalText([]byte(s))
	})

	return fs
}

func (r *runner) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	log.LogLevel.Set(r.logLevel)

	if len(args) < 1 {
		logger.Error("run requires a program file argument")
		return 1
	}

	prog, err := loadProgram(args[0])
	if err != nil {
		logger.Error("error loading program", "err", err)
		return 1
	}

	reg := module.NewRegistry()
	std.Register(reg)
	strmod.Register(reg)
	iofile.Register(reg)

	vm := interp.New(prog,
		interp.WithModules(reg),
		interp.WithStdout(stdout),
		interp.WithStdin(os.Stdin),
		interp.WithLogger(logger),
	)

	exitCode, err := vm.Run(ctx)
	if err != nil {
		logger.Error("program error", "err", err)
		return 1
	}

	return exitCode
}

// loadProgram reads, parses, flattens, and validates the program text at
// path, returning the single flat Program the interpreter and code
// generators both consume.
func loadProgram(path string) (*mxvm.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	reg, err := parser.Parse(string(src))
	if err != nil {
		return nil, err
	}

	prog, err := mxvm.Flatten(reg)
	if err != nil {
		return nil, err
	}

	if err := mxvm.Validate(prog); err != nil {
		return nil, err
	}

	return prog, nil
}
