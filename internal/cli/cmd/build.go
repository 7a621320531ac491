package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lostjared/MXVM-sub000/internal/cli"
	"github.com/lostjared/MXVM-sub000/internal/codegen"
	"github.com/lostjared/MXVM-sub000/internal/codegen/sysv"
	"github.com/lostjared/MXVM-sub000/internal/codegen/win64"
	"github.com/lostjared/MXVM-sub000/internal/log"
	"github.com/lostjared/MXVM-sub000/internal/optimizer"
)

// Builder returns the "build" sub-command: parse, flatten, validate, lower
// to assembly for the chosen target, run the peephole optimizer, and write
// the result.
func Builder() cli.Command {
	return &builder{log: log.DefaultLogger()}
}

type builder struct {
	target string
	out    string
	noOpt  bool
	darwin bool
	log    *log.Logger
}

func (builder) Description() string { return "compile an MXVM program to assembly" }

func (builder) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `build [-target sysv|win64] [-darwin] [-o out.s] program.mxvm

Parses, validates, and lowers an MXVM program to GNU-as assembly for the
chosen target, then runs the peephole optimizer over the result.`)

	return err
}

func (b *builder) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	fs.StringVar(&b.target, "target", "sysv", "code generator target: sysv or win64")
	fs.StringVar(&b.out, "o", "", "output file (default: stdout)")
	fs.BoolVar(&b.noOpt, "no-optimize", false, "skip the peephole optimizer passes")
	fs.BoolVar(&b.darwin, "darwin", false, "run the Darwin peephole pass (sysv target only)")

	return fs
}

func (b *builder) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if len(args) < 1 {
		logger.Error("build requires a program file argument")
		return 1
	}

	prog, err := loadProgram(args[0])
	if err != nil {
		logger.Error("error loading program", "err", err)
		return 1
	}

	var target codegen.Target
	var optTarget optimizer.Target

	switch strings.ToLower(b.target) {
	case "sysv":
		target = sysv.New()
		optTarget = optimizer.Linux
		if b.darwin {
			optTarget = optimizer.Darwin
		}
	case "win64":
		target = win64.New()
		optTarget = optimizer.Win64
	default:
		logger.Error("unknown target", "target", b.target)
		return 1
	}

	lines := codegen.Generate(target, prog)

	if !b.noOpt {
		lines = optimizer.Run(lines, optTarget)
	}

	w := stdout

	if b.out != "" {
		f, err := os.Create(b.out)
		if err != nil {
			logger.Error("error creating output file", "err", err)
			return 1
		}
		defer f.Close()

		w = f
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			logger.Error("error writing output", "err", err)
			return 1
		}
	}

	return 0
}
