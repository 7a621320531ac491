package interp

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/lostjared/MXVM-sub000/internal/mxvm"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/parser"
)

func mustProgram(t *testing.T, src string) *mxvm.Program {
	t.Helper()

	reg, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	prog, err := mxvm.Flatten(reg)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	if err := mxvm.Validate(prog); err != nil {
		t.Fatalf("validate: %v", err)
	}

	return prog
}

func TestCallRetSharesValueStack(t *testing.T) {
	t.Parallel()

	const src = `
program callret {
    section data {
        int result = 0
    }
    section code {
        function main:
        push 99
        call helper
        pop result
        exit 0

        function helper:
        mov %rax, 7
        ret
    }
}
`

	prog := mustProgram(t, src)
	i := New(prog, WithStdin(bytes.NewReader(nil)), WithStdout(&bytes.Buffer{}))

	code, err := i.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if code != 0 {
		t.Fatalf("want exit 0, got %d", code)
	}

	result, err := prog.GetVariable("result")
	if err != nil {
		t.Fatal(err)
	}

	if result.Value.Int() != 99 {
		t.Errorf("push/pop must see its own value through call/ret: want 99, got %d", result.Value.Int())
	}
}

func TestRetWithEmptyStackIsFatal(t *testing.T) {
	t.Parallel()

	const src = `
program badret {
    section code {
        function main:
        ret
    }
}
`

	prog := mustProgram(t, src)
	i := New(prog, WithStdin(bytes.NewReader(nil)), WithStdout(&bytes.Buffer{}))

	_, err := i.Run(context.Background())
	if err == nil {
		t.Fatal("want a fatal control error, got nil")
	}

	var merr *mxvm.Error
	if !errors.As(err, &merr) {
		t.Fatalf("want *mxvm.Error, got %T: %v", err, err)
	}

	if merr.Class != mxvm.ClassControl {
		t.Errorf("want ClassControl, got %s", merr.Class)
	}
}

func TestFreeNullsThePointer(t *testing.T) {
	t.Parallel()

	const src = `
program freetest {
    section data {
        ptr p
    }
    section code {
        function main:
        alloc p, 8
        free p
        exit 0
    }
}
`

	prog := mustProgram(t, src)
	i := New(prog, WithStdin(bytes.NewReader(nil)), WithStdout(&bytes.Buffer{}))

	if _, err := i.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	p, err := prog.GetVariable("p")
	if err != nil {
		t.Fatal(err)
	}

	if p.Value.Tag != mxvm.TagPointer || p.Value.Ptr != 0 {
		t.Errorf("want null pointer after free, got %s", p.Value.Format())
	}
}

func TestExitCarriesStatus(t *testing.T) {
	t.Parallel()

	const src = `
program exittest {
    section code {
        function main:
        exit 3
    }
}
`

	prog := mustProgram(t, src)
	i := New(prog, WithStdin(bytes.NewReader(nil)), WithStdout(&bytes.Buffer{}))

	code, err := i.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if code != 3 {
		t.Errorf("want exit code 3, got %d", code)
	}
}
