package parser

import (
	"testing"

	"github.com/lostjared/MXVM-sub000/internal/mxvm"
)

const helloProgram = `
program hello {
    section data {
        int x = 5
        string greeting = "hi"
    }
    section code {
        function main:
        mov %rax, x
        print "%d\n", %rax
        exit 0
    }
}
`

func TestParseHelloProgram(t *testing.T) {
	t.Parallel()

	reg, err := Parse(helloProgram)
	if err != nil {
		t.Fatal(err)
	}

	root := reg.Root
	if root.Name != "hello" {
		t.Errorf("want program name hello, got %s", root.Name)
	}

	v, ok := root.Vars["x"]
	if !ok {
		t.Fatal("x not declared")
	}

	if v.Declared != mxvm.TagInteger || v.Value.Int() != 5 {
		t.Errorf("want int x=5, got %s %s", v.Declared, v.Value.Format())
	}

	if _, ok := root.Labels["main"]; !ok {
		t.Error("want a main label")
	}

	if len(root.Code) != 3 {
		t.Errorf("want 3 instructions (mov, print, exit), got %d", len(root.Code))
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	t.Parallel()

	src := `
program bad {
    section bogus {
    }
}
`

	_, err := Parse(src)
	if err == nil {
		t.Error("want a syntax error, got nil")
	}
}

func TestParseRejectsDuplicateVariable(t *testing.T) {
	t.Parallel()

	src := `
program dup {
    section data {
        int x = 1
        int x = 2
    }
    section code {
    }
}
`

	_, err := Parse(src)
	if err == nil {
		t.Error("want a duplicate-variable error, got nil")
	}
}

func TestParseStringBufferDeclaration(t *testing.T) {
	t.Parallel()

	src := `
program buf {
    section data {
        string line, 128
    }
    section code {
    }
}
`

	reg, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}

	v := reg.Root.Vars["line"]
	if v.Value.BufferCap != 128 {
		t.Errorf("want buffer cap 128, got %d", v.Value.BufferCap)
	}
}
