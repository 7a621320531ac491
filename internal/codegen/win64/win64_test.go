package win64

import (
	"strings"
	"testing"

	"github.com/lostjared/MXVM-sub000/internal/codegen"
	"github.com/lostjared/MXVM-sub000/internal/mxvm"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/parser"
)

const callRetProgram = `
program callret {
    section data {
        int x = 5
    }
    section code {
        function main:
        push x
        call helper
        pop x
        exit 0

        function helper:
        mov %rax, 1
        ret
    }
}
`

func generate(t *testing.T, src string) []string {
	t.Helper()

	reg, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	prog, err := mxvm.Flatten(reg)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	return codegen.Generate(New(), prog)
}

func containsLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}

	return false
}

func TestPrologueReservesShadowSpace(t *testing.T) {
	t.Parallel()

	lines := generate(t, callRetProgram)

	if !containsLine(lines, "subq $32, %rsp") {
		t.Error("want 32-byte shadow space reserved in the prologue")
	}

	if !containsLine(lines, ".extern malloc") {
		t.Error("want CRT externs declared")
	}
}

func TestCallTargetMatchesLabelDefinition(t *testing.T) {
	t.Parallel()

	lines := generate(t, callRetProgram)

	var callLine, labelLine string

	for _, l := range lines {
		if strings.Contains(l, "call ") && strings.Contains(l, "helper") {
			callLine = l
		}

		if strings.HasSuffix(strings.TrimSpace(l), "helper:") {
			labelLine = l
		}
	}

	if callLine == "" {
		t.Fatal("no call to helper found")
	}

	if labelLine == "" {
		t.Fatal("no label definition for helper found")
	}

	callTarget := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(callLine), "call"))
	labelName := strings.TrimSuffix(strings.TrimSpace(labelLine), ":")

	if callTarget != labelName {
		t.Errorf("call target %q does not match label definition %q", callTarget, labelName)
	}
}

func TestInvokeWrapsCallInShadowSpace(t *testing.T) {
	t.Parallel()

	const src = `
program invoketest {
    section module {
        strmod
    }
    section data {
        string s = "hi"
    }
    section code {
        function main:
        invoke strmod.length, s
        exit 0
    }
}
`

	lines := generate(t, src)

	subIdx, callIdx, addIdx := -1, -1, -1

	for i, l := range lines {
		trimmed := strings.TrimSpace(l)
		if strings.HasPrefix(trimmed, "subq") && callIdx == -1 {
			subIdx = i
		}

		if strings.Contains(trimmed, "call") && strings.Contains(trimmed, "strmod") {
			callIdx = i
		}

		if callIdx != -1 && strings.HasPrefix(trimmed, "addq") {
			addIdx = i
			break
		}
	}

	if subIdx == -1 || callIdx == -1 || addIdx == -1 {
		t.Fatalf("want subq/call/addq shadow-space bracket around invoke, got sub=%d call=%d add=%d", subIdx, callIdx, addIdx)
	}

	if !(subIdx < callIdx && callIdx < addIdx) {
		t.Errorf("want shadow space reserved before and released after call, got order sub=%d call=%d add=%d", subIdx, callIdx, addIdx)
	}
}

func TestFreeCallsCRTFree(t *testing.T) {
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

	lines := generate(t, src)

	if !containsLine(lines, "call free") {
		t.Error("want free to lower to a call to the CRT free")
	}

	if !containsLine(lines, "call malloc") {
		t.Error("want alloc to lower to a call to the CRT malloc")
	}
}
