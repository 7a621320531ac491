package sysv

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

func TestGenerateEmitsATTSyntaxSections(t *testing.T) {
	t.Parallel()

	lines := generate(t, callRetProgram)

	if lines[0] != ".data" {
		t.Errorf("want leading .data section, got %q", lines[0])
	}

	if !containsLine(lines, ".bss") {
		t.Error("want a .bss section")
	}

	if !containsLine(lines, ".text") {
		t.Error("want a .text section")
	}

	if !containsLine(lines, ".globl main") {
		t.Error("want .globl main")
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

func TestPushPopLowerToNativeStackOps(t *testing.T) {
	t.Parallel()

	lines := generate(t, callRetProgram)

	if !containsLine(lines, "pushq") {
		t.Error("want push to lower to pushq")
	}

	if !containsLine(lines, "popq") {
		t.Error("want pop to lower to popq")
	}
}

func TestATTOperandOrderAndPrefixes(t *testing.T) {
	t.Parallel()

	lines := generate(t, callRetProgram)

	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if !strings.HasPrefix(trimmed, "mov") {
			continue
		}

		// AT&T syntax: every register operand is %-prefixed.
		if strings.Contains(trimmed, "rax") && !strings.Contains(trimmed, "%rax") {
			t.Errorf("register operand missing %% prefix: %q", l)
		}
	}
}
