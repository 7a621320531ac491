package optimizer_test

import (
	"strings"
	"testing"

	"github.com/lostjared/MXVM-sub000/internal/optimizer"
)

func TestCorePassDropsTautology(t *testing.T) {
	in := []string{"    movq %rax, %rax"}
	out := optimizer.CorePass(in)

	if len(out) != 0 {
		t.Fatalf("expected tautology dropped, got %v", out)
	}
}

func TestCorePassReusesKnownRegister(t *testing.T) {
	in := []string{
		"    movq var_x(%rip), %rax",
		"    movq var_x(%rip), %rbx",
	}

	out := optimizer.CorePass(in)

	if len(out) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(out), out)
	}

	if !strings.Contains(out[1], "movq %rax, %rbx") {
		t.Errorf("expected second load rewritten from the tracked register, got %q", out[1])
	}
}

func TestCorePassForgetsAfterLabel(t *testing.T) {
	in := []string{
		"    movq var_x(%rip), %rax",
		"lbl_loop:",
		"    movq var_x(%rip), %rbx",
	}

	out := optimizer.CorePass(in)

	if strings.Contains(out[2], "%rax") {
		t.Errorf("expected tracking reset at label, got %q", out[2])
	}
}

func TestCorePassForgetsAfterALUWrite(t *testing.T) {
	in := []string{
		"    movq var_x(%rip), %rax",
		"    addq %rbx, %rax",
		"    movq var_x(%rip), %rcx",
	}

	out := optimizer.CorePass(in)

	if strings.Contains(out[2], "%rax") {
		t.Errorf("expected alias forgotten after ALU write to %%rax, got %q", out[2])
	}
}

func TestDarwinPassRenamesMainAndPrefixesSymbols(t *testing.T) {
	in := []string{
		".globl main",
		"main:",
		"    call var_helper",
		"    movq var_x(%rip), %rax",
	}

	out := optimizer.DarwinPass(in)

	if out[0] != ".globl _main" {
		t.Errorf("expected .globl _main, got %q", out[0])
	}

	if out[1] != "_main:" {
		t.Errorf("expected _main:, got %q", out[1])
	}

	if !strings.Contains(out[2], "call _var_helper") {
		t.Errorf("expected call site prefixed, got %q", out[2])
	}

	if !strings.Contains(out[3], "_var_x(%rip)") {
		t.Errorf("expected memory symbol prefixed, got %q", out[3])
	}
}

func TestDarwinPassRewritesStdinToGOT(t *testing.T) {
	in := []string{"    movq stdin(%rip), %rdx"}
	out := optimizer.DarwinPass(in)

	if !strings.Contains(out[0], "__stdinp@GOTPCREL(%rip)") {
		t.Errorf("expected GOT-indirect stdin access, got %q", out[0])
	}
}

func TestWin64PassCollapsesAdjacentShadowSpace(t *testing.T) {
	in := []string{
		"    call malloc",
		"    addq $32, %rsp",
		"    subq $32, %rsp",
		"    call free",
	}

	out := optimizer.Win64Pass(in)

	want := []string{"    call malloc", "    call free"}
	if len(out) != len(want) {
		t.Fatalf("expected %v, got %v", want, out)
	}

	for i := range want {
		if out[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], out[i])
		}
	}
}

func TestWin64PassLeavesUnequalPairsAlone(t *testing.T) {
	in := []string{
		"    addq $32, %rsp",
		"    subq $40, %rsp",
	}

	out := optimizer.Win64Pass(in)

	if len(out) != 2 {
		t.Fatalf("expected unequal pair preserved, got %v", out)
	}
}
