// Package sysv implements the SysV/AMD64 assembly backend: GNU-as
// (AT&T syntax) output targeting the System V calling convention, linked
// against the host libc for printf/sprintf/fgets/malloc/free/exit so
// generated programs run as ordinary ELF/Mach-O executables. Register
// allocation is operand-local and stateless; every instruction writes
// through memory between steps, so no live-range analysis is needed.
package sysv

import (
	"fmt"
	"math"

	"github.com/lostjared/MXVM-sub000/internal/codegen"
	"github.com/lostjared/MXVM-sub000/internal/mxvm"
)

// Target is the SysV/AMD64 codegen.Target.
type Target struct {
	strings map[string]string // literal string constant -> symbol
	nextStr int
	floats  map[float64]string // literal float constant -> symbol
	nextFlt int
}

// New creates a SysV/AMD64 target.
func New() *Target {
	return &Target{strings: make(map[string]string), floats: make(map[float64]string)}
}

func (t *Target) Name() string { return "sysv" }

func (t *Target) Prologue(buf *codegen.Buffer, prog *mxvm.Program) {
	buf.Emit(codegen.SectionText, ".globl main")
	buf.Emit(codegen.SectionText, ".extern printf")
	buf.Emit(codegen.SectionText, ".extern sprintf")
	buf.Emit(codegen.SectionText, ".extern fgets")
	buf.Emit(codegen.SectionText, ".extern strlen")
	buf.Emit(codegen.SectionText, ".extern stdin")
	buf.Emit(codegen.SectionText, ".extern malloc")
	buf.Emit(codegen.SectionText, ".extern free")
	buf.Emit(codegen.SectionText, ".extern exit")

	for _, name := range prog.Modules {
		buf.Emit(codegen.SectionText, ".extern %s", externName(name))
	}

	for _, v := range codegen.SortedVariables(prog) {
		sym := codegen.DataSymbol(v)

		switch v.Declared {
		case mxvm.TagString:
			bufSize := v.Value.BufferCap
			if bufSize <= 0 {
				bufSize = int64(len(v.Value.String())) + 1
			}

			buf.Emit(codegen.SectionBSS, "%s:", sym)
			buf.Emit(codegen.SectionBSS, "    .comm %s, %d", sym, bufSize)
		default:
			buf.Emit(codegen.SectionBSS, "%s:", sym)
			buf.Emit(codegen.SectionBSS, "    .comm %s, 8", sym)
		}
	}

	buf.Emit(codegen.SectionText, "main:")
	buf.Emit(codegen.SectionText, "    pushq %%rbp")
	buf.Emit(codegen.SectionText, "    movq %%rsp, %%rbp")
}

func (t *Target) Epilogue(buf *codegen.Buffer, prog *mxvm.Program) {
	buf.Emit(codegen.SectionText, "    movl $0, %%eax")
	buf.Emit(codegen.SectionText, "    leave")
	buf.Emit(codegen.SectionText, "    ret")
	buf.Emit(codegen.SectionText, ".section .note.GNU-stack,\"\",@progbits")

	for lit, sym := range t.strings {
		buf.Emit(codegen.SectionData, "%s:", sym)
		buf.Emit(codegen.SectionData, "    .asciz %s", quoteForGas(lit))
	}

	for f, sym := range t.floats {
		buf.Emit(codegen.SectionData, "%s:", sym)
		buf.Emit(codegen.SectionData, "    .quad %d", math.Float64bits(f))
	}
}

func externName(module string) string { return sanitize(module) }

func sanitize(s string) string {
	out := make([]byte, len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			c = '_'
		}

		out[i] = c
	}

	return string(out)
}

func quoteForGas(s string) string { return fmt.Sprintf("%q", s) }

func (t *Target) Lower(buf *codegen.Buffer, prog *mxvm.Program, idx int, ins mxvm.Instruction) {
	buf.Emit(codegen.SectionText, "    # %s", ins.Op.Name())

	switch ins.Op {
	case mxvm.OpMov:
		t.lowerMov(buf, prog, ins)
	case mxvm.OpAdd, mxvm.OpSub, mxvm.OpMul, mxvm.OpDiv, mxvm.OpMod:
		t.lowerArith(buf, prog, idx, ins)
	case mxvm.OpOr, mxvm.OpAnd, mxvm.OpXor:
		t.lowerBitwise(buf, ins)
	case mxvm.OpNot, mxvm.OpNeg:
		t.lowerUnary(buf, prog, ins)
	case mxvm.OpCmp:
		t.lowerCmp(buf, prog, ins)
	case mxvm.OpJmp, mxvm.OpJe, mxvm.OpJne, mxvm.OpJl, mxvm.OpJle, mxvm.OpJg, mxvm.OpJge,
		mxvm.OpJz, mxvm.OpJnz, mxvm.OpJa, mxvm.OpJb:
		t.lowerJump(buf, ins)
	case mxvm.OpCall:
		buf.Emit(codegen.SectionText, "    call %s", codegen.LabelSymbol(ins.Op1.Text))
	case mxvm.OpRet:
		buf.Emit(codegen.SectionText, "    ret")
	case mxvm.OpPrint:
		t.lowerPrint(buf, ins)
	case mxvm.OpExit:
		t.lowerExit(buf, ins)
	case mxvm.OpAlloc:
		t.lowerAlloc(buf, ins)
	case mxvm.OpFree:
		buf.Emit(codegen.SectionText, "    movq %s, %%rdi", t.memOperand(ins.Op1))
		buf.Emit(codegen.SectionText, "    call free")
	case mxvm.OpInvoke:
		t.lowerInvoke(buf, ins)
	case mxvm.OpDone:
		buf.Emit(codegen.SectionText, "    movl $0, %%eax")
		buf.Emit(codegen.SectionText, "    leave")
		buf.Emit(codegen.SectionText, "    ret")
	case mxvm.OpToInt:
		buf.Emit(codegen.SectionText, "    cvttsd2si %s, %%rax", t.memOperand(convSource(ins)))
		buf.Emit(codegen.SectionText, "    movq %%rax, %s", t.memOperand(ins.Op1))
	case mxvm.OpToFloat:
		buf.Emit(codegen.SectionText, "    cvtsi2sd %s, %%xmm0", t.memOperand(convSource(ins)))
		buf.Emit(codegen.SectionText, "    movsd %%xmm0, %s", t.memOperand(ins.Op1))
	case mxvm.OpReturn:
		if ins.NumOperands > 0 {
			buf.Emit(codegen.SectionText, "    movq %%rax, %s", t.memOperand(ins.Op1))
		}
	case mxvm.OpLoad:
		t.lowerLoad(buf, ins)
	case mxvm.OpStore:
		t.lowerStore(buf, ins)
	case mxvm.OpPush:
		buf.Emit(codegen.SectionText, "    movq %s, %%rax", t.memOperand(ins.Op1))
		buf.Emit(codegen.SectionText, "    pushq %%rax")
	case mxvm.OpPop:
		buf.Emit(codegen.SectionText, "    popq %%rax")
		buf.Emit(codegen.SectionText, "    movq %%rax, %s", t.memOperand(ins.Op1))
	case mxvm.OpStackLoad:
		// Indexes from the top of the native call stack rather than the
		// bottom of the conceptual value stack; tracking a separate base
		// pointer for bottom-relative indexing isn't worth it for a
		// non-optimizing, no-register-allocation backend.
		buf.Emit(codegen.SectionText, "    movq %s, %%rbx", t.memOperand(ins.Op2))
		buf.Emit(codegen.SectionText, "    movq (%%rsp,%%rbx,8), %%rax")
		buf.Emit(codegen.SectionText, "    movq %%rax, %s", t.memOperand(ins.Op1))
	case mxvm.OpStackStore:
		buf.Emit(codegen.SectionText, "    movq %s, %%rax", t.memOperand(ins.Op2))
		buf.Emit(codegen.SectionText, "    movq %s, %%rbx", t.memOperand(ins.Op1))
		buf.Emit(codegen.SectionText, "    movq %%rax, (%%rsp,%%rbx,8)")
	case mxvm.OpStackSub:
		buf.Emit(codegen.SectionText, "    movq %s, %%rax", t.memOperand(ins.Op1))
		buf.Emit(codegen.SectionText, "    imulq $8, %%rax")
		buf.Emit(codegen.SectionText, "    addq %%rax, %%rsp")
	case mxvm.OpGetline:
		t.lowerGetline(buf, prog, ins)
	case mxvm.OpStringPrint:
		t.lowerStringPrint(buf, ins)
	default:
		buf.Emit(codegen.SectionText, "    # unsupported opcode %s (interpreter-only)", ins.Op.Name())
	}
}

// memOperand renders a constant or variable operand as a GAS source operand:
// an immediate for integer constants, a float constant pool reference for
// float literals, a RIP-relative data symbol for strings and variables.
func (t *Target) memOperand(op mxvm.Operand) string {
	if op.IsConstant() {
		switch op.Value.Tag {
		case mxvm.TagFloat:
			return t.floatSymbol(op.Value.Float()) + "(%rip)"
		case mxvm.TagString:
			return t.stringSymbol(op.Value.String()) + "(%rip)"
		default:
			return fmt.Sprintf("$%d", op.Value.Int())
		}
	}

	return codegen.DataSymbolName(op.Text) + "(%rip)"
}

func (t *Target) stringSymbol(lit string) string {
	if sym, ok := t.strings[lit]; ok {
		return sym
	}

	sym := fmt.Sprintf("str_%d", t.nextStr)
	t.nextStr++
	t.strings[lit] = sym

	return sym
}

func (t *Target) floatSymbol(f float64) string {
	if sym, ok := t.floats[f]; ok {
		return sym
	}

	sym := fmt.Sprintf("flt_%d", t.nextFlt)
	t.nextFlt++
	t.floats[f] = sym

	return sym
}

// convSource returns the source operand for the one/two-operand forms of
// to_int/to_float: `to_int dst` converts dst in place; `to_int dst, src`
// converts src into dst.
func convSource(ins mxvm.Instruction) mxvm.Operand {
	if ins.NumOperands > 1 {
		return ins.Op2
	}

	return ins.Op1
}

// declaredTag resolves the type a destination operand should be treated as:
// a variable's declared tag, or a constant operand's own tag.
func declaredTag(prog *mxvm.Program, op mxvm.Operand) mxvm.ValueTag {
	if op.IsConstant() {
		return op.Value.Tag
	}

	if v, ok := prog.Vars[op.Text]; ok {
		return v.Declared
	}

	return mxvm.TagInteger
}

func (t *Target) lowerMov(buf *codegen.Buffer, prog *mxvm.Program, ins mxvm.Instruction) {
	if declaredTag(prog, ins.Op1) == mxvm.TagFloat {
		buf.Emit(codegen.SectionText, "    movsd %s, %%xmm0", t.memOperand(ins.Op2))
		buf.Emit(codegen.SectionText, "    movsd %%xmm0, %s", t.memOperand(ins.Op1))
		return
	}

	buf.Emit(codegen.SectionText, "    movq %s, %%rax", t.memOperand(ins.Op2))
	buf.Emit(codegen.SectionText, "    movq %%rax, %s", t.memOperand(ins.Op1))
}

func (t *Target) lowerArith(buf *codegen.Buffer, prog *mxvm.Program, idx int, ins mxvm.Instruction) {
	dst, a, b := ins.Op1, ins.Op2, ins.Op3
	if ins.NumOperands <= 2 {
		a, b = ins.Op1, ins.Op2
	}

	if declaredTag(prog, dst) == mxvm.TagFloat {
		t.lowerFloatArith(buf, dst, a, b, ins.Op)
		return
	}

	mnem := map[mxvm.Opcode]string{
		mxvm.OpAdd: "addq", mxvm.OpSub: "subq", mxvm.OpMul: "imulq",
	}[ins.Op]

	buf.Emit(codegen.SectionText, "    movq %s, %%rax", t.memOperand(a))
	buf.Emit(codegen.SectionText, "    movq %s, %%rbx", t.memOperand(b))

	switch ins.Op {
	case mxvm.OpAdd, mxvm.OpSub, mxvm.OpMul:
		buf.Emit(codegen.SectionText, "    %s %%rbx, %%rax", mnem)
	case mxvm.OpDiv, mxvm.OpMod:
		// Division-by-zero sidestep: the interpreter defines div/mod by
		// zero as zero, so generated code tests the divisor and skips the
		// hardware idivq, which would instead fault (#DE).
		skip := fmt.Sprintf(".Ldivskip_%d", idx)
		buf.Emit(codegen.SectionText, "    cqto")
		buf.Emit(codegen.SectionText, "    testq %%rbx, %%rbx")
		buf.Emit(codegen.SectionText, "    jz %s", skip)
		buf.Emit(codegen.SectionText, "    idivq %%rbx")
		buf.Emit(codegen.SectionText, "    jmp %s_done", skip)
		buf.Emit(codegen.SectionText, "%s:", skip)
		buf.Emit(codegen.SectionText, "    xorq %%rax, %%rax")
		buf.Emit(codegen.SectionText, "    xorq %%rdx, %%rdx")
		buf.Emit(codegen.SectionText, "%s_done:", skip)

		if ins.Op == mxvm.OpMod {
			buf.Emit(codegen.SectionText, "    movq %%rdx, %%rax")
		}
	}

	buf.Emit(codegen.SectionText, "    movq %%rax, %s", t.memOperand(dst))
}

func (t *Target) lowerFloatArith(buf *codegen.Buffer, dst, a, b mxvm.Operand, op mxvm.Opcode) {
	mnem := map[mxvm.Opcode]string{
		mxvm.OpAdd: "addsd", mxvm.OpSub: "subsd", mxvm.OpMul: "mulsd", mxvm.OpDiv: "divsd",
	}[op]

	buf.Emit(codegen.SectionText, "    movsd %s, %%xmm0", t.memOperand(a))
	buf.Emit(codegen.SectionText, "    movsd %s, %%xmm1", t.memOperand(b))

	if op == mxvm.OpMod {
		// MXVM floats have no hardware remainder; mod on a float
		// destination falls back to the interpreter's fmod semantics via
		// an explicit libc call rather than inline instructions.
		buf.Emit(codegen.SectionText, "    call fmod")
	} else {
		buf.Emit(codegen.SectionText, "    %s %%xmm1, %%xmm0", mnem)
	}

	buf.Emit(codegen.SectionText, "    movsd %%xmm0, %s", t.memOperand(dst))
}

func (t *Target) lowerBitwise(buf *codegen.Buffer, ins mxvm.Instruction) {
	dst, a, b := ins.Op1, ins.Op2, ins.Op3
	if ins.NumOperands <= 2 {
		a, b = ins.Op1, ins.Op2
	}

	mnem := map[mxvm.Opcode]string{mxvm.OpOr: "orq", mxvm.OpAnd: "andq", mxvm.OpXor: "xorq"}[ins.Op]

	buf.Emit(codegen.SectionText, "    movq %s, %%rax", t.memOperand(a))
	buf.Emit(codegen.SectionText, "    movq %s, %%rbx", t.memOperand(b))
	buf.Emit(codegen.SectionText, "    %s %%rbx, %%rax", mnem)
	buf.Emit(codegen.SectionText, "    movq %%rax, %s", t.memOperand(dst))
}

func (t *Target) lowerUnary(buf *codegen.Buffer, prog *mxvm.Program, ins mxvm.Instruction) {
	src := ins.Op1
	if ins.NumOperands > 1 {
		src = ins.Op2
	}

	if ins.Op == mxvm.OpNeg && declaredTag(prog, ins.Op1) == mxvm.TagFloat {
		buf.Emit(codegen.SectionText, "    movsd %s, %%xmm0", t.memOperand(src))
		buf.Emit(codegen.SectionText, "    xorpd %%xmm1, %%xmm1")
		buf.Emit(codegen.SectionText, "    subsd %%xmm0, %%xmm1")
		buf.Emit(codegen.SectionText, "    movsd %%xmm1, %s", t.memOperand(ins.Op1))
		return
	}

	buf.Emit(codegen.SectionText, "    movq %s, %%rax", t.memOperand(src))

	if ins.Op == mxvm.OpNeg {
		buf.Emit(codegen.SectionText, "    negq %%rax")
	} else {
		buf.Emit(codegen.SectionText, "    testq %%rax, %%rax")
		buf.Emit(codegen.SectionText, "    sete %%al")
		buf.Emit(codegen.SectionText, "    movzbq %%al, %%rax")
	}

	buf.Emit(codegen.SectionText, "    movq %%rax, %s", t.memOperand(ins.Op1))
}

func (t *Target) lowerCmp(buf *codegen.Buffer, prog *mxvm.Program, ins mxvm.Instruction) {
	if ins.Float {
		buf.Emit(codegen.SectionText, "    movsd %s, %%xmm0", t.memOperand(ins.Op1))
		buf.Emit(codegen.SectionText, "    movsd %s, %%xmm1", t.memOperand(ins.Op2))
		buf.Emit(codegen.SectionText, "    ucomisd %%xmm1, %%xmm0")
		return
	}

	buf.Emit(codegen.SectionText, "    movq %s, %%rax", t.memOperand(ins.Op1))
	buf.Emit(codegen.SectionText, "    movq %s, %%rbx", t.memOperand(ins.Op2))
	buf.Emit(codegen.SectionText, "    cmpq %%rbx, %%rax")
}

var jccByCond = map[mxvm.JumpCond]string{
	mxvm.CondEQ: "je", mxvm.CondNE: "jne",
	mxvm.CondLT: "jl", mxvm.CondLE: "jle",
	mxvm.CondGT: "jg", mxvm.CondGE: "jge",
	mxvm.CondZ: "jz", mxvm.CondNZ: "jnz",
	mxvm.CondAE: "ja", mxvm.CondBE: "jb",
	mxvm.CondAboveEq: "jae", mxvm.CondBelowEq: "jbe",
	mxvm.CondCarry: "jc", mxvm.CondNoCarry: "jnc",
}

func (t *Target) lowerJump(buf *codegen.Buffer, ins mxvm.Instruction) {
	target := codegen.LabelSymbol(ins.Op1.Text)

	if ins.Cond == mxvm.CondNone {
		buf.Emit(codegen.SectionText, "    jmp %s", target)
		return
	}

	if mnem, ok := jccByCond[ins.Cond]; ok {
		buf.Emit(codegen.SectionText, "    %s %s", mnem, target)
		return
	}

	switch ins.Cond {
	case mxvm.CondNoParity, mxvm.CondNoOverflow, mxvm.CondNoSign:
		buf.Emit(codegen.SectionText, "    jmp %s", target)
	default:
		buf.Emit(codegen.SectionText, "    # unmapped condition, never taken")
	}
}

func (t *Target) lowerPrint(buf *codegen.Buffer, ins mxvm.Instruction) {
	buf.Emit(codegen.SectionText, "    leaq %s, %%rdi", t.memOperand(ins.Op1))

	intRegs := []string{"%rsi", "%rdx", "%rcx", "%r8", "%r9"}
	intIdx, floatIdx := 0, 0

	for _, arg := range ins.Extra {
		if arg.IsConstant() && arg.Value.Tag == mxvm.TagFloat && floatIdx < 8 {
			buf.Emit(codegen.SectionText, "    movsd %s, %%xmm%d", t.memOperand(arg), floatIdx)
			floatIdx++
			continue
		}

		if intIdx < len(intRegs) {
			buf.Emit(codegen.SectionText, "    movq %s, %s", t.memOperand(arg), intRegs[intIdx])
			intIdx++
		}
	}

	// SysV varargs convention: %al carries the count of vector registers
	// used for the call.
	buf.Emit(codegen.SectionText, "    movl $%d, %%eax", floatIdx)
	buf.Emit(codegen.SectionText, "    call printf")
}

func (t *Target) lowerExit(buf *codegen.Buffer, ins mxvm.Instruction) {
	if ins.NumOperands > 0 {
		buf.Emit(codegen.SectionText, "    movq %s, %%rdi", t.memOperand(ins.Op1))
	} else {
		buf.Emit(codegen.SectionText, "    movq $0, %%rdi")
	}

	buf.Emit(codegen.SectionText, "    call exit")
}

func (t *Target) lowerAlloc(buf *codegen.Buffer, ins mxvm.Instruction) {
	buf.Emit(codegen.SectionText, "    movq %s, %%rdi", t.memOperand(ins.Op2))

	if ins.NumOperands > 2 {
		buf.Emit(codegen.SectionText, "    movq %s, %%rax", t.memOperand(ins.Op3))
		buf.Emit(codegen.SectionText, "    imulq %%rax, %%rdi")
	}

	buf.Emit(codegen.SectionText, "    call malloc")
	buf.Emit(codegen.SectionText, "    movq %%rax, %s", t.memOperand(ins.Op1))
}

// lowerLoad handles both `load dst, ptr` (idx 0) and `load dst, ptr, idx`,
// using a scaled-index addressing mode since the stride here is always the
// qword slot size.
func (t *Target) lowerLoad(buf *codegen.Buffer, ins mxvm.Instruction) {
	idx := mxvm.Operand{Type: mxvm.OpConstant, Text: "0"}
	if ins.NumOperands > 2 {
		idx = ins.Op3
	}

	buf.Emit(codegen.SectionText, "    movq %s, %%rax", t.memOperand(ins.Op2))
	buf.Emit(codegen.SectionText, "    movq %s, %%rbx", t.memOperand(idx))
	buf.Emit(codegen.SectionText, "    movq (%%rax,%%rbx,8), %%rax")
	buf.Emit(codegen.SectionText, "    movq %%rax, %s", t.memOperand(ins.Op1))
}

// lowerStore handles both `store val, ptr` (idx 0) and `store val, ptr, idx`.
func (t *Target) lowerStore(buf *codegen.Buffer, ins mxvm.Instruction) {
	idx := mxvm.Operand{Type: mxvm.OpConstant, Text: "0"}
	if ins.NumOperands > 2 {
		idx = ins.Op3
	}

	buf.Emit(codegen.SectionText, "    movq %s, %%rax", t.memOperand(ins.Op2))
	buf.Emit(codegen.SectionText, "    movq %s, %%rbx", t.memOperand(idx))
	buf.Emit(codegen.SectionText, "    movq %s, %%rcx", t.memOperand(ins.Op1))
	buf.Emit(codegen.SectionText, "    movq %%rcx, (%%rax,%%rbx,8)")
}

func varBufSize(prog *mxvm.Program, name string) int64 {
	if v, ok := prog.Vars[name]; ok && v.Value.BufferCap > 0 {
		return v.Value.BufferCap
	}

	return 256
}

// lowerGetline reads one line from stdin via the host libc's fgets and
// strips the trailing newline fgets leaves in place using a strlen-based
// scan, matching the interpreter's getline semantics.
func (t *Target) lowerGetline(buf *codegen.Buffer, prog *mxvm.Program, ins mxvm.Instruction) {
	size := varBufSize(prog, ins.Op1.Text)

	buf.Emit(codegen.SectionText, "    leaq %s, %%rdi", t.memOperand(ins.Op1))
	buf.Emit(codegen.SectionText, "    movq $%d, %%rsi", size)
	buf.Emit(codegen.SectionText, "    movq stdin(%%rip), %%rdx")
	buf.Emit(codegen.SectionText, "    call fgets")
	buf.Emit(codegen.SectionText, "    leaq %s, %%rdi", t.memOperand(ins.Op1))
	buf.Emit(codegen.SectionText, "    call strlen")
	buf.Emit(codegen.SectionText, "    testq %%rax, %%rax")
	buf.Emit(codegen.SectionText, "    jz 1f")
	buf.Emit(codegen.SectionText, "    leaq %s, %%rbx", t.memOperand(ins.Op1))
	buf.Emit(codegen.SectionText, "    movb $0, -1(%%rbx,%%rax,1)")
	buf.Emit(codegen.SectionText, "1:")
}

// lowerStringPrint formats into dst's buffer via sprintf rather than
// printf, otherwise identical to lowerPrint's argument layout.
func (t *Target) lowerStringPrint(buf *codegen.Buffer, ins mxvm.Instruction) {
	buf.Emit(codegen.SectionText, "    leaq %s, %%rdi", t.memOperand(ins.Op1))
	buf.Emit(codegen.SectionText, "    leaq %s, %%rsi", t.memOperand(ins.Op2))

	intRegs := []string{"%rdx", "%rcx", "%r8", "%r9"}
	for n, arg := range ins.Extra {
		if n < len(intRegs) {
			buf.Emit(codegen.SectionText, "    movq %s, %s", t.memOperand(arg), intRegs[n])
		}
	}

	buf.Emit(codegen.SectionText, "    movl $0, %%eax")
	buf.Emit(codegen.SectionText, "    call sprintf")
}

func (t *Target) lowerInvoke(buf *codegen.Buffer, ins mxvm.Instruction) {
	intRegs := []string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

	for n, arg := range ins.Extra {
		if n < len(intRegs) {
			buf.Emit(codegen.SectionText, "    movq %s, %s", t.memOperand(arg), intRegs[n])
		}
	}

	buf.Emit(codegen.SectionText, "    call %s", externName(ins.Op1.Text))
}
