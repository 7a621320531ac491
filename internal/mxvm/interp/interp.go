// Package interp implements the tree-walking interpreter over a flattened
// mxvm.Program (spec §3, §4.4): one goroutine, a program counter into the
// instruction slice, the condition-code flags, a typed value stack and an
// owned-allocation heap, dispatching each opcode to a handler method the way
// the teacher's LC-3 Step/Decode/Execute cycle dispatches LC-3 opcodes
// (internal/vm/exec.go), simplified to a single dispatch stage since MXVM
// instructions carry no separate address-evaluation phase.
package interp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/lostjared/MXVM-sub000/internal/ioconsole"
	"github.com/lostjared/MXVM-sub000/internal/log"
	"github.com/lostjared/MXVM-sub000/internal/mxvm"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/module"
)

// lineSource is the subset of ioconsole.Console the interpreter needs for
// `getline`; a plain bufio.Reader-backed fallback satisfies it for stdin
// readers that are not an *os.File (such as in-memory buffers in tests).
type lineSource interface {
	GetLine() (string, error)
}

type bufLineSource struct{ r *bufio.Reader }

func (b bufLineSource) GetLine() (string, error) {
	line, err := b.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}

	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}

	if err == io.EOF && line == "" {
		return "", io.EOF
	}

	return line, nil
}

// Interp runs one flattened program to completion.
type Interp struct {
	prog    *mxvm.Program
	modules *module.Registry
	heap    *Heap
	stack   valueStack

	flags mxvm.Flags
	pc    int

	lastResult mxvm.Value

	stdin   io.Reader
	stdout  io.Writer
	console lineSource

	log *log.Logger

	exitCode int
	done     bool
}

// Option configures an Interp at construction, in the OptionFn style the
// teacher's LC3 uses for device/driver wiring (internal/vm/vm.go).
type Option func(*Interp)

// WithModules replaces the default empty module registry.
func WithModules(reg *module.Registry) Option {
	return func(i *Interp) { i.modules = reg }
}

// WithStdin sets the stream `getline` and module I/O read from.
func WithStdin(r io.Reader) Option {
	return func(i *Interp) { i.stdin = r }
}

// WithStdout sets the stream `print`/`string_print` and module I/O write to.
func WithStdout(w io.Writer) Option {
	return func(i *Interp) { i.stdout = w }
}

// WithConsole overrides line reading with a caller-supplied source (for
// example an ioconsole.Console). Without it, New picks the source from the
// type of the stdin stream.
func WithConsole(c lineSource) Option {
	return func(i *Interp) { i.console = c }
}

// WithLogger overrides the default logger.
func WithLogger(l *log.Logger) Option {
	return func(i *Interp) { i.log = l }
}

// New constructs an interpreter for a flattened program.
func New(prog *mxvm.Program, opts ...Option) *Interp {
	i := &Interp{
		prog:    prog,
		modules: module.NewRegistry(),
		heap:    NewHeap(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		log:     log.DefaultLogger(),
	}

	for _, fn := range opts {
		fn(i)
	}

	if i.console == nil {
		if f, ok := i.stdin.(*os.File); ok {
			i.console = ioconsole.New(f, i.stdout)
		} else {
			i.console = bufLineSource{r: bufio.NewReader(i.stdin)}
		}
	}

	return i
}

// ErrDone names the state of a program that reached a terminal instruction
// (done/exit/top-level ret) rather than a runtime fault. Run does not return
// it: normal termination is reported as the exit code with a nil error.
var ErrDone = errors.New("program done")

// Run executes instructions until the program terminates, the context is
// cancelled, or a runtime error occurs. It returns the process exit code
// (spec §4.4.1's exit/done semantics: exit carries an explicit status, done
// always succeeds with 0).
func (i *Interp) Run(ctx context.Context) (int, error) {
	i.log.Info("START", "program", i.prog.Name, "instructions", len(i.prog.Code))

	for !i.done {
		select {
		case <-ctx.Done():
			return i.exitCode, ctx.Err()
		default:
		}

		if i.pc < 0 || i.pc >= len(i.prog.Code) {
			break
		}

		if err := i.Step(); err != nil {
			i.log.Error("HALTED", "err", err, "pc", i.pc)
			return i.exitCode, err
		}
	}

	i.log.Info("DONE", "exit", i.exitCode)

	return i.exitCode, nil
}

// Step executes the instruction at pc, advancing pc unless the instruction
// itself redirected control flow.
func (i *Interp) Step() error {
	ins := i.prog.Code[i.pc]

	advance := true

	var err error

	switch ins.Op {
	case mxvm.OpMov:
		err = i.execMov(ins)
	case mxvm.OpLoad:
		err = i.execLoad(ins)
	case mxvm.OpStore:
		err = i.execStore(ins)
	case mxvm.OpAdd:
		err = i.execArith("add", ins)
	case mxvm.OpSub:
		err = i.execArith("sub", ins)
	case mxvm.OpMul:
		err = i.execArith("mul", ins)
	case mxvm.OpDiv:
		err = i.execArith("div", ins)
	case mxvm.OpMod:
		err = i.execArith("mod", ins)
	case mxvm.OpOr:
		err = i.execBitwise("or", ins)
	case mxvm.OpAnd:
		err = i.execBitwise("and", ins)
	case mxvm.OpXor:
		err = i.execBitwise("xor", ins)
	case mxvm.OpNot:
		err = i.execNot(ins)
	case mxvm.OpNeg:
		err = i.execNeg(ins)
	case mxvm.OpCmp:
		err = i.execCmp(ins)
	case mxvm.OpJmp, mxvm.OpJe, mxvm.OpJne, mxvm.OpJl, mxvm.OpJle, mxvm.OpJg, mxvm.OpJge,
		mxvm.OpJz, mxvm.OpJnz, mxvm.OpJa, mxvm.OpJb:
		var taken bool
		taken, err = i.execJump(ins)
		advance = !taken
	case mxvm.OpCall:
		err = i.execCall(ins)
		advance = false
	case mxvm.OpRet:
		err = i.execRet()
		advance = false
	case mxvm.OpPrint:
		err = i.execPrint(ins)
	case mxvm.OpStringPrint:
		err = i.execStringPrint(ins)
	case mxvm.OpGetline:
		err = i.execGetline(ins)
	case mxvm.OpExit:
		err = i.execExit(ins)
	case mxvm.OpDone:
		i.done = true
	case mxvm.OpAlloc:
		err = i.execAlloc(ins)
	case mxvm.OpFree:
		err = i.execFree(ins)
	case mxvm.OpPush:
		err = i.execPush(ins)
	case mxvm.OpPop:
		err = i.execPop(ins)
	case mxvm.OpStackLoad:
		err = i.execStackLoad(ins)
	case mxvm.OpStackStore:
		err = i.execStackStore(ins)
	case mxvm.OpStackSub:
		err = i.execStackSub(ins)
	case mxvm.OpToInt:
		err = i.execToInt(ins)
	case mxvm.OpToFloat:
		err = i.execToFloat(ins)
	case mxvm.OpInvoke:
		err = i.execInvoke(ins)
	case mxvm.OpReturn:
		err = i.execReturn(ins)
	default:
		err = mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrUnknownOpcode, ins.Op.Name(), "").At(ins.Line, 0)
	}

	if err != nil {
		if merr, ok := err.(*mxvm.Error); ok && merr.Line == 0 {
			merr.At(ins.Line, 0)
		}

		return err
	}

	if advance {
		i.pc++
	}

	return nil
}

// --- module.Runtime -------------------------------------------------------

func (i *Interp) Program() *mxvm.Program { return i.prog }

func (i *Interp) ResolveValue(op mxvm.Operand) (mxvm.Value, error) {
	if op.IsConstant() {
		return op.Value, nil
	}

	v, err := i.prog.GetVariable(op.Text)
	if err != nil {
		return mxvm.Value{}, err
	}

	return v.Value, nil
}

func (i *Interp) BindVariable(op mxvm.Operand) (*mxvm.Variable, error) {
	if op.IsVariable() {
		return i.prog.GetVariable(op.Text)
	}

	// createTempVariable: a throwaway binding for a constant operand, not
	// registered in the program's variable table.
	return &mxvm.Variable{Name: op.Text, Declared: op.Value.Tag, Value: op.Value}, nil
}

func (i *Interp) SetResult(register string, v mxvm.Value) {
	reg, err := i.prog.GetVariable(register)
	if err != nil {
		return
	}

	reg.Value = v
	i.lastResult = v
}

func (i *Interp) Heap() module.Heap     { return i.heap }
func (i *Interp) Stdin() module.Reader  { return i.stdin }
func (i *Interp) Stdout() module.Writer { return i.stdout }

// --- operand helpers --------------------------------------------------

func (i *Interp) variable(op mxvm.Operand) (*mxvm.Variable, error) {
	if !op.IsVariable() {
		return nil, mxvm.NewError(mxvm.ClassSyntax, mxvm.ErrNotAVariable, "", op.Text)
	}

	return i.prog.GetVariable(op.Text)
}

func (i *Interp) value(op mxvm.Operand) (mxvm.Value, error) {
	return i.ResolveValue(op)
}

// --- mov / arithmetic / bitwise -------------------------------------------

func (i *Interp) execMov(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	src, err := i.value(ins.Op2)
	if err != nil {
		return err
	}

	dst.Value = coerceToTag(src, dst.Declared)

	return nil
}

// coerceToTag narrows/widens v to fit a declared slot the way mov's implicit
// conversion does (spec §4.1): byte truncates to 8 bits, int/float convert
// via the same rules as to_int/to_float, everything else passes through.
func coerceToTag(v mxvm.Value, tag mxvm.ValueTag) mxvm.Value {
	switch tag {
	case mxvm.TagByte:
		return mxvm.NewByte(byte(v.Int()))
	case mxvm.TagInteger:
		if v.Tag == mxvm.TagFloat {
			return mxvm.NewInt(int64(math.Trunc(v.Float())))
		}

		if v.Tag.IsNumeric() {
			return mxvm.NewInt(v.Int())
		}

		return v
	case mxvm.TagFloat:
		if v.Tag.IsNumeric() {
			return mxvm.NewFloat(v.Float())
		}

		return v
	default:
		return v
	}
}

// arithOperands resolves the in-place (two-operand) and assignment
// (three-operand) forms of add/sub/mul/div/mod per spec §4.4.1: `op dst, src`
// updates dst in place; `op dst, a, b` assigns dst <- a OP b.
func (i *Interp) arithOperands(ins mxvm.Instruction) (dst *mxvm.Variable, a, b mxvm.Value, err error) {
	dst, err = i.variable(ins.Op1)
	if err != nil {
		return nil, mxvm.Value{}, mxvm.Value{}, err
	}

	if ins.NumOperands <= 2 {
		a = dst.Value

		b, err = i.value(ins.Op2)
		if err != nil {
			return nil, mxvm.Value{}, mxvm.Value{}, err
		}

		return dst, a, b, nil
	}

	a, err = i.value(ins.Op2)
	if err != nil {
		return nil, mxvm.Value{}, mxvm.Value{}, err
	}

	b, err = i.value(ins.Op3)
	if err != nil {
		return nil, mxvm.Value{}, mxvm.Value{}, err
	}

	return dst, a, b, nil
}

func (i *Interp) execArith(op string, ins mxvm.Instruction) error {
	dst, a, b, err := i.arithOperands(ins)
	if err != nil {
		return err
	}

	result, err := mxvm.Arith(op, dst.Declared, a, b)
	if err != nil {
		return mxvm.NewError(mxvm.ClassType, err, ins.Op.Name(), "")
	}

	dst.Value = result

	return nil
}

func (i *Interp) execBitwise(op string, ins mxvm.Instruction) error {
	dst, a, b, err := i.arithOperands(ins)
	if err != nil {
		return err
	}

	result, err := mxvm.Bitwise(op, a, b)
	if err != nil {
		return mxvm.NewError(mxvm.ClassType, err, ins.Op.Name(), "")
	}

	dst.Value = result

	return nil
}

func (i *Interp) execNot(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	src := dst.Value
	if ins.NumOperands > 1 {
		if src, err = i.value(ins.Op2); err != nil {
			return err
		}
	}

	result, err := mxvm.Not(src)
	if err != nil {
		return mxvm.NewError(mxvm.ClassType, err, "not", "")
	}

	dst.Value = result

	return nil
}

func (i *Interp) execNeg(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	src := dst.Value
	if ins.NumOperands > 1 {
		if src, err = i.value(ins.Op2); err != nil {
			return err
		}
	}

	result, err := mxvm.Neg(src)
	if err != nil {
		return mxvm.NewError(mxvm.ClassType, err, "neg", "")
	}

	dst.Value = result

	return nil
}

// --- compare / jump / call -------------------------------------------------

func (i *Interp) execCmp(ins mxvm.Instruction) error {
	a, err := i.value(ins.Op1)
	if err != nil {
		return err
	}

	b, err := i.value(ins.Op2)
	if err != nil {
		return err
	}

	if ins.Float {
		i.flags = mxvm.FCompare(a, b)
		return nil
	}

	flags, err := mxvm.Compare(a, b)
	if err != nil {
		return mxvm.NewError(mxvm.ClassType, err, "cmp", "")
	}

	i.flags = flags

	return nil
}

func (i *Interp) jumpTaken(ins mxvm.Instruction) bool {
	f := i.flags

	switch ins.Cond {
	case mxvm.CondNone:
		return ins.Op == mxvm.OpJmp
	case mxvm.CondEQ:
		return f.Zero
	case mxvm.CondNE:
		return !f.Zero
	case mxvm.CondLT:
		return f.Less
	case mxvm.CondLE:
		return f.Less || f.Zero
	case mxvm.CondGT:
		return f.Greater
	case mxvm.CondGE:
		return f.Greater || f.Zero
	case mxvm.CondZ:
		return f.Zero
	case mxvm.CondNZ:
		return !f.Zero
	case mxvm.CondAE:
		return !f.Carry && !f.Zero
	case mxvm.CondAboveEq:
		return !f.Carry
	case mxvm.CondBE:
		return f.Carry
	case mxvm.CondBelowEq:
		return f.Carry || f.Zero
	case mxvm.CondCarry:
		return f.Carry
	case mxvm.CondNoCarry:
		return !f.Carry
	case mxvm.CondParity, mxvm.CondOverflow, mxvm.CondSign:
		// Unmapped condition bits: the reference implementation has no
		// parity/overflow/sign flag, so these never fire.
		return false
	case mxvm.CondNoParity, mxvm.CondNoOverflow, mxvm.CondNoSign:
		return true
	default:
		return false
	}
}

func (i *Interp) labelAddr(ins mxvm.Instruction, name string) (int, error) {
	info, ok := i.prog.Labels[name]
	if !ok {
		return 0, mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrUnknownLabel, ins.Op.Name(), name)
	}

	return info.Address, nil
}

func (i *Interp) execJump(ins mxvm.Instruction) (bool, error) {
	if !i.jumpTaken(ins) {
		return false, nil
	}

	addr, err := i.labelAddr(ins, ins.Op1.Text)
	if err != nil {
		return false, err
	}

	i.pc = addr

	return true, nil
}

func (i *Interp) execCall(ins mxvm.Instruction) error {
	addr, err := i.labelAddr(ins, ins.Op1.Text)
	if err != nil {
		return err
	}

	i.stack.push(intStackVal(int64(i.pc + 1)))
	i.pc = addr

	return nil
}

func (i *Interp) execRet() error {
	sv, err := i.stack.pop()
	if err != nil {
		return mxvm.NewError(mxvm.ClassControl, err, "ret", "")
	}

	i.pc = int(sv.I)

	return nil
}

// --- print / getline / exit -------------------------------------------------

func (i *Interp) execPrint(ins mxvm.Instruction) error {
	format, err := i.value(ins.Op1)
	if err != nil {
		return err
	}

	args, err := i.resolveAll(ins.Extra)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(i.stdout, sprintf(format.String(), args))

	return err
}

func (i *Interp) execStringPrint(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	format, err := i.value(ins.Op2)
	if err != nil {
		return err
	}

	args, err := i.resolveAll(ins.Extra)
	if err != nil {
		return err
	}

	out := sprintf(format.String(), args)

	if cap := dst.Value.BufferCap; cap > 0 && int64(len(out)) > cap {
		out = out[:cap]
	}

	dst.Value = mxvm.NewString(out, dst.Value.BufferCap)

	return nil
}

func (i *Interp) resolveAll(ops []mxvm.Operand) ([]mxvm.Value, error) {
	out := make([]mxvm.Value, 0, len(ops))

	for _, op := range ops {
		v, err := i.value(op)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

func (i *Interp) execGetline(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	line, err := i.console.GetLine()
	if err != nil {
		if err == io.EOF {
			// Boundary behavior (spec §8): leave the destination unchanged.
			return nil
		}

		return mxvm.NewError(mxvm.ClassHost, mxvm.ErrHostIO, "getline", err.Error())
	}

	dst.Value = mxvm.NewString(line, dst.Value.BufferCap)

	return nil
}

func (i *Interp) execExit(ins mxvm.Instruction) error {
	code := int64(0)

	if ins.NumOperands > 0 {
		v, err := i.value(ins.Op1)
		if err != nil {
			return err
		}

		code = v.Int()
	}

	i.exitCode = int(code)
	i.done = true

	return nil
}

// --- heap / stack -------------------------------------------------------

func (i *Interp) execAlloc(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	sizeV, err := i.value(ins.Op2)
	if err != nil {
		return err
	}

	count := int64(1)
	if ins.NumOperands > 2 {
		countV, err := i.value(ins.Op3)
		if err != nil {
			return err
		}

		count = countV.Int()
	}

	handle := i.heap.Alloc(sizeV.Int(), count)

	dst.Value = mxvm.Value{
		Tag: mxvm.TagPointer, Ptr: handle,
		ElemSize: sizeV.Int(), ElemCount: count, Owns: true,
	}

	return nil
}

func (i *Interp) execFree(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	i.heap.Free(dst.Value.Ptr)
	dst.Value = mxvm.NewNullPointer()

	return nil
}

// heapSlot resolves the byte range for a POINTER variable's element at idx,
// per the element size recorded at alloc time.
func (i *Interp) heapSlot(v mxvm.Variable, idx int64) ([]byte, error) {
	if v.Value.Tag != mxvm.TagPointer || v.Value.Ptr == 0 {
		return nil, mxvm.NewError(mxvm.ClassMemory, mxvm.ErrNullDereference, "", v.Name)
	}

	mem, ok := i.heap.Bytes(v.Value.Ptr)
	if !ok {
		return nil, mxvm.NewError(mxvm.ClassMemory, mxvm.ErrNullDereference, "", v.Name)
	}

	size := v.Value.ElemSize
	if size <= 0 {
		size = 8
	}

	start := idx * size
	if start < 0 || start+size > int64(len(mem)) {
		return nil, mxvm.NewError(mxvm.ClassMemory, mxvm.ErrNullDereference, "", v.Name)
	}

	return mem[start : start+size], nil
}

func (i *Interp) execLoad(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	ptr, err := i.variable(ins.Op2)
	if err != nil {
		return err
	}

	idx := int64(0)
	if ins.NumOperands > 2 {
		idxV, err := i.value(ins.Op3)
		if err != nil {
			return err
		}

		idx = idxV.Int()
	}

	slot, err := i.heapSlot(*ptr, idx)
	if err != nil {
		return err
	}

	dst.Value = decodeSlot(slot, dst.Declared)

	return nil
}

func (i *Interp) execStore(ins mxvm.Instruction) error {
	src, err := i.value(ins.Op1)
	if err != nil {
		return err
	}

	ptr, err := i.variable(ins.Op2)
	if err != nil {
		return err
	}

	idx := int64(0)
	if ins.NumOperands > 2 {
		idxV, err := i.value(ins.Op3)
		if err != nil {
			return err
		}

		idx = idxV.Int()
	}

	slot, err := i.heapSlot(*ptr, idx)
	if err != nil {
		return err
	}

	encodeSlot(slot, src)

	return nil
}

func decodeSlot(slot []byte, tag mxvm.ValueTag) mxvm.Value {
	switch tag {
	case mxvm.TagFloat:
		if len(slot) >= 8 {
			return mxvm.NewFloat(math.Float64frombits(leUint64(slot)))
		}

		return mxvm.NewFloat(0)
	case mxvm.TagByte:
		if len(slot) >= 1 {
			return mxvm.NewByte(slot[0])
		}

		return mxvm.NewByte(0)
	default:
		if len(slot) >= 8 {
			return mxvm.NewInt(int64(leUint64(slot)))
		}

		return mxvm.NewInt(0)
	}
}

func encodeSlot(slot []byte, v mxvm.Value) {
	switch {
	case len(slot) >= 8 && v.Tag == mxvm.TagFloat:
		putLeUint64(slot, math.Float64bits(v.Float()))
	case len(slot) >= 8:
		putLeUint64(slot, uint64(v.Int()))
	case len(slot) >= 1:
		slot[0] = byte(v.Int())
	}
}

func leUint64(b []byte) uint64 {
	var u uint64
	for n := 0; n < 8 && n < len(b); n++ {
		u |= uint64(b[n]) << (8 * n)
	}

	return u
}

func putLeUint64(b []byte, u uint64) {
	for n := 0; n < 8 && n < len(b); n++ {
		b[n] = byte(u >> (8 * n))
	}
}

// --- value stack -------------------------------------------------------

// toStackVal and fromStackVal encode/decode a Value for the value stack.
// Floats are carried bit-for-bit in the integer slot and reinterpreted on
// the way out using the destination's declared tag, since StackVal itself
// carries no type tag (spec §9: the stack is a plain typed-cell array, the
// declared slot that reads it back decides the interpretation).
func toStackVal(v mxvm.Value) StackVal {
	switch v.Tag {
	case mxvm.TagPointer, mxvm.TagExtern:
		return ptrStackVal(v.Ptr)
	case mxvm.TagFloat:
		return intStackVal(int64(math.Float64bits(v.Float())))
	default:
		return intStackVal(v.Int())
	}
}

func fromStackVal(sv StackVal, tag mxvm.ValueTag) mxvm.Value {
	if sv.IsPointer {
		return mxvm.Value{Tag: mxvm.TagPointer, Ptr: sv.Ptr}
	}

	if tag == mxvm.TagFloat {
		return mxvm.NewFloat(math.Float64frombits(uint64(sv.I)))
	}

	if tag == mxvm.TagByte {
		return mxvm.NewByte(byte(sv.I))
	}

	return mxvm.NewInt(sv.I)
}

func (i *Interp) execPush(ins mxvm.Instruction) error {
	v, err := i.value(ins.Op1)
	if err != nil {
		return err
	}

	i.stack.push(toStackVal(v))

	return nil
}

func (i *Interp) execPop(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	sv, err := i.stack.pop()
	if err != nil {
		return mxvm.NewError(mxvm.ClassControl, err, "pop", "")
	}

	dst.Value = fromStackVal(sv, dst.Declared)

	return nil
}

func (i *Interp) execStackLoad(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	idxV, err := i.value(ins.Op2)
	if err != nil {
		return err
	}

	sv, err := i.stack.load(int(idxV.Int()))
	if err != nil {
		return mxvm.NewError(mxvm.ClassControl, err, "stack_load", "")
	}

	dst.Value = fromStackVal(sv, dst.Declared)

	return nil
}

func (i *Interp) execStackStore(ins mxvm.Instruction) error {
	idxV, err := i.value(ins.Op1)
	if err != nil {
		return err
	}

	src, err := i.value(ins.Op2)
	if err != nil {
		return err
	}

	if err := i.stack.store(int(idxV.Int()), toStackVal(src)); err != nil {
		return mxvm.NewError(mxvm.ClassControl, err, "stack_store", "")
	}

	return nil
}

func (i *Interp) execStackSub(ins mxvm.Instruction) error {
	nV, err := i.value(ins.Op1)
	if err != nil {
		return err
	}

	if err := i.stack.sub(int(nV.Int())); err != nil {
		return mxvm.NewError(mxvm.ClassControl, err, "stack_sub", "")
	}

	return nil
}

// --- conversions / modules -------------------------------------------------

func (i *Interp) execToInt(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	src := dst.Value
	if ins.NumOperands > 1 {
		if src, err = i.value(ins.Op2); err != nil {
			return err
		}
	}

	v, err := mxvm.ToInt(src)
	if err != nil {
		return mxvm.NewError(mxvm.ClassType, err, "to_int", "")
	}

	dst.Value = v

	return nil
}

func (i *Interp) execToFloat(ins mxvm.Instruction) error {
	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	src := dst.Value
	if ins.NumOperands > 1 {
		if src, err = i.value(ins.Op2); err != nil {
			return err
		}
	}

	v, err := mxvm.ToFloat(src)
	if err != nil {
		return mxvm.NewError(mxvm.ClassType, err, "to_float", "")
	}

	dst.Value = v

	return nil
}

func (i *Interp) execInvoke(ins mxvm.Instruction) error {
	name := ins.Op1.Text

	fn, err := i.modules.Lookup(name)
	if err != nil {
		return mxvm.NewError(mxvm.ClassSemantic, err, "invoke", name)
	}

	return fn(i, ins.Extra)
}

func (i *Interp) execReturn(ins mxvm.Instruction) error {
	if ins.NumOperands == 0 {
		return nil
	}

	dst, err := i.variable(ins.Op1)
	if err != nil {
		return err
	}

	dst.Value = coerceToTag(i.lastResult, dst.Declared)

	return nil
}
