package std

import (
	"testing"

	"github.com/lostjared/MXVM-sub000/internal/mxvm"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/module"
)

// fakeRuntime is a minimal module.Runtime for exercising a single module
// function in isolation, without a live interpreter.
type fakeRuntime struct {
	results map[string]mxvm.Value
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{results: make(map[string]mxvm.Value)}
}

func (f *fakeRuntime) Program() *mxvm.Program { return nil }

func (f *fakeRuntime) ResolveValue(op mxvm.Operand) (mxvm.Value, error) {
	return op.Value, nil
}

func (f *fakeRuntime) BindVariable(op mxvm.Operand) (*mxvm.Variable, error) {
	return nil, nil
}

func (f *fakeRuntime) SetResult(register string, v mxvm.Value) {
	f.results[register] = v
}

func (f *fakeRuntime) Heap() module.Heap     { return nil }
func (f *fakeRuntime) Stdin() module.Reader  { return nil }
func (f *fakeRuntime) Stdout() module.Writer { return nil }

func constOperand(v mxvm.Value) mxvm.Operand {
	return mxvm.Operand{Type: mxvm.OpConstant, Value: v}
}

func TestRegisterAndLookup(t *testing.T) {
	t.Parallel()

	reg := module.NewRegistry()
	Register(reg)

	if _, err := reg.Lookup("std.argc"); err != nil {
		t.Errorf("qualified lookup: %v", err)
	}

	if _, err := reg.Lookup("argc"); err != nil {
		t.Errorf("bare lookup: %v", err)
	}
}

func TestArgcArgv(t *testing.T) {
	old := Args
	defer func() { Args = old }()
	Args = []string{"first", "second"}

	rt := newFakeRuntime()

	if err := argcFn(rt, nil); err != nil {
		t.Fatal(err)
	}

	if rt.results["%rax"].Int() != 2 {
		t.Errorf("argc: want 2, got %d", rt.results["%rax"].Int())
	}

	rt = newFakeRuntime()
	if err := argvFn(rt, []mxvm.Operand{constOperand(mxvm.NewInt(1))}); err != nil {
		t.Fatal(err)
	}

	if rt.results["%rax"].String() != "second" {
		t.Errorf("argv(1): want %q, got %q", "second", rt.results["%rax"].String())
	}

	rt = newFakeRuntime()
	if err := argvFn(rt, []mxvm.Operand{constOperand(mxvm.NewInt(99))}); err != nil {
		t.Fatal(err)
	}

	if rt.results["%rax"].String() != "" {
		t.Errorf("argv(out of range): want empty string, got %q", rt.results["%rax"].String())
	}
}

func TestFloatIntConversions(t *testing.T) {
	t.Parallel()

	rt := newFakeRuntime()
	if err := floatToInt(rt, []mxvm.Operand{constOperand(mxvm.NewFloat(3.7))}); err != nil {
		t.Fatal(err)
	}

	if rt.results["%rax"].Int() != 3 {
		t.Errorf("float_to_int(3.7): want 3, got %d", rt.results["%rax"].Int())
	}

	rt = newFakeRuntime()
	if err := intToFloat(rt, []mxvm.Operand{constOperand(mxvm.NewInt(4))}); err != nil {
		t.Fatal(err)
	}

	if rt.results["%xmm0"].Float() != 4.0 {
		t.Errorf("int_to_float(4): want 4.0, got %v", rt.results["%xmm0"].Float())
	}
}

func TestArgumentMismatch(t *testing.T) {
	t.Parallel()

	rt := newFakeRuntime()
	if err := argvFn(rt, nil); err == nil {
		t.Error("want argument mismatch error, got nil")
	}
}
