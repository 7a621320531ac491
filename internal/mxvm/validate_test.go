package mxvm

import (
	"errors"
	"testing"
)

func freshProgram() *Program {
	reg := NewRegistry("p")
	return reg.Root
}

func TestValidateRejectsUnknownJumpTarget(t *testing.T) {
	t.Parallel()

	p := freshProgram()
	p.AddInstruction(Instruction{Op: OpJmp, Op1: Operand{Type: OpVariable, Text: "nowhere"}})

	err := Validate(p)
	if err == nil {
		t.Fatal("want an error for a jump to an undeclared label")
	}

	var merr *Error
	if !errors.As(err, &merr) {
		t.Fatalf("want *Error, got %T", err)
	}

	if !errors.Is(merr, ErrUnknownLabel) {
		t.Errorf("want ErrUnknownLabel, got %v", merr)
	}
}

func TestValidateAcceptsKnownJumpTarget(t *testing.T) {
	t.Parallel()

	p := freshProgram()
	if err := p.AddLabel("loop", 0, false); err != nil {
		t.Fatal(err)
	}

	p.AddInstruction(Instruction{Op: OpJmp, Op1: Operand{Type: OpVariable, Text: "loop"}})

	if err := Validate(p); err != nil {
		t.Errorf("want no error for a jump to a known label, got %v", err)
	}
}

func TestValidateRejectsInvokeWithNoOperands(t *testing.T) {
	t.Parallel()

	p := freshProgram()
	p.AddInstruction(Instruction{Op: OpInvoke})

	err := Validate(p)
	if err == nil {
		t.Fatal("want an error for invoke with no module/function and no args")
	}

	var merr *Error
	if !errors.As(err, &merr) {
		t.Fatalf("want *Error, got %T", err)
	}

	if !errors.Is(merr, ErrArgumentMismatch) {
		t.Errorf("want ErrArgumentMismatch, got %v", merr)
	}
}

func TestValidateAcceptsInvokeNamingAFunction(t *testing.T) {
	t.Parallel()

	p := freshProgram()
	p.AddInstruction(Instruction{Op: OpInvoke, Op1: Operand{Type: OpVariable, Text: "strmod.length"}})

	if err := Validate(p); err != nil {
		t.Errorf("want no error for invoke naming a function, got %v", err)
	}
}

func TestValidateRejectsUndefinedVariableOperand(t *testing.T) {
	t.Parallel()

	p := freshProgram()
	p.AddInstruction(Instruction{
		Op:  OpMov,
		Op1: Operand{Type: OpVariable, Text: "ghost"},
		Op2: Operand{Type: OpConstant, Value: NewInt(1)},
	})

	err := Validate(p)
	if err == nil {
		t.Fatal("want an error for a reference to an undeclared variable")
	}

	var merr *Error
	if !errors.As(err, &merr) {
		t.Fatalf("want *Error, got %T", err)
	}

	if !errors.Is(merr, ErrUndefinedVariable) {
		t.Errorf("want ErrUndefinedVariable, got %v", merr)
	}
}

func TestValidateAcceptsDeclaredVariableOperand(t *testing.T) {
	t.Parallel()

	p := freshProgram()
	if err := p.AddVariable(&Variable{Name: "x", Declared: TagInteger, Value: NewInt(0)}); err != nil {
		t.Fatal(err)
	}

	p.AddInstruction(Instruction{
		Op:  OpMov,
		Op1: Operand{Type: OpVariable, Text: "x"},
		Op2: Operand{Type: OpConstant, Value: NewInt(1)},
	})

	if err := Validate(p); err != nil {
		t.Errorf("want no error for a declared variable operand, got %v", err)
	}
}

func TestValidateRejectsUndefinedVariableInExtraOperands(t *testing.T) {
	t.Parallel()

	p := freshProgram()
	p.AddInstruction(Instruction{
		Op:    OpPrint,
		Op1:   Operand{Type: OpConstant, Value: NewString("%d\n", 0)},
		Extra: []Operand{{Type: OpVariable, Text: "ghost"}},
	})

	err := Validate(p)
	if err == nil {
		t.Fatal("want an error for an undeclared variable in a variadic operand")
	}

	if !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("want ErrUndefinedVariable, got %v", err)
	}
}
