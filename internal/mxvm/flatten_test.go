package mxvm

import "testing"

func TestFlattenQualifiesObjectOwnVariables(t *testing.T) {
	t.Parallel()

	reg := NewRegistry("root")

	child, err := reg.Root.NewObject("worker")
	if err != nil {
		t.Fatal(err)
	}

	if err := child.AddVariable(&Variable{Name: "local", Declared: TagInteger, Value: NewInt(1)}); err != nil {
		t.Fatal(err)
	}

	child.AddInstruction(Instruction{
		Op:  OpMov,
		Op1: Operand{Type: OpVariable, Text: "local"},
		Op2: Operand{Type: OpConstant, Value: NewInt(2)},
	})

	flat, err := Flatten(reg)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := flat.Vars["worker.local"]; !ok {
		t.Fatal("want worker.local in the flattened variable table")
	}

	got := flat.Code[0].Op1
	if got.Text != "worker.local" {
		t.Errorf("want the object's own reference qualified to worker.local, got %q", got.Text)
	}
}

func TestFlattenLeavesSiblingReferenceUnqualified(t *testing.T) {
	t.Parallel()

	reg := NewRegistry("root")

	if err := reg.Root.AddVariable(&Variable{Name: "shared", Declared: TagInteger, Value: NewInt(1)}); err != nil {
		t.Fatal(err)
	}

	child, err := reg.Root.NewObject("worker")
	if err != nil {
		t.Fatal(err)
	}

	child.AddInstruction(Instruction{
		Op:  OpMov,
		Op1: Operand{Type: OpVariable, Text: "shared"},
		Op2: Operand{Type: OpConstant, Value: NewInt(2)},
	})

	flat, err := Flatten(reg)
	if err != nil {
		t.Fatal(err)
	}

	got := flat.Code[0].Op1
	if got.Text != "shared" {
		t.Errorf("want a genuine root-variable reference left bare, got %q", got.Text)
	}

	if err := Validate(flat); err != nil {
		t.Fatalf("want a flattened sibling reference to validate cleanly, got %v", err)
	}
}

func TestFlattenLeavesSiblingToSiblingReferenceUnqualified(t *testing.T) {
	t.Parallel()

	reg := NewRegistry("root")

	a, err := reg.Root.NewObject("a")
	if err != nil {
		t.Fatal(err)
	}

	b, err := reg.Root.NewObject("b")
	if err != nil {
		t.Fatal(err)
	}

	if err := b.AddVariable(&Variable{Name: "counter", Declared: TagInteger, Value: NewInt(0)}); err != nil {
		t.Fatal(err)
	}

	a.AddInstruction(Instruction{
		Op:  OpMov,
		Op1: Operand{Type: OpVariable, Text: "counter"},
		Op2: Operand{Type: OpConstant, Value: NewInt(5)},
	})

	flat, err := Flatten(reg)
	if err != nil {
		t.Fatal(err)
	}

	got := flat.Code[0].Op1
	if got.Text != "counter" {
		t.Errorf("want a's reference to b's variable left bare for sibling lookup, got %q", got.Text)
	}

	if err := Validate(flat); err != nil {
		t.Fatalf("want sibling-to-sibling reference to validate cleanly, got %v", err)
	}

	v, err := flat.GetVariable("counter")
	if err != nil {
		t.Fatalf("want flat.GetVariable to resolve the sibling reference, got %v", err)
	}

	if v != flat.Vars["b.counter"] {
		t.Error("want the sibling lookup to observe the same storage as flat.Vars[\"b.counter\"]")
	}
}

func TestFlattenRenamesJumpTargetsWithinAnObject(t *testing.T) {
	t.Parallel()

	reg := NewRegistry("root")

	child, err := reg.Root.NewObject("worker")
	if err != nil {
		t.Fatal(err)
	}

	if err := child.AddLabel("loop", 0, false); err != nil {
		t.Fatal(err)
	}

	child.AddInstruction(Instruction{Op: OpJmp, Op1: Operand{Type: OpVariable, Text: "loop"}})

	flat, err := Flatten(reg)
	if err != nil {
		t.Fatal(err)
	}

	if flat.Code[0].Op1.Text != "worker.loop" {
		t.Errorf("want jump target renamed to worker.loop, got %q", flat.Code[0].Op1.Text)
	}

	if _, ok := flat.Labels["worker.loop"]; !ok {
		t.Error("want worker.loop present in the flattened label table")
	}
}
