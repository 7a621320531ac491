package mxvm

import (
	"errors"
	"testing"
)

func TestProgramVariables(t *testing.T) {
	t.Run("duplicate declaration is an error", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry("main")
		root := reg.Root

		if err := root.AddVariable(&Variable{Name: "x", Declared: TagInteger}); err != nil {
			t.Fatal(err)
		}

		err := root.AddVariable(&Variable{Name: "x", Declared: TagInteger})
		if !errors.Is(err, ErrDuplicateVariable) {
			t.Errorf("want ErrDuplicateVariable, got %v", err)
		}
	})

	t.Run("undefined lookup fails", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry("main")

		_, err := reg.Root.GetVariable("nope")
		if !errors.Is(err, ErrUndefinedVariable) {
			t.Errorf("want ErrUndefinedVariable, got %v", err)
		}
	})

	t.Run("machine register alias is created on first reference", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry("main")

		v, err := reg.Root.GetVariable("%rax")
		if err != nil {
			t.Fatal(err)
		}

		if v.Declared != TagInteger || !v.IsGlobal {
			t.Errorf("want global integer register, got %+v", v)
		}

		v2, err := reg.Root.GetVariable("%xmm3")
		if err != nil {
			t.Fatal(err)
		}

		if v2.Declared != TagFloat {
			t.Errorf("want float register, got %s", v2.Declared)
		}
	})

	t.Run("sibling lookup is resolved through the registry", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry("main")

		helper, err := reg.Root.NewObject("helper")
		if err != nil {
			t.Fatal(err)
		}

		if err := helper.AddVariable(&Variable{Name: "counter", Declared: TagInteger}); err != nil {
			t.Fatal(err)
		}

		v, err := reg.Root.GetVariable("counter")
		if err != nil {
			t.Fatalf("expected sibling lookup to find counter: %v", err)
		}

		if v.Object != "helper" {
			t.Errorf("want owning object helper, got %s", v.Object)
		}
	})

	t.Run("qualified name prefers local object over sibling", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry("main")
		root := reg.Root

		if err := root.AddVariable(&Variable{Name: "x", Declared: TagInteger}); err != nil {
			t.Fatal(err)
		}

		helper, err := root.NewObject("helper")
		if err != nil {
			t.Fatal(err)
		}

		if err := helper.AddVariable(&Variable{Name: "x", Declared: TagFloat}); err != nil {
			t.Fatal(err)
		}

		v, err := helper.GetVariable("x")
		if err != nil {
			t.Fatal(err)
		}

		if v.Declared != TagFloat {
			t.Errorf("want helper's own x (float), got %s", v.Declared)
		}
	})
}

func TestProgramLabels(t *testing.T) {
	t.Run("redefinition is an error", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry("main")
		root := reg.Root

		if err := root.AddLabel("loop", 0, false); err != nil {
			t.Fatal(err)
		}

		err := root.AddLabel("loop", 4, false)
		if !errors.Is(err, ErrLabelRedefinition) {
			t.Errorf("want ErrLabelRedefinition, got %v", err)
		}
	})
}

func TestNewObjectDuplicate(t *testing.T) {
	t.Parallel()

	reg := NewRegistry("main")

	if _, err := reg.Root.NewObject("helper"); err != nil {
		t.Fatal(err)
	}

	_, err := reg.Root.NewObject("helper")
	if !errors.Is(err, ErrDuplicateVariable) {
		t.Errorf("want ErrDuplicateVariable, got %v", err)
	}
}
