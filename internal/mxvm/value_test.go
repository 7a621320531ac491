package mxvm

import "testing"

func TestArith(t *testing.T) {
	t.Run("integer add", func(t *testing.T) {
		t.Parallel()

		got, err := Arith("add", TagInteger, NewInt(2), NewInt(3))
		if err != nil {
			t.Fatal(err)
		}

		if got.Int() != 5 {
			t.Errorf("want 5, got %d", got.Int())
		}
	})

	t.Run("float destination coerces integer sources", func(t *testing.T) {
		t.Parallel()

		got, err := Arith("mul", TagFloat, NewInt(2), NewFloat(1.5))
		if err != nil {
			t.Fatal(err)
		}

		if got.Tag != TagFloat || got.Float() != 3.0 {
			t.Errorf("want float 3.0, got %s", got.Format())
		}
	})

	t.Run("integer destination truncates float sources", func(t *testing.T) {
		t.Parallel()

		got, err := Arith("add", TagInteger, NewInt(1), NewFloat(2.9))
		if err != nil {
			t.Fatal(err)
		}

		if got.Int() != 3 {
			t.Errorf("want 3, got %d", got.Int())
		}
	})

	t.Run("div by zero yields zero, not a panic", func(t *testing.T) {
		t.Parallel()

		got, err := Arith("div", TagInteger, NewInt(7), NewInt(0))
		if err != nil {
			t.Fatal(err)
		}

		if got.Int() != 0 {
			t.Errorf("want 0, got %d", got.Int())
		}
	})

	t.Run("float mod is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := Arith("mod", TagFloat, NewFloat(1), NewFloat(2))
		if err == nil {
			t.Error("want error, got nil")
		}
	})

	t.Run("byte destination wraps", func(t *testing.T) {
		t.Parallel()

		got, err := Arith("add", TagByte, NewByte(250), NewInt(10))
		if err != nil {
			t.Fatal(err)
		}

		if got.Tag != TagByte || got.Int() != 4 {
			t.Errorf("want byte 4 (260 mod 256), got %s", got.Format())
		}
	})
}

func TestNeg(t *testing.T) {
	t.Run("integer", func(t *testing.T) {
		t.Parallel()

		got, err := Neg(NewInt(5))
		if err != nil {
			t.Fatal(err)
		}

		if got.Int() != -5 {
			t.Errorf("want -5, got %d", got.Int())
		}
	})

	t.Run("string is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := Neg(NewString("x", 0))
		if err == nil {
			t.Error("want error, got nil")
		}
	})
}

func TestNot(t *testing.T) {
	t.Run("zero becomes one", func(t *testing.T) {
		t.Parallel()

		got, err := Not(NewInt(0))
		if err != nil {
			t.Fatal(err)
		}

		if got.Int() != 1 {
			t.Errorf("want 1, got %d", got.Int())
		}
	})

	t.Run("nonzero becomes zero", func(t *testing.T) {
		t.Parallel()

		got, err := Not(NewInt(42))
		if err != nil {
			t.Fatal(err)
		}

		if got.Int() != 0 {
			t.Errorf("want 0, got %d", got.Int())
		}
	})
}

func TestBitwise(t *testing.T) {
	t.Run("and/or/xor", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			op   string
			a, b int64
			want int64
		}{
			{"and", 0b1100, 0b1010, 0b1000},
			{"or", 0b1100, 0b1010, 0b1110},
			{"xor", 0b1100, 0b1010, 0b0110},
		}

		for _, c := range cases {
			got, err := Bitwise(c.op, NewInt(c.a), NewInt(c.b))
			if err != nil {
				t.Fatal(err)
			}

			if got.Int() != c.want {
				t.Errorf("%s(%b, %b): want %b, got %b", c.op, c.a, c.b, c.want, got.Int())
			}
		}
	})

	t.Run("float operand is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := Bitwise("and", NewFloat(1), NewInt(2))
		if err == nil {
			t.Error("want error, got nil")
		}
	})
}

func TestCompare(t *testing.T) {
	t.Run("integers", func(t *testing.T) {
		t.Parallel()

		flags, err := Compare(NewInt(1), NewInt(2))
		if err != nil {
			t.Fatal(err)
		}

		if !flags.Less || flags.Zero || flags.Greater {
			t.Errorf("want less-only, got %+v", flags)
		}
	})

	t.Run("mixed float forces float comparison", func(t *testing.T) {
		t.Parallel()

		flags, err := Compare(NewInt(2), NewFloat(2.0))
		if err != nil {
			t.Fatal(err)
		}

		if !flags.Zero {
			t.Errorf("want zero flag set, got %+v", flags)
		}
	})

	t.Run("fcmp orders floats", func(t *testing.T) {
		t.Parallel()

		flags := FCompare(NewFloat(1), NewFloat(2))
		if !flags.Less {
			t.Errorf("want less, got %+v", flags)
		}
	})
}

func TestToIntToFloat(t *testing.T) {
	t.Run("to_int parses string", func(t *testing.T) {
		t.Parallel()

		got, err := ToInt(NewString("42", 0))
		if err != nil {
			t.Fatal(err)
		}

		if got.Int() != 42 {
			t.Errorf("want 42, got %d", got.Int())
		}
	})

	t.Run("to_int truncates float toward zero", func(t *testing.T) {
		t.Parallel()

		got, err := ToInt(NewFloat(-2.9))
		if err != nil {
			t.Fatal(err)
		}

		if got.Int() != -2 {
			t.Errorf("want -2, got %d", got.Int())
		}
	})

	t.Run("to_int rejects malformed string", func(t *testing.T) {
		t.Parallel()

		_, err := ToInt(NewString("abc", 0))
		if err == nil {
			t.Error("want error, got nil")
		}
	})

	t.Run("to_float parses string", func(t *testing.T) {
		t.Parallel()

		got, err := ToFloat(NewString("1.5", 0))
		if err != nil {
			t.Fatal(err)
		}

		if got.Float() != 1.5 {
			t.Errorf("want 1.5, got %v", got.Float())
		}
	})

	t.Run("to_float widens integer", func(t *testing.T) {
		t.Parallel()

		got, err := ToFloat(NewInt(3))
		if err != nil {
			t.Fatal(err)
		}

		if got.Float() != 3.0 {
			t.Errorf("want 3.0, got %v", got.Float())
		}
	})
}

func TestFormat(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{NewInt(7), "7"},
		{NewFloat(1.5), "1.5"},
		{NewString("hi", 0), "hi"},
		{NewLabel("loop"), "@loop"},
	}

	for _, c := range cases {
		if got := c.v.Format(); got != c.want {
			t.Errorf("Format(): want %q, got %q", c.want, got)
		}
	}
}
