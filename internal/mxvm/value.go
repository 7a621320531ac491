// Package mxvm implements the MXVM core: the typed value model, the in-memory
// program representation, the flattener that merges nested object programs,
// and the error taxonomy shared by the parser, interpreter and code
// generators.
package mxvm

import (
	"fmt"
	"math"
	"strconv"
)

// ValueTag identifies the dynamic type carried by a Value.
type ValueTag uint8

//go:generate go run golang.org/x/tools/cmd/stringer -type ValueTag -output valuetag_string.go

// Value tags. NULL is the zero value so an uninitialized Value reads as "no type".
const (
	TagNull ValueTag = iota
	TagInteger
	TagFloat
	TagByte
	TagString
	TagPointer
	TagExtern
	TagLabel
	TagArray
)

// Value is the tagged union carried by every Variable and value-stack entry.
// There is no virtual dispatch: every operation switches on Tag.
type Value struct {
	Tag ValueTag

	i   int64   // INTEGER, BYTE (low 8 bits significant), label-resolved address
	f   float64 // FLOAT
	s   string  // STRING contents
	lbl string  // LABEL name

	// POINTER / EXTERN fields. Ptr is an opaque handle into the host's memory
	// arena (see Heap in interp/heap.go); for EXTERN it is a borrowed handle the
	// VM never frees.
	Ptr       uintptr
	ElemSize  int64
	ElemCount int64
	Owns      bool

	// BufferCap is non-zero for a STRING declared with a fixed buffer size
	// (`string IDENT, N`); writes longer than BufferCap are truncated.
	BufferCap int64
}

// NewInt constructs an INTEGER value.
func NewInt(i int64) Value { return Value{Tag: TagInteger, i: i} }

// NewFloat constructs a FLOAT value.
func NewFloat(f float64) Value { return Value{Tag: TagFloat, f: f} }

// NewByte constructs a BYTE value; only the low 8 bits are significant.
func NewByte(b byte) Value { return Value{Tag: TagByte, i: int64(b)} }

// NewString constructs a STRING value, optionally declaring a fixed buffer
// capacity (0 means unbounded, i.e. a literal).
func NewString(s string, bufferCap int64) Value {
	return Value{Tag: TagString, s: s, BufferCap: bufferCap}
}

// NewLabel constructs a LABEL value referring to a named instruction.
func NewLabel(name string) Value { return Value{Tag: TagLabel, lbl: name} }

// NewNullPointer constructs a POINTER value with no backing allocation.
func NewNullPointer() Value { return Value{Tag: TagPointer} }

// NewExtern constructs an EXTERN value wrapping a borrowed handle.
func NewExtern(handle uintptr) Value { return Value{Tag: TagExtern, Ptr: handle} }

// Int returns the integer/byte interpretation of the value.
func (v Value) Int() int64 {
	switch v.Tag {
	case TagInteger, TagByte:
		return v.i
	case TagFloat:
		return int64(v.f)
	case TagPointer, TagExtern:
		return int64(v.Ptr)
	default:
		return 0
	}
}

// Float returns the float interpretation of the value.
func (v Value) Float() float64 {
	switch v.Tag {
	case TagFloat:
		return v.f
	case TagInteger, TagByte:
		return float64(v.i)
	case TagPointer, TagExtern:
		// Implementation-defined: the address is widened to a double. See
		// spec §9 open questions.
		return float64(v.Ptr)
	default:
		return 0
	}
}

// String returns the string interpretation of the value; non-STRING values
// format themselves via Format.
func (v Value) String() string {
	if v.Tag == TagString {
		return v.s
	}

	return v.Format()
}

// Label returns the label name carried by a LABEL value.
func (v Value) Label() string { return v.lbl }

// Format renders the value for diagnostic/debug output (not printf-style
// user formatting; see interp/format.go for that).
func (v Value) Format() string {
	switch v.Tag {
	case TagNull:
		return "<null>"
	case TagInteger:
		return strconv.FormatInt(v.i, 10)
	case TagByte:
		return strconv.FormatInt(v.i&0xff, 10)
	case TagFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TagString:
		return v.s
	case TagPointer:
		return fmt.Sprintf("*%#x", v.Ptr)
	case TagExtern:
		return fmt.Sprintf("ext(%#x)", v.Ptr)
	case TagLabel:
		return "@" + v.lbl
	case TagArray:
		return "[array]"
	default:
		return "<invalid>"
	}
}

func (t ValueTag) Name() string { return t.String() }

// IsNumeric reports whether the tag participates in arithmetic.
func (t ValueTag) IsNumeric() bool {
	switch t {
	case TagInteger, TagFloat, TagByte:
		return true
	default:
		return false
	}
}

// Arith implements the mixed-type arithmetic rules of spec §4.1: the
// destination's declared tag decides the coercion direction. op is one of
// "add", "sub", "mul", "div", "mod".
func Arith(op string, dstTag ValueTag, a, b Value) (Value, error) {
	if dstTag == TagFloat {
		af, bf := a.Float(), b.Float()

		switch op {
		case "add":
			return NewFloat(af + bf), nil
		case "sub":
			return NewFloat(af - bf), nil
		case "mul":
			return NewFloat(af * bf), nil
		case "div":
			if bf == 0 {
				return NewFloat(0), nil
			}

			return NewFloat(af / bf), nil
		case "mod":
			return Value{}, fmt.Errorf("%w: mod requires an integer destination", ErrTypeMismatch)
		}
	}

	// Integer/byte destination: truncate float sources toward zero.
	ai, bi := a.Int(), b.Int()
	if a.Tag == TagFloat {
		ai = int64(math.Trunc(a.f))
	}

	if b.Tag == TagFloat {
		bi = int64(math.Trunc(b.f))
	}

	switch op {
	case "add":
		return wrapInt(dstTag, ai+bi), nil
	case "sub":
		return wrapInt(dstTag, ai-bi), nil
	case "mul":
		return wrapInt(dstTag, ai*bi), nil
	case "div":
		if bi == 0 {
			return wrapInt(dstTag, 0), nil
		}

		return wrapInt(dstTag, ai/bi), nil
	case "mod":
		if bi == 0 {
			return wrapInt(dstTag, 0), nil
		}

		return wrapInt(dstTag, ai%bi), nil
	}

	return Value{}, fmt.Errorf("%w: unknown arithmetic op %q", ErrTypeMismatch, op)
}

func wrapInt(tag ValueTag, i int64) Value {
	if tag == TagByte {
		return NewByte(byte(i))
	}

	return NewInt(i)
}

// Neg negates an INTEGER, BYTE or FLOAT value in place.
func Neg(v Value) (Value, error) {
	switch v.Tag {
	case TagInteger:
		return NewInt(-v.i), nil
	case TagByte:
		return NewByte(byte(-v.i)), nil
	case TagFloat:
		return NewFloat(-v.f), nil
	default:
		return Value{}, fmt.Errorf("%w: neg on %s", ErrTypeMismatch, v.Tag)
	}
}

// Not implements logical negation: zero becomes 1, non-zero becomes 0.
// Requires an integer-family operand.
func Not(v Value) (Value, error) {
	switch v.Tag {
	case TagInteger, TagByte:
		if v.i == 0 {
			return NewInt(1), nil
		}

		return NewInt(0), nil
	default:
		return Value{}, fmt.Errorf("%w: not requires an integer operand", ErrTypeMismatch)
	}
}

// Bitwise implements and/or/xor over integer operands.
func Bitwise(op string, a, b Value) (Value, error) {
	if !a.Tag.IsNumeric() || !b.Tag.IsNumeric() || a.Tag == TagFloat || b.Tag == TagFloat {
		return Value{}, fmt.Errorf("%w: %s requires integer operands", ErrTypeMismatch, op)
	}

	ai, bi := a.Int(), b.Int()

	switch op {
	case "and":
		return NewInt(ai & bi), nil
	case "or":
		return NewInt(ai | bi), nil
	case "xor":
		return NewInt(ai ^ bi), nil
	default:
		return Value{}, fmt.Errorf("%w: unknown bitwise op %q", ErrTypeMismatch, op)
	}
}

// Flags mirrors spec §3's zero/less/greater/carry bits, set by Compare/FCompare.
type Flags struct {
	Zero, Less, Greater, Carry bool
}

// Compare implements the ordered-pair comparison table of spec §4.1 for
// int/byte/float/pointer operands (fcmp always forces float comparison; see
// FCompare).
func Compare(a, b Value) (Flags, error) {
	switch {
	case a.Tag == TagFloat || b.Tag == TagFloat:
		return FCompare(a, b), nil
	case (a.Tag == TagPointer || a.Tag == TagExtern) || (b.Tag == TagPointer || b.Tag == TagExtern):
		ai, bi := a.Int(), b.Int()
		return flagsFromOrder(ai == bi, ai < bi, ai > bi, uint64(ai) < uint64(bi)), nil
	case a.Tag.IsNumeric() && b.Tag.IsNumeric():
		ai, bi := a.Int(), b.Int()
		return flagsFromOrder(ai == bi, ai < bi, ai > bi, ai < bi), nil
	default:
		return Flags{}, fmt.Errorf("%w: cmp %s, %s", ErrTypeMismatch, a.Tag, b.Tag)
	}
}

// FCompare forces both operands to double before comparing, per spec §4.1.
func FCompare(a, b Value) Flags {
	af, bf := a.Float(), b.Float()

	return flagsFromOrder(af == bf, af < bf, af > bf, af < bf)
}

func flagsFromOrder(eq, lt, gt, carry bool) Flags {
	return Flags{Zero: eq, Less: lt, Greater: gt, Carry: carry}
}

// ToInt implements `to_int`: dst declared INTEGER, src STRING is parsed, FLOAT
// is truncated toward zero, INTEGER/BYTE pass through.
func ToInt(src Value) (Value, error) {
	switch src.Tag {
	case TagString:
		i, err := strconv.ParseInt(src.s, 0, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: to_int: %v", ErrTypeMismatch, err)
		}

		return NewInt(i), nil
	case TagFloat:
		return NewInt(int64(math.Trunc(src.f))), nil
	case TagInteger, TagByte:
		return NewInt(src.i), nil
	default:
		return Value{}, fmt.Errorf("%w: to_int from %s", ErrTypeMismatch, src.Tag)
	}
}

// ToFloat implements `to_float`: dst declared FLOAT, src STRING is parsed,
// INTEGER/BYTE widened, POINTER's address widened (implementation-defined,
// spec §9).
func ToFloat(src Value) (Value, error) {
	switch src.Tag {
	case TagString:
		f, err := strconv.ParseFloat(src.s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: to_float: %v", ErrTypeMismatch, err)
		}

		return NewFloat(f), nil
	case TagInteger, TagByte:
		return NewFloat(float64(src.i)), nil
	case TagFloat:
		return NewFloat(src.f), nil
	case TagPointer, TagExtern:
		return NewFloat(float64(src.Ptr)), nil
	default:
		return Value{}, fmt.Errorf("%w: to_float from %s", ErrTypeMismatch, src.Tag)
	}
}

// Copy returns a deep copy of the value (strings/slices in Go are already
// copy-safe by value; this exists for symmetry with the teacher's
// deep-copy APIs and to document the invariant that Values are never
// aliased across variables).
func (v Value) Copy() Value { return v }
