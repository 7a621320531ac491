// Package strmod ports the reference implementation's "string" module
// (modules/string/string.cpp): strlen/strcmp/strncpy/strncat/strfind/substr,
// enough to implement spec §8 end-to-end scenario 6 (string concatenation via
// a module) without SDL.
package strmod

import (
	"strings"

	"github.com/lostjared/MXVM-sub000/internal/mxvm"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/module"
)

// Register adds every string.* function to reg.
func Register(reg *module.Registry) {
	reg.Register("string", "strlen", strlenFn)
	reg.Register("string", "strcmp", strcmpFn)
	reg.Register("string", "strncpy", strncpyFn)
	reg.Register("string", "strncat", strncatFn)
	reg.Register("string", "strfind", strfindFn)
	reg.Register("string", "substr", substrFn)
}

// contentOf returns the C-string-equivalent content of a STRING value or a
// POINTER-backed buffer (read as a NUL-terminated byte run from the heap).
func contentOf(rt module.Runtime, v mxvm.Value) (string, error) {
	switch v.Tag {
	case mxvm.TagString:
		return v.String(), nil
	case mxvm.TagPointer:
		buf, ok := rt.Heap().Bytes(v.Ptr)
		if !ok {
			return "", mxvm.NewError(mxvm.ClassMemory, mxvm.ErrNullDereference, "string", "")
		}

		if i := indexZero(buf); i >= 0 {
			return string(buf[:i]), nil
		}

		return string(buf), nil
	default:
		return "", mxvm.NewError(mxvm.ClassType, mxvm.ErrTypeMismatch, "string", v.Tag.String())
	}
}

func indexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}

	return -1
}

func strlenFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 1 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "string.strlen", "")
	}

	v, err := rt.ResolveValue(args[0])
	if err != nil {
		return err
	}

	s, err := contentOf(rt, v)
	if err != nil {
		return err
	}

	rt.SetResult("%rax", mxvm.NewInt(int64(len(s))))

	return nil
}

func strcmpFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 2 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "string.strcmp", "")
	}

	av, err := rt.ResolveValue(args[0])
	if err != nil {
		return err
	}

	bv, err := rt.ResolveValue(args[1])
	if err != nil {
		return err
	}

	as, err := contentOf(rt, av)
	if err != nil {
		return err
	}

	bs, err := contentOf(rt, bv)
	if err != nil {
		return err
	}

	rt.SetResult("%rax", mxvm.NewInt(int64(strings.Compare(as, bs))))

	return nil
}

// writeInto stores s into dst, honoring a fixed buffer capacity the way the
// reference's strncpy/strncat honor their destination buffer size.
func writeInto(dst *mxvm.Variable, s string) {
	if dst.Value.BufferCap > 0 && int64(len(s)) > dst.Value.BufferCap {
		s = s[:dst.Value.BufferCap]
	}

	dst.Value = mxvm.NewString(s, dst.Value.BufferCap)
}

func strncpyFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 3 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "string.strncpy", "")
	}

	dst, err := rt.BindVariable(args[0])
	if err != nil {
		return err
	}

	srcVal, err := rt.ResolveValue(args[1])
	if err != nil {
		return err
	}

	n, err := rt.ResolveValue(args[2])
	if err != nil {
		return err
	}

	src, err := contentOf(rt, srcVal)
	if err != nil {
		return err
	}

	if limit := int(n.Int()); limit >= 0 && limit < len(src) {
		src = src[:limit]
	}

	writeInto(dst, src)
	rt.SetResult("%rax", mxvm.NewInt(1))

	return nil
}

func strncatFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 3 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "string.strncat", "")
	}

	dst, err := rt.BindVariable(args[0])
	if err != nil {
		return err
	}

	srcVal, err := rt.ResolveValue(args[1])
	if err != nil {
		return err
	}

	n, err := rt.ResolveValue(args[2])
	if err != nil {
		return err
	}

	src, err := contentOf(rt, srcVal)
	if err != nil {
		return err
	}

	if limit := int(n.Int()); limit >= 0 && limit < len(src) {
		src = src[:limit]
	}

	writeInto(dst, dst.Value.String()+src)
	rt.SetResult("%rax", mxvm.NewInt(1))

	return nil
}

func strfindFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 2 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "string.strfind", "")
	}

	hv, err := rt.ResolveValue(args[0])
	if err != nil {
		return err
	}

	nv, err := rt.ResolveValue(args[1])
	if err != nil {
		return err
	}

	haystack, err := contentOf(rt, hv)
	if err != nil {
		return err
	}

	needle, err := contentOf(rt, nv)
	if err != nil {
		return err
	}

	rt.SetResult("%rax", mxvm.NewInt(int64(strings.Index(haystack, needle))))

	return nil
}

func substrFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 3 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "string.substr", "")
	}

	sv, err := rt.ResolveValue(args[0])
	if err != nil {
		return err
	}

	start, err := rt.ResolveValue(args[1])
	if err != nil {
		return err
	}

	length, err := rt.ResolveValue(args[2])
	if err != nil {
		return err
	}

	s, err := contentOf(rt, sv)
	if err != nil {
		return err
	}

	lo := clampIndex(start.Int(), len(s))
	hi := clampIndex(start.Int()+length.Int(), len(s))

	if hi < lo {
		hi = lo
	}

	rt.SetResult("%rax", mxvm.NewString(s[lo:hi], 0))

	return nil
}

func clampIndex(i int64, n int) int {
	if i < 0 {
		return 0
	}

	if i > int64(n) {
		return n
	}

	return int(i)
}
