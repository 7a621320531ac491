// Package std ports the reference implementation's "std" module
// (modules/std/std.c, std.cpp): process-argument access and numeric/clock
// helpers, registered under the "std" dispatch prefix (spec §4.5,
// SPEC_FULL.md §F.4).
package std

import (
	"time"

	"github.com/lostjared/MXVM-sub000/internal/mxvm"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/module"
)

// Args holds the program arguments exposed via argc/argv, set once by the
// host before Run (set_program_args in the reference implementation).
var Args []string

// Register adds every std.* function to reg.
func Register(reg *module.Registry) {
	reg.Register("std", "argc", argcFn)
	reg.Register("std", "argv", argvFn)
	reg.Register("std", "float_to_int", floatToInt)
	reg.Register("std", "int_to_float", intToFloat)
	reg.Register("std", "time_now_seconds", timeNowSeconds)
	reg.Register("std", "time_now_millis", timeNowMillis)
	reg.Register("std", "clock_ms", clockMs)
}

func argcFn(rt module.Runtime, args []mxvm.Operand) error {
	rt.SetResult("%rax", mxvm.NewInt(int64(len(Args))))
	return nil
}

func argvFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 1 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "std.argv", "")
	}

	idx, err := rt.ResolveValue(args[0])
	if err != nil {
		return err
	}

	i := idx.Int()
	if i < 0 || i >= int64(len(Args)) {
		rt.SetResult("%rax", mxvm.NewString("", 0))
		return nil
	}

	rt.SetResult("%rax", mxvm.NewString(Args[i], 0))

	return nil
}

func floatToInt(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 1 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "std.float_to_int", "")
	}

	v, err := rt.ResolveValue(args[0])
	if err != nil {
		return err
	}

	rt.SetResult("%rax", mxvm.NewInt(int64(v.Float())))

	return nil
}

func intToFloat(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 1 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "std.int_to_float", "")
	}

	v, err := rt.ResolveValue(args[0])
	if err != nil {
		return err
	}

	rt.SetResult("%xmm0", mxvm.NewFloat(float64(v.Int())))

	return nil
}

func timeNowSeconds(rt module.Runtime, args []mxvm.Operand) error {
	rt.SetResult("%rax", mxvm.NewInt(time.Now().Unix()))
	return nil
}

func timeNowMillis(rt module.Runtime, args []mxvm.Operand) error {
	rt.SetResult("%rax", mxvm.NewInt(time.Now().UnixMilli()))
	return nil
}

func clockMs(rt module.Runtime, args []mxvm.Operand) error {
	rt.SetResult("%rax", mxvm.NewInt(time.Now().UnixMilli()))
	return nil
}
