// Package iofile ports the reference implementation's "io" module
// (modules/io/io.cpp): fopen/fclose/fwrite/fgets/fputs/feof, wrapping
// host files as EXTERN-tagged handles the VM never frees on its own (spec
// §3, §5: "borrowed pointers are never freed by the VM"). No fread is
// registered; reading goes through fgets.
package iofile

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/lostjared/MXVM-sub000/internal/mxvm"
	"github.com/lostjared/MXVM-sub000/internal/mxvm/module"
)

// handles maps the EXTERN handle value stored in a Variable to an open file.
// It is process-global because EXTERN values carry only an opaque uintptr,
// exactly as the reference implementation carries only a void*.
var (
	mu      sync.Mutex
	handles = map[uintptr]*os.File{}
	next    uintptr = 1
)

// Register adds every io.* function to reg.
func Register(reg *module.Registry) {
	reg.Register("io", "fopen", fopenFn)
	reg.Register("io", "fclose", fcloseFn)
	reg.Register("io", "fwrite", fwriteFn)
	reg.Register("io", "fgets", fgetsFn)
	reg.Register("io", "fputs", fputsFn)
	reg.Register("io", "feof", feofFn)
}

func fopenFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 2 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "io.fopen", "")
	}

	pathV, err := rt.ResolveValue(args[0])
	if err != nil {
		return err
	}

	modeV, err := rt.ResolveValue(args[1])
	if err != nil {
		return err
	}

	flag, perm := flagsForMode(modeV.String())

	f, openErr := os.OpenFile(pathV.String(), flag, perm)
	if openErr != nil {
		rt.SetResult("%rax", mxvm.NewExtern(0))
		return nil
	}

	mu.Lock()
	handle := next
	next++
	handles[handle] = f
	mu.Unlock()

	rt.SetResult("%rax", mxvm.NewExtern(handle))

	return nil
}

func flagsForMode(mode string) (int, os.FileMode) {
	switch mode {
	case "w", "wb":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, 0o644
	case "a", "ab":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, 0o644
	default:
		return os.O_RDONLY, 0
	}
}

func fileFor(v mxvm.Value) (*os.File, error) {
	mu.Lock()
	defer mu.Unlock()

	f, ok := handles[v.Ptr]
	if !ok || f == nil {
		return nil, mxvm.NewError(mxvm.ClassMemory, mxvm.ErrNullDereference, "io", "")
	}

	return f, nil
}

func fcloseFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 1 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "io.fclose", "")
	}

	v, err := rt.ResolveValue(args[0])
	if err != nil {
		return err
	}

	mu.Lock()
	f, ok := handles[v.Ptr]

	if ok {
		delete(handles, v.Ptr)
	}

	mu.Unlock()

	if !ok || f == nil {
		rt.SetResult("%rax", mxvm.NewInt(-1))
		return nil
	}

	_ = f.Close()
	rt.SetResult("%rax", mxvm.NewInt(0))

	return nil
}

func fwriteFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 2 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "io.fwrite", "")
	}

	dataV, err := rt.ResolveValue(args[0])
	if err != nil {
		return err
	}

	handleV, err := rt.ResolveValue(args[1])
	if err != nil {
		return err
	}

	f, err := fileFor(handleV)
	if err != nil {
		return err
	}

	n, _ := f.WriteString(dataV.String())
	rt.SetResult("%rax", mxvm.NewInt(int64(n)))

	return nil
}

func fputsFn(rt module.Runtime, args []mxvm.Operand) error {
	return fwriteFn(rt, args)
}

func fgetsFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 2 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "io.fgets", "")
	}

	dst, err := rt.BindVariable(args[0])
	if err != nil {
		return err
	}

	handleV, err := rt.ResolveValue(args[1])
	if err != nil {
		return err
	}

	f, err := fileFor(handleV)
	if err != nil {
		return err
	}

	line, readErr := bufio.NewReader(f).ReadString('\n')
	if readErr != nil && readErr != io.EOF {
		return mxvm.NewError(mxvm.ClassHost, mxvm.ErrHostIO, "io.fgets", readErr.Error())
	}

	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}

	dst.Value = mxvm.NewString(line, dst.Value.BufferCap)
	rt.SetResult("%rax", mxvm.NewInt(1))

	return nil
}

func feofFn(rt module.Runtime, args []mxvm.Operand) error {
	if len(args) != 1 {
		return mxvm.NewError(mxvm.ClassSemantic, mxvm.ErrArgumentMismatch, "io.feof", "")
	}

	handleV, err := rt.ResolveValue(args[0])
	if err != nil {
		return err
	}

	f, err := fileFor(handleV)
	if err != nil {
		return err
	}

	pos, _ := f.Seek(0, io.SeekCurrent)
	info, statErr := f.Stat()

	eof := statErr == nil && pos >= info.Size()
	if eof {
		rt.SetResult("%rax", mxvm.NewInt(1))
	} else {
		rt.SetResult("%rax", mxvm.NewInt(0))
	}

	return nil
}
