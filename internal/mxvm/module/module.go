// Package module implements spec §4.5's module dispatch ABI: the contract a
// host-provided function must satisfy to be callable through `invoke`, and
// the registry that resolves `<module>.<function>` (or bare `<function>`)
// names to Go closures. Unlike the reference implementation's dynamically
// loaded shared objects, modules here are registered at process start by an
// explicit call to each module package's Register function (spec §9: "keep the
// C-ABI boundary" is reinterpreted as a Go-native registration boundary
// rather than dlopen, since the interpreter and its modules are one Go
// binary).
package module

import (
	"fmt"

	"github.com/lostjared/MXVM-sub000/internal/mxvm"
)

// Runtime is the subset of interpreter state a module function needs to
// resolve its arguments and report a result, mirroring the reference
// implementation's Program*-plus-helpers contract: is_variable, get_variable,
// variableFromOperand (constant-or-variable), createTempVariable.
type Runtime interface {
	// Program returns the flattened program IR being executed.
	Program() *mxvm.Program

	// ResolveValue reads an operand's current value: a variable's stored
	// Value, or a constant's parsed Value (variableFromOperand).
	ResolveValue(op mxvm.Operand) (mxvm.Value, error)

	// BindVariable returns the Variable an operand names, creating a
	// temporary (createTempVariable) if the operand is a constant.
	BindVariable(op mxvm.Operand) (*mxvm.Variable, error)

	// SetResult writes v into the named result register (conventionally
	// "%rax" for integer/pointer results, "%xmm0" for float) and records it
	// as the most-recent invoke result so a following `return` picks it up.
	SetResult(register string, v mxvm.Value)

	// Heap exposes the owned-allocation arena so modules that themselves
	// allocate (e.g. string concatenation helpers) participate in the same
	// ownership tracking as `alloc`/`free`.
	Heap() Heap

	// Stdin/Stdout are the host streams modules performing I/O should use.
	Stdin() Reader
	Stdout() Writer
}

// Heap is the subset of interp.Heap a module needs.
type Heap interface {
	Alloc(size, count int64) uintptr
	Bytes(handle uintptr) ([]byte, bool)
	Free(handle uintptr)
}

// Reader/Writer avoid an import cycle on io while keeping the same shape.
type Reader interface {
	Read(p []byte) (n int, err error)
}

type Writer interface {
	Write(p []byte) (n int, err error)
}

// Func is a registered external function: spec §4.5's
// `Operand fn(Program*, vector<Operand>&)` contract, reworked as a Go
// closure over a Runtime. Argument-count and type mismatches must be
// reported as a *mxvm.Error (spec §4.5, §7).
type Func func(rt Runtime, args []mxvm.Operand) error

// Registry resolves `<module>.<function>` or bare `<function>` names to a
// registered Func (spec §4.5's lookup key).
type Registry struct {
	byQualified map[string]Func
	byBare      map[string]Func
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{
		byQualified: make(map[string]Func),
		byBare:      make(map[string]Func),
	}
}

// Register adds fn under both "<module>.<function>" and, if not already
// claimed, the bare "<function>" key.
func (r *Registry) Register(module, function string, fn Func) {
	r.byQualified[module+"."+function] = fn

	if _, exists := r.byBare[function]; !exists {
		r.byBare[function] = fn
	}
}

// Lookup resolves an invoke target. name may be qualified ("string.strlen")
// or bare ("strlen").
func (r *Registry) Lookup(name string) (Func, error) {
	if fn, ok := r.byQualified[name]; ok {
		return fn, nil
	}

	if fn, ok := r.byBare[name]; ok {
		return fn, nil
	}

	return nil, fmt.Errorf("%w: %s", mxvm.ErrUnknownModule, name)
}
