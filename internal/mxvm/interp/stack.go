package interp

// stack.go implements spec §3's value stack: an ordered sequence of typed
// entries, each either a 64-bit integer or an untyped pointer handle
// (spec §9's two-variant StackVal sum). Indexed access is direct; call/ret
// push/pop a return PC as an integer entry.

import "github.com/lostjared/MXVM-sub000/internal/mxvm"

// StackVal is one value-stack entry.
type StackVal struct {
	IsPointer bool
	I         int64
	Ptr       uintptr
}

func intStackVal(i int64) StackVal   { return StackVal{I: i} }
func ptrStackVal(p uintptr) StackVal { return StackVal{IsPointer: true, Ptr: p} }

// valueStack is the running program's exclusively-owned value stack.
type valueStack struct {
	entries []StackVal
}

func (s *valueStack) push(v StackVal) { s.entries = append(s.entries, v) }

func (s *valueStack) pop() (StackVal, error) {
	if len(s.entries) == 0 {
		return StackVal{}, mxvm.ErrStackUnderflow
	}

	v := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]

	return v, nil
}

func (s *valueStack) top() (StackVal, error) {
	if len(s.entries) == 0 {
		return StackVal{}, mxvm.ErrStackUnderflow
	}

	return s.entries[len(s.entries)-1], nil
}

func (s *valueStack) depth() int { return len(s.entries) }

// load returns the entry at 0-based index i, counted from the bottom.
func (s *valueStack) load(i int) (StackVal, error) {
	if i < 0 || i >= len(s.entries) {
		return StackVal{}, mxvm.ErrStackUnderflow
	}

	return s.entries[i], nil
}

// store overwrites the entry at 0-based index i, counted from the bottom.
func (s *valueStack) store(i int, v StackVal) error {
	if i < 0 || i >= len(s.entries) {
		return mxvm.ErrStackUnderflow
	}

	s.entries[i] = v

	return nil
}

// sub pops n entries without inspecting them.
func (s *valueStack) sub(n int) error {
	if n < 0 || n > len(s.entries) {
		return mxvm.ErrStackUnderflow
	}

	s.entries = s.entries[:len(s.entries)-n]

	return nil
}

func (s *valueStack) reset() { s.entries = s.entries[:0] }
