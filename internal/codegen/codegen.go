// Package codegen implements the shared assembly-emission plumbing the
// SysV/AMD64 and Win64 backends (spec §4.6, §4.7) both need: a three-section
// text buffer (.data/.bss/.text GNU-as directives) and the driver loop that
// walks a flattened mxvm.Program and asks a Target to lower each
// instruction. Every variable lives in memory under a generated symbol;
// neither backend performs register allocation, matching the reference
// implementation's one-instruction-at-a-time code generator.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lostjared/MXVM-sub000/internal/mxvm"
)

// Section identifies one of the three assembly sections a Target writes
// into.
type Section int

const (
	SectionData Section = iota
	SectionBSS
	SectionText
)

// Buffer accumulates emitted assembly lines, grouped by section, in the
// order a Target calls Emit.
type Buffer struct {
	lines [3][]string
}

// Emit appends a formatted line to sec.
func (b *Buffer) Emit(sec Section, format string, args ...any) {
	b.lines[sec] = append(b.lines[sec], fmt.Sprintf(format, args...))
}

// Lines returns every line written to sec, in emission order.
func (b *Buffer) Lines(sec Section) []string { return b.lines[sec] }

// Target lowers one flattened program to one backend's assembly dialect.
// Implementations are internal/codegen/sysv and internal/codegen/win64
// (spec §4.6, §4.7); the optimizer runs over the text each one produces.
type Target interface {
	// Name identifies the target for diagnostics ("sysv", "win64").
	Name() string

	// Prologue emits variable storage declarations and the entry point's
	// opening frame setup.
	Prologue(buf *Buffer, prog *mxvm.Program)

	// Lower emits the instructions implementing one IR instruction.
	Lower(buf *Buffer, prog *mxvm.Program, idx int, ins mxvm.Instruction)

	// Epilogue emits the exit sequence and any backend-specific trailer
	// (e.g. the string and float constant pools).
	Epilogue(buf *Buffer, prog *mxvm.Program)
}

// Generate runs target over every instruction in prog and returns the
// complete assembly source as a slice of lines, section by section.
func Generate(target Target, prog *mxvm.Program) []string {
	buf := &Buffer{}

	target.Prologue(buf, prog)

	for idx, ins := range prog.Code {
		if label, ok := labelFor(prog, idx); ok {
			buf.Emit(SectionText, "%s:", LabelSymbol(label))
		}

		target.Lower(buf, prog, idx, ins)
	}

	target.Epilogue(buf, prog)

	out := make([]string, 0, len(buf.lines[SectionData])+len(buf.lines[SectionBSS])+len(buf.lines[SectionText])+8)

	out = append(out, ".data")
	out = append(out, buf.lines[SectionData]...)
	out = append(out, "", ".bss")
	out = append(out, buf.lines[SectionBSS]...)
	out = append(out, "", ".text")
	out = append(out, buf.lines[SectionText]...)

	return out
}

func labelFor(prog *mxvm.Program, idx int) (string, bool) {
	for name, info := range prog.Labels {
		if info.Address == idx {
			return name, true
		}
	}

	return "", false
}

// DataSymbol returns the assembly symbol for a declared variable.
func DataSymbol(v *mxvm.Variable) string { return DataSymbolName(v.Name) }

// DataSymbolName returns the assembly symbol for a variable name.
func DataSymbolName(name string) string {
	return "var_" + strings.ReplaceAll(name, ".", "_")
}

// LabelSymbol returns the assembly symbol for a jump/call target.
func LabelSymbol(name string) string {
	return "lbl_" + strings.ReplaceAll(name, ".", "_")
}

// SortedVariables returns prog's variables in a stable order so generated
// output (and therefore diffs and tests) is deterministic.
func SortedVariables(prog *mxvm.Program) []*mxvm.Variable {
	names := make([]string, 0, len(prog.Vars))
	for n := range prog.Vars {
		names = append(names, n)
	}

	sort.Strings(names)

	vars := make([]*mxvm.Variable, 0, len(names))
	for _, n := range names {
		vars = append(vars, prog.Vars[n])
	}

	return vars
}
