package mxvm

// variable.go implements spec §3's Variable and the register-alias
// recognition rules spec §4.2 requires of is_variable/get_variable.

import (
	"strconv"
	"strings"
)

// Variable is named, typed storage (spec §3). Its declared Tag is fixed at
// parse time; Value's dynamic Tag may later change via mov/to_int/to_float/neg.
type Variable struct {
	Name     string
	Object   string // declaring program's or object's name; "" once Flatten has qualified Name
	IsGlobal bool
	Declared ValueTag
	Value    Value
}

// QualifiedName returns "object.name", or bare "name" if Object is empty.
func (v *Variable) QualifiedName() string {
	if v.Object == "" {
		return v.Name
	}

	return v.Object + "." + v.Name
}

// machineRegisterAliases is the set of implicit variable names every Program
// recognizes without a `data` declaration: general integer/pointer result
// register, the ten floating-point scratch registers, and the argN bank used
// by the calling convention for both `invoke`/`call` argument passing and
// Pascal-style value parameters (spec §4.5, SPEC_FULL.md §F.4).
func isMachineRegisterAlias(name string) bool {
	if name == "%rax" {
		return true
	}

	if strings.HasPrefix(name, "%xmm") {
		n := name[len("%xmm"):]
		if i, err := strconv.Atoi(n); err == nil && i >= 0 && i <= 9 {
			return true
		}
	}

	if strings.HasPrefix(name, "arg") {
		n := name[len("arg"):]
		if i, err := strconv.Atoi(n); err == nil && i >= 0 {
			return true
		}
	}

	return false
}

// defaultRegisterTag returns the declared tag a machine-register alias is
// implicitly given the first time it is referenced.
func defaultRegisterTag(name string) ValueTag {
	if strings.HasPrefix(name, "%xmm") {
		return TagFloat
	}

	return TagInteger
}
