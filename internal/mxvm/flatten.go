package mxvm

// flatten.go implements spec §4.3: merging a tree of object Programs into a
// single flat Program whose variable and label tables are fully qualified.

import "sort"

// Flatten merges the registry's object tree into a single Program. Every
// variable keeps its fully-qualified name (`<object>.<name>`); the root
// program's own variables keep their bare names. Every label belonging to a
// non-root object is renamed to `<object>.<label>`; jump/call operands that
// referenced it are rewritten to match. Module lists are merged with
// first-registration-wins. Instruction offsets are shifted by the cumulative
// size of the instruction blocks merged in before them, so that label
// addresses keep pointing at the same instruction (spec §4.3's ordering
// invariant).
func Flatten(reg *Registry) (*Program, error) {
	flat := newProgram(reg.Root.Name, nil, reg)

	// Deterministic object merge order: root first, then objects sorted by name.
	objNames := make([]string, 0, len(reg.Root.Objects))
	for n := range reg.Root.Objects {
		objNames = append(objNames, n)
	}

	sort.Strings(objNames)

	order := append([]*Program{reg.Root}, objectsByName(reg.Root.Objects, objNames)...)

	seenModule := make(map[string]bool)

	offset := 0

	for _, obj := range order {
		prefix := ""
		if obj != reg.Root {
			prefix = obj.Name + "."
		}

		// Variables: qualify every name with its declaring object's prefix.
		// The same *Variable is kept (not copied) so that a sibling-object
		// bare reference resolved through the registry's pre-flatten object
		// tree (Program.lookup's sibling search) still observes the same
		// storage flat.Vars holds under the qualified name.
		for name, v := range obj.Vars {
			qualified := prefix + name
			v.Name = qualified
			v.Object = ""
			flat.Vars[qualified] = v
		}

		// Labels: qualify non-root labels; remember the rename so jump/call
		// operands referencing them can be rewritten below.
		renames := make(map[string]string, len(obj.Labels))

		for name, info := range obj.Labels {
			qualified := name
			if obj != reg.Root {
				qualified = prefix + name
				renames[name] = qualified
			}

			flat.Labels[qualified] = LabelInfo{
				Address:    info.Address + offset,
				IsFunction: info.IsFunction,
			}
		}

		// Modules: first-registration-wins.
		for _, m := range obj.Modules {
			if !seenModule[m] {
				seenModule[m] = true
				flat.Modules = append(flat.Modules, m)
			}
		}

		// Instructions: shift addresses, rewrite qualified variable/label
		// references, and rename attached labels.
		for _, ins := range obj.Code {
			rewritten := rewriteInstruction(ins, obj, prefix, renames)
			flat.Code = append(flat.Code, rewritten)
		}

		offset += len(obj.Code)
	}

	return flat, nil
}

func objectsByName(objs map[string]*Program, names []string) []*Program {
	out := make([]*Program, 0, len(names))
	for _, n := range names {
		out = append(out, objs[n])
	}

	return out
}

// rewriteInstruction qualifies an instruction's variable operands with
// prefix (unless already object-qualified) and renames jump/call targets
// that refer to a label renamed during flattening.
func rewriteInstruction(ins Instruction, obj *Program, prefix string, renames map[string]string) Instruction {
	out := ins

	if out.Label != "" && prefix != "" {
		out.Label = prefix + out.Label
	}

	out.Op1 = rewriteOperand(ins.Op1, obj, prefix, renames, ins.Op)
	out.Op2 = rewriteOperand(ins.Op2, obj, prefix, renames, ins.Op)
	out.Op3 = rewriteOperand(ins.Op3, obj, prefix, renames, ins.Op)

	if len(ins.Extra) > 0 {
		out.Extra = make([]Operand, len(ins.Extra))
		for i, o := range ins.Extra {
			out.Extra[i] = rewriteOperand(o, obj, prefix, renames, ins.Op)
		}
	}

	return out
}

// rewriteOperand qualifies a bare variable reference with obj's own prefix
// only when obj actually declares that name. A bare reference obj does not
// declare is a genuine cross-object reference (spec §4.2/§9's sibling
// lookup) and must be left unqualified so Program.lookup's sibling search
// can still resolve it after flattening.
func rewriteOperand(o Operand, obj *Program, prefix string, renames map[string]string, op Opcode) Operand {
	if o.Type != OpVariable || o.Text == "" {
		return o
	}

	isJumpTarget := op == OpJmp || op == OpJe || op == OpJne || op == OpJl || op == OpJle ||
		op == OpJg || op == OpJge || op == OpJz || op == OpJnz || op == OpJa || op == OpJb ||
		op == OpCall

	if isJumpTarget {
		if renamed, ok := renames[o.Text]; ok {
			o.Text = renamed
			return o
		}
	}

	if isMachineRegisterAlias(o.Text) {
		return o
	}

	if o.Object != "" || prefix == "" || containsDot(o.Text) {
		return o
	}

	if _, declaredHere := obj.Vars[o.Text]; !declaredHere {
		return o
	}

	o.Object = prefix[:len(prefix)-1]
	o.Text = prefix + o.Text

	return o
}

func containsDot(s string) bool {
	for i := range s {
		if s[i] == '.' {
			return true
		}
	}

	return false
}
