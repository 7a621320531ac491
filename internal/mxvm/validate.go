package mxvm

// validate.go implements the MXVM-text validator's semantic checks (spec §4.2,
// §7): every variable operand must resolve to a declared variable (or
// machine-register alias), every jump/call target must name a known label,
// and every invoke must name a function or carry operands. Constants are not
// checked against the consuming slot, and an invoke's function is not looked
// up here: an unknown module function is reported by the interpreter when the
// invoke runs. Validate runs on the flattened Program, where names resolve
// through Program.IsVariable (sibling references stay bare).
func Validate(p *Program) error {
	for _, ins := range p.Code {
		if err := validateInstruction(p, ins); err != nil {
			if merr, ok := err.(*Error); ok {
				return merr.At(ins.Line, 0)
			}

			return err
		}
	}

	return nil
}

func validateInstruction(p *Program, ins Instruction) error {
	isJump := ins.Op == OpJmp || ins.Op == OpJe || ins.Op == OpJne || ins.Op == OpJl ||
		ins.Op == OpJle || ins.Op == OpJg || ins.Op == OpJge || ins.Op == OpJz ||
		ins.Op == OpJnz || ins.Op == OpJa || ins.Op == OpJb || ins.Op == OpCall

	if isJump {
		if ins.Op1.Type != OpVariable {
			return NewError(ClassSyntax, ErrSyntax, ins.Op.Name(), ins.Op1.Text)
		}

		if _, ok := p.Labels[ins.Op1.Text]; !ok {
			return NewError(ClassSemantic, ErrUnknownLabel, ins.Op.Name(), ins.Op1.Text)
		}

		return nil
	}

	if ins.Op == OpInvoke {
		if len(ins.Extra) == 0 && ins.Op1.Text == "" {
			return NewError(ClassSemantic, ErrArgumentMismatch, "invoke", "")
		}

		return nil
	}

	for _, o := range []Operand{ins.Op1, ins.Op2, ins.Op3} {
		if o.Type != OpVariable || o.Text == "" {
			continue
		}

		if !p.IsVariable(o.Text) {
			return NewError(ClassSemantic, ErrUndefinedVariable, ins.Op.Name(), o.Text)
		}
	}

	for _, o := range ins.Extra {
		if o.Type == OpVariable && o.Text != "" && !p.IsVariable(o.Text) {
			return NewError(ClassSemantic, ErrUndefinedVariable, ins.Op.Name(), o.Text)
		}
	}

	return nil
}
