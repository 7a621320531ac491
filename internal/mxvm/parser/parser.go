package parser

// parser.go implements the recursive-descent parser/validator for the MXVM
// text form (spec §6): program -> section* -> {module|data|code|object}
// bodies, yielding a mxvm.Registry of Program IR (spec §4.2). The validator
// rejects unknown instructions, malformed literals, and section-structure
// violations (spec §7's Syntax/Semantic error classes).

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lostjared/MXVM-sub000/internal/mxvm"
)

// Parse scans and parses MXVM program text, returning the Registry rooted at
// the top-level `program` block.
func Parse(src string) (*mxvm.Registry, error) {
	p := &parser{sc: newScanner(src)}

	if err := p.advance(); err != nil {
		return nil, err
	}

	return p.parseProgram()
}

type parser struct {
	sc  *scanner
	tok token
}

func (p *parser) advance() error {
	t, err := p.sc.next()
	if err != nil {
		return &mxvm.Error{Class: mxvm.ClassSyntax, Err: fmt.Errorf("%w: %v", mxvm.ErrSyntax, err)}
	}

	p.tok = t

	return nil
}

func (p *parser) syntaxErrf(format string, args ...any) error {
	return (&mxvm.Error{
		Class: mxvm.ClassSyntax,
		Err:   fmt.Errorf("%w: %s", mxvm.ErrSyntax, fmt.Sprintf(format, args...)),
	}).At(p.tok.line, p.tok.column)
}

func (p *parser) expectIdent(word string) error {
	if p.tok.kind != tokIdent || p.tok.text != word {
		return p.syntaxErrf("expected %q, got %q", word, p.tok.text)
	}

	return p.advance()
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.tok.kind != kind {
		return token{}, p.syntaxErrf("expected %s, got %q", what, p.tok.text)
	}

	t := p.tok

	return t, p.advance()
}

// parseProgram parses `"program" IDENT "{" section* "}"`.
func (p *parser) parseProgram() (*mxvm.Registry, error) {
	if err := p.expectIdent("program"); err != nil {
		return nil, err
	}

	name, err := p.expect(tokIdent, "program name")
	if err != nil {
		return nil, err
	}

	reg := mxvm.NewRegistry(name.text)

	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}

	if err := p.parseSections(reg.Root); err != nil {
		return nil, err
	}

	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}

	return reg, nil
}

// parseSections parses `section*` into prog, including the `object`
// extension (SPEC_FULL.md §F) that nests a child Program.
func (p *parser) parseSections(prog *mxvm.Program) error {
	for p.tok.kind == tokIdent && (p.tok.text == "section" || p.tok.text == "object") {
		if p.tok.text == "object" {
			if err := p.parseObject(prog); err != nil {
				return err
			}

			continue
		}

		if err := p.advance(); err != nil { // consume "section"
			return err
		}

		kind, err := p.expect(tokIdent, "section kind")
		if err != nil {
			return err
		}

		if _, err := p.expect(tokLBrace, "'{'"); err != nil {
			return err
		}

		switch kind.text {
		case "module":
			err = p.parseModuleBody(prog)
		case "data":
			err = p.parseDataBody(prog)
		case "code":
			err = p.parseCodeBody(prog)
		default:
			err = p.syntaxErrf("unknown section kind %q", kind.text)
		}

		if err != nil {
			return err
		}

		if _, err := p.expect(tokRBrace, "'}'"); err != nil {
			return err
		}
	}

	return nil
}

// parseObject parses the `object IDENT "{" section* "}"` extension that
// gives the flattener (spec §4.3) something to merge.
func (p *parser) parseObject(parent *mxvm.Program) error {
	if err := p.advance(); err != nil { // consume "object"
		return err
	}

	name, err := p.expect(tokIdent, "object name")
	if err != nil {
		return err
	}

	child, err := parent.NewObject(name.text)
	if err != nil {
		return err
	}

	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return err
	}

	if err := p.parseSections(child); err != nil {
		return err
	}

	_, err = p.expect(tokRBrace, "'}'")

	return err
}

func (p *parser) parseModuleBody(prog *mxvm.Program) error {
	for p.tok.kind == tokIdent {
		prog.Modules = append(prog.Modules, p.tok.text)

		if err := p.advance(); err != nil {
			return err
		}

		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return err
			}
		}
	}

	return nil
}

var dataTypeTags = map[string]mxvm.ValueTag{
	"int":    mxvm.TagInteger,
	"float":  mxvm.TagFloat,
	"byte":   mxvm.TagByte,
	"ptr":    mxvm.TagPointer,
	"string": mxvm.TagString,
}

func (p *parser) parseDataBody(prog *mxvm.Program) error {
	for p.tok.kind == tokIdent {
		typeWord := p.tok.text

		tag, known := dataTypeTags[typeWord]
		if !known {
			return p.syntaxErrf("unknown data type %q", typeWord)
		}

		if err := p.advance(); err != nil {
			return err
		}

		name, err := p.expect(tokIdent, "variable name")
		if err != nil {
			return err
		}

		v := &mxvm.Variable{Name: name.text, Declared: tag}

		switch {
		case p.tok.kind == tokEquals:
			if err := p.advance(); err != nil {
				return err
			}

			val, err := p.parseLiteral(tag)
			if err != nil {
				return err
			}

			v.Value = val
		case p.tok.kind == tokComma && tag == mxvm.TagString:
			if err := p.advance(); err != nil {
				return err
			}

			sizeTok, err := p.expect(tokInt, "buffer size")
			if err != nil {
				return err
			}

			size, convErr := strconv.ParseInt(sizeTok.text, 10, 64)
			if convErr != nil {
				return p.syntaxErrf("bad buffer size %q", sizeTok.text)
			}

			v.Value = mxvm.NewString("", size)
		default:
			v.Value = zeroFor(tag)
		}

		if err := prog.AddVariable(v); err != nil {
			return err
		}
	}

	return nil
}

func zeroFor(tag mxvm.ValueTag) mxvm.Value {
	switch tag {
	case mxvm.TagFloat:
		return mxvm.NewFloat(0)
	case mxvm.TagByte:
		return mxvm.NewByte(0)
	case mxvm.TagString:
		return mxvm.NewString("", 0)
	case mxvm.TagPointer:
		return mxvm.NewNullPointer()
	default:
		return mxvm.NewInt(0)
	}
}

func (p *parser) parseLiteral(tag mxvm.ValueTag) (mxvm.Value, error) {
	switch p.tok.kind {
	case tokString:
		s := p.tok.text
		return mxvm.NewString(s, 0), p.advance()
	case tokIdent:
		if p.tok.text == "null" {
			return mxvm.NewNullPointer(), p.advance()
		}

		return mxvm.Value{}, p.syntaxErrf("expected literal, got identifier %q", p.tok.text)
	case tokHex:
		i, err := strconv.ParseInt(p.tok.text[2:], 16, 64)
		if err != nil {
			return mxvm.Value{}, p.syntaxErrf("malformed hex literal %q", p.tok.text)
		}

		if err := p.advance(); err != nil {
			return mxvm.Value{}, err
		}

		return coerceIntLiteral(tag, i), nil
	case tokInt:
		i, err := strconv.ParseInt(p.tok.text, 10, 64)
		if err != nil {
			return mxvm.Value{}, p.syntaxErrf("malformed integer literal %q", p.tok.text)
		}

		if err := p.advance(); err != nil {
			return mxvm.Value{}, err
		}

		return coerceIntLiteral(tag, i), nil
	case tokFloat:
		f, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return mxvm.Value{}, p.syntaxErrf("malformed float literal %q", p.tok.text)
		}

		if err := p.advance(); err != nil {
			return mxvm.Value{}, err
		}

		return mxvm.NewFloat(f), nil
	default:
		return mxvm.Value{}, p.syntaxErrf("expected literal, got %q", p.tok.text)
	}
}

func coerceIntLiteral(tag mxvm.ValueTag, i int64) mxvm.Value {
	switch tag {
	case mxvm.TagFloat:
		return mxvm.NewFloat(float64(i))
	case mxvm.TagByte:
		return mxvm.NewByte(byte(i))
	case mxvm.TagPointer:
		return mxvm.NewNullPointer()
	default:
		return mxvm.NewInt(i)
	}
}

// parseCodeBody parses `(label | instruction)*`.
func (p *parser) parseCodeBody(prog *mxvm.Program) error {
	var pendingLabel string

	var pendingIsFunc bool

	for p.tok.kind == tokIdent {
		word := p.tok.text

		if word == "function" {
			if err := p.advance(); err != nil {
				return err
			}

			name, err := p.expect(tokIdent, "function label")
			if err != nil {
				return err
			}

			if _, err := p.expect(tokColon, "':'"); err != nil {
				return err
			}

			if err := prog.AddLabel(name.text, len(prog.Code), true); err != nil {
				return err
			}

			pendingLabel, pendingIsFunc = name.text, true

			continue
		}

		if _, isOp := mxvm.LookupOpcode(word); !isOp {
			// Not a known opcode: must be a bare label.
			name := word
			if err := p.advance(); err != nil {
				return err
			}

			if _, err := p.expect(tokColon, "':'"); err != nil {
				return p.syntaxErrf("unknown opcode or missing ':' after %q", name)
			}

			if err := prog.AddLabel(name, len(prog.Code), false); err != nil {
				return err
			}

			pendingLabel, pendingIsFunc = name, false

			continue
		}

		ins, err := p.parseInstruction(word)
		if err != nil {
			return err
		}

		ins.Label = pendingLabel
		ins.IsFunction = pendingIsFunc
		pendingLabel, pendingIsFunc = "", false

		prog.AddInstruction(ins)
	}

	return nil
}

func (p *parser) parseInstruction(mnemonic string) (mxvm.Instruction, error) {
	line := p.tok.line
	op, _ := mxvm.LookupOpcode(mnemonic)

	if err := p.advance(); err != nil {
		return mxvm.Instruction{}, err
	}

	ins := mxvm.Instruction{Op: op, Line: line}

	if cond, ok := mxvm.LookupJumpCond(mnemonic); ok {
		ins.Cond = cond
	}

	ins.Float = mxvm.IsFcmp(mnemonic)

	var operands []mxvm.Operand

	for p.tok.kind != tokEOF && p.tok.kind != tokRBrace {
		if isLineBoundary(p, mnemonic) {
			break
		}

		operand, err := p.parseOperand()
		if err != nil {
			return mxvm.Instruction{}, err
		}

		operands = append(operands, operand)

		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return mxvm.Instruction{}, err
			}

			continue
		}

		break
	}

	assignOperands(&ins, operands)

	return ins, nil
}

// isLineBoundary reports whether the parser has reached the next
// label/instruction/section-close, meaning the current instruction's operand
// list is finished. Whitespace/newlines are insignificant (spec §6), so this
// checks for tokens that cannot start an operand.
func isLineBoundary(p *parser, mnemonic string) bool {
	if p.tok.kind != tokIdent {
		return false
	}

	if _, isOp := mxvm.LookupOpcode(p.tok.text); isOp {
		return true
	}

	return p.tok.text == "function"
}

func (p *parser) parseOperand() (mxvm.Operand, error) {
	switch p.tok.kind {
	case tokString:
		v := mxvm.NewString(p.tok.text, 0)
		o := mxvm.Operand{Type: mxvm.OpConstant, Text: strconv.Quote(p.tok.text), Value: v}

		return o, p.advance()
	case tokHex:
		i, err := strconv.ParseInt(p.tok.text[2:], 16, 64)
		if err != nil {
			return mxvm.Operand{}, p.syntaxErrf("malformed hex literal %q", p.tok.text)
		}

		o := mxvm.Operand{Type: mxvm.OpConstant, Text: p.tok.text, Value: mxvm.NewInt(i)}

		return o, p.advance()
	case tokInt:
		i, err := strconv.ParseInt(p.tok.text, 10, 64)
		if err != nil {
			return mxvm.Operand{}, p.syntaxErrf("malformed integer literal %q", p.tok.text)
		}

		o := mxvm.Operand{Type: mxvm.OpConstant, Text: p.tok.text, Value: mxvm.NewInt(i)}

		return o, p.advance()
	case tokFloat:
		f, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return mxvm.Operand{}, p.syntaxErrf("malformed float literal %q", p.tok.text)
		}

		o := mxvm.Operand{Type: mxvm.OpConstant, Text: p.tok.text, Value: mxvm.NewFloat(f)}

		return o, p.advance()
	case tokIdent:
		text := p.tok.text
		obj := ""

		if idx := strings.IndexByte(text, '.'); idx >= 0 && text[0] != '%' {
			obj = text[:idx]
		}

		o := mxvm.Operand{Type: mxvm.OpVariable, Text: text, Object: obj}

		return o, p.advance()
	default:
		return mxvm.Operand{}, p.syntaxErrf("expected operand, got %q", p.tok.text)
	}
}

func assignOperands(ins *mxvm.Instruction, operands []mxvm.Operand) {
	n := len(operands)
	ins.NumOperands = n

	if n > 0 {
		ins.Op1 = operands[0]
	}

	if n > 1 {
		ins.Op2 = operands[1]
	}

	if n > 2 {
		ins.Op3 = operands[2]
	}

	if n > 3 {
		ins.Extra = operands[3:]
	}

	// Variadic instructions (print/string_print/invoke) keep every operand
	// after the fixed ones reachable via Extra as well, for uniform
	// iteration; spec §3.
	switch ins.Op {
	case mxvm.OpPrint, mxvm.OpInvoke:
		if n > 1 {
			ins.Extra = operands[1:]
		}
	case mxvm.OpStringPrint:
		if n > 2 {
			ins.Extra = operands[2:]
		}
	}
}
