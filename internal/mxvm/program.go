package mxvm

// program.go implements the Program IR (spec §3, §4.2): an ordered
// instruction list, a label table, a variable table, the declared module
// list, and the nested-object tree. A Registry owns every Program in a tree
// so that sibling-object variable lookup (spec §4.2, §9 open question) can be
// resolved without a process-wide global.

import (
	"fmt"
	"sort"
)

// LabelInfo records where a label points and whether it was declared with
// `function` (and so is exported as a global symbol during codegen).
type LabelInfo struct {
	Address    int
	IsFunction bool
}

// Program is the in-memory representation of one `program`/nested `object`
// block (spec §3's "object tree"). The root Program and every nested object
// share a single Registry.
type Program struct {
	Name   string
	Parent *Program

	Code    []Instruction
	Labels  map[string]LabelInfo
	Vars    map[string]*Variable
	Modules []string // declared `section module { ... }` entries

	Objects map[string]*Program // nested objects, keyed by name

	registry *Registry
}

// Registry owns every Program in a tree and provides the sibling-object
// lookup spec §4.2 requires, without resorting to a package-level global
// (spec §9 design notes).
type Registry struct {
	Root *Program
	all  map[string]*Program // object name -> Program
}

// NewRegistry creates a Registry rooted at a fresh, empty root Program named
// name.
func NewRegistry(name string) *Registry {
	reg := &Registry{all: make(map[string]*Program)}
	root := newProgram(name, nil, reg)
	reg.Root = root
	reg.all[name] = root

	return reg
}

func newProgram(name string, parent *Program, reg *Registry) *Program {
	return &Program{
		Name:    name,
		Parent:  parent,
		Labels:  make(map[string]LabelInfo),
		Vars:    make(map[string]*Variable),
		Objects: make(map[string]*Program),

		registry: reg,
	}
}

// NewObject creates and registers a nested object Program owned by p.
func (p *Program) NewObject(name string) (*Program, error) {
	if _, exists := p.Objects[name]; exists {
		return nil, NewError(ClassSemantic, ErrDuplicateVariable, "object", name)
	}

	obj := newProgram(name, p, p.registry)
	p.Objects[name] = obj
	p.registry.all[name] = obj

	return obj, nil
}

// AddInstruction appends an instruction and returns its index.
func (p *Program) AddInstruction(i Instruction) int {
	p.Code = append(p.Code, i)
	return len(p.Code) - 1
}

// AddLabel records a label's address. A redefinition is a semantic error
// (spec §7).
func (p *Program) AddLabel(name string, address int, isFunction bool) error {
	if _, exists := p.Labels[name]; exists {
		return NewError(ClassSemantic, ErrLabelRedefinition, "label", name)
	}

	p.Labels[name] = LabelInfo{Address: address, IsFunction: isFunction}

	return nil
}

// AddVariable declares a new variable in the `data` section. A duplicate
// declaration within the same Program is a semantic error.
func (p *Program) AddVariable(v *Variable) error {
	v.Object = p.Name

	if _, exists := p.Vars[v.Name]; exists {
		return NewError(ClassSemantic, ErrDuplicateVariable, "variable", v.Name)
	}

	p.Vars[v.Name] = v

	return nil
}

// IsVariable reports whether name resolves to a declared variable or an
// implicit machine-register alias (spec §4.2), without creating anything.
func (p *Program) IsVariable(name string) bool {
	if isMachineRegisterAlias(name) {
		return true
	}

	_, err := p.lookup(name)
	return err == nil
}

// GetVariable resolves name using spec §4.2's three-step rule: first as
// `self.name + "." + n`, then as bare `n`, then through every sibling object
// reachable from the registry (iterated in sorted order, per spec §9's
// recommendation to fix iteration order). Machine-register aliases and argN
// slots are created on first reference. It throws ErrUndefinedVariable on miss.
func (p *Program) GetVariable(name string) (*Variable, error) {
	if v, err := p.lookup(name); err == nil {
		return v, nil
	}

	if isMachineRegisterAlias(name) {
		v := &Variable{
			Name:     name,
			Object:   p.Name,
			IsGlobal: true,
			Declared: defaultRegisterTag(name),
		}
		v.Value = zeroValue(v.Declared)
		p.Vars[name] = v

		return v, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
}

// lookup implements the first three resolution steps without creating
// implicit registers.
func (p *Program) lookup(name string) (*Variable, error) {
	if p.Name != "" {
		if v, ok := p.Vars[p.Name+"."+name]; ok {
			return v, nil
		}
	}

	if v, ok := p.Vars[name]; ok {
		return v, nil
	}

	// Already-qualified reference: object.member.
	if obj, member, ok := splitQualified(name); ok {
		if sib, ok := p.registry.all[obj]; ok {
			if v, ok := sib.Vars[member]; ok {
				return v, nil
			}
		}
	}

	// Sibling search, sorted by object name for determinism.
	names := make([]string, 0, len(p.registry.all))
	for n := range p.registry.all {
		names = append(names, n)
	}

	sort.Strings(names)

	for _, n := range names {
		sib := p.registry.all[n]
		if sib == p {
			continue
		}

		if v, ok := sib.Vars[name]; ok {
			return v, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
}

func splitQualified(name string) (obj, member string, ok bool) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i], name[i+1:], true
		}
	}

	return "", "", false
}

func zeroValue(tag ValueTag) Value {
	switch tag {
	case TagFloat:
		return NewFloat(0)
	case TagByte:
		return NewByte(0)
	case TagString:
		return NewString("", 0)
	case TagPointer:
		return NewNullPointer()
	default:
		return NewInt(0)
	}
}
