package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emberlang/ember/diag"
	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/sexy"
	"github.com/emberlang/ember/types"
)

// Parse reads a tree in interchange form. unit names the compilation unit in
// every location of the result.
func Parse(src, unit string) (*Node, error) {
	d, err := sexy.Parse(src)
	if err != nil {
		if unit != "" {
			return nil, fmt.Errorf("%s:%w", unit, err)
		}
		return nil, err
	}
	r := &reader{unit: unit}
	n, err := r.node(d)
	if err != nil {
		return nil, err
	}
	if n.Kind != KindProgram {
		return nil, r.errorf(d, "expected (program ...) but got %s", n.Kind)
	}
	return n, nil
}

type reader struct {
	unit string
}

func (r *reader) loc(d *sexy.Node) diag.Location {
	return diag.Location{Unit: r.unit, Line: d.Line, Col: d.Col}
}

func (r *reader) errorf(d *sexy.Node, format string, args ...any) error {
	return fmt.Errorf("%s: %s", r.loc(d), fmt.Sprintf(format, args...))
}

func (r *reader) node(d *sexy.Node) (*Node, error) {
	switch d.Type {
	case sexy.NodeInteger:
		v, err := strconv.ParseInt(d.Text, 10, 64)
		if err != nil {
			return nil, r.errorf(d, "invalid integer %s", d.Text)
		}
		return &Node{Kind: KindInteger, Loc: r.loc(d), Integer: v}, nil
	case sexy.NodeString:
		return &Node{Kind: KindString, Loc: r.loc(d), Text: d.Text}, nil
	case sexy.NodeSymbol:
		return r.symbol(d)
	case sexy.NodeList:
		return r.list(d)
	default:
		return nil, r.errorf(d, "unexpected %s", d)
	}
}

// symbol reads a bare name. `a::b::c` is shorthand for (path (path a b) c).
func (r *reader) symbol(d *sexy.Node) (*Node, error) {
	switch d.Text {
	case "true", "false":
		return &Node{Kind: KindBool, Loc: r.loc(d), Bool: d.Text == "true"}, nil
	}
	parts := strings.Split(d.Text, "::")
	for _, p := range parts {
		if p == "" {
			return nil, r.errorf(d, "malformed path %s", d.Text)
		}
	}
	loc := r.loc(d)
	n := &Node{Kind: KindIdent, Loc: loc, Name: ident.Intern(parts[0])}
	for _, p := range parts[1:] {
		right := &Node{Kind: KindIdent, Loc: loc, Name: ident.Intern(p)}
		n = &Node{Kind: KindPath, Loc: loc, Children: []*Node{n, right}}
	}
	return n, nil
}

func (r *reader) list(d *sexy.Node) (*Node, error) {
	head := d.Head()
	if head == "" {
		return nil, r.errorf(d, "expected a node but got %s", d)
	}
	args := d.Items[1:]
	n := &Node{Kind: Kind(head), Loc: r.loc(d)}

	switch n.Kind {
	case KindProgram, KindBlock, KindUnsafe, KindExtern, KindTuple, KindArray:
		return n, r.children(n, args)

	case KindModule:
		if len(args) < 1 {
			return nil, r.errorf(d, "module needs a name")
		}
		var err error
		if n.Name, err = r.name(args[0]); err != nil {
			return nil, err
		}
		return n, r.children(n, args[1:])

	case KindStruct, KindUnion:
		if len(args) < 1 {
			return nil, r.errorf(d, "%s needs a name", head)
		}
		var err error
		if n.Name, err = r.name(args[0]); err != nil {
			return nil, err
		}
		n.Fields, err = r.fieldDecls(args[1:])
		return n, err

	case KindEnum:
		return r.enum(n, d, args)

	case KindVariant:
		return r.variant(n, d, args)

	case KindFunc:
		return r.fn(n, d, args)

	case KindAlias:
		if len(args) != 2 {
			return nil, r.errorf(d, "alias needs a name and a type")
		}
		var err error
		if n.Name, err = r.name(args[0]); err != nil {
			return nil, err
		}
		n.Type, err = r.typ(args[1])
		return n, err

	case KindVar, KindStatic, KindConst:
		return r.variable(n, d, args)

	case KindIf:
		if len(args) != 2 && len(args) != 3 {
			return nil, r.errorf(d, "if needs a condition, a body and an optional else")
		}
		return n, r.children(n, args)

	case KindWhile:
		if len(args) != 2 {
			return nil, r.errorf(d, "while needs a condition and a body")
		}
		return n, r.children(n, args)

	case KindLoop:
		if len(args) != 1 {
			return nil, r.errorf(d, "loop needs a body")
		}
		return n, r.children(n, args)

	case KindBreak, KindContinue:
		if len(args) != 0 {
			return nil, r.errorf(d, "%s takes no operands", head)
		}
		return n, nil

	case KindReturn:
		if len(args) > 1 {
			return nil, r.errorf(d, "return takes at most one value")
		}
		return n, r.children(n, args)

	case KindInteger:
		// (int TYPE N): an integer the analyzer gave an enum type
		if len(args) != 2 || args[1].Type != sexy.NodeInteger {
			return nil, r.errorf(d, "expected (int TYPE N)")
		}
		v, err := strconv.ParseInt(args[1].Text, 10, 64)
		if err != nil {
			return nil, r.errorf(args[1], "invalid integer %s", args[1].Text)
		}
		n.Integer = v
		n.Type, err = r.typ(args[0])
		return n, err

	case KindFloat:
		if len(args) != 1 || args[0].Type != sexy.NodeString {
			return nil, r.errorf(d, `expected (float "digits")`)
		}
		if _, err := strconv.ParseFloat(args[0].Text, 64); err != nil {
			return nil, r.errorf(args[0], "invalid float %q", args[0].Text)
		}
		n.Text = args[0].Text
		return n, nil

	case KindBinary, KindAssign:
		if len(args) != 3 {
			return nil, r.errorf(d, "%s needs an operator and two operands", head)
		}
		var err error
		if n.Op, err = r.operator(args[0]); err != nil {
			return nil, err
		}
		return n, r.children(n, args[1:])

	case KindUnary:
		if len(args) != 2 {
			return nil, r.errorf(d, "unary needs an operator and an operand")
		}
		var err error
		if n.Op, err = r.operator(args[0]); err != nil {
			return nil, err
		}
		return n, r.children(n, args[1:])

	case KindRef:
		if len(args) == 2 && args[0].IsSymbol("mut") {
			n.Mutable = true
			args = args[1:]
		}
		if len(args) != 1 {
			return nil, r.errorf(d, "ref needs one operand")
		}
		return n, r.children(n, args)

	case KindDeref:
		if len(args) != 1 {
			return nil, r.errorf(d, "deref needs one operand")
		}
		return n, r.children(n, args)

	case KindCall:
		if len(args) < 1 {
			return nil, r.errorf(d, "call needs a callee")
		}
		var err error
		if n.Name, err = r.name(args[0]); err != nil {
			return nil, err
		}
		return n, r.arguments(n, args[1:])

	case KindLit:
		if len(args) != 2 || args[1].Type != sexy.NodeMap {
			return nil, r.errorf(d, "expected (lit NAME {field: value, ...})")
		}
		var err error
		if n.Name, err = r.name(args[0]); err != nil {
			return nil, err
		}
		n.Fields, err = r.components(args[1])
		return n, err

	case KindDot, KindPath:
		return r.access(n, d, args)

	case KindIndex:
		if len(args) != 2 {
			return nil, r.errorf(d, "index needs a base and an index")
		}
		return n, r.children(n, args)

	case KindCast:
		if len(args) != 2 {
			return nil, r.errorf(d, "cast needs an operand and a type")
		}
		if err := r.children(n, args[:1]); err != nil {
			return nil, err
		}
		var err error
		n.Type, err = r.typ(args[1])
		return n, err

	case KindLiteral:
		if len(args) != 2 || args[1].Type != sexy.NodeMap {
			return nil, r.errorf(d, "expected (literal TYPE {field: value, ...})")
		}
		var err error
		if n.Type, err = r.typ(args[0]); err != nil {
			return nil, err
		}
		n.Fields, err = r.components(args[1])
		return n, err

	case KindTypedCall:
		if len(args) < 2 {
			return nil, r.errorf(d, "expected (typed-call TYPE PATH ARG...)")
		}
		var err error
		if n.Type, err = r.typ(args[0]); err != nil {
			return nil, err
		}
		if args[1].Type != sexy.NodeSymbol {
			return nil, r.errorf(args[1], "expected a callee path but got %s", args[1])
		}
		for _, p := range strings.Split(args[1].Text, "::") {
			n.Path = append(n.Path, ident.Intern(p))
		}
		return n, r.arguments(n, args[2:])
	}

	return nil, r.errorf(d, "unknown node %s", head)
}

func (r *reader) children(n *Node, args []*sexy.Node) error {
	for _, a := range args {
		c, err := r.node(a)
		if err != nil {
			return err
		}
		n.Children = append(n.Children, c)
	}
	return nil
}

func (r *reader) name(d *sexy.Node) (ident.ID, error) {
	if d.Type != sexy.NodeSymbol || strings.Contains(d.Text, "::") || d.Text == "_" {
		return ident.Invalid, r.errorf(d, "expected a name but got %s", d)
	}
	return ident.Intern(d.Text), nil
}

func (r *reader) operator(d *sexy.Node) (string, error) {
	if d.Type != sexy.NodeSymbol && d.Type != sexy.NodeString {
		return "", r.errorf(d, "expected an operator but got %s", d)
	}
	return d.Text, nil
}

// arguments reads call arguments: either positional values or a single map
// of named values.
func (r *reader) arguments(n *Node, args []*sexy.Node) error {
	if len(args) == 1 && args[0].Type == sexy.NodeMap {
		n.Named = true
		var err error
		n.Fields, err = r.components(args[0])
		return err
	}
	return r.children(n, args)
}

func (r *reader) components(m *sexy.Node) ([]Field, error) {
	fields := make([]Field, 0, len(m.Keys))
	for i, key := range m.Keys {
		value, err := r.node(m.Items[i])
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: ident.Intern(key), Value: value, Loc: value.Loc})
	}
	return fields, nil
}

// fieldDecls reads (field NAME TYPE)...
func (r *reader) fieldDecls(args []*sexy.Node) ([]Field, error) {
	var fields []Field
	for _, a := range args {
		if a.Head() != "field" || len(a.Items) != 3 {
			return nil, r.errorf(a, "expected (field NAME TYPE) but got %s", a)
		}
		name, err := r.name(a.Items[1])
		if err != nil {
			return nil, err
		}
		t, err := r.typ(a.Items[2])
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Type: t, Loc: r.loc(a)})
	}
	return fields, nil
}

func (r *reader) enum(n *Node, d *sexy.Node, args []*sexy.Node) (*Node, error) {
	if len(args) < 1 {
		return nil, r.errorf(d, "enum needs a name")
	}
	var err error
	if n.Name, err = r.name(args[0]); err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		if a.Head() != "value" || len(a.Items) < 2 || len(a.Items) > 3 {
			return nil, r.errorf(a, "expected (value NAME INT?) but got %s", a)
		}
		v := EnumValue{Loc: r.loc(a)}
		if v.Name, err = r.name(a.Items[1]); err != nil {
			return nil, err
		}
		if len(a.Items) == 3 {
			if a.Items[2].Type != sexy.NodeInteger {
				return nil, r.errorf(a.Items[2], "expected an integer but got %s", a.Items[2])
			}
			if v.Value, err = strconv.ParseInt(a.Items[2].Text, 10, 64); err != nil {
				return nil, r.errorf(a.Items[2], "invalid integer %s", a.Items[2].Text)
			}
			v.Explicit = true
		}
		n.Values = append(n.Values, v)
	}
	return n, nil
}

func (r *reader) variant(n *Node, d *sexy.Node, args []*sexy.Node) (*Node, error) {
	if len(args) < 1 {
		return nil, r.errorf(d, "variant needs a name")
	}
	var err error
	if n.Name, err = r.name(args[0]); err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		if len(a.Items) < 2 {
			return nil, r.errorf(a, "expected an arm but got %s", a)
		}
		arm := Arm{Loc: r.loc(a)}
		if arm.Name, err = r.name(a.Items[1]); err != nil {
			return nil, err
		}
		switch a.Head() {
		case "arm":
			if len(a.Items) != 2 {
				return nil, r.errorf(a, "a common arm has no payload")
			}
			arm.Shape = ArmCommon
		case "arm-tuple":
			arm.Shape = ArmTuple
			for _, item := range a.Items[2:] {
				t, err := r.typ(item)
				if err != nil {
					return nil, err
				}
				arm.Types = append(arm.Types, t)
			}
		case "arm-struct":
			arm.Shape = ArmStruct
			if arm.Fields, err = r.fieldDecls(a.Items[2:]); err != nil {
				return nil, err
			}
		default:
			return nil, r.errorf(a, "expected (arm ...), (arm-tuple ...) or (arm-struct ...) but got %s", a)
		}
		n.Arms = append(n.Arms, arm)
	}
	return n, nil
}

// fn reads (fn ^{unsafe: true, variadic: true} NAME (params ...) RET BODY?).
func (r *reader) fn(n *Node, d *sexy.Node, args []*sexy.Node) (*Node, error) {
	if len(args) != 3 && len(args) != 4 {
		return nil, r.errorf(d, "expected (fn NAME (params ...) RET BODY?)")
	}
	for i, key := range d.MetaKeys {
		value := d.MetaItems[i]
		if !value.IsSymbol("true") && !value.IsSymbol("false") {
			return nil, r.errorf(value, "expected true or false for %s", key)
		}
		switch key {
		case "unsafe":
			n.Unsafe = value.IsSymbol("true")
		case "variadic":
			n.Variadic = value.IsSymbol("true")
		default:
			return nil, r.errorf(d, "unknown function attribute %s", key)
		}
	}
	var err error
	if n.Name, err = r.name(args[0]); err != nil {
		return nil, err
	}
	if args[1].Head() != "params" {
		return nil, r.errorf(args[1], "expected (params ...) but got %s", args[1])
	}
	for _, p := range args[1].Items[1:] {
		param, err := r.param(p)
		if err != nil {
			return nil, err
		}
		n.Params = append(n.Params, param)
	}
	if n.Type, err = r.typ(args[2]); err != nil {
		return nil, err
	}
	if len(args) == 4 {
		if n.Body, err = r.node(args[3]); err != nil {
			return nil, err
		}
		if n.Body.Kind != KindBlock {
			return nil, r.errorf(args[3], "function body must be a block")
		}
	}
	return n, nil
}

func (r *reader) param(d *sexy.Node) (Param, error) {
	if d.Type != sexy.NodeList {
		return Param{}, r.errorf(d, "expected (NAME TYPE) but got %s", d)
	}
	items := d.Items
	p := Param{Loc: r.loc(d)}
	if len(items) == 3 && items[0].IsSymbol("mut") {
		p.Mutable = true
		items = items[1:]
	}
	if len(items) != 2 {
		return Param{}, r.errorf(d, "expected (NAME TYPE) but got %s", d)
	}
	var err error
	if p.Name, err = r.name(items[0]); err != nil {
		return Param{}, err
	}
	p.Type, err = r.typ(items[1])
	return p, err
}

// variable reads (var [mut] NAME TYPE|_ INIT?).
func (r *reader) variable(n *Node, d *sexy.Node, args []*sexy.Node) (*Node, error) {
	if len(args) > 0 && args[0].IsSymbol("mut") {
		n.Mutable = true
		args = args[1:]
	}
	if len(args) != 2 && len(args) != 3 {
		return nil, r.errorf(d, "expected (%s [mut] NAME TYPE INIT?)", n.Kind)
	}
	var err error
	if n.Name, err = r.name(args[0]); err != nil {
		return nil, err
	}
	if n.Type, err = r.typ(args[1]); err != nil {
		return nil, err
	}
	return n, r.children(n, args[2:])
}

// access reads (dot L R...) and (path L R...). Extra operands nest to the
// left, so (path a b c) is (path (path a b) c).
func (r *reader) access(n *Node, d *sexy.Node, args []*sexy.Node) (*Node, error) {
	if len(args) < 2 {
		return nil, r.errorf(d, "%s needs at least two operands", n.Kind)
	}
	left, err := r.node(args[0])
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		right, err := r.node(a)
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: n.Kind, Loc: n.Loc, Children: []*Node{left, right}}
	}
	return left, nil
}

// typ reads a type. `_` reads as nil, meaning "to be inferred".
func (r *reader) typ(d *sexy.Node) (types.Type, error) {
	switch d.Type {
	case sexy.NodeSymbol:
		if d.Text == "_" {
			return nil, nil
		}
		if b, ok := types.LookupBasic(d.Text); ok {
			return b, nil
		}
		var path []ident.ID
		for _, p := range strings.Split(d.Text, "::") {
			if p == "" {
				return nil, r.errorf(d, "malformed type %s", d.Text)
			}
			path = append(path, ident.Intern(p))
		}
		return types.NewCustom(path...), nil
	case sexy.NodeList:
		if len(d.Items) == 0 {
			return types.Unit{}, nil
		}
	default:
		return nil, r.errorf(d, "expected a type but got %s", d)
	}

	args := d.Items[1:]
	switch d.Head() {
	case "ref":
		mutable := false
		if len(args) == 2 && args[0].IsSymbol("mut") {
			mutable = true
			args = args[1:]
		}
		if len(args) != 1 {
			return nil, r.errorf(d, "expected (ref [mut] T)")
		}
		target, err := r.typ(args[0])
		if err != nil {
			return nil, err
		}
		return types.Ref{Target: target, Mutable: mutable}, nil
	case "ptr":
		if len(args) != 1 {
			return nil, r.errorf(d, "expected (ptr T)")
		}
		target, err := r.typ(args[0])
		if err != nil {
			return nil, err
		}
		return types.Ptr{Target: target}, nil
	case "tuple":
		elems, err := r.typeList(args)
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			return types.Unit{}, nil
		}
		return types.Tuple{Elems: elems}, nil
	case "array":
		if len(args) != 2 || args[0].Type != sexy.NodeInteger {
			return nil, r.errorf(d, "expected (array N T)")
		}
		size, err := strconv.Atoi(args[0].Text)
		if err != nil || size < 0 {
			return nil, r.errorf(args[0], "invalid array size %s", args[0].Text)
		}
		elem, err := r.typ(args[1])
		if err != nil {
			return nil, err
		}
		return types.Array{Size: size, Elem: elem}, nil
	case "template":
		if len(args) < 1 {
			return nil, r.errorf(d, "expected (template NAME T...)")
		}
		name, err := r.name(args[0])
		if err != nil {
			return nil, err
		}
		generics, err := r.typeList(args[1:])
		if err != nil {
			return nil, err
		}
		return types.Template{Name: name, Generics: generics}, nil
	}
	return nil, r.errorf(d, "expected a type but got %s", d)
}

func (r *reader) typeList(args []*sexy.Node) ([]types.Type, error) {
	list := make([]types.Type, 0, len(args))
	for _, a := range args {
		t, err := r.typ(a)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, r.errorf(a, "cannot infer a component type")
		}
		list = append(list, t)
	}
	return list, nil
}
