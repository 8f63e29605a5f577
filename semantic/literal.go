package semantic

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/symtab"
	"github.com/emberlang/ember/types"
)

// literal validates a struct or union literal and rewrites it to a typed
// literal. Fields may be left out; a repeated field replaces the earlier
// one.
func (a *Analyzer) literal(n *ast.Node, c chain, fields *symtab.Fields, union bool) (types.Type, bool) {
	kind := "struct"
	if union {
		kind = "union"
	}
	switch {
	case c.tail == nil:
		a.errorf(n.Loc, msgExpected, "value", kind, c)
		return nil, false
	case c.tail.Kind != ast.KindLit:
		a.errorf(n.Loc, msgNoConstructor, c)
		return nil, false
	}
	if union && !a.unsafe() {
		a.errorf(n.Loc, msgUnionLiteral, c)
		return nil, false
	}
	components, ok := a.components(c.tail.Fields, fields, c.path)
	if !ok {
		return nil, false
	}
	t := types.NewCustom(a.canonical(c.path)...)
	*n = ast.Node{Kind: ast.KindLiteral, Loc: n.Loc, Type: t, Fields: components}
	return t, true
}

// components checks named components against the fields of the definition
// at owner. It stops at the first bad component.
func (a *Analyzer) components(given []ast.Field, fields *symtab.Fields, owner []ident.ID) ([]ast.Field, bool) {
	var out []ast.Field
	at := make(map[ident.ID]int, len(given))
	for _, f := range given {
		ft, ok := fields.Get(f.Name)
		if !ok {
			a.errorf(f.Loc, msgNoField, f.Name, pathString(owner))
			return nil, false
		}
		ft = a.qualify(owner, ft)
		t, ok := a.expr(f.Value, ft)
		if !ok || !a.compareTypes(ft, t, f.Value.Loc) {
			return nil, false
		}
		if i, dup := at[f.Name]; dup {
			out[i] = f
			continue
		}
		at[f.Name] = len(out)
		out = append(out, f)
	}
	return out, true
}

// call validates a call and rewrites it to a typed call carrying the
// qualified callee and its return type. Named arguments are put in
// parameter order.
func (a *Analyzer) call(n *ast.Node, c chain, k symtab.FuncDef) (types.Type, bool) {
	switch {
	case c.tail == nil:
		a.errorf(n.Loc, msgExpected, "value", "function", c)
		return nil, false
	case c.tail.Kind != ast.KindCall:
		a.errorf(n.Loc, msgNoConstructor, c)
		return nil, false
	}
	if k.Flags.Has(symtab.FuncUnsafe) && !a.unsafe() {
		a.errorf(n.Loc, msgUnsafeCall, c)
		return nil, false
	}

	var args []*ast.Node
	var ok bool
	if c.tail.Named {
		args, ok = a.namedArguments(c.tail, c, k)
	} else {
		args, ok = a.positionalArguments(c.tail, c, k)
	}
	if !ok {
		return nil, false
	}

	ret := a.qualify(c.path, k.Return)
	*n = ast.Node{Kind: ast.KindTypedCall, Loc: n.Loc, Type: ret, Path: a.canonical(c.path), Children: args}
	return ret, true
}

func (a *Analyzer) argument(arg *ast.Node, c chain, param types.Type) bool {
	var expected types.Type
	if param != nil {
		expected = a.qualify(c.path, param)
	}
	t, ok := a.expr(arg, expected)
	if !ok {
		return false
	}
	return expected == nil || a.compareTypes(expected, t, arg.Loc)
}

// positionalArguments checks arguments against parameters in order. Extra
// arguments of a variadic function are checked on their own.
func (a *Analyzer) positionalArguments(call *ast.Node, c chain, k symtab.FuncDef) ([]*ast.Node, bool) {
	args := call.Children
	variadic := k.Flags.Has(symtab.FuncVariadic)
	switch {
	case variadic && len(args) < len(k.Params):
		a.errorf(call.Loc, msgArgCountAtLeast, c, len(k.Params), len(args))
		return nil, false
	case !variadic && len(args) != len(k.Params):
		a.errorf(call.Loc, msgArgCount, c, len(k.Params), len(args))
		return nil, false
	}
	for i, arg := range args {
		var param types.Type
		if i < len(k.Params) {
			param = k.Params[i].Type
		}
		if !a.argument(arg, c, param) {
			return nil, false
		}
	}
	return args, true
}

// namedArguments checks `f {b: 1, a: 2}` and returns the values in
// parameter order. Every parameter has to be named; a repeated name
// replaces the earlier value.
func (a *Analyzer) namedArguments(call *ast.Node, c chain, k symtab.FuncDef) ([]*ast.Node, bool) {
	given := make(map[ident.ID]*ast.Node, len(call.Fields))
	for _, f := range call.Fields {
		p, _, ok := k.Param(f.Name)
		if !ok {
			a.errorf(f.Loc, msgNoParam, c, f.Name)
			return nil, false
		}
		if !a.argument(f.Value, c, p.Type) {
			return nil, false
		}
		given[f.Name] = f.Value
	}
	args := make([]*ast.Node, len(k.Params))
	for i, p := range k.Params {
		v, ok := given[p.Name]
		if !ok {
			a.errorf(call.Loc, msgMissingArg, p.Name, c)
			return nil, false
		}
		args[i] = v
	}
	return args, true
}
