package semantic

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/diag"
	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/symtab"
	"github.com/emberlang/ember/types"
)

// chain is a flattened access chain such as `geo::Shape::Pair(1, 2)`.
type chain struct {
	path []ident.ID
	// tail is the call, literal or assignment the chain ends in, or nil
	// when it ends in a plain name.
	tail *ast.Node
}

func (c chain) String() string {
	return pathString(c.path)
}

// flatten walks an access chain left-recursively into its names. It stops at
// an assignment, whose right-hand side is a value rather than a segment, or
// at a call or literal. Anything else makes the chain unflattenable.
func flatten(n *ast.Node) (chain, bool) {
	switch n.Kind {
	case ast.KindIdent:
		return chain{path: []ident.ID{n.Name}}, true
	case ast.KindCall, ast.KindLit:
		return chain{path: []ident.ID{n.Name}, tail: n}, true
	case ast.KindDot, ast.KindPath:
		c, ok := flatten(n.Children[0])
		if !ok || c.tail != nil {
			return chain{}, false
		}
		right := n.Children[1]
		switch right.Kind {
		case ast.KindIdent:
			c.path = append(c.path, right.Name)
		case ast.KindCall, ast.KindLit:
			c.path = append(c.path, right.Name)
			c.tail = right
		case ast.KindAssign:
			target := right.Children[0]
			if target.Kind != ast.KindIdent {
				return chain{}, false
			}
			c.path = append(c.path, target.Name)
			c.tail = right
		default:
			return chain{}, false
		}
		return c, true
	}
	return chain{}, false
}

// access analyzes a call, a literal or an access chain. Member access on a
// value is handled by member; everything else is a qualified name resolved
// through the symbol table and dispatched on what it names.
func (a *Analyzer) access(n *ast.Node) (types.Type, bool) {
	if n.Kind == ast.KindDot && a.isMemberAccess(n) {
		return a.member(n)
	}
	c, ok := flatten(n)
	if !ok {
		a.internal(n.Loc, "malformed access chain")
		return nil, false
	}
	e, ok := a.table.LookupQualified(c.path)
	if !ok {
		a.errorf(n.Loc, msgNotFound, c)
		return nil, false
	}

	switch k := e.Kind.(type) {
	case symtab.Enum:
		return a.enumValue(n, c, k)
	case symtab.Variant:
		return a.construct(n, c, k)
	case symtab.StructDef:
		return a.literal(n, c, k.Fields, false)
	case symtab.UnionDef:
		return a.literal(n, c, k.Fields, true)
	case symtab.FuncDef:
		return a.call(n, c, k)
	case symtab.VarDef:
		// a module-level variable reached through its module
		if c.tail != nil && c.tail.Kind == ast.KindAssign && n.IsAccess() {
			target := &ast.Node{Kind: ast.KindPath, Loc: n.Loc, Children: []*ast.Node{n.Children[0], c.tail.Children[0]}}
			return types.Unit{}, a.store(c.tail, target, c.tail.Children[1])
		}
		if c.tail != nil {
			a.errorf(n.Loc, msgExpected, "function", symtab.KindName(k), c)
			return nil, false
		}
		return a.value(n, e, c.String())
	case symtab.ModuleDef, symtab.EnumDef, symtab.VariantDef, symtab.AliasDef:
		a.errorf(n.Loc, msgExpected, "value", symtab.KindName(k), c)
		return nil, false
	}
	a.internal(n.Loc, "unexpected "+symtab.KindName(e.Kind)+" '"+c.String()+"' in access path")
	return nil, false
}

// isMemberAccess reports whether a `.` chain starts at a value rather than
// at a namespace.
func (a *Analyzer) isMemberAccess(n *ast.Node) bool {
	c, ok := flatten(n)
	if !ok {
		return true
	}
	e, ok := a.table.Lookup(c.path[0])
	if !ok {
		return true
	}
	_, isVar := e.Kind.(symtab.VarDef)
	return isVar
}

// enumValue rewrites an enum value to an integer typed as its enum.
func (a *Analyzer) enumValue(n *ast.Node, c chain, k symtab.Enum) (types.Type, bool) {
	if c.tail != nil {
		a.errorf(n.Loc, msgNoConstructor, c)
		return nil, false
	}
	owner := types.NewCustom(a.canonical(c.path[:len(c.path)-1])...)
	*n = ast.Node{Kind: ast.KindInteger, Loc: n.Loc, Integer: k.Value, Type: owner}
	return owner, true
}

// record is a struct or union definition reached through a type.
type record struct {
	path   []ident.ID
	fields *symtab.Fields
	union  bool
}

// recordOf finds the struct or union t names, through aliases.
func (a *Analyzer) recordOf(t types.Type) (record, bool) {
	c, ok := a.underlying(t).(types.Custom)
	if !ok {
		return record{}, false
	}
	e, ok := a.table.LookupQualified(c.Path)
	if !ok {
		return record{}, false
	}
	switch k := e.Kind.(type) {
	case symtab.StructDef:
		return record{path: c.Path, fields: k.Fields}, true
	case symtab.UnionDef:
		return record{path: c.Path, fields: k.Fields, union: true}, true
	}
	return record{}, false
}

// field resolves the member name of a value of type t, looking through
// references and pointers. Union members need an unsafe scope.
func (a *Analyzer) field(t types.Type, name ident.ID, loc diag.Location) (types.Type, bool) {
	base := a.pointee(t)
	rec, ok := a.recordOf(base)
	if !ok {
		a.errorf(loc, msgNoField, name, a.describe(base))
		return nil, false
	}
	ft, ok := rec.fields.Get(name)
	if !ok {
		a.errorf(loc, msgNoField, name, pathString(rec.path))
		return nil, false
	}
	if rec.union && !a.unsafe() {
		a.errorf(loc, msgUnionField, name, pathString(rec.path))
		return nil, false
	}
	return a.qualify(rec.path, ft), true
}

// member analyzes `value.field`, reading it or, when the chain ends in an
// assignment, writing it.
func (a *Analyzer) member(n *ast.Node) (types.Type, bool) {
	left, right := n.Children[0], n.Children[1]
	switch right.Kind {
	case ast.KindIdent:
		t, ok := a.expr(left, nil)
		if !ok {
			return nil, false
		}
		return a.field(t, right.Name, right.Loc)
	case ast.KindAssign:
		target := &ast.Node{Kind: ast.KindDot, Loc: n.Loc, Children: []*ast.Node{left, right.Children[0]}}
		return types.Unit{}, a.store(right, target, right.Children[1])
	case ast.KindCall, ast.KindLit:
		t, ok := a.expr(left, nil)
		if !ok {
			return nil, false
		}
		a.errorf(right.Loc, msgNoField, right.Name, a.describe(a.pointee(t)))
		return nil, false
	}
	a.internal(n.Loc, "malformed member access")
	return nil, false
}
