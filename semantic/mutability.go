package semantic

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/symtab"
	"github.com/emberlang/ember/types"
)

// place is an assignable location: a variable, or a field, element or
// pointee reached from one.
type place struct {
	// root names the variable or reference the place is reached from.
	root ident.ID
	typ  types.Type
	// writable is decided by the last layer crossed: the variable's own
	// mutability, a reference's mutability, or a pointer.
	writable bool
	// viaRef is set when writable came from a reference.
	viaRef bool
}

// assign analyzes `target OP value`.
func (a *Analyzer) assign(n *ast.Node) bool {
	target, value := n.Children[0], n.Children[1]
	if target.Kind == ast.KindIdent {
		return a.assignVariable(n, target, value)
	}
	return a.store(n, target, value)
}

// assignVariable checks assignment to a plain name. An immutable variable
// may be assigned once if it was declared without an initializer. A binding
// of reference type may be written through when the reference is mutable.
func (a *Analyzer) assignVariable(n, target, value *ast.Node) bool {
	e, ok := a.table.Lookup(target.Name)
	if !ok {
		a.errorf(target.Loc, msgNotFound, target.Name)
		return false
	}
	v, ok := e.Kind.(symtab.VarDef)
	if !ok {
		a.errorf(target.Loc, msgExpected, "variable", symtab.KindName(e.Kind), target.Name)
		return false
	}

	expected := v.Type
	ref, isRef := a.underlying(v.Type).(types.Ref)
	switch {
	case v.Mutable:
	case isRef:
		if !ref.Mutable {
			a.errorf(n.Loc, msgImmutableRef, target.Name)
			return false
		}
		expected = ref.Target
	case !v.Initialized && n.Op == "=" && v.Storage == symtab.StorageLocal:
	default:
		a.errorf(n.Loc, msgConstMutation, target.Name)
		return false
	}

	if n.Op != "=" && !v.Initialized {
		a.warningf(target.Loc, msgUninitialized, target.Name)
	}
	if !a.assignValue(n, expected, value) {
		return false
	}
	if !v.Initialized {
		v.Initialized = true
		e.Kind = v
	}
	return true
}

// store checks assignment to a field, element or dereferenced place.
func (a *Analyzer) store(n, target, value *ast.Node) bool {
	p, ok := a.place(target)
	if !ok {
		return false
	}
	if !p.writable {
		if p.viaRef {
			a.errorf(n.Loc, msgImmutableRef, p.root)
		} else {
			a.errorf(n.Loc, msgConstMutation, p.root)
		}
		return false
	}
	return a.assignValue(n, p.typ, value)
}

// assignValue checks the right-hand side of an assignment. Compound
// operators need a numeric target.
func (a *Analyzer) assignValue(n *ast.Node, expected types.Type, value *ast.Node) bool {
	if n.Op != "=" && !types.IsNumeric(a.underlying(expected)) {
		a.errorf(n.Loc, msgOperand, n.Op, a.describe(expected))
		return false
	}
	t, ok := a.expr(value, expected)
	return ok && a.compareTypes(expected, t, value.Loc)
}

// place resolves an assignment target.
func (a *Analyzer) place(n *ast.Node) (place, bool) {
	switch n.Kind {
	case ast.KindIdent:
		e, ok := a.table.Lookup(n.Name)
		if !ok {
			a.errorf(n.Loc, msgNotFound, n.Name)
			return place{}, false
		}
		v, ok := e.Kind.(symtab.VarDef)
		if !ok {
			a.errorf(n.Loc, msgExpected, "variable", symtab.KindName(e.Kind), n.Name)
			return place{}, false
		}
		return place{root: n.Name, typ: v.Type, writable: v.Mutable}, true

	case ast.KindPath:
		c, ok := flatten(n)
		if !ok || c.tail != nil {
			break
		}
		e, ok := a.table.LookupQualified(c.path)
		if !ok {
			a.errorf(n.Loc, msgNotFound, c)
			return place{}, false
		}
		v, ok := e.Kind.(symtab.VarDef)
		if !ok {
			a.errorf(n.Loc, msgExpected, "variable", symtab.KindName(e.Kind), c)
			return place{}, false
		}
		return place{root: c.path[len(c.path)-1], typ: v.Type, writable: v.Mutable}, true

	case ast.KindDot:
		left, right := n.Children[0], n.Children[1]
		if right.Kind != ast.KindIdent {
			break
		}
		p, ok := a.place(left)
		if !ok {
			return place{}, false
		}
		p = a.through(p)
		ft, ok := a.field(p.typ, right.Name, right.Loc)
		if !ok {
			return place{}, false
		}
		p.typ = ft
		return p, true

	case ast.KindIndex:
		base, idx := n.Children[0], n.Children[1]
		p, ok := a.place(base)
		if !ok {
			return place{}, false
		}
		if ptr, isPtr := a.underlying(p.typ).(types.Ptr); isPtr {
			p.typ = ptr.Target
			p.writable, p.viaRef = true, false
		} else {
			elem, ok := a.element(p.typ, n)
			if !ok {
				return place{}, false
			}
			p.typ = elem
		}
		if !a.checkIndex(idx) {
			return place{}, false
		}
		return p, true

	case ast.KindDeref:
		operand := n.Children[0]
		t, ok := a.expr(operand, nil)
		if !ok {
			return place{}, false
		}
		root := rootName(operand)
		switch x := a.underlying(t).(type) {
		case types.Ref:
			return place{root: root, typ: x.Target, writable: x.Mutable, viaRef: true}, true
		case types.Ptr:
			return place{root: root, typ: x.Target, writable: true}, true
		}
		a.errorf(n.Loc, msgDeref, a.describe(t))
		return place{}, false
	}

	a.errorf(n.Loc, msgAssignTarget)
	return place{}, false
}

// through follows the references and pointers a field access crosses
// implicitly. The innermost one decides whether the place is writable.
func (a *Analyzer) through(p place) place {
	for {
		switch x := a.underlying(p.typ).(type) {
		case types.Ref:
			p.typ, p.writable, p.viaRef = x.Target, x.Mutable, true
		case types.Ptr:
			p.typ, p.writable, p.viaRef = x.Target, true, false
		default:
			return p
		}
	}
}

// rootName is the variable an expression starts from, for diagnostics.
func rootName(n *ast.Node) ident.ID {
	for {
		switch n.Kind {
		case ast.KindIdent:
			return n.Name
		case ast.KindDot, ast.KindPath, ast.KindIndex, ast.KindDeref:
			n = n.Children[0]
		default:
			return ident.Invalid
		}
	}
}

// immutableBinding reports whether n names, or is a field of, a variable
// that was not declared mutable and is not reached through a mutable
// reference or a pointer.
func (a *Analyzer) immutableBinding(n *ast.Node) (ident.ID, bool) {
	switch n.Kind {
	case ast.KindIdent, ast.KindDot, ast.KindIndex:
	default:
		return ident.Invalid, false
	}
	p, ok := a.quietPlace(n)
	if !ok || p.writable {
		return ident.Invalid, false
	}
	return p.root, true
}

// quietPlace resolves n like place without reporting anything. n has
// already been analyzed as an expression.
func (a *Analyzer) quietPlace(n *ast.Node) (place, bool) {
	switch n.Kind {
	case ast.KindIdent:
		e, ok := a.table.Lookup(n.Name)
		if !ok {
			return place{}, false
		}
		v, ok := e.Kind.(symtab.VarDef)
		if !ok {
			return place{}, false
		}
		return place{root: n.Name, typ: v.Type, writable: v.Mutable}, true
	case ast.KindDot:
		p, ok := a.quietPlace(n.Children[0])
		if !ok || n.Children[1].Kind != ast.KindIdent {
			return place{}, false
		}
		p = a.through(p)
		rec, ok := a.recordOf(p.typ)
		if !ok {
			return place{}, false
		}
		ft, ok := rec.fields.Get(n.Children[1].Name)
		if !ok {
			return place{}, false
		}
		p.typ = a.qualify(rec.path, ft)
		return p, true
	case ast.KindIndex:
		p, ok := a.quietPlace(n.Children[0])
		if !ok {
			return place{}, false
		}
		switch x := a.underlying(p.typ).(type) {
		case types.Array:
			p.typ = x.Elem
		case types.Ptr:
			p.typ, p.writable, p.viaRef = x.Target, true, false
		default:
			return place{}, false
		}
		return p, true
	}
	return place{}, false
}
