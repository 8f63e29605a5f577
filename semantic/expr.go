package semantic

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/symtab"
	"github.com/emberlang/ember/types"
)

// expr analyzes an expression and returns its type. expected, when not nil,
// is the type the context requires; literals adopt it. The second result is
// false once a diagnostic has been reported inside n, and the caller stops
// checking the enclosing node.
func (a *Analyzer) expr(n *ast.Node, expected types.Type) (types.Type, bool) {
	if !a.enter(n) {
		return nil, false
	}
	defer a.leave()

	switch n.Kind {
	case ast.KindInteger:
		if n.Type != nil {
			return n.Type, true
		}
		return a.numberType(expected, false), true
	case ast.KindFloat:
		return a.numberType(expected, true), true
	case ast.KindString:
		return types.Str, true
	case ast.KindBool:
		return types.Bool, true
	case ast.KindIdent:
		return a.ident(n)
	case ast.KindBinary:
		return a.binary(n, expected)
	case ast.KindUnary:
		return a.unary(n, expected)
	case ast.KindRef:
		return a.ref(n, expected)
	case ast.KindDeref:
		t, ok := a.expr(n.Children[0], nil)
		if !ok {
			return nil, false
		}
		switch x := a.underlying(t).(type) {
		case types.Ref:
			return x.Target, true
		case types.Ptr:
			return x.Target, true
		}
		a.errorf(n.Loc, msgDeref, a.describe(t))
		return nil, false
	case ast.KindAssign:
		return types.Unit{}, a.assign(n)
	case ast.KindCall, ast.KindLit, ast.KindDot, ast.KindPath:
		return a.access(n)
	case ast.KindTuple:
		return a.tuple(n, expected)
	case ast.KindArray:
		return a.array(n, expected)
	case ast.KindIndex:
		return a.index(n)
	case ast.KindCast:
		if _, ok := a.expr(n.Children[0], nil); !ok {
			return nil, false
		}
		if !a.checkType(n.Type, n.Loc) {
			return nil, false
		}
		return n.Type, true
	case ast.KindLiteral, ast.KindTypedCall:
		return n.Type, true
	}
	a.internal(n.Loc, "unexpected "+string(n.Kind)+" in expression")
	return nil, false
}

// ident reads a variable.
func (a *Analyzer) ident(n *ast.Node) (types.Type, bool) {
	e, ok := a.table.Lookup(n.Name)
	if !ok {
		a.errorf(n.Loc, msgNotFound, n.Name)
		return nil, false
	}
	return a.value(n, e, n.Name.String())
}

// value is the type of reading the entry e named by n.
func (a *Analyzer) value(n *ast.Node, e *symtab.Entry, name string) (types.Type, bool) {
	v, ok := e.Kind.(symtab.VarDef)
	if !ok {
		a.errorf(n.Loc, msgExpected, "value", symtab.KindName(e.Kind), name)
		return nil, false
	}
	if !v.Initialized {
		a.warningf(n.Loc, msgUninitialized, name)
	}
	return v.Type, true
}

// isLiteral reports an operand whose type comes from its context.
func isLiteral(n *ast.Node) bool {
	return (n.Kind == ast.KindInteger && n.Type == nil) || n.Kind == ast.KindFloat
}

func (a *Analyzer) binary(n *ast.Node, expected types.Type) (types.Type, bool) {
	left, right := n.Children[0], n.Children[1]

	switch n.Op {
	case "&&", "||":
		for _, side := range n.Children {
			t, ok := a.expr(side, types.Bool)
			if !ok || !a.compareTypes(types.Bool, t, side.Loc) {
				return nil, false
			}
		}
		return types.Bool, true
	case "==", "!=", "<", ">", "<=", ">=":
		expected = nil
	}

	// Type the operand that knows its type first, so that a literal on
	// either side adopts the other side's type.
	first, second := left, right
	if isLiteral(left) && !isLiteral(right) {
		first, second = right, left
	}
	ft, ok := a.expr(first, expected)
	if !ok {
		return nil, false
	}
	st, ok := a.expr(second, ft)
	if !ok || !a.compareTypes(ft, st, second.Loc) {
		return nil, false
	}

	switch n.Op {
	case "==", "!=":
		return types.Bool, true
	case "<", ">", "<=", ">=":
		if !types.IsNumeric(a.underlying(ft)) {
			a.errorf(n.Loc, msgOperand, n.Op, a.describe(ft))
			return nil, false
		}
		return types.Bool, true
	}
	if !types.IsNumeric(a.underlying(ft)) {
		a.errorf(n.Loc, msgOperand, n.Op, a.describe(ft))
		return nil, false
	}
	return ft, true
}

func (a *Analyzer) unary(n *ast.Node, expected types.Type) (types.Type, bool) {
	operand := n.Children[0]
	t, ok := a.expr(operand, expected)
	if !ok {
		return nil, false
	}
	u := a.underlying(t)
	switch n.Op {
	case "-":
		ok = types.IsNumeric(u)
	case "!":
		ok = types.Equal(u, types.Bool) || types.IsInteger(u)
	case "~":
		ok = types.IsInteger(u)
	default:
		ok = false
	}
	if !ok {
		a.errorf(n.Loc, msgOperand, n.Op, a.describe(t))
		return nil, false
	}
	return t, true
}

// ref takes a reference. A mutable reference to an immutable variable is
// reported here, where it is created.
func (a *Analyzer) ref(n *ast.Node, expected types.Type) (types.Type, bool) {
	var target types.Type
	switch x := a.underlying(expected).(type) {
	case types.Ref:
		target = x.Target
	case types.Ptr:
		target = x.Target
	}
	operand := n.Children[0]
	t, ok := a.expr(operand, target)
	if !ok {
		return nil, false
	}
	if n.Mutable {
		if name, immutable := a.immutableBinding(operand); immutable {
			a.errorf(n.Loc, msgBorrowImmutable, name)
			return nil, false
		}
	}
	return types.Ref{Target: t, Mutable: n.Mutable}, true
}

func (a *Analyzer) tuple(n *ast.Node, expected types.Type) (types.Type, bool) {
	if len(n.Children) == 0 {
		return types.Unit{}, true
	}
	var hints []types.Type
	if x, ok := a.underlying(expected).(types.Tuple); ok && len(x.Elems) == len(n.Children) {
		hints = x.Elems
	}
	elems := make([]types.Type, len(n.Children))
	for i, c := range n.Children {
		var hint types.Type
		if hints != nil {
			hint = hints[i]
		}
		t, ok := a.expr(c, hint)
		if !ok {
			return nil, false
		}
		elems[i] = t
	}
	return types.Tuple{Elems: elems}, true
}

func (a *Analyzer) array(n *ast.Node, expected types.Type) (types.Type, bool) {
	var elem types.Type
	if x, ok := a.underlying(expected).(types.Array); ok {
		elem = x.Elem
	}
	if len(n.Children) == 0 {
		if elem == nil {
			a.errorf(n.Loc, msgEmptyArray)
			return nil, false
		}
		return types.Array{Size: 0, Elem: elem}, true
	}
	for _, c := range n.Children {
		t, ok := a.expr(c, elem)
		if !ok {
			return nil, false
		}
		if elem == nil {
			elem = t
		} else if !a.compareTypes(elem, t, c.Loc) {
			return nil, false
		}
	}
	return types.Array{Size: len(n.Children), Elem: elem}, true
}

func (a *Analyzer) index(n *ast.Node) (types.Type, bool) {
	base, idx := n.Children[0], n.Children[1]
	t, ok := a.expr(base, nil)
	if !ok {
		return nil, false
	}
	elem, ok := a.element(t, n)
	if !ok {
		return nil, false
	}
	if !a.checkIndex(idx) {
		return nil, false
	}
	return elem, true
}

// element is the element type of an indexable type.
func (a *Analyzer) element(t types.Type, n *ast.Node) (types.Type, bool) {
	switch x := a.underlying(t).(type) {
	case types.Array:
		return x.Elem, true
	case types.Ptr:
		return x.Target, true
	}
	a.errorf(n.Loc, msgIndex, a.describe(t))
	return nil, false
}

func (a *Analyzer) checkIndex(idx *ast.Node) bool {
	it, ok := a.expr(idx, types.USize)
	if !ok {
		return false
	}
	if !types.IsInteger(a.underlying(it)) {
		a.errorf(idx.Loc, msgIndexType, a.describe(it))
		return false
	}
	return true
}
