package semantic

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/symtab"
	"github.com/emberlang/ember/types"
)

// body analyzes statements and definitions in the current scope, in order.
// Types inside struct, union, variant and alias declarations may name
// definitions that come later in the same body.
func (a *Analyzer) body(nodes []*ast.Node) {
	a.prepareModules(nodes)
	mark := len(a.declared)
	for _, n := range nodes {
		a.stmt(n)
	}
	a.checkDeclared(mark)
}

func (a *Analyzer) stmt(n *ast.Node) {
	if !a.enter(n) {
		return
	}
	defer a.leave()

	switch n.Kind {
	case ast.KindModule:
		a.module(n)
	case ast.KindStruct, ast.KindUnion:
		a.record(n)
	case ast.KindEnum:
		a.enum(n)
	case ast.KindVariant:
		a.variantDecl(n)
	case ast.KindFunc:
		a.function(n, 0)
	case ast.KindExtern:
		a.extern(n)
	case ast.KindAlias:
		a.alias(n)
	case ast.KindVar:
		a.variable(n, symtab.StorageLocal)
	case ast.KindStatic:
		a.variable(n, symtab.StorageStatic)
	case ast.KindConst:
		a.variable(n, symtab.StorageConst)
	case ast.KindBlock:
		a.scoped(n.Children, symtab.Inherited)
	case ast.KindUnsafe:
		a.scoped(n.Children, symtab.Unsafe)
	case ast.KindIf:
		a.ifStmt(n)
	case ast.KindWhile, ast.KindLoop:
		a.loop(n)
	case ast.KindBreak, ast.KindContinue:
		if !a.table.ScopeInfo().InLoop {
			a.errorf(n.Loc, msgOutsideLoop, n.Kind)
		}
	case ast.KindReturn:
		a.ret(n)
	case ast.KindAssign:
		a.assign(n)
	case ast.KindProgram:
		a.internal(n.Loc, "nested program")
	default:
		a.expr(n, nil)
	}
}

// scoped analyzes nodes in a new scope that keeps the enclosing function and
// loop context.
func (a *Analyzer) scoped(nodes []*ast.Node, safety symtab.Safety) {
	info := a.table.ScopeInfo()
	info.Safety = safety
	a.table.EnterScope(info)
	a.body(nodes)
	a.table.ExitScope()
}

// statements unwraps a block so that its statements can be analyzed in a
// scope opened by the caller.
func statements(n *ast.Node) []*ast.Node {
	if n.Kind == ast.KindBlock {
		return n.Children
	}
	return []*ast.Node{n}
}

func (a *Analyzer) condition(n *ast.Node) {
	t, ok := a.expr(n, types.Bool)
	if ok {
		a.compareTypes(types.Bool, t, n.Loc)
	}
}

// ifStmt analyzes a conditional. Branch bodies do not open a scope of their
// own: their declarations stay visible until the enclosing scope closes.
func (a *Analyzer) ifStmt(n *ast.Node) {
	a.condition(n.Children[0])
	for _, branch := range n.Children[1:] {
		if branch.Kind == ast.KindBlock {
			a.body(branch.Children)
		} else {
			a.stmt(branch)
		}
	}
}

func (a *Analyzer) loop(n *ast.Node) {
	body := n.Children[len(n.Children)-1]
	if n.Kind == ast.KindWhile {
		a.condition(n.Children[0])
	}
	info := a.table.ScopeInfo()
	info.Safety = symtab.Inherited
	info.InLoop = true
	a.table.EnterScope(info)
	a.body(statements(body))
	a.table.ExitScope()
}

func (a *Analyzer) ret(n *ast.Node) {
	if !a.table.ScopeInfo().InFunction || len(a.returns) == 0 {
		a.errorf(n.Loc, msgOutsideFunction)
		return
	}
	expected := a.returns[len(a.returns)-1]
	if len(n.Children) == 0 {
		a.compareTypes(expected, types.Unit{}, n.Loc)
		return
	}
	value := n.Children[0]
	t, ok := a.expr(value, expected)
	if ok {
		a.compareTypes(expected, t, value.Loc)
	}
}
