package semantic

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/diag"
	"github.com/emberlang/ember/symtab"
)

// sub creates the analyzer for a module body. It shares nothing with a:
// a module sees only its own declarations.
func (a *Analyzer) sub() *Analyzer {
	s := New(a.cfg)
	s.depth = a.depth
	return s
}

// module analyzes a module body with a sub-analyzer and grafts the
// resulting table into the current scope.
func (a *Analyzer) module(n *ast.Node) {
	if a.redefined(n.Name, n.Loc) {
		return
	}
	s, ok := a.modules[n]
	if !ok {
		s = a.sub()
		s.body(n.Children)
	} else {
		delete(a.modules, n)
	}
	a.diags.Merge(&s.diags)
	a.table.Insert(&symtab.Entry{
		Name:   n.Name,
		Static: true,
		Kind:   symtab.ModuleDef{Table: s.table},
		Loc:    n.Loc,
	})
}

// prepareModules analyzes the modules among nodes concurrently when more
// than one job is allowed. The results are picked up by module as the
// sequential walk reaches each node, so the table and the (sorted)
// diagnostics come out the same as with a single job.
func (a *Analyzer) prepareModules(nodes []*ast.Node) {
	if a.cfg.Jobs < 2 {
		return
	}
	var mods []*ast.Node
	for _, n := range nodes {
		if n.Kind == ast.KindModule {
			mods = append(mods, n)
		}
	}
	if len(mods) < 2 {
		return
	}

	subs := make([]*Analyzer, len(mods))
	var g errgroup.Group
	g.SetLimit(a.cfg.Jobs)
	for i, m := range mods {
		s := a.sub()
		// module would have entered the node first
		s.depth++
		subs[i] = s
		g.Go(func() error {
			if err := s.safely(func() { s.body(m.Children) }); err != nil {
				return fmt.Errorf("module %s: %w", m.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.internal(diag.Location{Unit: a.cfg.Unit}, err.Error())
	}

	if a.modules == nil {
		a.modules = make(map[*ast.Node]*Analyzer, len(mods))
	}
	for i, m := range mods {
		a.modules[m] = subs[i]
	}
}
