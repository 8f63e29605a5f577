// Package semantic is the Ember semantic analyzer. It walks a parsed tree,
// fills a scoped symbol table, checks types, mutability and safety, and
// rewrites access chains and constructor syntax into typed nodes for code
// generation.
package semantic

import (
	"fmt"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/diag"
	"github.com/emberlang/ember/symtab"
	"github.com/emberlang/ember/types"
)

// Config controls an analysis.
type Config struct {
	// MaxDepth bounds tree nesting. Deeper input is reported as a
	// diagnostic.
	MaxDepth int
	// Jobs is how many sibling modules may be analyzed at the same time.
	// Values below 2 analyze everything sequentially.
	Jobs int
	// Unit names the compilation unit for diagnostics that have no node to
	// point at.
	Unit string
}

// DefaultConfig returns the configuration the CLI starts from.
func DefaultConfig() Config {
	return Config{MaxDepth: 1000, Jobs: 1}
}

// Result is what code generation consumes.
type Result struct {
	// Table is the root symbol table, one nested table per module.
	Table *symtab.Table
	// Tree is the input tree, rewritten in place.
	Tree *ast.Node
	// Diagnostics are sorted by location.
	Diagnostics diag.List
}

// Analyzer owns one symbol table. Modules get their own Analyzer.
type Analyzer struct {
	cfg   Config
	table *symtab.Table
	diags diag.List

	depth   int
	tooDeep bool
	// Declared return types of the enclosing functions, innermost last.
	returns []types.Type
	// Types named by declarations in the bodies being analyzed, checked
	// when their body ends.
	declared []declaredType
	// Sibling modules analyzed ahead of time, see prepareModules.
	modules map[*ast.Node]*Analyzer
}

// New creates an analyzer with an empty table.
func New(cfg Config) *Analyzer {
	def := DefaultConfig()
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = def.Jobs
	}
	return &Analyzer{cfg: cfg, table: symtab.New()}
}

// Analyze runs a fresh analyzer over tree.
func Analyze(tree *ast.Node, cfg Config) Result {
	return New(cfg).Analyze(tree)
}

// Analyze analyzes a whole program. It always runs to completion; problems
// are reported in the result's diagnostics.
func (a *Analyzer) Analyze(tree *ast.Node) Result {
	loc := diag.Location{Unit: a.cfg.Unit}
	if tree != nil {
		loc = tree.Loc
	}
	err := a.safely(func() {
		if tree == nil || tree.Kind != ast.KindProgram {
			a.internal(loc, "expected a program")
			return
		}
		a.body(tree.Children)
	})
	if err != nil {
		a.internal(loc, err.Error())
	}
	a.diags.Sort()
	return Result{Table: a.table, Tree: tree, Diagnostics: a.diags}
}

// safely runs fn, turning a panic into an error so that an analyzer defect
// surfaces as a diagnostic.
func (a *Analyzer) safely(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}

func (a *Analyzer) errorf(loc diag.Location, format string, args ...any) {
	a.diags.Add(diag.Errorf(loc, format, args...))
}

func (a *Analyzer) warningf(loc diag.Location, format string, args ...any) {
	a.diags.Add(diag.Warningf(loc, format, args...))
}

func (a *Analyzer) internal(loc diag.Location, what string) {
	a.errorf(loc, msgInternal, what)
}

// enter records one more level of nesting. It reports false, once, when the
// configured depth is exceeded.
func (a *Analyzer) enter(n *ast.Node) bool {
	if a.depth >= a.cfg.MaxDepth {
		if !a.tooDeep {
			a.tooDeep = true
			a.errorf(n.Loc, msgTooDeep, a.cfg.MaxDepth)
		}
		return false
	}
	a.depth++
	return true
}

func (a *Analyzer) leave() {
	a.depth--
}

func (a *Analyzer) unsafe() bool {
	return a.table.ScopeInfo().Safety == symtab.Unsafe
}
