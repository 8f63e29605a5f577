package symtab

import (
	"testing"

	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/types"
	"github.com/nalgeon/be"
)

func variable(name string, t types.Type) *Entry {
	return &Entry{Name: ident.Intern(name), Kind: VarDef{Type: t}}
}

func function(name string) *Entry {
	return &Entry{Name: ident.Intern(name), Static: true, Kind: FuncDef{Return: types.Unit{}}}
}

func TestNewTable(t *testing.T) {
	tbl := New()
	be.Equal(t, 0, tbl.Depth())
	be.Equal(t, Safe, tbl.ScopeInfo().Safety)

	_, ok := tbl.Lookup(ident.Intern("x"))
	be.Equal(t, false, ok)
}

func TestInsertAndLookup(t *testing.T) {
	tbl := New()
	tbl.Insert(variable("x", types.I32))

	e, ok := tbl.Lookup(ident.Intern("x"))
	be.True(t, ok)
	be.Equal(t, "x", e.Name.String())
	be.Equal(t, types.Type(types.I32), e.Kind.(VarDef).Type)
}

func TestInsertOverwritesInSameScope(t *testing.T) {
	tbl := New()
	x := ident.Intern("x")
	tbl.Insert(&Entry{Name: x, Kind: VarDef{Type: types.I32}})
	tbl.Insert(&Entry{Name: x, Kind: VarDef{Type: types.I32, Initialized: true}})

	e, ok := tbl.LookupLocal(x)
	be.True(t, ok)
	be.True(t, e.Kind.(VarDef).Initialized)

	count := 0
	for range tbl.Entries() {
		count++
	}
	be.Equal(t, 1, count)
}

func TestInnermostScopeWins(t *testing.T) {
	tbl := New()
	tbl.Insert(variable("x", types.I32))
	tbl.EnterScope(ScopeInfo{})
	tbl.Insert(variable("x", types.Bool))

	e, _ := tbl.Lookup(ident.Intern("x"))
	be.Equal(t, types.Type(types.Bool), e.Kind.(VarDef).Type)

	tbl.ExitScope()
	e, _ = tbl.Lookup(ident.Intern("x"))
	be.Equal(t, types.Type(types.I32), e.Kind.(VarDef).Type)
}

func TestStaticEntriesEscapeScope(t *testing.T) {
	tbl := New()
	tbl.EnterScope(ScopeInfo{InLoop: true})
	tbl.Insert(function("helper"))
	tbl.Insert(variable("counter", types.I32))
	tbl.ExitScope()

	_, ok := tbl.Lookup(ident.Intern("helper"))
	be.True(t, ok)
	_, ok = tbl.Lookup(ident.Intern("counter"))
	be.Equal(t, false, ok)
}

func TestStaticEntriesBubbleThroughSeveralScopes(t *testing.T) {
	tbl := New()
	tbl.EnterScope(ScopeInfo{InFunction: true})
	tbl.EnterScope(ScopeInfo{InFunction: true, InLoop: true})
	tbl.Insert(function("deep"))
	tbl.ExitScope()

	e, ok := tbl.LookupLocal(ident.Intern("deep"))
	be.True(t, ok)
	be.True(t, e.Static)

	tbl.ExitScope()
	_, ok = tbl.LookupLocal(ident.Intern("deep"))
	be.True(t, ok)
}

func TestExitScopeWithoutOpenScope(t *testing.T) {
	tbl := New()
	tbl.Insert(variable("x", types.I32))
	tbl.ExitScope()
	tbl.ExitScope()

	_, ok := tbl.Lookup(ident.Intern("x"))
	be.True(t, ok)
	be.Equal(t, 0, tbl.Depth())
}

func TestInheritedSafetyResolvesOnEntry(t *testing.T) {
	tbl := New()
	tbl.EnterScope(ScopeInfo{Safety: Unsafe})
	tbl.EnterScope(ScopeInfo{Safety: Inherited})
	be.Equal(t, Unsafe, tbl.ScopeInfo().Safety)

	tbl.EnterScope(ScopeInfo{Safety: Safe})
	tbl.EnterScope(ScopeInfo{})
	be.Equal(t, Safe, tbl.ScopeInfo().Safety)
}

func TestInheritedSafetyFollowsSetSafety(t *testing.T) {
	tbl := New()
	tbl.EnterScope(ScopeInfo{Safety: Safe})
	tbl.EnterScope(ScopeInfo{Safety: Inherited})
	be.Equal(t, Safe, tbl.ScopeInfo().Safety)
	tbl.ExitScope()

	tbl.SetSafety(Unsafe)
	tbl.EnterScope(ScopeInfo{})
	be.Equal(t, Unsafe, tbl.ScopeInfo().Safety)
}

func TestSetSafetyOnRoot(t *testing.T) {
	tbl := New()
	tbl.SetSafety(Unsafe)
	be.Equal(t, Unsafe, tbl.ScopeInfo().Safety)
	tbl.SetSafety(Inherited)
	be.Equal(t, Safe, tbl.ScopeInfo().Safety)
}

func TestScopeInfoFlags(t *testing.T) {
	tbl := New()
	tbl.EnterScope(ScopeInfo{InFunction: true})
	tbl.EnterScope(ScopeInfo{InFunction: true, InLoop: true})
	info := tbl.ScopeInfo()
	be.True(t, info.InFunction)
	be.True(t, info.InLoop)
	be.Equal(t, 2, tbl.Depth())
}

func TestEntriesKeepDeclarationOrder(t *testing.T) {
	tbl := New()
	tbl.Insert(function("c"))
	tbl.Insert(function("a"))
	tbl.Insert(function("b"))

	var names []string
	for e := range tbl.Entries() {
		names = append(names, e.Name.String())
	}
	be.Equal(t, []string{"c", "a", "b"}, names)
}

func TestFieldsKeepOrder(t *testing.T) {
	f := NewFields(
		Field{Name: ident.Intern("y"), Type: types.I32},
		Field{Name: ident.Intern("x"), Type: types.I32},
	)
	f.Set(ident.Intern("y"), types.I64)

	list := f.List()
	be.Equal(t, 2, f.Len())
	be.Equal(t, "y", list[0].Name.String())
	be.Equal(t, types.Type(types.I64), list[0].Type)

	_, ok := f.Get(ident.Intern("z"))
	be.Equal(t, false, ok)
}
