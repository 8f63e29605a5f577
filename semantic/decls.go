package semantic

import (
	"fortio.org/safecast"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/diag"
	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/symtab"
	"github.com/emberlang/ember/types"
)

// redefined reports a name that is already bound anywhere in the visible
// scope chain.
func (a *Analyzer) redefined(name ident.ID, loc diag.Location) bool {
	if _, ok := a.table.Lookup(name); ok {
		a.errorf(loc, msgRedefined, name)
		return true
	}
	return false
}

// declareFields builds a field map, reporting repeated names.
func (a *Analyzer) declareFields(decls []ast.Field) *symtab.Fields {
	fields := symtab.NewFields()
	for _, f := range decls {
		if _, dup := fields.Get(f.Name); dup {
			a.errorf(f.Loc, msgRedefined, f.Name)
			continue
		}
		fields.Set(f.Name, f.Type)
		a.declare(f.Type, f.Loc)
	}
	return fields
}

// record declares a struct or union.
func (a *Analyzer) record(n *ast.Node) {
	if a.redefined(n.Name, n.Loc) {
		return
	}
	fields := a.declareFields(n.Fields)
	var kind symtab.Kind = symtab.StructDef{Fields: fields}
	if n.Kind == ast.KindUnion {
		kind = symtab.UnionDef{Fields: fields}
	}
	a.table.Insert(&symtab.Entry{Name: n.Name, Static: true, Kind: kind, Loc: n.Loc})
}

// enum declares an enum. A value without an explicit number is one more
// than its predecessor; the first defaults to zero.
func (a *Analyzer) enum(n *ast.Node) {
	if a.redefined(n.Name, n.Loc) {
		return
	}
	def := symtab.EnumDef{Values: make(map[ident.ID]*symtab.Entry)}
	next := int64(0)
	for _, v := range n.Values {
		value := next
		if v.Explicit {
			value = v.Value
		}
		next = value + 1

		if _, dup := def.Values[v.Name]; dup {
			a.errorf(v.Loc, msgRedefined, v.Name)
			continue
		}
		// Values become C enumeration constants, which are ints.
		if _, err := safecast.Conv[int32](value); err != nil {
			a.errorf(v.Loc, msgEnumOverflow, value, pathString([]ident.ID{n.Name, v.Name}))
			continue
		}
		def.Values[v.Name] = &symtab.Entry{
			Name:   v.Name,
			Static: true,
			Kind:   symtab.Enum{Owner: n.Name, Value: value},
			Loc:    v.Loc,
		}
		def.Order = append(def.Order, v.Name)
	}
	a.table.Insert(&symtab.Entry{Name: n.Name, Static: true, Kind: def, Loc: n.Loc})
}

// alias declares a type alias. A chain of aliases that comes back to this
// one is reported here, where the loop is closed.
func (a *Analyzer) alias(n *ast.Node) {
	if a.redefined(n.Name, n.Loc) {
		return
	}
	a.table.Insert(&symtab.Entry{Name: n.Name, Static: true, Kind: symtab.AliasDef{Target: n.Type}, Loc: n.Loc})
	a.declare(n.Type, n.Loc)
	if a.table.AliasCycle(types.NewCustom(n.Name)) {
		a.errorf(n.Loc, msgAliasCycle, n.Name)
	}
}

// function declares a function and analyzes its body. The signature is
// inserted first so that the body can call the function recursively.
func (a *Analyzer) function(n *ast.Node, flags symtab.FuncFlags) {
	if a.redefined(n.Name, n.Loc) {
		return
	}
	if n.Unsafe {
		flags |= symtab.FuncUnsafe
	}
	if n.Variadic {
		flags |= symtab.FuncVariadic
	}
	def := symtab.FuncDef{Return: n.Type, Flags: flags}
	a.checkType(n.Type, n.Loc)
	seen := make(map[ident.ID]bool, len(n.Params))
	for _, p := range n.Params {
		if seen[p.Name] {
			a.errorf(p.Loc, msgRedefined, p.Name)
			continue
		}
		seen[p.Name] = true
		a.checkType(p.Type, p.Loc)
		def.Params = append(def.Params, symtab.Param{Name: p.Name, Type: p.Type, Mutable: p.Mutable})
	}
	a.table.Insert(&symtab.Entry{Name: n.Name, Static: true, Kind: def, Loc: n.Loc})

	if n.Body == nil {
		return
	}
	if flags.Has(symtab.FuncExtern) {
		a.errorf(n.Loc, msgExternBody, n.Name)
		return
	}

	safety := symtab.Inherited
	if n.Unsafe {
		safety = symtab.Unsafe
	}
	a.table.EnterScope(symtab.ScopeInfo{Safety: safety, InFunction: true})
	for i, p := range def.Params {
		a.table.Insert(&symtab.Entry{
			Name: p.Name,
			Kind: symtab.VarDef{Type: p.Type, Mutable: p.Mutable, Storage: symtab.StorageParam, Initialized: true},
			Loc:  n.Params[i].Loc,
		})
	}
	a.returns = append(a.returns, n.Type)
	a.body(n.Body.Children)
	a.returns = a.returns[:len(a.returns)-1]
	a.table.ExitScope()
}

func (a *Analyzer) extern(n *ast.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case ast.KindFunc:
			a.function(c, symtab.FuncExtern)
		case ast.KindVar, ast.KindStatic:
			a.variable(c, symtab.StorageExtern)
		default:
			a.errorf(c.Loc, msgExternItem)
		}
	}
}

// variable declares a var, static or const binding.
//
// With a declared type the binding is inserted before its initializer is
// analyzed and then inserted again, initialized, so that a self-reference
// in the initializer finds an uninitialized variable. Without one the
// initializer's type is needed first.
func (a *Analyzer) variable(n *ast.Node, storage symtab.Storage) {
	if a.redefined(n.Name, n.Loc) {
		return
	}
	def := symtab.VarDef{
		Type:    n.Type,
		Mutable: n.Mutable && storage != symtab.StorageConst,
		Storage: storage,
	}
	var init *ast.Node
	if len(n.Children) > 0 {
		init = n.Children[0]
	}

	if storage == symtab.StorageExtern {
		if init != nil {
			a.errorf(n.Loc, msgExternInit, n.Name)
		}
		if n.Type == nil {
			a.errorf(n.Loc, msgNeedsType, n.Name)
			return
		}
		a.checkType(n.Type, n.Loc)
		def.Initialized = true
		a.table.Insert(&symtab.Entry{Name: n.Name, Kind: def, Loc: n.Loc})
		return
	}

	if n.Type != nil {
		a.checkType(n.Type, n.Loc)
		// Statics are zero-initialized by C.
		def.Initialized = storage == symtab.StorageStatic
		a.table.Insert(&symtab.Entry{Name: n.Name, Kind: def, Loc: n.Loc})
		if init == nil {
			return
		}
		if t, ok := a.expr(init, n.Type); ok {
			a.compareTypes(n.Type, t, init.Loc)
		}
		def.Initialized = true
		a.table.Insert(&symtab.Entry{Name: n.Name, Kind: def, Loc: n.Loc})
		return
	}

	if init == nil {
		a.errorf(n.Loc, msgNeedsType, n.Name)
		return
	}
	t, ok := a.expr(init, nil)
	if !ok {
		return
	}
	def.Type = t
	def.Initialized = true
	a.table.Insert(&symtab.Entry{Name: n.Name, Kind: def, Loc: n.Loc})
}

type declaredType struct {
	typ types.Type
	loc diag.Location
}

// declare queues t for checkType at the end of the current body.
func (a *Analyzer) declare(t types.Type, loc diag.Location) {
	a.declared = append(a.declared, declaredType{typ: t, loc: loc})
}

// checkDeclared checks the types queued since mark and drops them.
func (a *Analyzer) checkDeclared(mark int) {
	for _, d := range a.declared[mark:] {
		a.checkType(d.typ, d.loc)
	}
	a.declared = a.declared[:mark]
}

// checkType reports named types in t that do not resolve to a type
// definition. Template names are not checked; templates are never
// instantiated.
func (a *Analyzer) checkType(t types.Type, loc diag.Location) bool {
	switch x := t.(type) {
	case types.Custom:
		e, ok := a.table.LookupQualified(x.Path)
		if !ok {
			a.errorf(loc, msgTypeNotFound, x)
			return false
		}
		switch e.Kind.(type) {
		case symtab.StructDef, symtab.UnionDef, symtab.EnumDef, symtab.VariantDef, symtab.AliasDef:
			return true
		}
		a.errorf(loc, msgExpected, "type", symtab.KindName(e.Kind), x)
		return false
	case types.Ref:
		return a.checkType(x.Target, loc)
	case types.Ptr:
		return a.checkType(x.Target, loc)
	case types.Array:
		return a.checkType(x.Elem, loc)
	case types.Tuple:
		return a.checkTypes(x.Elems, loc)
	case types.Template:
		return a.checkTypes(x.Generics, loc)
	}
	return true
}

func (a *Analyzer) checkTypes(list []types.Type, loc diag.Location) bool {
	ok := true
	for _, t := range list {
		if !a.checkType(t, loc) {
			ok = false
		}
	}
	return ok
}
