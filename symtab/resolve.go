package symtab

import (
	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/types"
)

// LookupQualified resolves a path such as `geo::shapes::Circle` or
// `Color::Red`.
//
// Modules can be nested to any depth. An enum or a variant consumes exactly
// one more segment, looked up in its own value or arm map. Any other kind of
// entry resolves the next segment in this table instead, which is how
// member-style access through ordinary values reaches its field names.
func (t *Table) LookupQualified(path []ident.ID) (*Entry, bool) {
	if len(path) == 0 {
		return nil, false
	}
	e, ok := t.Lookup(path[0])
	if !ok || len(path) == 1 {
		return e, ok
	}
	rest := path[1:]
	switch k := e.Kind.(type) {
	case ModuleDef:
		if k.Table == nil {
			return nil, false
		}
		return k.Table.LookupQualified(rest)
	case EnumDef:
		if len(rest) != 1 {
			return nil, false
		}
		v, ok := k.Values[rest[0]]
		return v, ok
	case VariantDef:
		if len(rest) != 1 {
			return nil, false
		}
		v, ok := k.Arms[rest[0]]
		return v, ok
	default:
		return t.LookupQualified(rest)
	}
}

// ModulePrefix returns the leading segments of path that name modules. A type
// found at path is written relative to the table those segments lead to.
func (t *Table) ModulePrefix(path []ident.ID) []ident.ID {
	table := t
	for i, name := range path {
		e, ok := table.Lookup(name)
		if !ok {
			return path[:i]
		}
		m, ok := e.Kind.(ModuleDef)
		if !ok || m.Table == nil {
			return path[:i]
		}
		table = m.Table
	}
	return path
}

// Namespace returns the modules LookupQualified walks through on its way to
// the last segment of path. Segments naming other entries are skipped the
// same way LookupQualified skips them; an enum or variant ends the walk.
func (t *Table) Namespace(path []ident.ID) []ident.ID {
	var modules []ident.ID
	table := t
	for ; len(path) > 1; path = path[1:] {
		e, ok := table.Lookup(path[0])
		if !ok {
			break
		}
		switch k := e.Kind.(type) {
		case ModuleDef:
			if k.Table == nil {
				return modules
			}
			modules = append(modules, path[0])
			table = k.Table
			continue
		case EnumDef, VariantDef:
			return modules
		}
	}
	return modules
}

// FindAliasValue follows alias definitions starting at t until it reaches a
// type that is not an alias. It reports false when t does not name an alias,
// or when the chain loops back on itself.
func (t *Table) FindAliasValue(ty types.Type) (types.Type, bool) {
	target, ok, _ := t.resolveAlias(ty)
	return target, ok
}

// AliasCycle reports whether resolving ty revisits an alias.
func (t *Table) AliasCycle(ty types.Type) bool {
	_, _, cycle := t.resolveAlias(ty)
	return cycle
}

func (t *Table) resolveAlias(ty types.Type) (types.Type, bool, bool) {
	visited := make(map[*Entry]bool)
	resolved := false
	for {
		c, ok := ty.(types.Custom)
		if !ok {
			return ty, resolved, false
		}
		e, ok := t.LookupQualified(c.Path)
		if !ok {
			return ty, resolved, false
		}
		alias, ok := e.Kind.(AliasDef)
		if !ok {
			return ty, resolved, false
		}
		if visited[e] {
			return nil, false, true
		}
		visited[e] = true
		resolved = true
		ty = types.Qualify(t.ModulePrefix(c.Path[:len(c.Path)-1]), alias.Target)
	}
}
