package semantic

import (
	"fmt"
	"strings"

	"github.com/emberlang/ember/diag"
	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/types"
)

// compareTypes checks that a value of type actual may be used where expected
// is required, and reports a mismatch otherwise.
func (a *Analyzer) compareTypes(expected, actual types.Type, loc diag.Location) bool {
	if a.compatible(expected, actual) {
		return true
	}
	a.errorf(loc, msgMismatch, a.describe(expected), a.describe(actual))
	return false
}

// compatible is structural equality, widened by alias transparency on either
// side and by three coercions: a reference decays to a pointer to a
// compatible type, arrays with compatible elements convert regardless of
// size, and never converts to anything.
func (a *Analyzer) compatible(expected, actual types.Type) bool {
	if types.Equal(expected, actual) || types.IsNever(actual) {
		return true
	}
	if t, ok := a.table.FindAliasValue(expected); ok && a.compatible(t, actual) {
		return true
	}
	if t, ok := a.table.FindAliasValue(actual); ok && a.compatible(expected, t) {
		return true
	}

	switch e := expected.(type) {
	case types.Ptr:
		switch x := actual.(type) {
		case types.Ref:
			return a.compatible(e.Target, x.Target)
		case types.Ptr:
			return a.compatible(e.Target, x.Target)
		}
	case types.Ref:
		x, ok := actual.(types.Ref)
		return ok && x.Mutable == e.Mutable && a.compatible(e.Target, x.Target)
	case types.Array:
		x, ok := actual.(types.Array)
		return ok && a.compatible(e.Elem, x.Elem)
	case types.Tuple:
		x, ok := actual.(types.Tuple)
		if !ok || len(x.Elems) != len(e.Elems) {
			return false
		}
		for i := range e.Elems {
			if !a.compatible(e.Elems[i], x.Elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// describe renders t for a diagnostic, naming what an alias stands for.
func (a *Analyzer) describe(t types.Type) string {
	if v, ok := a.table.FindAliasValue(t); ok {
		return fmt.Sprintf("%s (aka: %s)", types.String(t), types.String(v))
	}
	return types.String(t)
}

// underlying resolves t through aliases.
func (a *Analyzer) underlying(t types.Type) types.Type {
	if v, ok := a.table.FindAliasValue(t); ok {
		return v
	}
	return t
}

// pointee strips aliases, references and pointers from t.
func (a *Analyzer) pointee(t types.Type) types.Type {
	for {
		switch x := a.underlying(t).(type) {
		case types.Ref:
			t = x.Target
		case types.Ptr:
			t = x.Target
		default:
			return x
		}
	}
}

// qualify rewrites a type written inside the definition found at path so
// that it resolves from the current table.
func (a *Analyzer) qualify(path []ident.ID, t types.Type) types.Type {
	if len(path) < 2 {
		return t
	}
	return types.Qualify(a.table.Namespace(path), t)
}

// canonical writes path as the modules it passes through followed by its
// last segment, dropping segments that only name ordinary values.
func (a *Analyzer) canonical(path []ident.ID) []ident.ID {
	return append(a.table.Namespace(path), path[len(path)-1])
}

// numberType is the type a numeric literal takes: the expected type when
// that is numeric of the right family, else the default.
func (a *Analyzer) numberType(expected types.Type, float bool) types.Type {
	u := a.underlying(expected)
	switch {
	case float && types.IsFloat(u):
		return expected
	case float:
		return types.F64
	case types.IsNumeric(u):
		return expected
	}
	return types.I32
}

func pathString(path []ident.ID) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = id.String()
	}
	return strings.Join(parts, "::")
}
