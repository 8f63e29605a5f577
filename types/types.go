// Package types defines the closed set of Ember types.
//
// Type is a sealed interface: the only implementations are the ones declared
// in this file, so a type switch over them is exhaustive.
package types

import (
	"strconv"
	"strings"

	"github.com/emberlang/ember/ident"
)

// Type is an Ember type.
type Type interface {
	String() string
	isType()
}

// Basic is a primitive type.
type Basic int

const (
	I8 Basic = iota + 1
	I16
	I32
	I64
	ISize
	U8
	U16
	U32
	U64
	USize
	F32
	F64
	Bool
	Str
	Never
)

var basicNames = map[Basic]string{
	I8:    "i8",
	I16:   "i16",
	I32:   "i32",
	I64:   "i64",
	ISize: "isize",
	U8:    "u8",
	U16:   "u16",
	U32:   "u32",
	U64:   "u64",
	USize: "usize",
	F32:   "f32",
	F64:   "f64",
	Bool:  "bool",
	Str:   "str",
	Never: "never",
}

var basicByName = func() map[string]Basic {
	m := make(map[string]Basic, len(basicNames))
	for b, name := range basicNames {
		m[name] = b
	}
	return m
}()

// LookupBasic returns the primitive type spelled name.
func LookupBasic(name string) (Basic, bool) {
	b, ok := basicByName[name]
	return b, ok
}

func (b Basic) String() string {
	if name, ok := basicNames[b]; ok {
		return name
	}
	return "basic(" + strconv.Itoa(int(b)) + ")"
}

// IsInteger reports whether b is a signed or unsigned integer type.
func (b Basic) IsInteger() bool {
	return b >= I8 && b <= USize
}

// IsFloat reports whether b is a floating point type.
func (b Basic) IsFloat() bool {
	return b == F32 || b == F64
}

// IsNumeric reports whether b is an integer or floating point type.
func (b Basic) IsNumeric() bool {
	return b.IsInteger() || b.IsFloat()
}

// Unit is the empty tuple.
type Unit struct{}

func (Unit) String() string { return "()" }

// Ref is a reference, optionally mutable.
type Ref struct {
	Target  Type
	Mutable bool
}

func (r Ref) String() string {
	if r.Mutable {
		return "&mut " + str(r.Target)
	}
	return "&" + str(r.Target)
}

// Ptr is a raw pointer.
type Ptr struct {
	Target Type
}

func (p Ptr) String() string { return "*" + str(p.Target) }

// Tuple is an ordered product type with at least one element.
type Tuple struct {
	Elems []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = str(e)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Array is a fixed-size array.
type Array struct {
	Size int
	Elem Type
}

func (a Array) String() string {
	return "[" + str(a.Elem) + "; " + strconv.Itoa(a.Size) + "]"
}

// Template is a named type applied to type arguments. Templates are compared
// structurally; they are never instantiated.
type Template struct {
	Name     ident.ID
	Generics []Type
}

func (t Template) String() string {
	parts := make([]string, len(t.Generics))
	for i, g := range t.Generics {
		parts[i] = str(g)
	}
	return t.Name.String() + "<" + strings.Join(parts, ", ") + ">"
}

// Custom names a user-defined type. The path is resolved relative to a
// symbol table, so the same path can mean different types in different
// modules.
type Custom struct {
	Path []ident.ID
}

// NewCustom builds a Custom type from a path.
func NewCustom(path ...ident.ID) Custom {
	return Custom{Path: path}
}

// Named builds a single-segment Custom type.
func Named(name string) Custom {
	return Custom{Path: []ident.ID{ident.Intern(name)}}
}

// Name returns the last path segment.
func (c Custom) Name() ident.ID {
	if len(c.Path) == 0 {
		return ident.Invalid
	}
	return c.Path[len(c.Path)-1]
}

func (c Custom) String() string {
	parts := make([]string, len(c.Path))
	for i, id := range c.Path {
		parts[i] = id.String()
	}
	return strings.Join(parts, "::")
}

func (Basic) isType()    {}
func (Unit) isType()     {}
func (Ref) isType()      {}
func (Ptr) isType()      {}
func (Tuple) isType()    {}
func (Array) isType()    {}
func (Template) isType() {}
func (Custom) isType()   {}

func str(t Type) string {
	if t == nil {
		return "<unknown>"
	}
	return t.String()
}

// String renders t, tolerating nil.
func String(t Type) string {
	return str(t)
}

// Equal reports structural equality. Aliases are not expanded.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Basic:
		y, ok := b.(Basic)
		return ok && x == y
	case Unit:
		_, ok := b.(Unit)
		return ok
	case Ref:
		y, ok := b.(Ref)
		return ok && x.Mutable == y.Mutable && Equal(x.Target, y.Target)
	case Ptr:
		y, ok := b.(Ptr)
		return ok && Equal(x.Target, y.Target)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalAll(x.Elems, y.Elems)
	case Array:
		y, ok := b.(Array)
		return ok && x.Size == y.Size && Equal(x.Elem, y.Elem)
	case Template:
		y, ok := b.(Template)
		return ok && x.Name == y.Name && equalAll(x.Generics, y.Generics)
	case Custom:
		y, ok := b.(Custom)
		if !ok || len(x.Path) != len(y.Path) {
			return false
		}
		for i := range x.Path {
			if x.Path[i] != y.Path[i] {
				return false
			}
		}
		return true
	}
	return false
}

func equalAll(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IsInteger reports whether t is a primitive integer type.
func IsInteger(t Type) bool {
	b, ok := t.(Basic)
	return ok && b.IsInteger()
}

// IsFloat reports whether t is a primitive floating point type.
func IsFloat(t Type) bool {
	b, ok := t.(Basic)
	return ok && b.IsFloat()
}

// IsNumeric reports whether t is a primitive numeric type.
func IsNumeric(t Type) bool {
	b, ok := t.(Basic)
	return ok && b.IsNumeric()
}

// IsNever reports whether t is the never type.
func IsNever(t Type) bool {
	b, ok := t.(Basic)
	return ok && b == Never
}

// Qualify prefixes every Custom path inside t with prefix. It rewrites a type
// written inside a module so that it resolves from the module's parent.
func Qualify(prefix []ident.ID, t Type) Type {
	if len(prefix) == 0 || t == nil {
		return t
	}
	switch x := t.(type) {
	case Custom:
		path := make([]ident.ID, 0, len(prefix)+len(x.Path))
		path = append(path, prefix...)
		return Custom{Path: append(path, x.Path...)}
	case Ref:
		return Ref{Target: Qualify(prefix, x.Target), Mutable: x.Mutable}
	case Ptr:
		return Ptr{Target: Qualify(prefix, x.Target)}
	case Array:
		return Array{Size: x.Size, Elem: Qualify(prefix, x.Elem)}
	case Tuple:
		elems := make([]Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = Qualify(prefix, e)
		}
		return Tuple{Elems: elems}
	case Template:
		generics := make([]Type, len(x.Generics))
		for i, g := range x.Generics {
			generics[i] = Qualify(prefix, g)
		}
		return Template{Name: x.Name, Generics: generics}
	}
	return t
}
