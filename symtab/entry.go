// Package symtab implements the scoped symbol table used by the semantic
// analyzer, together with the qualified-name and alias queries over it.
package symtab

import (
	"iter"

	"github.com/emberlang/ember/diag"
	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/types"
)

// Entry is one named symbol.
//
// Static entries (modules, type definitions, aliases, functions) outlive the
// scope they are declared in: when that scope closes they move to its parent.
// Variables are never static.
type Entry struct {
	Name   ident.ID
	Static bool
	Kind   Kind
	Loc    diag.Location
}

// Kind is the payload of an Entry. The set of kinds is closed.
type Kind interface {
	isKind()
}

// AliasDef is `alias Name = Target`.
type AliasDef struct {
	Target types.Type
}

// ModuleDef owns the table produced by analyzing the module body.
type ModuleDef struct {
	Table *Table
}

// Storage is the storage class of a variable.
type Storage int

const (
	StorageLocal Storage = iota
	StorageStatic
	StorageConst
	StorageExtern
	StorageParam
)

func (s Storage) String() string {
	switch s {
	case StorageLocal:
		return "local"
	case StorageStatic:
		return "static"
	case StorageConst:
		return "const"
	case StorageExtern:
		return "extern"
	case StorageParam:
		return "param"
	default:
		return "unknown"
	}
}

// VarDef is a variable binding.
type VarDef struct {
	Type        types.Type
	Mutable     bool
	Storage     Storage
	Initialized bool
}

// Param is one function parameter.
type Param struct {
	Name    ident.ID
	Type    types.Type
	Mutable bool
}

// FuncFlags is a set of function attributes.
type FuncFlags uint8

const (
	FuncUnsafe FuncFlags = 1 << iota
	FuncExtern
	FuncVariadic
)

// Has reports whether every flag in mask is set.
func (f FuncFlags) Has(mask FuncFlags) bool {
	return f&mask == mask
}

// FuncDef is a function signature.
type FuncDef struct {
	Params []Param
	Return types.Type
	Flags  FuncFlags
}

// Param returns the parameter called name.
func (f FuncDef) Param(name ident.ID) (Param, int, bool) {
	for i, p := range f.Params {
		if p.Name == name {
			return p, i, true
		}
	}
	return Param{}, -1, false
}

// StructDef is a struct definition.
type StructDef struct {
	Fields *Fields
}

// UnionDef is an untagged union definition. Its fields may only be touched
// from an unsafe scope.
type UnionDef struct {
	Fields *Fields
}

// EnumDef maps value names to their Enum entries.
type EnumDef struct {
	Values map[ident.ID]*Entry
	Order  []ident.ID
}

// Enum is one named value of an enum.
type Enum struct {
	Owner ident.ID
	Value int64
}

// VariantDef maps arm names to their Variant entries.
type VariantDef struct {
	Arms  map[ident.ID]*Entry
	Order []ident.ID
}

// Variant is one arm of a variant. Ordinal is its declaration index and is
// the discriminant code generation stores.
type Variant struct {
	Owner   ident.ID
	Arm     Arm
	Ordinal int
}

func (AliasDef) isKind()   {}
func (ModuleDef) isKind()  {}
func (VarDef) isKind()     {}
func (FuncDef) isKind()    {}
func (StructDef) isKind()  {}
func (UnionDef) isKind()   {}
func (EnumDef) isKind()    {}
func (Enum) isKind()       {}
func (VariantDef) isKind() {}
func (Variant) isKind()    {}

// KindName describes k for diagnostics and dumps.
func KindName(k Kind) string {
	switch k.(type) {
	case AliasDef:
		return "alias"
	case ModuleDef:
		return "module"
	case VarDef:
		return "variable"
	case FuncDef:
		return "function"
	case StructDef:
		return "struct"
	case UnionDef:
		return "union"
	case EnumDef:
		return "enum"
	case Enum:
		return "enum value"
	case VariantDef:
		return "variant"
	case Variant:
		return "variant arm"
	default:
		return "unknown"
	}
}

// Arm is the declared shape of a variant arm.
type Arm interface {
	isArm()
}

// ArmCommon carries no payload.
type ArmCommon struct{}

// ArmTuple carries positional fields.
type ArmTuple struct {
	Types []types.Type
}

// ArmStruct carries named fields.
type ArmStruct struct {
	Fields *Fields
}

func (ArmCommon) isArm() {}
func (ArmTuple) isArm()  {}
func (ArmStruct) isArm() {}

// ArmName describes the shape of a.
func ArmName(a Arm) string {
	switch a.(type) {
	case ArmCommon:
		return "common"
	case ArmTuple:
		return "tuple-like"
	case ArmStruct:
		return "struct-like"
	default:
		return "unknown"
	}
}

// Field is one named, typed field.
type Field struct {
	Name ident.ID
	Type types.Type
}

// Fields is a field map that remembers declaration order, which code
// generation needs for C struct layout.
type Fields struct {
	list  []Field
	index map[ident.ID]int
}

// NewFields builds a field map from fields in order. A repeated name keeps
// its first position and takes the last type.
func NewFields(fields ...Field) *Fields {
	f := &Fields{index: make(map[ident.ID]int, len(fields))}
	for _, field := range fields {
		f.Set(field.Name, field.Type)
	}
	return f
}

// Set adds or replaces a field.
func (f *Fields) Set(name ident.ID, t types.Type) {
	if i, ok := f.index[name]; ok {
		f.list[i].Type = t
		return
	}
	f.index[name] = len(f.list)
	f.list = append(f.list, Field{Name: name, Type: t})
}

// Get returns the type of the field called name.
func (f *Fields) Get(name ident.ID) (types.Type, bool) {
	if f == nil {
		return nil, false
	}
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.list[i].Type, true
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.list)
}

// All iterates fields in declaration order.
func (f *Fields) All() iter.Seq2[ident.ID, types.Type] {
	return func(yield func(ident.ID, types.Type) bool) {
		if f == nil {
			return
		}
		for _, field := range f.list {
			if !yield(field.Name, field.Type) {
				return
			}
		}
	}
}

// List returns a copy of the fields in declaration order.
func (f *Fields) List() []Field {
	if f == nil {
		return nil
	}
	return append([]Field(nil), f.list...)
}
