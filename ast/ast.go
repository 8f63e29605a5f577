// Package ast is the Ember syntax tree handed over by the parser, together
// with its S-expression interchange form.
package ast

import (
	"github.com/emberlang/ember/diag"
	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/types"
)

// Kind represents different types of tree nodes. The value is the head
// symbol of the node in the interchange form.
type Kind string

const (
	// Definitions
	KindProgram Kind = "program"
	KindModule  Kind = "module"
	KindStruct  Kind = "struct"
	KindUnion   Kind = "union"
	KindEnum    Kind = "enum"
	KindVariant Kind = "variant"
	KindFunc    Kind = "fn"
	KindExtern  Kind = "extern"
	KindVar     Kind = "var"
	KindStatic  Kind = "static"
	KindConst   Kind = "const"
	KindAlias   Kind = "alias"

	// Statements
	KindBlock    Kind = "block"
	KindUnsafe   Kind = "unsafe"
	KindIf       Kind = "if"
	KindWhile    Kind = "while"
	KindLoop     Kind = "loop"
	KindBreak    Kind = "break"
	KindContinue Kind = "continue"
	KindReturn   Kind = "return"
	KindAssign   Kind = "assign"

	// Expressions
	KindInteger Kind = "int"
	KindFloat   Kind = "float"
	KindString  Kind = "str"
	KindBool    Kind = "bool"
	KindIdent   Kind = "ident"
	KindBinary  Kind = "binary"
	KindUnary   Kind = "unary"
	KindRef     Kind = "ref"
	KindDeref   Kind = "deref"
	KindCall    Kind = "call"
	KindLit     Kind = "lit"
	KindDot     Kind = "dot"
	KindPath    Kind = "path"
	KindTuple   Kind = "tuple"
	KindArray   Kind = "array"
	KindIndex   Kind = "index"
	KindCast    Kind = "cast"

	// Produced by the semantic analyzer
	KindLiteral   Kind = "literal"
	KindTypedCall Kind = "typed-call"
)

// Node represents a node in the syntax tree.
type Node struct {
	Kind Kind
	Loc  diag.Location

	// Definitions, KindIdent, and the target of KindCall and KindLit:
	Name ident.ID
	// KindBinary, KindUnary, KindAssign: "+", "==", "!", "+=", ...
	Op string
	// KindInteger:
	Integer int64
	// KindString contents, KindFloat spelling:
	Text string
	// KindBool:
	Bool bool
	// KindVar/KindStatic: declared `mut`. KindRef: `&mut`.
	Mutable bool
	// KindFunc attributes:
	Unsafe   bool
	Variadic bool

	// Declared type of a variable (nil when inferred), alias target,
	// function return type, cast target, or the type the analyzer resolved
	// for KindLiteral, KindTypedCall and enum-valued KindInteger.
	Type types.Type
	// KindTypedCall: the qualified callee.
	Path []ident.ID

	// Operands, statements and definitions, in source order:
	//   KindIf:     condition, then, else (optional)
	//   KindWhile:  condition, body
	//   KindLoop:   body
	//   KindVar:    initializer (optional)
	//   KindDot,
	//   KindPath:   left, right
	Children []*Node
	// Struct and union fields, named literal components, named call
	// arguments.
	Fields []Field
	// KindCall, KindTypedCall: arguments are in Fields instead of Children.
	Named bool

	// KindFunc:
	Params []Param
	Body   *Node
	// KindEnum:
	Values []EnumValue
	// KindVariant:
	Arms []Arm
}

// Field is a named component. Declarations carry Type; literals and named
// arguments carry Value.
type Field struct {
	Name  ident.ID
	Type  types.Type
	Value *Node
	Loc   diag.Location
}

// Param is one function parameter.
type Param struct {
	Name    ident.ID
	Type    types.Type
	Mutable bool
	Loc     diag.Location
}

// EnumValue is one enum member. Explicit is false when the value was
// omitted and has to be numbered from its predecessor.
type EnumValue struct {
	Name     ident.ID
	Value    int64
	Explicit bool
	Loc      diag.Location
}

// ArmShape is the declared shape of a variant arm.
type ArmShape int

const (
	ArmCommon ArmShape = iota
	ArmTuple
	ArmStruct
)

// Arm is one variant alternative.
type Arm struct {
	Name   ident.ID
	Shape  ArmShape
	Types  []types.Type // ArmTuple
	Fields []Field      // ArmStruct
	Loc    diag.Location
}

// IsAccess reports whether n is a `.` or `::` access chain.
func (n *Node) IsAccess() bool {
	return n != nil && (n.Kind == KindDot || n.Kind == KindPath)
}

// Field returns the component called name. When a name repeats, the last
// one wins.
func (n *Node) Field(name ident.ID) (Field, bool) {
	for i := len(n.Fields) - 1; i >= 0; i-- {
		if n.Fields[i].Name == name {
			return n.Fields[i], true
		}
	}
	return Field{}, false
}

// Walk calls fn for n and every node beneath it, parents first. Returning
// false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
	for _, f := range n.Fields {
		Walk(f.Value, fn)
	}
	Walk(n.Body, fn)
}
