package ast

import (
	"strconv"
	"strings"

	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/sexy"
	"github.com/emberlang/ember/types"
)

// Format writes n in interchange form. A program is written with one
// top-level definition per line.
func Format(n *Node) string {
	if n == nil {
		return ""
	}
	if n.Kind != KindProgram {
		return ToDatum(n).String()
	}
	var b strings.Builder
	b.WriteString("(program")
	for _, c := range n.Children {
		b.WriteString("\n  ")
		b.WriteString(ToDatum(c).String())
	}
	b.WriteString(")")
	return b.String()
}

func sym(text string) *sexy.Node {
	return sexy.NewSymbol(text)
}

func head(k Kind, items ...*sexy.Node) *sexy.Node {
	return sexy.NewList(append([]*sexy.Node{sym(string(k))}, items...)...)
}

func pathText(path []ident.ID) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = id.String()
	}
	return strings.Join(parts, "::")
}

// ToDatum converts n to an S-expression datum, the inverse of Parse.
func ToDatum(n *Node) *sexy.Node {
	if n == nil {
		return sym("_")
	}
	switch n.Kind {
	case KindInteger:
		value := sexy.NewInteger(strconv.FormatInt(n.Integer, 10))
		if n.Type != nil {
			return head(n.Kind, TypeDatum(n.Type), value)
		}
		return value
	case KindString:
		return sexy.NewString(n.Text)
	case KindBool:
		return sym(strconv.FormatBool(n.Bool))
	case KindFloat:
		return head(n.Kind, sexy.NewString(n.Text))
	case KindIdent:
		return sym(n.Name.String())

	case KindProgram, KindBlock, KindUnsafe, KindExtern, KindTuple, KindArray,
		KindIf, KindWhile, KindLoop, KindBreak, KindContinue, KindReturn,
		KindDeref, KindIndex, KindDot, KindPath:
		return head(n.Kind, children(n.Children)...)

	case KindModule:
		return head(n.Kind, append([]*sexy.Node{sym(n.Name.String())}, children(n.Children)...)...)

	case KindStruct, KindUnion:
		return head(n.Kind, append([]*sexy.Node{sym(n.Name.String())}, fieldDecls(n.Fields)...)...)

	case KindEnum:
		items := []*sexy.Node{sym(n.Name.String())}
		for _, v := range n.Values {
			value := head("value", sym(v.Name.String()))
			if v.Explicit {
				value.Items = append(value.Items, sexy.NewInteger(strconv.FormatInt(v.Value, 10)))
			}
			items = append(items, value)
		}
		return head(n.Kind, items...)

	case KindVariant:
		items := []*sexy.Node{sym(n.Name.String())}
		for _, arm := range n.Arms {
			switch arm.Shape {
			case ArmTuple:
				a := head("arm-tuple", sym(arm.Name.String()))
				for _, t := range arm.Types {
					a.Items = append(a.Items, TypeDatum(t))
				}
				items = append(items, a)
			case ArmStruct:
				items = append(items, head("arm-struct", append([]*sexy.Node{sym(arm.Name.String())}, fieldDecls(arm.Fields)...)...))
			default:
				items = append(items, head("arm", sym(arm.Name.String())))
			}
		}
		return head(n.Kind, items...)

	case KindFunc:
		params := head("params")
		for _, p := range n.Params {
			param := sexy.NewList(sym(p.Name.String()), TypeDatum(p.Type))
			if p.Mutable {
				param.Items = append([]*sexy.Node{sym("mut")}, param.Items...)
			}
			params.Items = append(params.Items, param)
		}
		fn := head(n.Kind, sym(n.Name.String()), params, TypeDatum(n.Type))
		if n.Body != nil {
			fn.Items = append(fn.Items, ToDatum(n.Body))
		}
		if n.Unsafe {
			fn.MetaKeys = append(fn.MetaKeys, "unsafe")
			fn.MetaItems = append(fn.MetaItems, sym("true"))
		}
		if n.Variadic {
			fn.MetaKeys = append(fn.MetaKeys, "variadic")
			fn.MetaItems = append(fn.MetaItems, sym("true"))
		}
		return fn

	case KindAlias:
		return head(n.Kind, sym(n.Name.String()), TypeDatum(n.Type))

	case KindVar, KindStatic, KindConst:
		var items []*sexy.Node
		if n.Mutable {
			items = append(items, sym("mut"))
		}
		items = append(items, sym(n.Name.String()), TypeDatum(n.Type))
		return head(n.Kind, append(items, children(n.Children)...)...)

	case KindBinary, KindAssign, KindUnary:
		return head(n.Kind, append([]*sexy.Node{sym(n.Op)}, children(n.Children)...)...)

	case KindRef:
		var items []*sexy.Node
		if n.Mutable {
			items = append(items, sym("mut"))
		}
		return head(n.Kind, append(items, children(n.Children)...)...)

	case KindCast:
		return head(n.Kind, append(children(n.Children), TypeDatum(n.Type))...)

	case KindCall:
		return head(n.Kind, append([]*sexy.Node{sym(n.Name.String())}, arguments(n)...)...)

	case KindLit:
		return head(n.Kind, sym(n.Name.String()), components(n.Fields))

	case KindLiteral:
		return head(n.Kind, TypeDatum(n.Type), components(n.Fields))

	case KindTypedCall:
		return head(n.Kind, append([]*sexy.Node{TypeDatum(n.Type), sym(pathText(n.Path))}, arguments(n)...)...)
	}
	return head(n.Kind)
}

func children(nodes []*Node) []*sexy.Node {
	items := make([]*sexy.Node, len(nodes))
	for i, c := range nodes {
		items[i] = ToDatum(c)
	}
	return items
}

func arguments(n *Node) []*sexy.Node {
	if n.Named {
		return []*sexy.Node{components(n.Fields)}
	}
	return children(n.Children)
}

func components(fields []Field) *sexy.Node {
	keys := make([]string, len(fields))
	items := make([]*sexy.Node, len(fields))
	for i, f := range fields {
		keys[i] = f.Name.String()
		items[i] = ToDatum(f.Value)
	}
	return sexy.NewMap(keys, items)
}

func fieldDecls(fields []Field) []*sexy.Node {
	items := make([]*sexy.Node, len(fields))
	for i, f := range fields {
		items[i] = head("field", sym(f.Name.String()), TypeDatum(f.Type))
	}
	return items
}

// TypeDatum converts t to the datum Parse reads back as t. A nil type is
// written as `_`.
func TypeDatum(t types.Type) *sexy.Node {
	switch x := t.(type) {
	case nil:
		return sym("_")
	case types.Basic:
		return sym(x.String())
	case types.Unit:
		return sexy.NewList()
	case types.Ref:
		if x.Mutable {
			return sexy.NewList(sym("ref"), sym("mut"), TypeDatum(x.Target))
		}
		return sexy.NewList(sym("ref"), TypeDatum(x.Target))
	case types.Ptr:
		return sexy.NewList(sym("ptr"), TypeDatum(x.Target))
	case types.Tuple:
		items := []*sexy.Node{sym("tuple")}
		for _, e := range x.Elems {
			items = append(items, TypeDatum(e))
		}
		return sexy.NewList(items...)
	case types.Array:
		return sexy.NewList(sym("array"), sexy.NewInteger(strconv.Itoa(x.Size)), TypeDatum(x.Elem))
	case types.Template:
		items := []*sexy.Node{sym("template"), sym(x.Name.String())}
		for _, g := range x.Generics {
			items = append(items, TypeDatum(g))
		}
		return sexy.NewList(items...)
	case types.Custom:
		return sym(pathText(x.Path))
	}
	return sym(t.String())
}
