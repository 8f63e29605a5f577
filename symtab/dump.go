package symtab

import (
	"fmt"
	"strings"

	"github.com/emberlang/ember/types"
)

// Dump renders the root scope, one entry per line, modules indented beneath
// their entry.
func (t *Table) Dump() string {
	var b strings.Builder
	t.dump(&b, "")
	return b.String()
}

func (t *Table) dump(b *strings.Builder, indent string) {
	for e := range t.Entries() {
		b.WriteString(indent)
		b.WriteString(describe(e))
		b.WriteByte('\n')
		if m, ok := e.Kind.(ModuleDef); ok && m.Table != nil {
			m.Table.dump(b, indent+"  ")
		}
	}
}

func describe(e *Entry) string {
	name := e.Name.String()
	switch k := e.Kind.(type) {
	case AliasDef:
		return fmt.Sprintf("alias %s = %s", name, types.String(k.Target))
	case ModuleDef:
		return "module " + name
	case VarDef:
		mut := ""
		if k.Mutable {
			mut = "mut "
		}
		return fmt.Sprintf("%s %s%s: %s", k.Storage, mut, name, types.String(k.Type))
	case FuncDef:
		params := make([]string, len(k.Params))
		for i, p := range k.Params {
			params[i] = p.Name.String() + ": " + types.String(p.Type)
		}
		prefix := "fn"
		if k.Flags.Has(FuncExtern) {
			prefix = "extern fn"
		}
		if k.Flags.Has(FuncUnsafe) {
			prefix = "unsafe " + prefix
		}
		if k.Flags.Has(FuncVariadic) {
			params = append(params, "...")
		}
		return fmt.Sprintf("%s %s(%s) -> %s", prefix, name, strings.Join(params, ", "), types.String(k.Return))
	case StructDef:
		return fmt.Sprintf("struct %s %s", name, fieldList(k.Fields))
	case UnionDef:
		return fmt.Sprintf("union %s %s", name, fieldList(k.Fields))
	case EnumDef:
		values := make([]string, 0, len(k.Order))
		for _, id := range k.Order {
			if v, ok := k.Values[id].Kind.(Enum); ok {
				values = append(values, fmt.Sprintf("%s = %d", id, v.Value))
			}
		}
		return fmt.Sprintf("enum %s { %s }", name, strings.Join(values, ", "))
	case VariantDef:
		arms := make([]string, 0, len(k.Order))
		for _, id := range k.Order {
			v, ok := k.Arms[id].Kind.(Variant)
			if !ok {
				continue
			}
			arms = append(arms, fmt.Sprintf("%s%s = %d", id, armShape(v.Arm), v.Ordinal))
		}
		return fmt.Sprintf("variant %s { %s }", name, strings.Join(arms, ", "))
	case Enum:
		return fmt.Sprintf("%s::%s = %d", k.Owner, name, k.Value)
	case Variant:
		return fmt.Sprintf("%s::%s%s = %d", k.Owner, name, armShape(k.Arm), k.Ordinal)
	default:
		return "? " + name
	}
}

// fieldList renders fields in braces, `{}` when there are none.
func fieldList(f *Fields) string {
	if f.Len() == 0 {
		return "{}"
	}
	parts := make([]string, 0, f.Len())
	for name, t := range f.All() {
		parts = append(parts, name.String()+": "+types.String(t))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func armShape(a Arm) string {
	switch x := a.(type) {
	case ArmTuple:
		parts := make([]string, len(x.Types))
		for i, t := range x.Types {
			parts[i] = types.String(t)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ArmStruct:
		return " " + fieldList(x.Fields)
	default:
		return ""
	}
}
