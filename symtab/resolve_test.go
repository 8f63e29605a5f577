package symtab

import (
	"strings"
	"testing"

	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/types"
	"github.com/nalgeon/be"
)

func enumEntry(name string, values ...string) *Entry {
	owner := ident.Intern(name)
	def := EnumDef{Values: make(map[ident.ID]*Entry)}
	for i, v := range values {
		id := ident.Intern(v)
		def.Values[id] = &Entry{Name: id, Static: true, Kind: Enum{Owner: owner, Value: int64(i)}}
		def.Order = append(def.Order, id)
	}
	return &Entry{Name: owner, Static: true, Kind: def}
}

func variantEntry(name string, arms ...string) *Entry {
	owner := ident.Intern(name)
	def := VariantDef{Arms: make(map[ident.ID]*Entry)}
	for i, a := range arms {
		id := ident.Intern(a)
		def.Arms[id] = &Entry{Name: id, Static: true, Kind: Variant{Owner: owner, Arm: ArmCommon{}, Ordinal: i}}
		def.Order = append(def.Order, id)
	}
	return &Entry{Name: owner, Static: true, Kind: def}
}

func moduleEntry(name string, body *Table) *Entry {
	return &Entry{Name: ident.Intern(name), Static: true, Kind: ModuleDef{Table: body}}
}

func TestLookupQualifiedThroughNestedModules(t *testing.T) {
	inner := New()
	inner.Insert(&Entry{Name: ident.Intern("Circle"), Static: true, Kind: StructDef{Fields: NewFields()}})
	middle := New()
	middle.Insert(moduleEntry("shapes", inner))
	root := New()
	root.Insert(moduleEntry("geo", middle))

	e, ok := root.LookupQualified(ident.Path("geo", "shapes", "Circle"))
	be.True(t, ok)
	be.Equal(t, "struct", KindName(e.Kind))

	_, ok = root.LookupQualified(ident.Path("geo", "shapes", "Square"))
	be.Equal(t, false, ok)
}

func TestLookupQualifiedEnumValue(t *testing.T) {
	tbl := New()
	tbl.Insert(enumEntry("Color", "Red", "Green"))

	e, ok := tbl.LookupQualified(ident.Path("Color", "Green"))
	be.True(t, ok)
	be.Equal(t, int64(1), e.Kind.(Enum).Value)

	_, ok = tbl.LookupQualified(ident.Path("Color", "Blue"))
	be.Equal(t, false, ok)
}

func TestLookupQualifiedVariantIsOneHop(t *testing.T) {
	tbl := New()
	tbl.Insert(variantEntry("Shape", "Empty", "Dot"))

	e, ok := tbl.LookupQualified(ident.Path("Shape", "Dot"))
	be.True(t, ok)
	be.Equal(t, 1, e.Kind.(Variant).Ordinal)

	// A second hop past a variant arm is not supported.
	_, ok = tbl.LookupQualified(ident.Path("Shape", "Dot", "Empty"))
	be.Equal(t, false, ok)
}

func TestLookupQualifiedFallsBackToCurrentTable(t *testing.T) {
	tbl := New()
	tbl.Insert(variable("point", types.Named("Point")))
	tbl.Insert(variable("x", types.I32))

	e, ok := tbl.LookupQualified(ident.Path("point", "x"))
	be.True(t, ok)
	be.Equal(t, "x", e.Name.String())
}

func TestLookupQualifiedEmptyPath(t *testing.T) {
	_, ok := New().LookupQualified(nil)
	be.Equal(t, false, ok)
}

func TestNamespace(t *testing.T) {
	inner := New()
	inner.Insert(variantEntry("Shape", "Dot"))
	inner.Insert(&Entry{Name: ident.Intern("Point"), Static: true, Kind: StructDef{Fields: NewFields()}})
	root := New()
	root.Insert(moduleEntry("geo", inner))
	root.Insert(&Entry{Name: ident.Intern("v"), Kind: VarDef{Type: types.I32}})
	root.Insert(enumEntry("Color", "Red"))

	tests := []struct {
		path []string
		want string
	}{
		{[]string{"geo", "Point"}, "geo"},
		{[]string{"geo", "Shape", "Dot"}, "geo"},
		{[]string{"v", "geo", "Shape", "Dot"}, "geo"},
		{[]string{"v", "Color", "Red"}, ""},
		{[]string{"Color", "Red"}, ""},
		{[]string{"missing", "Point"}, ""},
		{[]string{"Point"}, ""},
	}
	for _, test := range tests {
		t.Run(strings.Join(test.path, "::"), func(t *testing.T) {
			got := root.Namespace(ident.Path(test.path...))
			names := make([]string, len(got))
			for i, id := range got {
				names[i] = id.String()
			}
			be.Equal(t, strings.Join(names, "::"), test.want)
		})
	}
}

func TestFindAliasValueIsTransitive(t *testing.T) {
	tbl := New()
	tbl.Insert(&Entry{Name: ident.Intern("A"), Static: true, Kind: AliasDef{Target: types.I32}})
	tbl.Insert(&Entry{Name: ident.Intern("B"), Static: true, Kind: AliasDef{Target: types.Named("A")}})

	target, ok := tbl.FindAliasValue(types.Named("B"))
	be.True(t, ok)
	be.Equal(t, types.Type(types.I32), target)

	_, ok = tbl.FindAliasValue(types.I32)
	be.Equal(t, false, ok)
}

func TestFindAliasValueNotAnAlias(t *testing.T) {
	tbl := New()
	tbl.Insert(&Entry{Name: ident.Intern("S"), Static: true, Kind: StructDef{Fields: NewFields()}})
	_, ok := tbl.FindAliasValue(types.Named("S"))
	be.Equal(t, false, ok)
	_, ok = tbl.FindAliasValue(types.Named("Missing"))
	be.Equal(t, false, ok)
}

func TestFindAliasValueStopsOnCycle(t *testing.T) {
	tbl := New()
	tbl.Insert(&Entry{Name: ident.Intern("Loop1"), Static: true, Kind: AliasDef{Target: types.Named("Loop2")}})
	tbl.Insert(&Entry{Name: ident.Intern("Loop2"), Static: true, Kind: AliasDef{Target: types.Named("Loop1")}})

	_, ok := tbl.FindAliasValue(types.Named("Loop1"))
	be.Equal(t, false, ok)
	be.True(t, tbl.AliasCycle(types.Named("Loop2")))
	be.True(t, !tbl.AliasCycle(types.I32))
}

func TestFindAliasValueInsideModule(t *testing.T) {
	body := New()
	body.Insert(&Entry{Name: ident.Intern("Inner"), Static: true, Kind: StructDef{Fields: NewFields()}})
	body.Insert(&Entry{Name: ident.Intern("Handle"), Static: true, Kind: AliasDef{Target: types.Ptr{Target: types.Named("Inner")}}})
	root := New()
	root.Insert(moduleEntry("io", body))

	target, ok := root.FindAliasValue(types.NewCustom(ident.Path("io", "Handle")...))
	be.True(t, ok)
	be.Equal(t, "*io::Inner", target.String())
}

func TestDump(t *testing.T) {
	body := New()
	body.Insert(&Entry{Name: ident.Intern("Point"), Static: true, Kind: StructDef{Fields: NewFields(
		Field{Name: ident.Intern("x"), Type: types.I32},
		Field{Name: ident.Intern("y"), Type: types.I32},
	)}})
	root := New()
	root.Insert(moduleEntry("geo", body))
	root.Insert(enumEntry("Color", "Red", "Green"))
	root.Insert(&Entry{Name: ident.Intern("n"), Kind: VarDef{Type: types.U8, Mutable: true}})

	dump := root.Dump()
	be.Equal(t, strings.Join([]string{
		"module geo",
		"  struct Point { x: i32, y: i32 }",
		"enum Color { Red = 0, Green = 1 }",
		"local mut n: u8",
		"",
	}, "\n"), dump)
}
