package semantic

import (
	"strconv"

	"fortio.org/safecast"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/ident"
	"github.com/emberlang/ember/symtab"
	"github.com/emberlang/ember/types"
)

var (
	discriminantField = ident.Intern("discriminant")
	payloadField      = ident.Intern("payload")
)

// payloadName is the synthesized struct holding the fields of arm of
// variant v.
func payloadName(v, arm ident.ID) ident.ID {
	return ident.Intern(v.String() + "__" + arm.String())
}

// tupleField names the i-th positional field of a tuple-like arm.
func tupleField(i int) ident.ID {
	return ident.Intern("_" + strconv.Itoa(i))
}

// variantDecl declares a variant. Arms are numbered in declaration order;
// the number is the discriminant. Each arm also gets a payload struct
// V__Arm so that code generation finds its layout in the table.
func (a *Analyzer) variantDecl(n *ast.Node) {
	if a.redefined(n.Name, n.Loc) {
		return
	}
	def := symtab.VariantDef{Arms: make(map[ident.ID]*symtab.Entry)}
	var payloads []*symtab.Entry
	for _, arm := range n.Arms {
		if _, dup := def.Arms[arm.Name]; dup {
			a.errorf(arm.Loc, msgRedefined, arm.Name)
			continue
		}
		var shape symtab.Arm
		var fields *symtab.Fields
		switch arm.Shape {
		case ast.ArmTuple:
			shape = symtab.ArmTuple{Types: arm.Types}
			fields = symtab.NewFields()
			for i, t := range arm.Types {
				fields.Set(tupleField(i), t)
				a.declare(t, arm.Loc)
			}
		case ast.ArmStruct:
			fields = a.declareFields(arm.Fields)
			shape = symtab.ArmStruct{Fields: fields}
		default:
			shape = symtab.ArmCommon{}
			fields = symtab.NewFields()
		}
		def.Arms[arm.Name] = &symtab.Entry{
			Name:   arm.Name,
			Static: true,
			Kind:   symtab.Variant{Owner: n.Name, Arm: shape, Ordinal: len(def.Order)},
			Loc:    arm.Loc,
		}
		def.Order = append(def.Order, arm.Name)
		payloads = append(payloads, &symtab.Entry{
			Name:   payloadName(n.Name, arm.Name),
			Static: true,
			Kind:   symtab.StructDef{Fields: fields},
			Loc:    arm.Loc,
		})
	}
	a.table.Insert(&symtab.Entry{Name: n.Name, Static: true, Kind: def, Loc: n.Loc})
	for _, p := range payloads {
		if a.redefined(p.Name, p.Loc) {
			continue
		}
		a.table.Insert(p)
	}
}

// emptyConstructor reports `Arm()` or `Arm {}`, which construct a common
// arm just like a bare `Arm`.
func emptyConstructor(tail *ast.Node) bool {
	if tail.Kind != ast.KindCall && tail.Kind != ast.KindLit {
		return false
	}
	return len(tail.Children) == 0 && len(tail.Fields) == 0
}

// construct lowers a variant constructor to the tagged-union encoding
//
//	(literal V {discriminant: ORDINAL, payload: (literal _ {Arm: (literal V__Arm {...})})})
//
// where the innermost literal holds nothing for a common arm, _0, _1, ...
// for a tuple-like arm, and the named fields for a struct-like arm.
func (a *Analyzer) construct(n *ast.Node, c chain, k symtab.Variant) (types.Type, bool) {
	tail := c.tail
	var payload []ast.Field

	switch arm := k.Arm.(type) {
	case symtab.ArmCommon:
		if tail != nil && !emptyConstructor(tail) {
			a.errorf(n.Loc, msgNoConstructor, c)
			return nil, false
		}
	case symtab.ArmTuple:
		if tail == nil || tail.Kind != ast.KindCall || tail.Named {
			a.errorf(n.Loc, msgNoConstructor, c)
			return nil, false
		}
		if len(tail.Children) != len(arm.Types) {
			a.errorf(n.Loc, msgArmArity, c, len(arm.Types), len(tail.Children))
			return nil, false
		}
		for i, v := range tail.Children {
			ft := a.qualify(c.path, arm.Types[i])
			t, ok := a.expr(v, ft)
			if !ok || !a.compareTypes(ft, t, v.Loc) {
				return nil, false
			}
			payload = append(payload, ast.Field{Name: tupleField(i), Value: v, Loc: v.Loc})
		}
	case symtab.ArmStruct:
		if tail == nil || tail.Kind != ast.KindLit {
			a.errorf(n.Loc, msgNoConstructor, c)
			return nil, false
		}
		var ok bool
		if payload, ok = a.components(tail.Fields, arm.Fields, c.path); !ok {
			return nil, false
		}
	default:
		a.internal(n.Loc, "unknown arm shape of "+c.String())
		return nil, false
	}

	ordinal, err := safecast.Conv[uint32](k.Ordinal)
	if err != nil {
		a.internal(n.Loc, "discriminant of "+c.String()+": "+err.Error())
		return nil, false
	}

	owner := a.canonical(c.path[:len(c.path)-1])
	arm := c.path[len(c.path)-1]
	variant := types.NewCustom(owner...)
	payloadPath := append(owner[:len(owner)-1:len(owner)-1], payloadName(k.Owner, arm))

	inner := &ast.Node{Kind: ast.KindLiteral, Loc: n.Loc, Type: types.NewCustom(payloadPath...), Fields: payload}
	union := &ast.Node{Kind: ast.KindLiteral, Loc: n.Loc, Fields: []ast.Field{{Name: arm, Value: inner, Loc: n.Loc}}}
	discriminant := &ast.Node{Kind: ast.KindInteger, Loc: n.Loc, Integer: int64(ordinal)}
	*n = ast.Node{Kind: ast.KindLiteral, Loc: n.Loc, Type: variant, Fields: []ast.Field{
		{Name: discriminantField, Value: discriminant, Loc: n.Loc},
		{Name: payloadField, Value: union, Loc: n.Loc},
	}}
	return variant, true
}
