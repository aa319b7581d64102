package codegen

import (
	"fmt"
	"strings"

	. "github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"
)

func (g *Generator) genTypes(f *File) (int, error) {
	count := 0
	for _, def := range g.schema.Definitions(ast.Interface, ast.Union, ast.Object) {
		if !g.generatesType(def) {
			continue
		}
		var err error
		switch def.Kind {
		case ast.Object:
			err = g.genObject(f, def)
		default:
			err = g.genAbstract(f, def)
		}
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func (g *Generator) genObject(f *File, def *ast.Definition) error {
	typeName := g.typeName(def.Name)
	if err := g.typesScope.declare(typeName, def.Name); err != nil {
		return err
	}

	members := newScope(def.Name)
	fields, err := g.structFields(def, members)
	if err != nil {
		return err
	}
	fields = append(fields, Id("requested").Map(String()).Struct())

	decl(f, withDoc(docLines(def.Description, def.Directives)).Type().Id(typeName).Struct(fields...))

	shared := map[string]bool{}
	possibleType := false
	for _, abstract := range g.schema.Implements(def) {
		if !g.generatesType(abstract) {
			continue
		}
		possibleType = true
		marker := "Is" + g.typeName(abstract.Name)
		if err := members.declare(marker, abstract.Name); err != nil {
			return err
		}
		decl(f, Func().Params(Id(typeName)).Id(marker).Params().Block())

		if abstract.Kind == ast.Interface {
			for _, field := range g.sharedFields(abstract) {
				shared[field.Name] = true
			}
		}
	}

	for _, field := range g.fields(def) {
		if !shared[field.Name] {
			continue
		}
		name := goName(field.Name)
		getter := "Get" + name
		if err := members.declare(getter, def.Name+"."+field.Name); err != nil {
			return err
		}
		decl(f, Func().Params(Id("o").Id(typeName)).Id(getter).Params().Add(g.fieldType(def.Name, field.Type, true)).Block(
			Return(Id("o").Dot(name)),
		))
	}

	if err := members.declare("Requested", def.Name); err != nil {
		return err
	}
	decl(f, Comment("Requested reports whether field was part of the response o was decoded from.").Line().
		Comment("Values that were not decoded report every field as requested.").Line().
		Func().Params(Id("o").Id(typeName)).Id("Requested").Params(Id("field").String()).Bool().Block(
		If(Id("o").Dot("requested").Op("==").Nil()).Block(Return(True())),
		List(Id("_"), Id("ok")).Op(":=").Id("o").Dot("requested").Index(Id("field")),
		Return(Id("ok")),
	))

	for _, field := range g.fields(def) {
		name := goName(field.Name)
		lookup := "Lookup" + name
		if err := members.declare(lookup, def.Name+"."+field.Name); err != nil {
			return err
		}
		decl(f, Commentf("%s returns %s or projection.ErrFieldNotRequested when %s was not requested.", lookup, name, field.Name).Line().
			Func().Params(Id("o").Id(typeName)).Id(lookup).Params().Params(g.fieldType(def.Name, field.Type, true), Error()).Block(
			If(Op("!").Id("o").Dot("Requested").Call(Lit(field.Name))).Block(
				Return(Id("o").Dot(name), Qual(fmtPath, "Errorf").Call(Lit(def.Name+"."+field.Name+": %w"), Qual(projectionPath, "ErrFieldNotRequested"))),
			),
			Return(Id("o").Dot(name), Nil()),
		))
	}

	if err := members.declare("UnmarshalJSON", def.Name); err != nil {
		return err
	}
	decl(f, g.unmarshalObject(def, typeName))

	if !possibleType {
		return nil
	}
	if err := members.declare("MarshalJSON", def.Name); err != nil {
		return err
	}
	decl(f, Comment("MarshalJSON adds __typename so o decodes again as an interface or union value.").Line().
		Func().Params(Id("o").Id(typeName)).Id("MarshalJSON").Params().Params(Index().Byte(), Error()).Block(
		Type().Id("alias").Id(typeName),
		List(Id("data"), Err()).Op(":=").Qual(jsonPath, "Marshal").Call(Id("alias").Call(Id("o"))),
		If(Err().Op("!=").Nil()).Block(
			Return(Nil(), Err()),
		),
		Return(Qual(sjsonPath, "SetBytes").Call(Id("data"), Lit(typenameField), Lit(def.Name))),
	))
	return nil
}

// sharedFields returns the fields of an interface every generated implementation declares with the same Go type.
// Only these become getters, implementations may narrow a field type which Go interfaces cannot express.
func (g *Generator) sharedFields(iface *ast.Definition) ast.FieldList {
	var out ast.FieldList
	for _, field := range g.fields(iface) {
		want := g.fieldType(iface.Name, field.Type, true).GoString()
		shared := true
		for _, possible := range g.possibleTypes(iface) {
			if !g.generatesType(possible) {
				continue
			}
			impl := possible.Fields.ForName(field.Name)
			if impl == nil || g.fieldType(possible.Name, impl.Type, true).GoString() != want {
				shared = false
				break
			}
		}
		if shared {
			out = append(out, field)
		}
	}
	return out
}

func (g *Generator) unmarshalObject(def *ast.Definition, typeName string) *Statement {
	auxFields := []Code{Op("*").Id("alias")}
	var decode []Code
	for _, field := range g.fields(def) {
		if !g.isAbstractField(field.Type) {
			continue
		}
		name := goName(field.Name)
		auxFields = append(auxFields, Id(name).Add(rawType(field.Type)).Tag(map[string]string{"json": field.Name}))
		decode = append(decode, g.decodeAbstract(
			func() *Statement { return Id("o").Dot(name) },
			func() *Statement { return Id("aux").Dot(name) },
			field.Type, 0, def.Name+"."+field.Name,
		)...)
	}

	body := []Code{
		If(Qual(gjsonPath, "ParseBytes").Call(Id("data")).Dot("Type").Op("==").Qual(gjsonPath, "Null")).Block(Return(Nil())),
		Type().Id("alias").Id(typeName),
		Id("aux").Op(":=").Struct(auxFields...).Values(Dict{
			Id("alias"): Parens(Op("*").Id("alias")).Call(Id("o")),
		}),
		If(Err().Op(":=").Qual(jsonPath, "Unmarshal").Call(Id("data"), Op("&").Id("aux")), Err().Op("!=").Nil()).Block(
			Return(Err()),
		),
	}
	body = append(body, decode...)
	body = append(body,
		Id("o").Dot("requested").Op("=").Map(String()).Struct().Values(),
		Qual(gjsonPath, "ParseBytes").Call(Id("data")).Dot("ForEach").Call(
			Func().Params(Id("key"), Id("_").Qual(gjsonPath, "Result")).Bool().Block(
				Id("o").Dot("requested").Index(Id("key").Dot("String").Call()).Op("=").Struct().Values(),
				Return(True()),
			),
		),
		Return(Nil()),
	)

	return Func().Params(Id("o").Op("*").Id(typeName)).Id("UnmarshalJSON").Params(Id("data").Index().Byte()).Error().Block(body...)
}

// decodeAbstract decodes raw into target through the Unmarshal function of the abstract type, descending into lists.
func (g *Generator) decodeAbstract(target, raw func() *Statement, t *ast.Type, depth int, path string) []Code {
	if t.Elem == nil {
		v := fmt.Sprintf("v%d", depth)
		return []Code{
			If(raw().Op("!=").Nil()).Block(
				List(Id(v), Err()).Op(":=").Id("Unmarshal"+g.typeName(t.NamedType)).Call(raw()),
				If(Err().Op("!=").Nil()).Block(
					Return(Qual(fmtPath, "Errorf").Call(Lit(path+": %w"), Err())),
				),
				target().Op("=").Id(v),
			),
		}
	}

	i, r := fmt.Sprintf("i%d", depth), fmt.Sprintf("raw%d", depth)
	inner := g.decodeAbstract(
		func() *Statement { return target().Index(Id(i)) },
		func() *Statement { return Id(r) },
		t.Elem, depth+1, path,
	)
	return []Code{
		If(raw().Op("!=").Nil()).Block(
			target().Op("=").Make(g.goType(t, true), Len(raw())),
			For(List(Id(i), Id(r)).Op(":=").Range().Add(raw())).Block(inner...),
		),
	}
}

func (g *Generator) genAbstract(f *File, def *ast.Definition) error {
	typeName := g.typeName(def.Name)
	unmarshal := "Unmarshal" + typeName
	for _, name := range []string{typeName, unmarshal} {
		if err := g.typesScope.declare(name, def.Name); err != nil {
			return err
		}
	}

	var generated []*ast.Definition
	for _, possible := range g.possibleTypes(def) {
		if g.generatesType(possible) {
			generated = append(generated, possible)
		}
	}

	doc := docLines(def.Description, def.Directives)
	if len(doc) == 0 && len(generated) != 0 {
		names := make([]string, 0, len(generated))
		for _, possible := range generated {
			names = append(names, g.typeName(possible.Name))
		}
		verb := "is implemented by"
		if def.Kind == ast.Union {
			verb = "is one of"
		}
		doc = []string{fmt.Sprintf("%s %s %s.", typeName, verb, strings.Join(names, ", "))}
	}

	members := newScope(def.Name)
	marker := "Is" + typeName
	_ = members.declare(marker, def.Name)
	methods := []Code{Id(marker).Params()}
	if def.Kind == ast.Interface {
		for _, field := range g.sharedFields(def) {
			getter := "Get" + goName(field.Name)
			if err := members.declare(getter, def.Name+"."+field.Name); err != nil {
				return err
			}
			methods = append(methods, Id(getter).Params().Add(g.fieldType(def.Name, field.Type, true)))
		}
	}
	decl(f, withDoc(doc).Type().Id(typeName).Interface(methods...))

	cases := make([]Code, 0, len(generated)+1)
	for _, possible := range generated {
		cases = append(cases, Case(Lit(possible.Name)).Block(
			Var().Id("v").Id(g.typeName(possible.Name)),
			If(Err().Op(":=").Qual(jsonPath, "Unmarshal").Call(Id("data"), Op("&").Id("v")), Err().Op("!=").Nil()).Block(
				Return(Nil(), Err()),
			),
			Return(Op("&").Id("v"), Nil()),
		))
	}
	cases = append(cases, Default().Block(
		Return(Nil(), Qual(fmtPath, "Errorf").Call(Lit("%w %q for "+def.Name), Qual(projectionPath, "ErrUnknownTypename"), Id("typename"))),
	))

	decl(f, Commentf("%s decodes data into the concrete type named by its __typename. Null decodes to nil.", unmarshal).Line().
		Func().Id(unmarshal).Params(Id("data").Index().Byte()).Params(Id(typeName), Error()).Block(
		Id("result").Op(":=").Qual(gjsonPath, "ParseBytes").Call(Id("data")),
		If(Op("!").Id("result").Dot("Exists").Call().Op("||").Id("result").Dot("Type").Op("==").Qual(gjsonPath, "Null")).Block(
			Return(Nil(), Nil()),
		),
		Switch(Id("typename").Op(":=").Id("result").Dot("Get").Call(Lit(typenameField)).Dot("String").Call(), Id("typename")).Block(cases...),
	))
	return nil
}
