package codegen

import (
	. "github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"
)

func (g *Generator) genEnums(f *File) (int, error) {
	count := 0
	for _, def := range g.schema.Definitions(ast.Enum) {
		if !g.generatesType(def) {
			continue
		}
		if err := g.genEnum(f, def); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func (g *Generator) genEnum(f *File, def *ast.Definition) error {
	typeName := g.typeName(def.Name)
	all := "All" + typeName
	for _, name := range []string{typeName, all} {
		if err := g.typesScope.declare(name, def.Name); err != nil {
			return err
		}
	}

	var (
		defs   []Code
		values []Code
	)
	for _, value := range def.EnumValues {
		name := g.enumValueName(def, value.Name)
		if err := g.typesScope.declare(name, def.Name+"."+value.Name); err != nil {
			return err
		}
		defs = append(defs, withDoc(docLines(value.Description, value.Directives)).Id(name).Id(typeName).Op("=").Lit(value.Name))
		values = append(values, Id(name))
	}

	doc := docLines(def.Description, def.Directives)
	if len(doc) == 0 {
		doc = []string{typeName + " is the GraphQL enum " + def.Name + "."}
	}
	decl(f, withDoc(doc).Type().Id(typeName).String())
	decl(f, Const().Defs(defs...))
	decl(f, Var().Id(all).Op("=").Index().Id(typeName).Values(values...))

	decl(f, Func().Params(Id("e").Id(typeName)).Id("IsValid").Params().Bool().Block(
		Switch(Id("e")).Block(
			Case(values...).Block(Return(True())),
		),
		Return(False()),
	))

	decl(f, Func().Params(Id("e").Id(typeName)).Id("String").Params().String().Block(
		Return(String().Call(Id("e"))),
	))

	decl(f, Comment("GraphQLLiteral renders the value unquoted as enum values are written in GraphQL documents.").Line().
		Func().Params(Id("e").Id(typeName)).Id("GraphQLLiteral").Params().String().Block(
		Return(String().Call(Id("e"))),
	))
	return nil
}
