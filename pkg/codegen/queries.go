package codegen

import (
	"fmt"

	. "github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/wundergraph/graphql-clientgen/pkg/schema"
)

var operationTypes = map[ast.Operation]string{
	ast.Query:        "Query",
	ast.Mutation:     "Mutation",
	ast.Subscription: "Subscription",
}

func (g *Generator) includes(operation ast.Operation) []string {
	switch operation {
	case ast.Mutation:
		return g.config.IncludeMutations
	case ast.Subscription:
		return g.config.IncludeSubscriptions
	default:
		return g.config.IncludeQueries
	}
}

// rootFields returns the fields of a root operation type client code is generated for.
func (g *Generator) rootFields(root schema.RootOperation) ast.FieldList {
	include := g.includes(root.Operation)
	var out ast.FieldList
	for _, field := range g.fields(root.Definition) {
		if len(include) != 0 && !contains(include, field.Name) {
			continue
		}
		out = append(out, field)
	}
	return out
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func (g *Generator) genQueries(f *File) (int, error) {
	count := 0
	for _, root := range g.schema.RootOperations() {
		for _, field := range g.rootFields(root) {
			if err := g.genQuery(f, root.Operation, field); err != nil {
				return 0, err
			}
			count++
		}
	}
	return count, nil
}

func (g *Generator) genQuery(f *File, operation ast.Operation, field *ast.FieldDefinition) error {
	prefix := goName(field.Name)
	query := prefix + "GraphQLQuery"
	root := "New" + prefix + "ProjectionRoot"
	if g.clientScope.has(query) || g.clientScope.has("New"+query) || g.clientScope.has(root) {
		prefix = operationTypes[operation] + prefix
		query = prefix + "GraphQLQuery"
		root = "New" + prefix + "ProjectionRoot"
	}

	origin := fmt.Sprintf("%s.%s", operationTypes[operation], field.Name)
	for _, name := range []string{query, "New" + query} {
		if err := g.clientScope.declare(name, origin); err != nil {
			return err
		}
	}

	decl(f, withDoc(append([]string{fmt.Sprintf("%s builds the %s %s.", query, field.Name, operation)}, docLines(field.Description, field.Directives)...)).
		Type().Id(query).Struct(Id("op").Op("*").Qual(projectionPath, "Operation")))

	decl(f, Func().Id("New"+query).Params().Op("*").Id(query).Block(
		Return(Op("&").Id(query).Values(Dict{
			Id("op"): Qual(projectionPath, "NewOperation").Call(Qual(projectionPath, operationTypes[operation]), Lit(field.Name)),
		})),
	))

	members := newScope(query)
	_ = members.declare("OperationName", query)
	_ = members.declare("Build", query)
	for _, arg := range field.Arguments {
		method := members.member(goName(arg.Name), "Arg")
		if err := members.declare(method, origin+"("+arg.Name+")"); err != nil {
			return err
		}
		decl(f, withDoc(docLines(arg.Description, arg.Directives)).
			Func().Params(Id("q").Op("*").Id(query)).Id(method).Params(Id("v").Add(g.goType(arg.Type, false))).Op("*").Id(query).Block(
			Id("q").Dot("op").Dot("SetArgument").Call(Lit(arg.Name), Id("v")),
			Return(Id("q")),
		))
	}

	decl(f, Func().Params(Id("q").Op("*").Id(query)).Id("OperationName").Params(Id("name").String()).Op("*").Id(query).Block(
		Id("q").Dot("op").Dot("Name").Op("=").Id("name"),
		Return(Id("q")),
	))

	decl(f, Func().Params(Id("q").Op("*").Id(query)).Id("Build").Params().Op("*").Qual(projectionPath, "Operation").Block(
		Return(Id("q").Dot("op")),
	))

	def := g.schema.Types[field.Type.Name()]
	if !g.generatesProjection(def) {
		return nil
	}
	if err := g.clientScope.declare(root, origin); err != nil {
		return err
	}
	projection := g.typeName(def.Name) + "Projection"
	decl(f, Commentf("%s returns the projection selecting fields of the %s result.", root, field.Name).Line().
		Func().Id(root).Params().Op("*").Id(projection).Block(
		Return(Id("New" + projection).Call()),
	))
	return nil
}
