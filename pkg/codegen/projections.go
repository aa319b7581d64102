package codegen

import (
	. "github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"
)

func (g *Generator) genProjections(f *File) (int, error) {
	count := 0
	for _, def := range g.schema.Definitions(ast.Object, ast.Interface, ast.Union) {
		if !g.generatesProjection(def) {
			continue
		}
		if err := g.genProjection(f, def); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func projectionName(typeName string) string {
	return typeName + "Projection"
}

func (g *Generator) genProjection(f *File, def *ast.Definition) error {
	typeName := g.typeName(def.Name)
	name := projectionName(typeName)
	for _, n := range []string{name, "New" + name, "new" + name} {
		if err := g.clientScope.declare(n, def.Name); err != nil {
			return err
		}
	}
	abstract := def.Kind == ast.Interface || def.Kind == ast.Union
	node := Op("*").Qual(projectionPath, "Node")

	decl(f, Commentf("%s selects fields of %s.", name, def.Name).Line().
		Type().Id(name).Struct(Id("node").Add(node.Clone())))

	decl(f, Func().Id("New"+name).Params().Op("*").Id(name).Block(
		Return(Id("new"+name).Call(Qual(projectionPath, "NewNode").Call())),
	))

	var ctor []Code
	if abstract {
		ctor = append(ctor, Id("node").Dot("Field").Call(Qual(projectionPath, "TypenameField")))
	}
	ctor = append(ctor, Return(Op("&").Id(name).Values(Dict{Id("node"): Id("node")})))
	decl(f, Func().Id("new"+name).Params(Id("node").Add(node.Clone())).Op("*").Id(name).Block(ctor...))

	members := newScope(name)
	_ = members.declare("ProjectionNode", name)
	_ = members.declare("Typename", name)

	decl(f, Comment("ProjectionNode returns the selection set, nil for a nil projection.").Line().
		Func().Params(Id("p").Op("*").Id(name)).Id("ProjectionNode").Params().Add(node.Clone()).Block(
		If(Id("p").Op("==").Nil()).Block(Return(Nil())),
		Return(Id("p").Dot("node")),
	))

	decl(f, Func().Params(Id("p").Op("*").Id(name)).Id("Typename").Params().Op("*").Id(name).Block(
		Id("p").Dot("node").Dot("Field").Call(Qual(projectionPath, "TypenameField")),
		Return(Id("p")),
	))

	for _, field := range g.fields(def) {
		if err := g.genProjectionField(f, def, name, members, field); err != nil {
			return err
		}
	}

	if !abstract {
		return nil
	}
	for _, possible := range g.possibleTypes(def) {
		if !g.generatesProjection(possible) {
			continue
		}
		method := "On" + g.typeName(possible.Name)
		if err := members.declare(method, def.Name+" on "+possible.Name); err != nil {
			return err
		}
		child := projectionName(g.typeName(possible.Name))
		decl(f, Commentf("%s selects fields through an inline fragment on %s.", method, possible.Name).Line().
			Func().Params(Id("p").Op("*").Id(name)).Id(method).Params(Id("fn").Func().Params(Op("*").Id(child))).Op("*").Id(name).Block(
			Id("child").Op(":=").Id("new"+child).Call(Id("p").Dot("node").Dot("On").Call(Lit(possible.Name))),
			If(Id("fn").Op("!=").Nil()).Block(Id("fn").Call(Id("child"))),
			Return(Id("p")),
		))
	}
	return nil
}

func (g *Generator) genProjectionField(f *File, def *ast.Definition, name string, members *scope, field *ast.FieldDefinition) error {
	method := members.member(goName(field.Name), "Field")
	if err := members.declare(method, def.Name+"."+field.Name); err != nil {
		return err
	}

	var (
		params   []Code
		callArgs = []Code{Lit(field.Name)}
	)
	if len(field.Arguments) != 0 {
		args, err := g.genArgs(f, def, field)
		if err != nil {
			return err
		}
		params = append(params, Id("args").Id(args))
		callArgs = append(callArgs, Id("args").Dot("arguments").Call().Op("..."))
	}

	doc := docLines(field.Description, field.Directives)
	target := g.schema.Types[field.Type.Name()]
	if !g.generatesProjection(target) {
		decl(f, withDoc(doc).
			Func().Params(Id("p").Op("*").Id(name)).Id(method).Params(params...).Op("*").Id(name).Block(
			Id("p").Dot("node").Dot("Field").Call(callArgs...),
			Return(Id("p")),
		))
		return nil
	}

	child := projectionName(g.typeName(target.Name))
	params = append(params, Id("fn").Func().Params(Op("*").Id(child)))
	decl(f, withDoc(doc).
		Func().Params(Id("p").Op("*").Id(name)).Id(method).Params(params...).Op("*").Id(name).Block(
		Id("child").Op(":=").Id("new"+child).Call(Id("p").Dot("node").Dot("Object").Call(callArgs...)),
		If(Id("fn").Op("!=").Nil()).Block(Id("fn").Call(Id("child"))),
		Return(Id("p")),
	))
	return nil
}

// genArgs emits the arguments struct of a field and returns its name.
// Unset nullable arguments are left out of the query.
func (g *Generator) genArgs(f *File, def *ast.Definition, field *ast.FieldDefinition) (string, error) {
	name := g.typeName(def.Name) + goName(field.Name) + "Args"
	if err := g.clientScope.declare(name, def.Name+"."+field.Name); err != nil {
		return "", err
	}

	members := newScope(name)
	var (
		fields []Code
		body   = []Code{Var().Id("args").Index().Qual(projectionPath, "Argument")}
	)
	for _, arg := range field.Arguments {
		fieldName := goName(arg.Name)
		if err := members.declare(fieldName, def.Name+"."+field.Name+"("+arg.Name+")"); err != nil {
			return "", err
		}
		fields = append(fields, withDoc(docLines(arg.Description, arg.Directives)).
			Id(fieldName).Add(g.fieldType("", arg.Type, false)))

		value := Id("a").Dot(fieldName)
		if g.isPointerField("", arg.Type) {
			value = Op("*").Id("a").Dot(fieldName)
		}
		appendArg := Id("args").Op("=").Append(Id("args"), Qual(projectionPath, "Argument").Values(Dict{
			Id("Name"):  Lit(arg.Name),
			Id("Value"): value,
		}))
		if arg.Type.NonNull {
			body = append(body, appendArg)
			continue
		}
		body = append(body, If(Id("a").Dot(fieldName).Op("!=").Nil()).Block(appendArg))
	}
	body = append(body, Return(Id("args")))

	decl(f, Commentf("%s are the arguments of %s.%s.", name, def.Name, field.Name).Line().
		Type().Id(name).Struct(fields...))
	decl(f, Func().Params(Id("a").Id(name)).Id("arguments").Params().Index().Qual(projectionPath, "Argument").Block(body...))
	return name, nil
}
