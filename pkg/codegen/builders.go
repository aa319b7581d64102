package codegen

import (
	"strconv"

	. "github.com/dave/jennifer/jen"
	"github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"
)

func (g *Generator) genBuilders(f *File) (int, error) {
	count := 0
	for _, def := range g.schema.Definitions(ast.InputObject, ast.Object) {
		if !g.generatesType(def) {
			continue
		}
		if err := g.genBuilder(f, def); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func (g *Generator) genBuilder(f *File, def *ast.Definition) error {
	typeName := g.typeName(def.Name)
	builder := typeName + "Builder"
	constructor := "New" + builder
	for _, name := range []string{builder, constructor} {
		if err := g.typesScope.declare(name, def.Name); err != nil {
			return err
		}
	}

	members := newScope(builder)
	_ = members.declare("Build", builder)

	var (
		setters  []Code
		defaults []Code
	)
	for _, field := range g.fields(def) {
		name := goName(field.Name)
		method := members.member(name, "Field")
		if err := members.declare(method, def.Name+"."+field.Name); err != nil {
			return err
		}

		value := Id("v")
		if g.isPointerField(def.Name, field.Type) {
			value = Op("&").Id("v")
		}
		setters = append(setters, withDoc(docLines("", field.Directives)).
			Func().Params(Id("b").Op("*").Id(builder)).Id(method).Params(Id("v").Add(g.goType(field.Type, true))).Op("*").Id(builder).Block(
			Id("b").Dot("v").Dot(name).Op("=").Add(value),
			Return(Id("b")),
		))

		if def.Kind != ast.InputObject || field.DefaultValue == nil {
			continue
		}
		literal, ok := g.defaultValue(field.DefaultValue, field.Type)
		if !ok {
			g.log.Warn("codegen.defaultValue",
				abstractlogger.String("field", def.Name+"."+field.Name),
				abstractlogger.String("default", field.DefaultValue.String()),
				abstractlogger.String("message", "default value is not supported and left unset"),
			)
			continue
		}
		defaults = append(defaults, Id("b").Dot(method).Call(literal))
	}

	decl(f, Commentf("%s builds %s values.", builder, typeName).Line().
		Type().Id(builder).Struct(Id("v").Id(typeName)))

	if len(defaults) == 0 {
		decl(f, Func().Id(constructor).Params().Op("*").Id(builder).Block(
			Return(Op("&").Id(builder).Values()),
		))
	} else {
		body := append([]Code{Id("b").Op(":=").Op("&").Id(builder).Values()}, defaults...)
		body = append(body, Return(Id("b")))
		decl(f, Commentf("%s returns a builder with the schema defaults set.", constructor).Line().
			Func().Id(constructor).Params().Op("*").Id(builder).Block(body...))
	}

	for _, setter := range setters {
		decl(f, setter)
	}

	decl(f, Func().Params(Id("b").Op("*").Id(builder)).Id("Build").Params().Id(typeName).Block(
		Return(Id("b").Dot("v")),
	))
	return nil
}

// defaultValue renders a schema default as Go literal of the setter parameter type.
// Scalars, enums and lists of those are supported.
func (g *Generator) defaultValue(value *ast.Value, t *ast.Type) (Code, bool) {
	if value == nil {
		return nil, false
	}
	if t.Elem != nil {
		elem := t.Elem
		if elem.Elem == nil && !elem.NonNull && g.pointerable(elem.NamedType) {
			return nil, false
		}
		children := []*ast.Value{value}
		if value.Kind == ast.ListValue {
			children = children[:0]
			for _, child := range value.Children {
				children = append(children, child.Value)
			}
		}
		items := make([]Code, 0, len(children))
		for _, child := range children {
			item, ok := g.defaultValue(child, elem)
			if !ok {
				return nil, false
			}
			items = append(items, item)
		}
		return g.goType(t, true).Values(items...), true
	}

	if _, mapped := g.mapping[t.NamedType]; mapped {
		return nil, false
	}

	switch t.NamedType {
	case "Int":
		if value.Kind != ast.IntValue {
			return nil, false
		}
		n, err := strconv.Atoi(value.Raw)
		if err != nil {
			return nil, false
		}
		return Lit(n), true
	case "Float":
		if value.Kind != ast.IntValue && value.Kind != ast.FloatValue {
			return nil, false
		}
		n, err := strconv.ParseFloat(value.Raw, 64)
		if err != nil {
			return nil, false
		}
		return Lit(n), true
	case "String", "ID":
		if value.Kind != ast.StringValue && value.Kind != ast.BlockValue && value.Kind != ast.IntValue {
			return nil, false
		}
		return Lit(value.Raw), true
	case "Boolean":
		if value.Kind != ast.BooleanValue {
			return nil, false
		}
		return Lit(value.Raw == "true"), true
	}

	def := g.schema.Types[t.NamedType]
	if def != nil && def.Kind == ast.Enum && value.Kind == ast.EnumValue && g.generatesType(def) {
		return Id(g.enumValueName(def, value.Raw)), true
	}
	return nil, false
}
