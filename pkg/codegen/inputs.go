package codegen

import (
	. "github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"
)

func (g *Generator) genInputs(f *File) (int, error) {
	count := 0
	for _, def := range g.schema.Definitions(ast.InputObject) {
		if !g.generatesType(def) {
			continue
		}
		typeName := g.typeName(def.Name)
		if err := g.typesScope.declare(typeName, def.Name); err != nil {
			return 0, err
		}

		fields, err := g.structFields(def, newScope(def.Name))
		if err != nil {
			return 0, err
		}

		decl(f, withDoc(docLines(def.Description, def.Directives)).Type().Id(typeName).Struct(fields...))
		count++
	}
	return count, nil
}

// structFields returns the Go struct fields for the fields of an object or input type.
// Nullable fields are tagged omitempty.
func (g *Generator) structFields(def *ast.Definition, members *scope) ([]Code, error) {
	var out []Code
	for _, field := range g.fields(def) {
		name := goName(field.Name)
		if err := members.declare(name, def.Name+"."+field.Name); err != nil {
			return nil, err
		}
		tag := field.Name
		if !field.Type.NonNull {
			tag += ",omitempty"
		}
		out = append(out, withDoc(docLines(field.Description, field.Directives)).
			Id(name).Add(g.fieldType(def.Name, field.Type, true)).Tag(map[string]string{"json": tag}))
	}
	return out, nil
}
