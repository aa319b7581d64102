package codegen

import (
	"strings"

	. "github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"
)

const defaultDeprecationReason = "No longer supported"

func (g *Generator) genConstants(f *File) (int, error) {
	names := newScope(g.config.ConstantsPackage)
	count := 0

	for _, def := range g.schema.Definitions() {
		if g.skip[def.Name] {
			continue
		}

		var defs []Code
		add := func(name, value, origin string) error {
			if err := names.declare(name, origin); err != nil {
				return err
			}
			defs = append(defs, Id(name).Op("=").Lit(value))
			return nil
		}

		typeName := g.typeName(def.Name)
		if err := add(typeName+"TypeName", def.Name, def.Name); err != nil {
			return 0, err
		}

		switch def.Kind {
		case ast.Object, ast.Interface, ast.InputObject:
			for _, field := range g.fields(def) {
				fieldName := typeName + goName(field.Name)
				if err := add(fieldName, field.Name, def.Name+"."+field.Name); err != nil {
					return 0, err
				}
				for _, arg := range field.Arguments {
					origin := def.Name + "." + field.Name + "(" + arg.Name + ")"
					if err := add(fieldName+"Arg"+goName(arg.Name), arg.Name, origin); err != nil {
						return 0, err
					}
				}
			}
		}

		decl(f, Commentf("%s %s", kindKeyword(def.Kind), def.Name).Line().Const().Defs(defs...))
		count += len(defs)
	}

	return count, nil
}

// docLines returns the description and deprecation notice of a schema element as comment lines.
func docLines(description string, directives ast.DirectiveList) []string {
	var lines []string
	if description = strings.TrimSpace(description); description != "" {
		lines = append(lines, strings.Split(description, "\n")...)
	}
	if deprecated := directives.ForName("deprecated"); deprecated != nil {
		reason := defaultDeprecationReason
		if arg := deprecated.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
			reason = arg.Value.Raw
		}
		if len(lines) != 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "Deprecated: "+reason)
	}
	return lines
}

// withDoc starts a statement with comment lines.
func withDoc(lines []string) *Statement {
	s := &Statement{}
	for _, line := range lines {
		s.Comment(strings.TrimRight(line, " \t")).Line()
	}
	return s
}
