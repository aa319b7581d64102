package codegen

import (
	"fmt"
	"strings"

	. "github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"
)

var builtinScalars = map[string]string{
	"String":  "string",
	"ID":      "string",
	"Int":     "int",
	"Float":   "float64",
	"Boolean": "bool",
}

// goTypeRef is a Go type named in a type mapping, path is empty for predeclared types.
type goTypeRef struct {
	path string
	name string
}

// parseGoType parses time.Time, github.com/shopspring/decimal.Decimal or int64.
func parseGoType(s string) (goTypeRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return goTypeRef{}, fmt.Errorf("empty Go type")
	}
	i := strings.LastIndex(s, ".")
	if i < 0 {
		return goTypeRef{name: s}, nil
	}
	if i == 0 || i == len(s)-1 || strings.HasSuffix(s[:i], "/") {
		return goTypeRef{}, fmt.Errorf("invalid Go type %q, expected import/path.Name", s)
	}
	return goTypeRef{path: s[:i], name: s[i+1:]}, nil
}

func (r goTypeRef) code() *Statement {
	if r.path == "" {
		return Id(r.name)
	}
	return Qual(r.path, r.name)
}

// namedType returns the Go type for a GraphQL named type and whether a nullable value of it is stored as pointer.
// local is true for code inside the types package.
func (g *Generator) namedType(name string, local bool) (*Statement, bool) {
	if ref, ok := g.mapping[name]; ok {
		return ref.code(), g.pointerable(name)
	}
	if builtin, ok := builtinScalars[name]; ok {
		return Id(builtin), true
	}
	def := g.schema.Types[name]
	if def == nil || def.Kind == ast.Scalar {
		return Id("any"), false
	}
	if local {
		return Id(g.typeName(name)), g.pointerable(name)
	}
	return Qual(g.typesPath(), g.typeName(name)), g.pointerable(name)
}

// pointerable reports whether nullable values of name are stored as pointers.
// Interfaces, unions and untyped scalars are nil-able already.
func (g *Generator) pointerable(name string) bool {
	if ref, ok := g.mapping[name]; ok {
		if ref.name == "any" || ref.name == "interface{}" || strings.HasPrefix(ref.name, "[]") || strings.HasPrefix(ref.name, "map[") {
			return false
		}
		return !g.schema.IsAbstract(name)
	}
	if _, ok := builtinScalars[name]; ok {
		return true
	}
	def := g.schema.Types[name]
	if def == nil {
		return false
	}
	switch def.Kind {
	case ast.Enum, ast.Object, ast.InputObject:
		return true
	}
	return false
}

// goType returns the Go type of t without an outer pointer. Lists become slices with element nullability kept:
// [String] -> []*string, [String!] -> []string.
func (g *Generator) goType(t *ast.Type, local bool) *Statement {
	if t.Elem != nil {
		elem := g.goType(t.Elem, local)
		if t.Elem.Elem == nil && !t.Elem.NonNull && g.pointerable(t.Elem.NamedType) {
			return Index().Op("*").Add(elem)
		}
		return Index().Add(elem)
	}
	named, _ := g.namedType(t.NamedType, local)
	return named
}

// isPointerField reports whether a field of owner with type t is stored as pointer.
// Nullable fields are pointers, non-null object fields too when they would make owner contain itself.
func (g *Generator) isPointerField(owner string, t *ast.Type) bool {
	if t.Elem != nil || !g.pointerable(t.NamedType) {
		return false
	}
	if !t.NonNull {
		return true
	}
	return owner != "" && g.embeds(t.NamedType, owner)
}

func (g *Generator) fieldType(owner string, t *ast.Type, local bool) *Statement {
	if g.isPointerField(owner, t) {
		return Op("*").Add(g.goType(t, local))
	}
	return g.goType(t, local)
}

// embeds reports whether the struct generated for name contains target by value, directly or transitively.
func (g *Generator) embeds(name, target string) bool {
	seen := map[string]bool{}
	var walk func(name string) bool
	walk = func(name string) bool {
		if name == target {
			return true
		}
		if seen[name] {
			return false
		}
		seen[name] = true
		if _, mapped := g.mapping[name]; mapped {
			return false
		}
		def := g.schema.Types[name]
		if def == nil || (def.Kind != ast.Object && def.Kind != ast.InputObject) {
			return false
		}
		for _, field := range g.fields(def) {
			if field.Type.Elem == nil && field.Type.NonNull && walk(field.Type.NamedType) {
				return true
			}
		}
		return false
	}
	return walk(name)
}

// isAbstractField reports whether t, possibly wrapped in lists, names a generated interface or union.
func (g *Generator) isAbstractField(t *ast.Type) bool {
	name := t.Name()
	if _, mapped := g.mapping[name]; mapped {
		return false
	}
	return g.schema.IsAbstract(name)
}

// rawType mirrors the list structure of t with json.RawMessage leaves.
func rawType(t *ast.Type) *Statement {
	if t.Elem != nil {
		return Index().Add(rawType(t.Elem))
	}
	return Qual(jsonPath, "RawMessage")
}
