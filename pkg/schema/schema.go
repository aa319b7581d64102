// Package schema loads and validates the GraphQL schema code is generated from.
package schema

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/wundergraph/graphql-clientgen/pkg/imports"
	"github.com/wundergraph/graphql-clientgen/pkg/introspection"
)

// Schema is a validated GraphQL schema together with the sources it was loaded from.
type Schema struct {
	*ast.Schema
	Sources []*ast.Source
}

// RootOperation is one of the query, mutation or subscription root types.
type RootOperation struct {
	Operation  ast.Operation
	Definition *ast.Definition
}

// LoadPatterns resolves the given glob patterns, follows #import comments and loads the result.
func LoadPatterns(baseDir string, patterns ...string) (*Schema, error) {
	scanner := imports.Scanner{BaseDir: baseDir}
	root, err := scanner.ScanPatterns(patterns...)
	if err != nil {
		return nil, err
	}

	files := root.Files()
	sources := make([]*ast.Source, 0, len(files))
	for _, file := range files {
		content, err := file.Content()
		if err != nil {
			return nil, err
		}
		source, err := newSource(file.RelativePath, content)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return LoadSources(sources...)
}

// LoadString loads a schema from a single SDL document.
func LoadString(name, sdl string) (*Schema, error) {
	return LoadSources(&ast.Source{Name: name, Input: sdl})
}

func LoadSources(sources ...*ast.Source) (*Schema, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no schema sources")
	}
	s, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{Schema: s, Sources: sources}, nil
}

func newSource(name string, content []byte) (*ast.Source, error) {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		converter := introspection.JsonConverter{}
		sdl, err := converter.GraphQLSchema(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		content = sdl
	}
	return &ast.Source{Name: name, Input: string(content)}, nil
}

// Definitions returns all user defined types of the given kinds sorted by name.
// Without kinds all user defined types are returned.
func (s *Schema) Definitions(kinds ...ast.DefinitionKind) []*ast.Definition {
	out := make([]*ast.Definition, 0, len(s.Types))
	for _, def := range s.Types {
		if def.BuiltIn || strings.HasPrefix(def.Name, "__") {
			continue
		}
		if len(kinds) != 0 && !containsKind(kinds, def.Kind) {
			continue
		}
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func containsKind(kinds []ast.DefinitionKind, kind ast.DefinitionKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// PossibleTypes returns the object types an interface or union may resolve to, sorted by name.
func (s *Schema) PossibleTypes(def *ast.Definition) []*ast.Definition {
	possible := append([]*ast.Definition(nil), s.GetPossibleTypes(def)...)
	sort.Slice(possible, func(i, j int) bool {
		return possible[i].Name < possible[j].Name
	})
	return possible
}

// Implements returns the interfaces and unions def is a member of, sorted by name.
func (s *Schema) Implements(def *ast.Definition) []*ast.Definition {
	implements := append([]*ast.Definition(nil), s.GetImplements(def)...)
	sort.Slice(implements, func(i, j int) bool {
		return implements[i].Name < implements[j].Name
	})
	return implements
}

func (s *Schema) RootOperations() []RootOperation {
	var out []RootOperation
	if s.Query != nil {
		out = append(out, RootOperation{Operation: ast.Query, Definition: s.Query})
	}
	if s.Mutation != nil {
		out = append(out, RootOperation{Operation: ast.Mutation, Definition: s.Mutation})
	}
	if s.Subscription != nil {
		out = append(out, RootOperation{Operation: ast.Subscription, Definition: s.Subscription})
	}
	return out
}

// IsRootType reports whether name is the query, mutation or subscription type.
func (s *Schema) IsRootType(name string) bool {
	for _, op := range s.RootOperations() {
		if op.Definition.Name == name {
			return true
		}
	}
	return false
}

// IsAbstract reports whether name is an interface or a union.
func (s *Schema) IsAbstract(name string) bool {
	def, ok := s.Types[name]
	if !ok {
		return false
	}
	return def.Kind == ast.Interface || def.Kind == ast.Union
}

// IsComposite reports whether values of name have a selection set.
func (s *Schema) IsComposite(name string) bool {
	def, ok := s.Types[name]
	if !ok {
		return false
	}
	return def.Kind == ast.Object || def.Kind == ast.Interface || def.Kind == ast.Union
}

// Fields returns the fields of def without introspection fields.
func Fields(def *ast.Definition) ast.FieldList {
	out := make(ast.FieldList, 0, len(def.Fields))
	for _, field := range def.Fields {
		if strings.HasPrefix(field.Name, "__") {
			continue
		}
		out = append(out, field)
	}
	return out
}
