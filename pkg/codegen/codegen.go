// Package codegen generates typed Go client code from a GraphQL schema.
//
// The output is split into up to three packages below the output directory:
// constants with type, field and argument names, types with enums, inputs, objects,
// interfaces, unions and their builders, and client with operation builders and projections.
package codegen

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"

	. "github.com/dave/jennifer/jen"
	"github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/wundergraph/graphql-clientgen/pkg/schema"
)

const (
	header        = "Code generated by clientgen. DO NOT EDIT."
	typenameField = "__typename"

	projectionPath = "github.com/wundergraph/graphql-clientgen/pkg/projection"
	gjsonPath      = "github.com/tidwall/gjson"
	sjsonPath      = "github.com/tidwall/sjson"
	jsonPath       = "encoding/json"
	fmtPath        = "fmt"
)

type Config struct {
	// ImportPath is the Go import path of the output directory.
	ImportPath       string
	ConstantsPackage string
	TypesPackage     string
	ClientPackage    string
	// TypeMapping maps GraphQL type names to Go types written as import/path.Name or a builtin.
	TypeMapping map[string]string

	GenerateConstants bool
	GenerateDataTypes bool
	GenerateBuilders  bool
	GenerateClientAPI bool

	// Root fields to generate client code for, empty means all.
	IncludeQueries       []string
	IncludeMutations     []string
	IncludeSubscriptions []string

	// SkipTypes are not generated, fields and arguments referencing them are left out.
	SkipTypes []string
}

func DefaultConfig() Config {
	return Config{
		ConstantsPackage:  "constants",
		TypesPackage:      "types",
		ClientPackage:     "client",
		GenerateConstants: true,
		GenerateDataTypes: true,
		GenerateBuilders:  true,
		GenerateClientAPI: true,
	}
}

// GeneratedFile is a rendered Go file. Path is relative to the output directory.
type GeneratedFile struct {
	Path    string
	Package string
	Content []byte
}

type Generator struct {
	schema *schema.Schema
	config Config
	log    abstractlogger.Logger

	mapping    map[string]goTypeRef
	skip       map[string]bool
	referenced map[string]bool

	typesScope  *scope
	clientScope *scope
}

func NewGenerator(s *schema.Schema, config Config, log abstractlogger.Logger) *Generator {
	if log == nil {
		log = abstractlogger.NoopLogger
	}
	return &Generator{
		schema: s,
		config: config,
		log:    log,
	}
}

// Generate renders all enabled packages. Files without declarations are not returned.
func (g *Generator) Generate() ([]GeneratedFile, error) {
	if err := g.prepare(); err != nil {
		return nil, err
	}

	type step struct {
		enabled bool
		pkg     string
		file    string
		emit    func(f *File) (int, error)
	}

	steps := []step{
		{g.config.GenerateConstants, g.config.ConstantsPackage, "constants.go", g.genConstants},
		{g.config.GenerateDataTypes, g.config.TypesPackage, "enums.go", g.genEnums},
		{g.config.GenerateDataTypes, g.config.TypesPackage, "inputs.go", g.genInputs},
		{g.config.GenerateDataTypes, g.config.TypesPackage, "types.go", g.genTypes},
		{g.config.GenerateDataTypes && g.config.GenerateBuilders, g.config.TypesPackage, "builders.go", g.genBuilders},
		{g.config.GenerateClientAPI, g.config.ClientPackage, "client.go", g.genQueries},
		{g.config.GenerateClientAPI, g.config.ClientPackage, "projections.go", g.genProjections},
	}

	var files []GeneratedFile
	for _, s := range steps {
		if !s.enabled {
			continue
		}
		file, err := g.render(s.pkg, s.file, s.emit)
		if err != nil {
			return nil, err
		}
		if file == nil {
			continue
		}
		g.log.Debug("codegen.Generate",
			abstractlogger.String("file", file.Path),
			abstractlogger.Int("bytes", len(file.Content)),
		)
		files = append(files, *file)
	}
	return files, nil
}

func (g *Generator) prepare() error {
	if g.config.GenerateClientAPI {
		if g.config.ImportPath == "" {
			return fmt.Errorf("client API generation requires an import path")
		}
		if !g.config.GenerateDataTypes {
			return fmt.Errorf("client API generation requires data types")
		}
	}

	g.mapping = make(map[string]goTypeRef, len(g.config.TypeMapping))
	for graphqlType, goType := range g.config.TypeMapping {
		ref, err := parseGoType(goType)
		if err != nil {
			return fmt.Errorf("type mapping for %s: %w", graphqlType, err)
		}
		g.mapping[graphqlType] = ref
	}

	g.skip = make(map[string]bool, len(g.config.SkipTypes))
	for _, name := range g.config.SkipTypes {
		g.skip[name] = true
	}

	g.referenced = map[string]bool{}
	for _, def := range g.schema.Definitions(ast.Object, ast.Interface) {
		for _, field := range schema.Fields(def) {
			g.referenced[field.Type.Name()] = true
		}
	}

	for _, def := range g.schema.Definitions(ast.Scalar) {
		if _, ok := g.mapping[def.Name]; ok {
			continue
		}
		g.log.Warn("codegen.Generate",
			abstractlogger.String("scalar", def.Name),
			abstractlogger.String("message", "custom scalar without type mapping is generated as any"),
		)
	}

	g.typesScope = newScope(g.config.TypesPackage)
	g.clientScope = newScope(g.config.ClientPackage)
	return nil
}

func (g *Generator) render(pkg, name string, emit func(f *File) (int, error)) (*GeneratedFile, error) {
	f := NewFilePathName(g.packagePath(pkg), pkg)
	f.HeaderComment(header)
	f.ImportName(projectionPath, "projection")
	f.ImportName(gjsonPath, "gjson")
	f.ImportName(sjsonPath, "sjson")
	if g.config.ImportPath != "" {
		f.ImportName(g.typesPath(), g.config.TypesPackage)
	}

	count, err := emit(f)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render %s/%s: %w", pkg, name, err)
	}
	return &GeneratedFile{
		Path:    path.Join(pkg, name),
		Package: pkg,
		Content: buf.Bytes(),
	}, nil
}

// decl adds a top level declaration to f, separated from the next one by an empty line.
func decl(f *File, code Code) {
	f.Add(code)
	f.Line()
}

func (g *Generator) packagePath(pkg string) string {
	if g.config.ImportPath == "" {
		return pkg
	}
	return path.Join(g.config.ImportPath, pkg)
}

func (g *Generator) typesPath() string {
	return g.packagePath(g.config.TypesPackage)
}

// WriteFiles writes files below dir, creating package directories as needed.
func WriteFiles(dir string, files []GeneratedFile) error {
	for _, file := range files {
		target := filepath.Join(dir, filepath.FromSlash(file.Path))
		if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
			return err
		}
		if err := os.WriteFile(target, file.Content, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
	}
	return nil
}

// generatesType reports whether a Go type is emitted into the types package for def.
func (g *Generator) generatesType(def *ast.Definition) bool {
	if def == nil || def.BuiltIn || g.skip[def.Name] {
		return false
	}
	if _, ok := g.mapping[def.Name]; ok {
		return false
	}
	switch def.Kind {
	case ast.Object:
		return !g.schema.IsRootType(def.Name) || g.referenced[def.Name]
	case ast.Interface, ast.Union, ast.Enum, ast.InputObject:
		return true
	}
	return false
}

// generatesProjection reports whether a projection is emitted into the client package for def.
func (g *Generator) generatesProjection(def *ast.Definition) bool {
	if def == nil || g.skip[def.Name] || !g.schema.IsComposite(def.Name) {
		return false
	}
	return !g.schema.IsRootType(def.Name) || g.referenced[def.Name]
}

// fields returns the fields of def that do not reference a skipped type.
func (g *Generator) fields(def *ast.Definition) ast.FieldList {
	var out ast.FieldList
	for _, field := range schema.Fields(def) {
		if g.skipsField(field) {
			continue
		}
		out = append(out, field)
	}
	return out
}

func (g *Generator) skipsField(field *ast.FieldDefinition) bool {
	if g.skip[field.Type.Name()] {
		return true
	}
	for _, arg := range field.Arguments {
		if g.skip[arg.Type.Name()] {
			return true
		}
	}
	return false
}

func (g *Generator) possibleTypes(def *ast.Definition) []*ast.Definition {
	var out []*ast.Definition
	for _, possible := range g.schema.PossibleTypes(def) {
		if g.skip[possible.Name] {
			continue
		}
		out = append(out, possible)
	}
	return out
}

func kindKeyword(kind ast.DefinitionKind) string {
	switch kind {
	case ast.Object:
		return "type"
	case ast.Interface:
		return "interface"
	case ast.Union:
		return "union"
	case ast.Enum:
		return "enum"
	case ast.InputObject:
		return "input"
	default:
		return "scalar"
	}
}
