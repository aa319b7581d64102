package codegen

import (
	goast "go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jensneuse/abstractlogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wundergraph/graphql-clientgen/pkg/schema"
	"github.com/wundergraph/graphql-clientgen/pkg/testing/goldie"
)

func showsConfig() Config {
	config := DefaultConfig()
	config.ImportPath = "github.com/acme/shows/generated"
	config.TypeMapping = map[string]string{"DateTime": "time.Time"}
	return config
}

func loadShows(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.LoadPatterns("testdata", "shows.graphqls")
	require.NoError(t, err)
	return s
}

func generate(t *testing.T, s *schema.Schema, config Config) map[string]string {
	t.Helper()
	files, err := NewGenerator(s, config, abstractlogger.NoopLogger).Generate()
	require.NoError(t, err)

	out := make(map[string]string, len(files))
	for _, file := range files {
		out[file.Path] = string(file.Content)
	}
	return out
}

// declarations lists the top level declarations of a Go file as "type X", "func X", "method T.M", "const X" and "var X".
// Struct fields are listed as "field T.F <type>".
func declarations(t *testing.T, src string) map[string]bool {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "", src, parser.ParseComments)
	require.NoError(t, err, src)

	out := map[string]bool{}
	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *goast.FuncDecl:
			if decl.Recv == nil {
				out["func "+decl.Name.Name] = true
				continue
			}
			recv := types.ExprString(decl.Recv.List[0].Type)
			out["method "+strings.TrimPrefix(recv, "*")+"."+decl.Name.Name] = true
		case *goast.GenDecl:
			for _, spec := range decl.Specs {
				switch spec := spec.(type) {
				case *goast.TypeSpec:
					out["type "+spec.Name.Name] = true
					structType, ok := spec.Type.(*goast.StructType)
					if !ok {
						continue
					}
					for _, field := range structType.Fields.List {
						for _, name := range field.Names {
							out["field "+spec.Name.Name+"."+name.Name+" "+types.ExprString(field.Type)] = true
						}
					}
				case *goast.ValueSpec:
					for _, name := range spec.Names {
						out[decl.Tok.String()+" "+name.Name] = true
					}
				}
			}
		}
	}
	return out
}

func assertDeclared(t *testing.T, decls map[string]bool, expected ...string) {
	t.Helper()
	for _, e := range expected {
		assert.True(t, decls[e], "missing declaration %q", e)
	}
}

func assertNotDeclared(t *testing.T, decls map[string]bool, unexpected ...string) {
	t.Helper()
	for _, e := range unexpected {
		assert.False(t, decls[e], "unexpected declaration %q", e)
	}
}

func TestGenerator_Generate(t *testing.T) {
	generated, err := NewGenerator(loadShows(t), showsConfig(), abstractlogger.NoopLogger).Generate()
	require.NoError(t, err)

	paths := make([]string, 0, len(generated))
	files := make(map[string]string, len(generated))
	for _, file := range generated {
		paths = append(paths, file.Path)
		files[file.Path] = string(file.Content)
	}
	if diff := cmp.Diff([]string{
		"constants/constants.go",
		"types/enums.go",
		"types/inputs.go",
		"types/types.go",
		"types/builders.go",
		"client/client.go",
		"client/projections.go",
	}, paths); diff != "" {
		t.Errorf("generated files mismatch (-want +got):\n%s", diff)
	}

	for path, content := range files {
		assert.True(t, strings.HasPrefix(content, "// Code generated by clientgen. DO NOT EDIT."), path)
	}

	t.Run("constants", func(t *testing.T) {
		decls := declarations(t, files["constants/constants.go"])
		assertDeclared(t, decls,
			"const QueryTypeName",
			"const QueryShows",
			"const QueryShowsArgTitleFilter",
			"const ShowTypeName",
			"const ShowID",
			"const ShowReviewsArgMinScore",
			"const SearchFilterMinRating",
			"const SubmittedReviewShowID",
			"const GenreTypeName",
			"const SearchResultTypeName",
			"const DateTimeTypeName",
		)
		assert.Regexp(t, `ShowReleaseYear\s+= "releaseYear"`, files["constants/constants.go"])
	})

	t.Run("enums", func(t *testing.T) {
		content := files["types/enums.go"]
		decls := declarations(t, content)
		assertDeclared(t, decls,
			"type Genre",
			"const GenreDrama",
			"const GenreComedy",
			"const GenreSciFi",
			"var AllGenre",
			"method Genre.IsValid",
			"method Genre.String",
			"method Genre.GraphQLLiteral",
			"type SortOrder",
			"const SortOrderAsc",
		)
		assert.Regexp(t, `GenreSciFi\s+Genre = "SCI_FI"`, content)
		assert.Contains(t, content, "// Deprecated: No longer supported")
	})

	t.Run("objects interfaces unions", func(t *testing.T) {
		content := files["types/types.go"]
		decls := declarations(t, content)
		assertDeclared(t, decls,
			"field Show.ID string",
			"field Show.Title *string",
			"field Show.ReleaseYear *int",
			"field Show.ReleasedAt *time.Time",
			"field Show.Genre *Genre",
			"field Show.Reviews []Review",
			"field Show.Related *Show",
			"field Show.Metadata any",
			"field Show.Director Person",
			"field Show.requested map[string]struct{}",
			"field Movie.Related Entity",
			"field Person.Mentor *Person",
			"field Person.HomepageURL *string",
			"field Review.SubmittedAt time.Time",
			"type Entity",
			"type SearchResult",
			"func UnmarshalEntity",
			"func UnmarshalSearchResult",
			"method Show.IsEntity",
			"method Show.IsSearchResult",
			"method Show.GetID",
			"method Show.Requested",
			"method Show.LookupTitle",
			"method Show.UnmarshalJSON",
			"method Show.MarshalJSON",
			"method Movie.MarshalJSON",
			"method Person.MarshalJSON",
			"method Movie.IsEntity",
			"method Movie.GetID",
			"method Person.IsSearchResult",
		)
		assertNotDeclared(t, decls,
			"type Query",
			"type Mutation",
			"method Show.GetRelated",
			"method Movie.GetRelated",
			"method Person.IsEntity",
			"method Review.MarshalJSON",
		)
		assert.Contains(t, content, `return sjson.SetBytes(data, "__typename", "Movie")`)
		assert.Regexp(t, "Title\\s+\\*string\\s+`json:\"title,omitempty\"`", content)
		assert.Contains(t, content, `return nil, fmt.Errorf("%w %q for Entity", projection.ErrUnknownTypename, typename)`)
		assert.Contains(t, content, "// Deprecated: Use runtime.")
		assert.Contains(t, content, "// When the show was first released.")
	})

	t.Run("inputs", func(t *testing.T) {
		decls := declarations(t, files["types/inputs.go"])
		assertDeclared(t, decls,
			"field SearchFilter.Text string",
			"field SearchFilter.Genres []Genre",
			"field SearchFilter.Limit *int",
			"field SearchFilter.MinRating *float64",
			"field SearchFilter.Nested *SearchFilter",
			"field SubmittedReview.Tags []*string",
			"field SubmittedReview.SubmittedAt *time.Time",
		)
	})

	t.Run("builders", func(t *testing.T) {
		content := files["types/builders.go"]
		decls := declarations(t, content)
		assertDeclared(t, decls,
			"type SearchFilterBuilder",
			"func NewSearchFilterBuilder",
			"method SearchFilterBuilder.Limit",
			"method SearchFilterBuilder.Build",
			"type ShowBuilder",
			"method ShowBuilder.Title",
			"method ShowBuilder.Build",
		)
		for _, expected := range []string{
			"b.Genres([]Genre{GenreDrama})",
			"b.Limit(20)",
			"b.MinRating(3.5)",
			"b.IncludeUnreleased(false)",
			"b.Sort(SortOrderAsc)",
			"b.v.Title = &v",
			"b.v.ID = v",
		} {
			assert.Contains(t, content, expected)
		}
	})

	t.Run("client", func(t *testing.T) {
		content := files["client/client.go"]
		decls := declarations(t, content)
		assertDeclared(t, decls,
			"type ShowsGraphQLQuery",
			"func NewShowsGraphQLQuery",
			"method ShowsGraphQLQuery.TitleFilter",
			"method ShowsGraphQLQuery.Genres",
			"method ShowsGraphQLQuery.OperationName",
			"method ShowsGraphQLQuery.Build",
			"func NewShowsProjectionRoot",
			"type MutationShowsGraphQLQuery",
			"func NewMutationShowsProjectionRoot",
			"type ReviewAddedGraphQLQuery",
			"type ShowCountGraphQLQuery",
			"func NewEntitiesProjectionRoot",
		)
		assertNotDeclared(t, decls, "func NewShowCountProjectionRoot")
		assert.Contains(t, content, `projection.NewOperation(projection.Mutation, "addReview")`)
		assert.Contains(t, content, `func (q *ShowsGraphQLQuery) Genres(v []types.Genre) *ShowsGraphQLQuery`)
		assert.Contains(t, content, `func (q *AddReviewGraphQLQuery) Review(v types.SubmittedReview) *AddReviewGraphQLQuery`)
	})

	t.Run("projections", func(t *testing.T) {
		content := files["client/projections.go"]
		decls := declarations(t, content)
		assertDeclared(t, decls,
			"type ShowProjection",
			"func NewShowProjection",
			"method ShowProjection.ProjectionNode",
			"method ShowProjection.Typename",
			"method ShowProjection.Title",
			"method ShowProjection.Reviews",
			"method ShowProjection.Director",
			"type ShowReviewsArgs",
			"field ShowReviewsArgs.MinScore *int",
			"field ShowReviewsArgs.Since *time.Time",
			"method ShowReviewsArgs.arguments",
			"method SearchResultProjection.OnShow",
			"method SearchResultProjection.OnMovie",
			"method SearchResultProjection.OnPerson",
			"method EntityProjection.ID",
			"method EntityProjection.OnShow",
		)
		assertNotDeclared(t, decls, "type QueryProjection", "type MutationProjection")
		assert.Contains(t, content, `func (p *ShowProjection) Reviews(args ShowReviewsArgs, fn func(*ReviewProjection)) *ShowProjection`)
		assert.Contains(t, content, `func (p *ShowProjection) Director(fn func(*PersonProjection)) *ShowProjection`)
		assert.Contains(t, content, `node.Field(projection.TypenameField)`)
	})
}

// The generated client under examples/shows is the fixture of the example schema.
func TestGenerator_GenerateExample(t *testing.T) {
	s, err := schema.LoadPatterns(filepath.Join("..", "..", "examples", "shows"), "schema.graphqls")
	require.NoError(t, err)

	config := DefaultConfig()
	config.ImportPath = "github.com/wundergraph/graphql-clientgen/examples/shows/generated"
	config.TypeMapping = map[string]string{"DateTime": "time.Time"}

	for path, content := range generate(t, s, config) {
		goldie.Assert(t, "example_shows_"+strings.NewReplacer("/", "_", ".go", "").Replace(path), []byte(content))
	}
}

func TestGenerator_Options(t *testing.T) {
	s := loadShows(t)

	t.Run("constants only", func(t *testing.T) {
		config := DefaultConfig()
		config.GenerateDataTypes = false
		config.GenerateClientAPI = false
		files := generate(t, s, config)
		require.Len(t, files, 1)
		assert.Contains(t, files, "constants/constants.go")
	})

	t.Run("without builders", func(t *testing.T) {
		config := showsConfig()
		config.GenerateBuilders = false
		files := generate(t, s, config)
		assert.NotContains(t, files, "types/builders.go")
		assert.Contains(t, files, "types/types.go")
	})

	t.Run("include filters", func(t *testing.T) {
		config := showsConfig()
		config.IncludeQueries = []string{"show"}
		config.IncludeMutations = []string{"addReview"}
		decls := declarations(t, generate(t, s, config)["client/client.go"])
		assertDeclared(t, decls, "type ShowGraphQLQuery", "type AddReviewGraphQLQuery", "type ReviewAddedGraphQLQuery")
		assertNotDeclared(t, decls, "type ShowsGraphQLQuery", "type SearchGraphQLQuery", "type MutationShowsGraphQLQuery")
	})

	t.Run("skip types", func(t *testing.T) {
		config := showsConfig()
		config.SkipTypes = []string{"Person"}
		files := generate(t, s, config)

		decls := declarations(t, files["types/types.go"])
		assertNotDeclared(t, decls, "type Person", "field Show.Director Person", "method Person.IsSearchResult")
		assertDeclared(t, decls, "type Show")

		projections := declarations(t, files["client/projections.go"])
		assertNotDeclared(t, projections, "method SearchResultProjection.OnPerson", "method ShowProjection.Director")
	})

	t.Run("type mapping for an object", func(t *testing.T) {
		config := showsConfig()
		config.TypeMapping["Review"] = "github.com/acme/reviews.Review"
		files := generate(t, s, config)

		decls := declarations(t, files["types/types.go"])
		assertNotDeclared(t, decls, "type Review")
		assertDeclared(t, decls, "field Show.Reviews []reviews.Review")
		assert.Contains(t, declarations(t, files["client/projections.go"]), "type ReviewProjection")
	})
}

func TestGenerator_Errors(t *testing.T) {
	t.Run("name collision", func(t *testing.T) {
		s, err := schema.LoadString("collision.graphqls", `
			type Query { show: Show }
			type Show { fooBar: String foo_bar: String }
		`)
		require.NoError(t, err)
		_, err = NewGenerator(s, showsConfig(), nil).Generate()
		assert.ErrorContains(t, err, "collides with Show.fooBar")
	})

	t.Run("client without import path", func(t *testing.T) {
		_, err := NewGenerator(loadShows(t), DefaultConfig(), nil).Generate()
		assert.EqualError(t, err, "client API generation requires an import path")
	})

	t.Run("invalid type mapping", func(t *testing.T) {
		config := showsConfig()
		config.TypeMapping["JSON"] = "encoding/json."
		_, err := NewGenerator(loadShows(t), config, nil).Generate()
		assert.EqualError(t, err, `type mapping for JSON: invalid Go type "encoding/json.", expected import/path.Name`)
	})
}

func TestGenerator_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := abstractlogger.NewZapLogger(zap.New(core), abstractlogger.DebugLevel)

	s, err := schema.LoadString("defaults.graphqls", `
		scalar JSON
		type Query { search(filter: Filter): String }
		input Filter {
			raw: JSON
			nested: Nested = {limit: 1}
		}
		input Nested { limit: Int }
	`)
	require.NoError(t, err)

	_, err = NewGenerator(s, showsConfig(), log).Generate()
	require.NoError(t, err)

	scalars := logs.FilterMessage("codegen.Generate").All()
	require.Len(t, scalars, 1)
	assert.Equal(t, "JSON", scalars[0].ContextMap()["scalar"])

	defaults := logs.FilterMessage("codegen.defaultValue").All()
	require.Len(t, defaults, 1)
	assert.Equal(t, "Filter.nested", defaults[0].ContextMap()["field"])
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	files := []GeneratedFile{
		{Path: "types/types.go", Package: "types", Content: []byte("package types\n")},
		{Path: "client/client.go", Package: "client", Content: []byte("package client\n")},
	}
	require.NoError(t, WriteFiles(dir, files))

	content, err := os.ReadFile(filepath.Join(dir, "client", "client.go"))
	require.NoError(t, err)
	assert.Equal(t, "package client\n", string(content))
}
