package imports

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-clientgen/pkg/testing/goldie"
)

func relativePaths(files []GraphQLFile) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		out = append(out, file.RelativePath)
	}
	return out
}

func TestScanner(t *testing.T) {
	scanner := Scanner{}
	file, err := scanner.ScanFile("./testdata/schema.graphqls")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"testdata/schema.graphqls",
		"testdata/types/review.graphqls",
		"testdata/types/show.graphqls",
	}, relativePaths(file.Files()))

	dump, err := json.MarshalIndent(file, "", "  ")
	require.NoError(t, err)

	goldie.Assert(t, "scanner_result", dump)
}

func TestGraphQLFile_Render(t *testing.T) {
	scanner := Scanner{}
	file, err := scanner.ScanFile("./testdata/schema.graphqls")
	require.NoError(t, err)

	out := bytes.Buffer{}
	require.NoError(t, file.Render(false, &out))

	expected := "\n\ntype Query {\n  shows: [Show]\n}\n" +
		"type Review {\n  starScore: Int\n}\n" +
		"\n\ntype Show {\n  title: String\n  reviews: [Review]\n}\n"
	assert.Equal(t, expected, out.String())

	out.Reset()
	require.NoError(t, file.Render(true, &out))
	assert.Contains(t, out.String(), "#file: testdata/types/show.graphqls\n\n")
	assert.NotContains(t, out.String(), "#import")
}

func TestScanner_ScanPatterns(t *testing.T) {
	t.Run("matches are imported in order", func(t *testing.T) {
		scanner := Scanner{}
		file, err := scanner.ScanPatterns("./testdata/types/*.graphqls")
		require.NoError(t, err)

		assert.Equal(t, "", file.RelativePath)
		assert.Equal(t, []string{
			"testdata/types/review.graphqls",
			"testdata/types/show.graphqls",
		}, relativePaths(file.Files()))
	})

	t.Run("doublestar pattern", func(t *testing.T) {
		scanner := Scanner{}
		file, err := scanner.ScanPatterns("./testdata/diamond/**/*.graphqls")
		require.NoError(t, err)

		assert.Len(t, file.Files(), 4)
	})

	t.Run("pattern without matches", func(t *testing.T) {
		scanner := Scanner{}
		_, err := scanner.ScanPatterns("./testdata/missing/*.graphqls")
		assert.EqualError(t, err, "pattern matches no files: ./testdata/missing/*.graphqls")
	})
}

func TestScannerDiamondImports(t *testing.T) {
	scanner := Scanner{}
	file, err := scanner.ScanFile("./testdata/diamond/root.graphqls")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"testdata/diamond/root.graphqls",
		"testdata/diamond/left.graphqls",
		"testdata/diamond/shared.graphqls",
		"testdata/diamond/right.graphqls",
	}, relativePaths(file.Files()))
}

func TestScannerImportCycle(t *testing.T) {
	scanner := Scanner{}
	_, err := scanner.ScanFile("./testdata/import_cycle.graphqls")
	require.Error(t, err)
	assert.Equal(t, "file forms import cycle: testdata/cycle/a/a.graphqls", err.Error())
}

func TestStripImports(t *testing.T) {
	in := []byte("#import \"a.graphqls\"\ntype A { id: ID }\n")
	assert.Equal(t, "\ntype A { id: ID }\n", string(StripImports(in)))
}
