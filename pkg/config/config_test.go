package config

import (
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configYAML = `
schemaPaths:
  - schema/**/*.graphqls
outputDir: gen
importPath: github.com/acme/shows/gen
typeMapping:
  DateTime: time.Time
  JSON: encoding/json.RawMessage
generateBuilders: false
includeQueries:
  - shows
skipTypes:
  - Internal
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoad(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := writeConfig(t, configYAML)

		c, err := Load(path, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"schema/**/*.graphqls"}, c.SchemaPaths)
		assert.Equal(t, "gen", c.OutputDir)
		assert.Equal(t, "github.com/acme/shows/gen", c.ImportPath)
		assert.Equal(t, map[string]string{
			"DateTime": "time.Time",
			"JSON":     "encoding/json.RawMessage",
		}, c.TypeMapping)
		assert.False(t, c.GenerateBuilders)
		assert.True(t, c.GenerateDataTypes)
		assert.Equal(t, "types", c.TypesPackage)
		assert.Equal(t, []string{"shows"}, c.IncludeQueries)
		assert.Equal(t, []string{"Internal"}, c.SkipTypes)
		assert.Equal(t, filepath.Dir(path), c.BaseDir)
		assert.Equal(t, filepath.Join(filepath.Dir(path), "gen"), c.ResolvePath(c.OutputDir))
		assert.NoError(t, c.Validate())
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := writeConfig(t, configYAML)
		t.Setenv("CLIENTGEN_OUTPUTDIR", "from-env")
		t.Setenv("CLIENTGEN_TYPESPACKAGE", "model")

		c, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "from-env", c.OutputDir)
		assert.Equal(t, "model", c.TypesPackage)
	})

	t.Run("flags override env and file", func(t *testing.T) {
		path := writeConfig(t, configYAML)
		t.Setenv("CLIENTGEN_OUTPUTDIR", "from-env")

		flags := newFlags(t,
			"--out", "from-flag",
			"--schema", "a.graphqls,b.graphqls",
			"--generate-builders=true",
			"--type-mapping", "DateTime=github.com/acme/dates.Date",
		)
		c, err := Load(path, flags)
		require.NoError(t, err)

		assert.Equal(t, "from-flag", c.OutputDir)
		assert.Equal(t, []string{"a.graphqls", "b.graphqls"}, c.SchemaPaths)
		assert.True(t, c.GenerateBuilders)
		assert.Equal(t, "github.com/acme/dates.Date", c.TypeMapping["DateTime"])
		assert.Equal(t, "encoding/json.RawMessage", c.TypeMapping["JSON"])
	})

	t.Run("unchanged flags keep file values", func(t *testing.T) {
		c, err := Load(writeConfig(t, configYAML), newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "gen", c.OutputDir)
		assert.False(t, c.GenerateBuilders)
	})

	t.Run("defaults without file", func(t *testing.T) {
		homedir.DisableCache = true
		t.Cleanup(func() { homedir.DisableCache = false })
		t.Setenv("HOME", t.TempDir())

		c, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, Default().SchemaPaths, c.SchemaPaths)
		assert.Equal(t, "generated", c.OutputDir)
		assert.True(t, c.GenerateClientAPI)

		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, wd, c.BaseDir)
	})

	t.Run("home config", func(t *testing.T) {
		homedir.DisableCache = true
		t.Cleanup(func() { homedir.DisableCache = false })
		home := t.TempDir()
		t.Setenv("HOME", home)

		dir := filepath.Join(home, ".config", "clientgen")
		require.NoError(t, os.MkdirAll(dir, os.ModePerm))
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("outputDir: from-home\n"), 0644))

		c, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, "from-home", c.OutputDir)
		assert.Equal(t, dir, c.BaseDir)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		assert.ErrorContains(t, err, "failed to read config")
	})
}

func TestConfig_Validate(t *testing.T) {
	c := Default()
	c.SchemaPaths = nil
	c.OutputDir = ""
	c.TypesPackage = "Types"
	c.ClientPackage = "constants"

	err := c.Validate()
	require.Error(t, err)
	assert.Equal(t, `no schema paths configured
output directory is required
import path is required to generate the client API
typesPackage: invalid package name "Types"
clientPackage: package name "constants" is already used by constantsPackage`, err.Error())

	c = Default()
	c.GenerateClientAPI = false
	assert.NoError(t, c.Validate())
}

func TestConfig_Codegen(t *testing.T) {
	c, err := Load(writeConfig(t, configYAML), nil)
	require.NoError(t, err)

	generator := c.Codegen()
	assert.Equal(t, "github.com/acme/shows/gen", generator.ImportPath)
	assert.Equal(t, "time.Time", generator.TypeMapping["DateTime"])
	assert.False(t, generator.GenerateBuilders)
	assert.Equal(t, []string{"Internal"}, generator.SkipTypes)
}

func TestConfig_WriteFile(t *testing.T) {
	c := Default()
	c.ImportPath = "github.com/acme/shows/generated"
	c.TypeMapping = map[string]string{"DateTime": "time.Time"}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, c.WriteFile(path))

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, c.ImportPath, loaded.ImportPath)
	assert.Equal(t, c.TypeMapping, loaded.TypeMapping)
	assert.Equal(t, c.SchemaPaths, loaded.SchemaPaths)
	assert.True(t, loaded.GenerateBuilders)
}
