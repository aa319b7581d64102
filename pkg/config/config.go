// Package config loads the generator configuration from .clientgen.yaml, CLIENTGEN_ environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/wundergraph/graphql-clientgen/pkg/codegen"
)

const (
	FileName  = ".clientgen.yaml"
	EnvPrefix = "CLIENTGEN"
)

type Config struct {
	SchemaPaths      []string `mapstructure:"schemaPaths" yaml:"schemaPaths"`
	OutputDir        string   `mapstructure:"outputDir" yaml:"outputDir"`
	ImportPath       string   `mapstructure:"importPath" yaml:"importPath"`
	ConstantsPackage string   `mapstructure:"constantsPackage" yaml:"constantsPackage"`
	TypesPackage     string   `mapstructure:"typesPackage" yaml:"typesPackage"`
	ClientPackage    string   `mapstructure:"clientPackage" yaml:"clientPackage"`

	// TypeMapping maps GraphQL types to Go types, e.g. DateTime: time.Time.
	TypeMapping map[string]string `mapstructure:"-" yaml:"typeMapping,omitempty"`

	GenerateConstants bool `mapstructure:"generateConstants" yaml:"generateConstants"`
	GenerateDataTypes bool `mapstructure:"generateDataTypes" yaml:"generateDataTypes"`
	GenerateBuilders  bool `mapstructure:"generateBuilders" yaml:"generateBuilders"`
	GenerateClientAPI bool `mapstructure:"generateClientApi" yaml:"generateClientApi"`

	IncludeQueries       []string `mapstructure:"includeQueries" yaml:"includeQueries,omitempty"`
	IncludeMutations     []string `mapstructure:"includeMutations" yaml:"includeMutations,omitempty"`
	IncludeSubscriptions []string `mapstructure:"includeSubscriptions" yaml:"includeSubscriptions,omitempty"`
	SkipTypes            []string `mapstructure:"skipTypes" yaml:"skipTypes,omitempty"`

	// BaseDir is the directory relative schema paths and the output directory are resolved against.
	// It is the directory of the config file, or the working directory without one.
	BaseDir string `mapstructure:"-" yaml:"-"`
}

func Default() Config {
	generator := codegen.DefaultConfig()
	return Config{
		SchemaPaths:       []string{"schema/**/*.graphqls"},
		OutputDir:         "generated",
		ConstantsPackage:  generator.ConstantsPackage,
		TypesPackage:      generator.TypesPackage,
		ClientPackage:     generator.ClientPackage,
		GenerateConstants: generator.GenerateConstants,
		GenerateDataTypes: generator.GenerateDataTypes,
		GenerateBuilders:  generator.GenerateBuilders,
		GenerateClientAPI: generator.GenerateClientAPI,
	}
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"schema":               "schemaPaths",
	"out":                  "outputDir",
	"import-path":          "importPath",
	"constants-package":    "constantsPackage",
	"types-package":        "typesPackage",
	"client-package":       "clientPackage",
	"generate-constants":   "generateConstants",
	"generate-data-types":  "generateDataTypes",
	"generate-builders":    "generateBuilders",
	"generate-client-api":  "generateClientApi",
	"include-query":        "includeQueries",
	"include-mutation":     "includeMutations",
	"include-subscription": "includeSubscriptions",
	"skip-type":            "skipTypes",
}

const typeMappingFlag = "type-mapping"

// RegisterFlags adds the flags overriding config values to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.StringSliceP("schema", "s", nil, "schema files or doublestar globs, .json files are read as introspection results")
	flags.StringP("out", "o", "", "output directory (default \""+d.OutputDir+"\")")
	flags.String("import-path", "", "Go import path of the output directory")
	flags.String("constants-package", "", "package name for constants (default \""+d.ConstantsPackage+"\")")
	flags.String("types-package", "", "package name for data types (default \""+d.TypesPackage+"\")")
	flags.String("client-package", "", "package name for the client API (default \""+d.ClientPackage+"\")")
	flags.Bool("generate-constants", true, "generate type and field name constants")
	flags.Bool("generate-data-types", true, "generate enums, inputs, objects, interfaces and unions")
	flags.Bool("generate-builders", true, "generate builders for inputs and objects")
	flags.Bool("generate-client-api", true, "generate operation builders and projections")
	flags.StringSlice("include-query", nil, "only generate client code for these query fields")
	flags.StringSlice("include-mutation", nil, "only generate client code for these mutation fields")
	flags.StringSlice("include-subscription", nil, "only generate client code for these subscription fields")
	flags.StringSlice("skip-type", nil, "GraphQL types to leave out")
	flags.StringToString(typeMappingFlag, nil, "GraphQL type to Go type, e.g. DateTime=time.Time")
}

// Load reads configFile, or .clientgen.yaml from the working directory or $HOME/.config/clientgen when empty.
// Environment variables prefixed with CLIENTGEN_ override the file, changed flags override both.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "clientgen"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for flag, key := range flagKeys {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		abs, err := filepath.Abs(used)
		if err != nil {
			return nil, err
		}
		c.BaseDir = filepath.Dir(abs)
		if c.TypeMapping, err = readTypeMapping(abs); err != nil {
			return nil, err
		}
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		c.BaseDir = wd
	}

	if flags != nil {
		if f := flags.Lookup(typeMappingFlag); f != nil && f.Changed {
			mapping, err := flags.GetStringToString(typeMappingFlag)
			if err != nil {
				return nil, err
			}
			if c.TypeMapping == nil {
				c.TypeMapping = map[string]string{}
			}
			for graphqlType, goType := range mapping {
				c.TypeMapping[graphqlType] = goType
			}
		}
	}

	return c, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("schemaPaths", d.SchemaPaths)
	v.SetDefault("outputDir", d.OutputDir)
	v.SetDefault("importPath", d.ImportPath)
	v.SetDefault("constantsPackage", d.ConstantsPackage)
	v.SetDefault("typesPackage", d.TypesPackage)
	v.SetDefault("clientPackage", d.ClientPackage)
	v.SetDefault("generateConstants", d.GenerateConstants)
	v.SetDefault("generateDataTypes", d.GenerateDataTypes)
	v.SetDefault("generateBuilders", d.GenerateBuilders)
	v.SetDefault("generateClientApi", d.GenerateClientAPI)
	v.SetDefault("includeQueries", []string{})
	v.SetDefault("includeMutations", []string{})
	v.SetDefault("includeSubscriptions", []string{})
	v.SetDefault("skipTypes", []string{})
}

// readTypeMapping reads typeMapping with yaml directly, viper lowercases map keys and GraphQL names are case sensitive.
func readTypeMapping(configFile string) (map[string]string, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}
	var raw struct {
		TypeMapping map[string]string `yaml:"typeMapping"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to read typeMapping from %s: %w", configFile, err)
	}
	return raw.TypeMapping, nil
}

// Validate reports every problem of the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if len(c.SchemaPaths) == 0 {
		errs = append(errs, errors.New("no schema paths configured"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.GenerateClientAPI && c.ImportPath == "" {
		errs = append(errs, errors.New("import path is required to generate the client API"))
	}
	if c.GenerateClientAPI && !c.GenerateDataTypes {
		errs = append(errs, errors.New("the client API requires data types"))
	}

	packages := map[string]string{}
	for _, pkg := range []struct{ key, name string }{
		{"constantsPackage", c.ConstantsPackage},
		{"typesPackage", c.TypesPackage},
		{"clientPackage", c.ClientPackage},
	} {
		if !token.IsIdentifier(pkg.name) || strings.ToLower(pkg.name) != pkg.name {
			errs = append(errs, fmt.Errorf("%s: invalid package name %q", pkg.key, pkg.name))
			continue
		}
		if other, ok := packages[pkg.name]; ok {
			errs = append(errs, fmt.Errorf("%s: package name %q is already used by %s", pkg.key, pkg.name, other))
			continue
		}
		packages[pkg.name] = pkg.key
	}

	return errors.Join(errs...)
}

// ResolvePath resolves p against BaseDir unless it is absolute.
func (c *Config) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Codegen returns the generator options.
func (c *Config) Codegen() codegen.Config {
	return codegen.Config{
		ImportPath:           c.ImportPath,
		ConstantsPackage:     c.ConstantsPackage,
		TypesPackage:         c.TypesPackage,
		ClientPackage:        c.ClientPackage,
		TypeMapping:          c.TypeMapping,
		GenerateConstants:    c.GenerateConstants,
		GenerateDataTypes:    c.GenerateDataTypes,
		GenerateBuilders:     c.GenerateBuilders,
		GenerateClientAPI:    c.GenerateClientAPI,
		IncludeQueries:       c.IncludeQueries,
		IncludeMutations:     c.IncludeMutations,
		IncludeSubscriptions: c.IncludeSubscriptions,
		SkipTypes:            c.SkipTypes,
	}
}

// Marshal renders the config as yaml, map keys sorted.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile writes the config as yaml to path.
func (c *Config) WriteFile(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
