package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jensneuse/abstractlogger"
	"github.com/spf13/cobra"

	"github.com/wundergraph/graphql-clientgen/pkg/codegen"
	"github.com/wundergraph/graphql-clientgen/pkg/config"
	"github.com/wundergraph/graphql-clientgen/pkg/imports"
	"github.com/wundergraph/graphql-clientgen/pkg/manifest"
	"github.com/wundergraph/graphql-clientgen/pkg/schema"
)

var (
	generateForce    bool
	generateWatch    bool
	generateDebounce time.Duration
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generates constants, data types and the client API from a schema",
	Long: `generate loads all schema files matched by the configured globs, follows #import comments
and writes the generated packages into the output directory.
Generation is skipped when neither the schema nor the config changed since the last run.`,
	Example: `clientgen generate -s "schema/**/*.graphqls" -o generated --import-path github.com/acme/shows/generated`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, sync, err := newLogger()
		if err != nil {
			return err
		}
		defer sync()

		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		g := &generator{config: cfg, log: log}
		if _, err := g.run(generateForce); err != nil {
			return err
		}
		if !generateWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return g.watch(ctx, generateDebounce)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	config.RegisterFlags(generateCmd.Flags())
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "generate even if the output is up to date")
	generateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "regenerate whenever a schema file changes")
	generateCmd.Flags().DurationVar(&generateDebounce, "debounce", 200*time.Millisecond, "time to wait for further changes before regenerating in watch mode")
}

type generator struct {
	config *config.Config
	log    abstractlogger.Logger
}

// run generates the client unless the output directory is up to date and reports whether files were written.
func (g *generator) run(force bool) (bool, error) {
	s, err := schema.LoadPatterns(g.config.BaseDir, g.config.SchemaPaths...)
	if err != nil {
		return false, err
	}

	digest, err := g.digest(s)
	if err != nil {
		return false, err
	}

	outDir := g.config.ResolvePath(g.config.OutputDir)
	if !force {
		upToDate, err := manifest.UpToDate(outDir, digest)
		if err != nil {
			return false, err
		}
		if upToDate {
			g.log.Info("generate: output is up to date",
				abstractlogger.String("dir", outDir),
			)
			return false, nil
		}
	}

	files, err := codegen.NewGenerator(s, g.config.Codegen(), g.log).Generate()
	if err != nil {
		return false, err
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		paths = append(paths, file.Path)
	}

	previous, err := manifest.Read(outDir)
	if err != nil {
		return false, err
	}
	for _, stale := range manifest.Stale(previous, paths) {
		err := os.Remove(filepath.Join(outDir, filepath.FromSlash(stale)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return false, err
		}
		g.log.Debug("generate: removed stale file",
			abstractlogger.String("file", stale),
		)
	}

	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return false, err
	}
	if err := codegen.WriteFiles(outDir, files); err != nil {
		return false, err
	}
	if err := manifest.Write(outDir, digest, paths); err != nil {
		return false, err
	}

	g.log.Info("generate: wrote client",
		abstractlogger.String("dir", outDir),
		abstractlogger.Int("files", len(files)),
	)
	return true, nil
}

// digest covers the generator version, the effective config and every schema source.
func (g *generator) digest(s *schema.Schema) (string, error) {
	cfg, err := g.config.Marshal()
	if err != nil {
		return "", err
	}
	parts := [][]byte{[]byte(version), cfg}
	for _, source := range s.Sources {
		parts = append(parts, []byte(source.Name), []byte(source.Input))
	}
	return manifest.Digest(parts...), nil
}

// watchDirs returns the directories of all schema files.
func (g *generator) watchDirs() ([]string, error) {
	scanner := imports.Scanner{BaseDir: g.config.BaseDir}
	root, err := scanner.ScanPatterns(g.config.SchemaPaths...)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var dirs []string
	for _, file := range root.Files() {
		dir := filepath.Dir(file.AbsolutePath())
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// watch regenerates after schema files changed until ctx is done.
// Events are debounced so an editor writing several files triggers a single run.
func (g *generator) watch(ctx context.Context, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := map[string]struct{}{}
	if err := g.addWatchDirs(watcher, watched); err != nil {
		return err
	}

	var regenerate <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSchemaFile(event.Name) {
				continue
			}
			g.log.Debug("generate: schema changed",
				abstractlogger.String("event", event.String()),
			)
			regenerate = time.After(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.log.Error("generate: watch failed",
				abstractlogger.Error(err),
			)
		case <-regenerate:
			regenerate = nil
			if _, err := g.run(false); err != nil {
				g.log.Error("generate: regeneration failed",
					abstractlogger.Error(err),
				)
				continue
			}
			// imports may reach schema files in directories not watched yet
			if err := g.addWatchDirs(watcher, watched); err != nil {
				g.log.Error("generate: watch failed",
					abstractlogger.Error(err),
				)
			}
		}
	}
}

// addWatchDirs adds the directories of all schema files that are not in watched yet.
func (g *generator) addWatchDirs(watcher *fsnotify.Watcher, watched map[string]struct{}) error {
	dirs, err := g.watchDirs()
	if err != nil {
		return err
	}
	var added []string
	for _, dir := range dirs {
		if _, ok := watched[dir]; ok {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return err
		}
		watched[dir] = struct{}{}
		added = append(added, dir)
	}
	if len(added) != 0 {
		g.log.Info("generate: watching for schema changes",
			abstractlogger.String("dirs", strings.Join(added, ",")),
		)
	}
	return nil
}

func isSchemaFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".graphql", ".graphqls", ".gql", ".json":
		return true
	}
	return false
}
