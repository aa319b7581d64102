package cmd

import (
	"fmt"
	"os"

	"github.com/jensneuse/abstractlogger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clientgen",
	Short: "Generates typed Go GraphQL clients from a schema",
	Long: `clientgen reads a GraphQL schema and generates Go code to talk to it:
constants for type and field names, data types with builders,
and a client API with operation builders and projections to select fields.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.clientgen.yaml or $HOME/.config/clientgen/.clientgen.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enables debug logging")
}

// newLogger returns a zap backed logger writing to stderr.
func newLogger() (abstractlogger.Logger, func(), error) {
	level := zapcore.InfoLevel
	logLevel := abstractlogger.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
		logLevel = abstractlogger.DebugLevel
	}

	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.DisableStacktrace = !verbose
	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, nil, err
	}
	return abstractlogger.NewZapLogger(zapLogger, logLevel), func() { _ = zapLogger.Sync() }, nil
}
