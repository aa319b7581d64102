package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X github.com/wundergraph/graphql-clientgen/cmd.version=v1.0.0".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the clientgen version",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "clientgen %s %s/%s\n", version, runtime.GOOS, runtime.GOARCH)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
