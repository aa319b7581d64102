package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wundergraph/graphql-clientgen/pkg/config"
)

var (
	initImportPath string
	initOverwrite  bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Writes a starter " + config.FileName + " into the working directory",
	Example: "clientgen init --import-path github.com/acme/shows/generated",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(config.FileName); err == nil && !initOverwrite {
			return fmt.Errorf("%s already exists, use --overwrite to replace it", config.FileName)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		c := config.Default()
		c.ImportPath = initImportPath
		c.TypeMapping = map[string]string{}
		if err := c.WriteFile(config.FileName); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", config.FileName)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initImportPath, "import-path", "", "Go import path of the generated packages")
	initCmd.Flags().BoolVar(&initOverwrite, "overwrite", false, "replace an existing config file")
}
