package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

var schemaWrite bool

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:     "schema FILE",
	Short:   "schema formats a graphql schema file to std out",
	Example: "clientgen fmt schema starwars.graphqls > formatted.graphqls",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("schema: must provide 1 arg (fileName)")
		}

		fileName := args[0]
		data, err := os.ReadFile(fileName)
		if err != nil {
			return err
		}

		doc, err := parser.ParseSchema(&ast.Source{Name: fileName, Input: string(data)})
		if err != nil {
			return err
		}

		buf := bytes.Buffer{}
		formatter.NewFormatter(&buf).FormatSchemaDocument(doc)

		if schemaWrite {
			return os.WriteFile(fileName, buf.Bytes(), 0644)
		}
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	},
}

func init() {
	fmtCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolVarP(&schemaWrite, "write", "w", false, "write the result to the file instead of stdout")
}
