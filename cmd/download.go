package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jensneuse/abstractlogger"
	"github.com/spf13/cobra"

	"github.com/wundergraph/graphql-clientgen/pkg/client"
	"github.com/wundergraph/graphql-clientgen/pkg/introspection"
	"github.com/wundergraph/graphql-clientgen/pkg/schema"
)

var (
	downloadEndpoint string
	downloadHeaders  []string
	downloadOut      string
	downloadTimeout  time.Duration
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:     "download",
	Short:   "Downloads the schema of a GraphQL endpoint via introspection",
	Example: `clientgen download -e http://localhost:8080/graphql -H "Authorization=Bearer token" -o schema/schema.graphqls`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, sync, err := newLogger()
		if err != nil {
			return err
		}
		defer sync()

		options := []client.Option{
			client.WithHTTPClient(&http.Client{Timeout: downloadTimeout}),
			client.WithLogger(log),
		}
		for _, header := range downloadHeaders {
			key, value, ok := strings.Cut(header, "=")
			if !ok {
				return fmt.Errorf("invalid header %q, expected key=value", header)
			}
			options = append(options, client.WithHeader(strings.TrimSpace(key), strings.TrimSpace(value)))
		}

		data, err := client.New(downloadEndpoint, options...).Introspect(cmd.Context())
		if err != nil {
			return err
		}

		converter := introspection.JsonConverter{}
		sdl, err := converter.GraphQLSchema(bytes.NewReader(data))
		if err != nil {
			return err
		}
		if _, err := schema.LoadString(downloadEndpoint, string(sdl)); err != nil {
			return fmt.Errorf("downloaded schema is invalid: %w", err)
		}

		if downloadOut == "" || downloadOut == "-" {
			_, err = cmd.OutOrStdout().Write(sdl)
			return err
		}
		if err := os.WriteFile(downloadOut, sdl, 0644); err != nil {
			return err
		}
		log.Info("download: wrote schema",
			abstractlogger.String("endpoint", downloadEndpoint),
			abstractlogger.String("file", downloadOut),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadEndpoint, "endpoint", "e", "", "endpoint is the URL of the GraphQL server (required)")
	_ = downloadCmd.MarkFlagRequired("endpoint")

	downloadCmd.Flags().StringArrayVarP(&downloadHeaders, "header", "H", nil, "header sent with the introspection request as key=value, repeatable")
	downloadCmd.Flags().StringVarP(&downloadOut, "out", "o", "", "out is the file to write the SDL to, stdout if empty")
	downloadCmd.Flags().DurationVar(&downloadTimeout, "timeout", 30*time.Second, "timeout of the introspection request")
}
