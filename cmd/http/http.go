package http

import "github.com/spf13/cobra"

// NewHTTPCommand groups the API server commands under `klinik http`.
func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "http",
		Aliases: []string{"api"},
		Short:   "Run the REST API",
		Args:    cobra.NoArgs,
	}
	cmd.AddCommand(NewStartCommand())
	return cmd
}
