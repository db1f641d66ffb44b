package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the configuration status of every data provider",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		a, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		out, err := a.handlers.Status(ctx)
		if err != nil {
			return err
		}

		return printJSON(out)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
