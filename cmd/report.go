package cmd

import (
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the production report PDF",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, done, err := newRunner(ctx, false)
		if err != nil {
			return err
		}
		defer done()
		res, err := r.Report(ctx)
		printResult(cmd.OutOrStdout(), res)
		return err
	},
}
