package cmd

import (
	"github.com/spf13/cobra"
)

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Color MASTER rows by school and update the school sheets",
	Long: `Reads the MASTER sheet, gives every school a background color, and
creates or updates a "<School> MASTER" sheet per school. Orders already on a
school sheet are left alone, so running it again is safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, done, err := newRunner(ctx, false)
		if err != nil {
			return err
		}
		defer done()
		res, err := r.Organize(ctx)
		printResult(cmd.OutOrStdout(), res)
		return err
	},
}
