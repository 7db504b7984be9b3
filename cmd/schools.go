package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schoolsCmd = &cobra.Command{
	Use:   "schools",
	Short: "List schools that have a school sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, done, err := newRunner(ctx, false)
		if err != nil {
			return err
		}
		defer done()
		schools, err := r.Schools(ctx)
		if err != nil {
			return err
		}
		for _, s := range schools {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}
