package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/zalepa/orderdesk/jobs"
)

var formsOpts jobs.FormsRequest

var formsCmd = &cobra.Command{
	Use:   "forms <school>",
	Short: "Write the pick-up order forms of a school as one PDF",
	Long: `Fills the order form template once per pick-up order of the school,
sorted by grade and student, and merges the pages into one PDF.

Large schools can be done in batches:
  orderdesk forms Lincoln --limit 50
  orderdesk forms Lincoln --limit 50 --offset 50`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, done, err := newRunner(ctx, true)
		if err != nil {
			return err
		}
		defer done()
		req := formsOpts
		req.School = strings.Join(args, " ")
		res, err := r.Forms(ctx, req)
		printResult(cmd.OutOrStdout(), res)
		return err
	},
}

func init() {
	formsCmd.Flags().IntVar(&formsOpts.Offset, "offset", 0, "skip this many orders")
	formsCmd.Flags().IntVar(&formsOpts.Limit, "limit", 0, "render at most this many orders (0 uses forms.max_orders, -1 renders all)")
}
