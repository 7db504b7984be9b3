package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalepa/orderdesk/orders"
	"github.com/zalepa/orderdesk/report"
)

// Report tallies bags per school and flavor from the MASTER sheet and writes
// the production report PDF to the output directory.
func (r *Runner) Report(ctx context.Context) (*Result, error) {
	res := r.start("report")
	_, rows, err := r.readMaster(ctx, res)
	if err != nil {
		return res, err
	}

	tally := orders.TallyRows(rows)
	res.printf("Counted %d rows with a school, flavor and quantity", tally.Rows)
	res.printf("Found %d schools", len(tally.Schools))
	res.printf("Found %d flavors", len(tally.Flavors))

	if err := os.MkdirAll(r.outputDir(), 0o755); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}
	now := r.now()
	path := filepath.Join(r.outputDir(), report.FileName(now))
	if err := report.WriteFile(path, tally, now); err != nil {
		return res, fmt.Errorf("write report: %w", err)
	}
	res.File = path

	total := tally.GrandTotal()
	res.printf("PDF created: %s", path)
	res.printf("Grand total: %d bags", total.Total())
	res.printf("  Pick-up: %d", total.Pickup)
	res.printf("  Shipping: %d", total.Shipping)
	return res, nil
}
