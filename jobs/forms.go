package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zalepa/orderdesk/orders"
	"github.com/zalepa/orderdesk/pdfdoc"
	"github.com/zalepa/orderdesk/store"
)

// FormsRequest selects a window of a school's pick-up orders. Limit zero
// uses the runner's MaxOrders; a negative Limit means no cap.
type FormsRequest struct {
	School string
	Offset int
	Limit  int
}

// FormsFileName is the name of the merged order form PDF.
func FormsFileName(school string, generated time.Time) string {
	return strings.ReplaceAll(school, " ", "_") + "_Orders_" + generated.Format("20060102_150405") + ".pdf"
}

// Forms renders one form per pick-up order of the school, sorted by grade
// and student, and merges them into one PDF. Orders that fail to render are
// skipped with a warning.
func (r *Runner) Forms(ctx context.Context, req FormsRequest) (*Result, error) {
	res := r.start("forms")
	school := strings.TrimSpace(req.School)
	if school == "" {
		return res, fmt.Errorf("school name is required")
	}
	if r.Renderer == nil {
		return res, fmt.Errorf("no order form renderer configured")
	}

	res.printf("Looking for order form template...")
	if err := r.Renderer.Prepare(ctx); err != nil {
		return res, err
	}
	res.printf("Found template")

	title := orders.SheetName(school)
	res.printf("Reading %s...", title)
	table, err := store.MustFind(ctx, r.Store, title)
	if err != nil {
		return res, err
	}
	var rows []orders.Row
	if len(table) > 1 {
		for _, rec := range table[1:] {
			rows = append(rows, orders.DecodeSchoolRow(rec))
		}
	}
	res.printf("Found %d rows", len(rows))

	pickups := 0
	for _, row := range rows {
		if row.IsPickup() {
			pickups++
		}
	}
	res.printf("Found %d pick-up rows", pickups)

	all := orders.GroupPickupOrders(rows)
	if len(all) == 0 {
		return res, fmt.Errorf("%s: %w", title, ErrNoPickupOrders)
	}
	res.printf("Grouped into %d unique orders", len(all))
	orders.SortPickupOrders(all)

	offset := max(req.Offset, 0)
	limit := req.Limit
	if limit == 0 {
		limit = r.MaxOrders
	}
	if limit < 0 {
		limit = 0
	}
	batch := orders.Window(all, offset, limit)
	if len(batch) == 0 {
		return res, fmt.Errorf("offset %d is past the last of %d orders", offset, len(all))
	}
	if len(batch) < len(all) {
		res.warnf("WARNING: Processing orders %d-%d of %d", offset+1, offset+len(batch), len(all))
	}

	if err := os.MkdirAll(r.outputDir(), 0o755); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}
	work, err := os.MkdirTemp(r.WorkDir, "orderforms-")
	if err != nil {
		return res, fmt.Errorf("create work directory: %w", err)
	}
	defer os.RemoveAll(work)

	var pages []string
	for i, o := range batch {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.printf("Creating PDF %d/%d: order %s (%s)", i+1, len(batch), o.OrderNumber, o.Student)
		path := filepath.Join(work, fmt.Sprintf("temp_order_%d.pdf", i))
		if err := r.Renderer.Render(ctx, o, path); err != nil {
			res.warnf("  Note: skipped order %s: %v", o.OrderNumber, err)
			continue
		}
		pages = append(pages, path)
	}
	res.printf("Created %d of %d PDFs", len(pages), len(batch))
	if len(pages) == 0 {
		return res, ErrNoFormsRendered
	}

	out := filepath.Join(r.outputDir(), FormsFileName(school, r.now()))
	if err := pdfdoc.Merge(out, pages); err != nil {
		return res, fmt.Errorf("merge order forms: %w", err)
	}
	res.File = out
	res.printf("Combined PDF created: %s", out)
	return res, nil
}

// Schools lists the schools that have a "<School> MASTER" sheet.
func (r *Runner) Schools(ctx context.Context) ([]string, error) {
	titles, err := r.Store.Titles(ctx)
	if err != nil {
		return nil, err
	}
	var schools []string
	for _, t := range titles {
		if school, ok := orders.SchoolFromSheet(t); ok {
			schools = append(schools, school)
		}
	}
	sort.Strings(schools)
	return schools, nil
}
