package jobs

import (
	"context"
	"fmt"

	"github.com/zalepa/orderdesk/orders"
	"github.com/zalepa/orderdesk/store"
)

// Organize highlights every MASTER row with its school's color and brings
// each "<School> MASTER" sheet up to date. Running it twice without new
// MASTER rows leaves every school sheet unchanged.
func (r *Runner) Organize(ctx context.Context) (*Result, error) {
	res := r.start("organize")
	header, rows, err := r.readMaster(ctx, res)
	if err != nil {
		return res, err
	}

	groups := orders.GroupBySchool(rows)
	res.printf("Found %d schools", len(groups))
	for _, p := range orders.SimilarSchools(groups) {
		res.warnf("WARNING: '%s' and '%s' look like the same school", p.First, p.Second)
	}

	var marks []store.RowColor
	for _, g := range groups {
		c := orders.SchoolColor(g.Index)
		for _, row := range g.Rows {
			marks = append(marks, store.RowColor{Row: row.Line, Color: c})
		}
	}
	if len(marks) > 0 {
		if err := r.Store.Highlight(ctx, r.master(), marks); err != nil {
			return res, fmt.Errorf("highlight %s: %w", r.master(), err)
		}
		res.printf("Highlighted %d rows in %s", len(marks), r.master())
	}

	schoolHeader := orders.SchoolHeader(header)
	for _, g := range groups {
		if err := r.syncSchool(ctx, res, schoolHeader, g); err != nil {
			return res, err
		}
	}
	res.printf("COMPLETE! Processed %d schools", len(groups))
	return res, nil
}

func (r *Runner) readMaster(ctx context.Context, res *Result) ([]string, []orders.Row, error) {
	res.printf("Reading %s sheet...", r.master())
	table, err := store.MustFind(ctx, r.Store, r.master())
	if err != nil {
		return nil, nil, err
	}
	header, rows, err := orders.DecodeMaster(table)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet '%s': %w", r.master(), err)
	}
	res.printf("Found %d rows", len(rows))
	return header, rows, nil
}

// syncSchool creates the school sheet or merges new orders into it. Existing
// rows are kept; the sheet is rewritten only when orders were added.
func (r *Runner) syncSchool(ctx context.Context, res *Result, header []string, g orders.SchoolGroup) error {
	title := orders.SheetName(g.School)
	existing, found, err := r.Store.Values(ctx, title)
	if err != nil {
		return err
	}

	if !found {
		records := g.Records()
		orders.SortByOrderDesc(records)
		if err := r.Store.AddSheet(ctx, title); err != nil {
			return fmt.Errorf("create %s: %w", title, err)
		}
		if err := r.writeSchool(ctx, title, header, records); err != nil {
			return err
		}
		res.printf("Created %s with %d orders", title, len(records))
		return nil
	}

	var data [][]string
	if len(existing) > 1 {
		data = existing[1:]
	}
	merged, added := orders.MergeNew(data, g.Records())
	if added == 0 {
		res.printf("%s is up to date (%d orders)", title, len(data))
		return nil
	}
	if err := r.writeSchool(ctx, title, header, merged); err != nil {
		return err
	}
	res.printf("Added %d new orders to %s", added, title)
	res.printf("%s re-sorted with %d total orders", title, len(merged))
	return nil
}

func (r *Runner) writeSchool(ctx context.Context, title string, header []string, records [][]string) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, header)
	rows = append(rows, records...)
	if err := r.Store.Write(ctx, title, rows); err != nil {
		return fmt.Errorf("write %s: %w", title, err)
	}
	if err := r.Store.StyleHeader(ctx, title, len(header)); err != nil {
		return fmt.Errorf("format %s header: %w", title, err)
	}
	return nil
}
