package store

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Workbook is a Store backed by a local .xlsx file. Every mutation is saved
// to disk before returning. It is safe for concurrent use.
type Workbook struct {
	mu   sync.Mutex
	path string
	f    *excelize.File
}

// OpenWorkbook opens path, creating an empty workbook when the file does not
// exist yet.
func OpenWorkbook(path string) (*Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Workbook{path: path, f: excelize.NewFile()}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, f: f}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// Titles returns the sheet names in workbook order.
func (w *Workbook) Titles(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.GetSheetList(), nil
}

func (w *Workbook) exists(title string) bool {
	idx, err := w.f.GetSheetIndex(title)
	return err == nil && idx >= 0
}

// Values reads every row of a sheet. found is false when no sheet has that
// title.
func (w *Workbook) Values(ctx context.Context, title string) ([][]string, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.exists(title) {
		return nil, false, nil
	}
	rows, err := w.f.GetRows(title)
	if err != nil {
		return nil, true, fmt.Errorf("read %s: %w", title, err)
	}
	return rows, true, nil
}

// AddSheet creates an empty sheet and saves the workbook.
func (w *Workbook) AddSheet(ctx context.Context, title string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.f.NewSheet(title); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	return w.save()
}

// Write replaces the contents of a sheet with rows.
func (w *Workbook) Write(ctx context.Context, title string, rows [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.exists(title) {
		return &SheetError{Title: title, Err: ErrSheetNotFound}
	}
	old, err := w.f.GetRows(title)
	if err != nil {
		return fmt.Errorf("read %s: %w", title, err)
	}
	// Clear cell values beyond the new content so a shorter rewrite leaves no
	// stale rows behind.
	for i := len(old); i > len(rows); i-- {
		if err := w.f.RemoveRow(title, i); err != nil {
			return fmt.Errorf("clear %s row %d: %w", title, i, err)
		}
	}
	for i, row := range rows {
		if i < len(old) && len(old[i]) > len(row) {
			pad := make([]string, len(old[i]))
			copy(pad, row)
			row = pad
		}
		if err := w.setRow(title, i+1, row); err != nil {
			return err
		}
	}
	return w.save()
}

func (w *Workbook) setRow(title string, line int, row []string) error {
	cellRef, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(title, cellRef, &row); err != nil {
		return fmt.Errorf("write %s row %d: %w", title, line, err)
	}
	return nil
}

// StyleHeader formats the first cols cells of row 1 as the header.
func (w *Workbook) StyleHeader(ctx context.Context, title string, cols int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	style, err := w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: hex(headerText)},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex(headerBackground)}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(title, "A1", last, style); err != nil {
		return fmt.Errorf("style %s header: %w", title, err)
	}
	return w.save()
}

// Highlight sets the fill of each listed row.
func (w *Workbook) Highlight(ctx context.Context, title string, rows []RowColor) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(rows) == 0 {
		return nil
	}
	styles := make(map[color.RGBA]int)
	for _, rc := range rows {
		id, ok := styles[rc.Color]
		if !ok {
			var err error
			id, err = w.f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex(rc.Color)}},
			})
			if err != nil {
				return fmt.Errorf("highlight style: %w", err)
			}
			styles[rc.Color] = id
		}
		if err := w.f.SetRowStyle(title, rc.Row, rc.Row, id); err != nil {
			return fmt.Errorf("highlight %s row %d: %w", title, rc.Row, err)
		}
	}
	return w.save()
}

func (w *Workbook) save() error {
	if err := w.f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	return nil
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
