// Package store reads and writes the worksheets of the order spreadsheet,
// either a Google Sheets spreadsheet or a local .xlsx workbook.
package store

import (
	"context"
	"errors"
	"image/color"
)

// ErrSheetNotFound is returned when a named worksheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrSpreadsheetNotFound is returned when the spreadsheet itself cannot be
// located by name.
var ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

// RowColor assigns a background color to one 1-based sheet row.
type RowColor struct {
	Row   int
	Color color.RGBA
}

// Store is the worksheet surface the jobs need. Rows are 0-based slices of
// cell text; trailing empty cells may be missing.
type Store interface {
	// Titles lists the worksheet titles in spreadsheet order.
	Titles(ctx context.Context) ([]string, error)
	// Values returns every row of the worksheet. found is false when the
	// worksheet does not exist.
	Values(ctx context.Context, title string) (rows [][]string, found bool, err error)
	// AddSheet creates an empty worksheet.
	AddSheet(ctx context.Context, title string) error
	// Write replaces the whole content of the worksheet with rows.
	Write(ctx context.Context, title string, rows [][]string) error
	// StyleHeader formats the first cols cells of row 1 as a header.
	StyleHeader(ctx context.Context, title string, cols int) error
	// Highlight sets row backgrounds in one batch.
	Highlight(ctx context.Context, title string, rows []RowColor) error
}

// Header colors shared by both backends.
var (
	headerBackground = color.RGBA{R: 51, G: 51, B: 51, A: 255}
	headerText       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// MustFind is a convenience for callers that treat a missing sheet as an
// error: it converts found=false into ErrSheetNotFound.
func MustFind(ctx context.Context, s Store, title string) ([][]string, error) {
	rows, found, err := s.Values(ctx, title)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &SheetError{Title: title, Err: ErrSheetNotFound}
	}
	return rows, nil
}

// SheetError names the worksheet an error refers to.
type SheetError struct {
	Title string
	Err   error
}

func (e *SheetError) Error() string {
	return "sheet '" + e.Title + "': " + e.Err.Error()
}

func (e *SheetError) Unwrap() error {
	return e.Err
}
