package store

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/sheets/v4"
)

// New worksheets are created with this grid size.
const (
	newSheetRows = 1000
	newSheetCols = 20
)

// Sheet ids are re-read after this long so sheets added or removed by hand
// are noticed by a long-running server.
const sheetCacheTTL = time.Minute

// Sheets is a Store backed by a Google Sheets spreadsheet.
type Sheets struct {
	svc *sheets.Service
	id  string

	mu sync.Mutex
	// sheetIDs caches title -> numeric sheet id. It is reset whenever a sheet
	// is added.
	sheetIDs map[string]int64
	titles   []string
	loaded   time.Time
}

// NewSheets wraps svc for the spreadsheet with the given id.
func NewSheets(svc *sheets.Service, spreadsheetID string) *Sheets {
	return &Sheets{svc: svc, id: spreadsheetID}
}

// load fills the sheet id cache. s.mu must be held.
func (s *Sheets) load(ctx context.Context) error {
	if s.sheetIDs != nil && time.Since(s.loaded) < sheetCacheTTL {
		return nil
	}
	resp, err := s.svc.Spreadsheets.Get(s.id).Fields("sheets.properties(sheetId,title)").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	s.sheetIDs = make(map[string]int64, len(resp.Sheets))
	s.titles = s.titles[:0]
	for _, sh := range resp.Sheets {
		if sh.Properties == nil {
			continue
		}
		s.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		s.titles = append(s.titles, sh.Properties.Title)
	}
	s.loaded = time.Now()
	return nil
}

// lookup returns the numeric id of a worksheet.
func (s *Sheets) lookup(ctx context.Context, title string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return 0, false, err
	}
	id, ok := s.sheetIDs[title]
	return id, ok, nil
}

// Titles returns the worksheet titles in spreadsheet order.
func (s *Sheets) Titles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	out := make([]string, len(s.titles))
	copy(out, s.titles)
	return out, nil
}

// Values reads every row of a worksheet. found is false when no worksheet
// has that title.
func (s *Sheets) Values(ctx context.Context, title string) ([][]string, bool, error) {
	_, found, err := s.lookup(ctx, title)
	if err != nil || !found {
		return nil, false, err
	}
	resp, err := s.svc.Spreadsheets.Values.Get(s.id, quoteTitle(title)).Context(ctx).Do()
	if err != nil {
		return nil, true, fmt.Errorf("read %s: %w", title, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		row := make([]string, len(r))
		for j, v := range r {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	return rows, true, nil
}

// AddSheet creates an empty worksheet and drops the cached sheet ids.
func (s *Sheets) AddSheet(ctx context.Context, title string) error {
	req := &sheets.Request{AddSheet: &sheets.AddSheetRequest{
		Properties: &sheets.SheetProperties{
			Title: title,
			GridProperties: &sheets.GridProperties{
				RowCount:    newSheetRows,
				ColumnCount: newSheetCols,
			},
		},
	}}
	if err := s.batch(ctx, req); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	s.mu.Lock()
	s.sheetIDs = nil
	s.mu.Unlock()
	return nil
}

// Write clears a worksheet and writes rows starting at A1.
func (s *Sheets) Write(ctx context.Context, title string, rows [][]string) error {
	rng := quoteTitle(title)
	if _, err := s.svc.Spreadsheets.Values.Clear(s.id, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", title, err)
	}
	if len(rows) == 0 {
		return nil
	}
	vr := &sheets.ValueRange{Values: cells(rows)}
	if _, err := s.svc.Spreadsheets.Values.Update(s.id, rng+"!A1", vr).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write %s: %w", title, err)
	}
	return nil
}

// StyleHeader formats the first cols cells of row 1 as the header.
func (s *Sheets) StyleHeader(ctx context.Context, title string, cols int) error {
	id, found, err := s.lookup(ctx, title)
	if err != nil {
		return err
	}
	if !found {
		return &SheetError{Title: title, Err: ErrSheetNotFound}
	}
	req := &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
		Range: &sheets.GridRange{
			SheetId:          id,
			StartRowIndex:    0,
			EndRowIndex:      1,
			StartColumnIndex: 0,
			EndColumnIndex:   int64(cols),
			ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
		},
		Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
			BackgroundColor: sheetColor(headerBackground),
			TextFormat: &sheets.TextFormat{
				Bold:            true,
				ForegroundColor: sheetColor(headerText),
			},
		}},
		Fields: "userEnteredFormat(backgroundColor,textFormat)",
	}}
	if err := s.batch(ctx, req); err != nil {
		return fmt.Errorf("style %s header: %w", title, err)
	}
	return nil
}

// Highlight sets the background of each listed row in one batch update.
func (s *Sheets) Highlight(ctx context.Context, title string, rows []RowColor) error {
	if len(rows) == 0 {
		return nil
	}
	id, found, err := s.lookup(ctx, title)
	if err != nil {
		return err
	}
	if !found {
		return &SheetError{Title: title, Err: ErrSheetNotFound}
	}
	reqs := make([]*sheets.Request, 0, len(rows))
	for _, rc := range rows {
		reqs = append(reqs, &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:         id,
				StartRowIndex:   int64(rc.Row - 1),
				EndRowIndex:     int64(rc.Row),
				ForceSendFields: []string{"SheetId", "StartRowIndex"},
			},
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				BackgroundColor: sheetColor(rc.Color),
			}},
			Fields: "userEnteredFormat.backgroundColor",
		}})
	}
	if err := s.batch(ctx, reqs...); err != nil {
		return fmt.Errorf("highlight %s: %w", title, err)
	}
	return nil
}

func (s *Sheets) batch(ctx context.Context, reqs ...*sheets.Request) error {
	_, err := s.svc.Spreadsheets.BatchUpdate(s.id, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	return err
}

// quoteTitle returns title as an A1 sheet reference.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func cells(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		row := make([]interface{}, len(r))
		for j, v := range r {
			row[j] = v
		}
		out[i] = row
	}
	return out
}

func sheetColor(c color.RGBA) *sheets.Color {
	return &sheets.Color{
		Red:   float64(c.R) / 255,
		Green: float64(c.G) / 255,
		Blue:  float64(c.B) / 255,
	}
}
