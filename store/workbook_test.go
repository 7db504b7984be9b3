package store

import (
	"context"
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func tempWorkbook(t *testing.T) (*Workbook, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "MASTER"); err != nil {
		t.Fatal(err)
	}
	f.SetSheetRow("MASTER", "A1", &[]string{"Order", "Name"})
	f.SetSheetRow("MASTER", "A2", &[]string{"5001", "Alice"})
	f.SetSheetRow("MASTER", "A3", &[]string{"5002"})
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	f.Close()

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb, path
}

func TestWorkbook_Values(t *testing.T) {
	wb, _ := tempWorkbook(t)
	ctx := context.Background()

	rows, found, err := wb.Values(ctx, "MASTER")
	if err != nil || !found {
		t.Fatalf("Values = found %v, err %v", found, err)
	}
	want := [][]string{{"Order", "Name"}, {"5001", "Alice"}, {"5002"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	_, found, err = wb.Values(ctx, "Lincoln MASTER")
	if err != nil || found {
		t.Errorf("missing sheet: found %v, err %v", found, err)
	}
}

func TestWorkbook_AddWrite(t *testing.T) {
	wb, path := tempWorkbook(t)
	ctx := context.Background()
	const title = "Lincoln MASTER"

	if err := wb.AddSheet(ctx, title); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.Write(ctx, title, [][]string{{"Order"}, {"3"}, {"2"}, {"1"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := wb.StyleHeader(ctx, title, 9); err != nil {
		t.Fatalf("StyleHeader: %v", err)
	}
	if err := wb.Write(ctx, title, [][]string{{"Order"}, {"9"}}); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	// Reopen from disk: every mutation must have been saved.
	again, err := OpenWorkbook(path)
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()
	rows, found, err := again.Values(ctx, title)
	if err != nil || !found {
		t.Fatalf("Values after reopen: found %v, err %v", found, err)
	}
	want := [][]string{{"Order"}, {"9"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	titles, err := again.Titles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"MASTER", title}, titles); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkbook_WriteMissingSheet(t *testing.T) {
	wb, _ := tempWorkbook(t)
	err := wb.Write(context.Background(), "Nope MASTER", [][]string{{"x"}})
	if !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("err = %v, want ErrSheetNotFound", err)
	}
}

func TestWorkbook_Highlight(t *testing.T) {
	wb, _ := tempWorkbook(t)
	pink := color.RGBA{R: 255, G: 230, B: 230, A: 255}
	err := wb.Highlight(context.Background(), "MASTER", []RowColor{{Row: 2, Color: pink}, {Row: 3, Color: pink}})
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	a2, err := wb.f.GetCellStyle("MASTER", "A2")
	if err != nil {
		t.Fatal(err)
	}
	a3, _ := wb.f.GetCellStyle("MASTER", "A3")
	if a2 == 0 || a2 != a3 {
		t.Errorf("row styles = %d, %d; want one shared non-default style", a2, a3)
	}
}

func TestMustFind(t *testing.T) {
	wb, _ := tempWorkbook(t)
	_, err := MustFind(context.Background(), wb, "Adams MASTER")
	if !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("err = %v, want ErrSheetNotFound", err)
	}
	if got := err.Error(); got != "sheet 'Adams MASTER': sheet not found" {
		t.Errorf("message = %q", got)
	}
}

func TestHex(t *testing.T) {
	if got := hex(color.RGBA{R: 51, G: 51, B: 51}); got != "#333333" {
		t.Errorf("hex = %q", got)
	}
}
