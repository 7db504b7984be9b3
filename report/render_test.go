package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/font"

	"github.com/zalepa/orderdesk/orders"
	"github.com/zalepa/orderdesk/pdfdoc"
)

func row(school, flavor, qty, delivery string) orders.Row {
	return orders.Row{School: school, Flavor: flavor, Quantity: qty, Delivery: delivery}
}

func TestFileName(t *testing.T) {
	ts := time.Date(2026, 3, 4, 15, 6, 7, 0, time.UTC)
	if got, want := FileName(ts), "Production_Report_20260304_150607.pdf"; got != want {
		t.Errorf("FileName = %q, want %q", got, want)
	}
}

func TestSchoolTable(t *testing.T) {
	tally := orders.TallyRows([]orders.Row{
		row("Lincoln", "Choco", "3", "Pick-up"),
		row("Lincoln", "Caramel", "2", "Ship"),
		row("Lincoln", "Choco", "1", "Ship"),
	})
	tbl := schoolTable(tally, "Lincoln")
	if len(tbl.rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(tbl.rows))
	}
	if tbl.rows[0][0] != "Caramel" || tbl.rows[1][0] != "Choco" {
		t.Errorf("flavors not sorted: %v", tbl.rows)
	}
	if got := fmt.Sprint(tbl.rows[1]); got != "[Choco 3 1]" {
		t.Errorf("Choco row = %s", got)
	}
	if got := fmt.Sprint(tbl.total); got != "[TOTAL 3 3]" {
		t.Errorf("total row = %s", got)
	}

	all := combinedTable(tally)
	if got := fmt.Sprint(all.total); got != "[GRAND TOTAL 3 3 6]" {
		t.Errorf("grand total row = %s", got)
	}
}

func TestRender(t *testing.T) {
	tally := orders.TallyRows([]orders.Row{
		row("Lincoln", "Choco", "3", "Pick-up"),
		row("Adams", "Kettle", "5", "Shipping"),
	})
	var buf bytes.Buffer
	if err := Render(&buf, tally, time.Now()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestWriteFile_Paginates(t *testing.T) {
	var rows []orders.Row
	for s := 0; s < 12; s++ {
		for f := 0; f < 6; f++ {
			rows = append(rows, row(fmt.Sprintf("School %02d", s), fmt.Sprintf("Flavor %d", f), "2", "Pick-up"))
		}
	}
	tally := orders.TallyRows(rows)
	path := filepath.Join(t.TempDir(), FileName(time.Now()))
	if err := WriteFile(path, tally, time.Now()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	pages, err := pdfdoc.PageCount(path)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if pages < 2 {
		t.Errorf("12 school tables fit on %d page(s); expected pagination", pages)
	}
}

func TestRender_EmptyTally(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, orders.NewTally(), time.Now()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty output")
	}
}

func TestSansBoldIsRegularWeightFace(t *testing.T) {
	f := sansBold(12)
	if f.Weight != xfont.WeightNormal {
		t.Errorf("sansBold weight = %v, want normal", f.Weight)
	}
	if !font.DefaultCache.Has(f) {
		t.Fatalf("font %s not in cache", f.Name())
	}
	var buf bytes.Buffer
	tally := orders.TallyRows([]orders.Row{row("Lincoln", "Choco", "3", "Pick-up")})
	if err := Render(&buf, tally, time.Now()); err != nil {
		t.Fatalf("Render with bold headings: %v", err)
	}
}
