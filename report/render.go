// Package report renders the production report PDF: one bag-count table per
// school followed by a combined table for all schools.
package report

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/zalepa/orderdesk/orders"
)

const (
	pageWidth  = 8.5 * vg.Inch
	pageHeight = 11 * vg.Inch
	pdfMargin  = 0.75 * vg.Inch

	rowHeight    = 0.3 * vg.Inch
	headerHeight = 0.38 * vg.Inch
)

// CombinedTitle heads the all-schools table.
const CombinedTitle = "ALL SCHOOLS - TOTAL PRODUCTION NEEDED"

var (
	slate      = color.RGBA{R: 0x2d, G: 0x37, B: 0x48, A: 255}
	gray       = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	lightGray  = color.RGBA{R: 211, G: 211, B: 211, A: 255}
	beige      = color.RGBA{R: 245, G: 245, B: 220, A: 255}
	green      = color.RGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 255}
	whiteSmoke = color.RGBA{R: 245, G: 245, B: 245, A: 255}
)

// FileName returns the report file name for a generation time.
func FileName(generated time.Time) string {
	return "Production_Report_" + generated.Format("20060102_150405") + ".pdf"
}

// WriteFile renders the report for tally into path.
func WriteFile(path string, tally *orders.Tally, generated time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, tally, generated); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Render writes the report for tally as a PDF to w.
func Render(w io.Writer, tally *orders.Tally, generated time.Time) error {
	c := vgpdf.New(pageWidth, pageHeight)
	p := newLayout(c)

	p.text("Production Report", sansBold(24), slate, draw.XCenter)
	p.gap(vg.Points(6))
	p.text("Generated: "+generated.Format("January 02, 2006 at 03:04 PM"), sans(10), color.Black, draw.XLeft)
	p.gap(0.3 * vg.Inch)

	for _, school := range tally.SchoolNames() {
		p.section(school, schoolTable(tally, school))
	}
	p.section(CombinedTitle, combinedTable(tally))

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// table is a grid of centered cells with a styled header and totals row.
type table struct {
	widths []vg.Length
	header []string
	rows   [][]string
	total  []string

	headerFill color.Color
	totalFill  color.Color
	totalText  color.Color
}

func schoolTable(tally *orders.Tally, school string) table {
	t := table{
		widths:     []vg.Length{3 * vg.Inch, 1.5 * vg.Inch, 1.5 * vg.Inch},
		header:     []string{"Flavor", "Pick-up", "Shipping"},
		headerFill: gray,
		totalFill:  beige,
		totalText:  color.Black,
	}
	for _, flavor := range tally.FlavorNames(school) {
		c := tally.Schools[school][flavor]
		t.rows = append(t.rows, []string{flavor, strconv.Itoa(c.Pickup), strconv.Itoa(c.Shipping)})
	}
	total := tally.SchoolTotal(school)
	t.total = []string{"TOTAL", strconv.Itoa(total.Pickup), strconv.Itoa(total.Shipping)}
	return t
}

func combinedTable(tally *orders.Tally) table {
	t := table{
		widths:     []vg.Length{2.5 * vg.Inch, 1.3 * vg.Inch, 1.3 * vg.Inch, 1.3 * vg.Inch},
		header:     []string{"Flavor", "Pick-up", "Shipping", "TOTAL"},
		headerFill: slate,
		totalFill:  green,
		totalText:  whiteSmoke,
	}
	for _, flavor := range tally.FlavorNames("") {
		c := tally.Flavors[flavor]
		t.rows = append(t.rows, []string{flavor, strconv.Itoa(c.Pickup), strconv.Itoa(c.Shipping), strconv.Itoa(c.Total())})
	}
	g := tally.GrandTotal()
	t.total = []string{"GRAND TOTAL", strconv.Itoa(g.Pickup), strconv.Itoa(g.Shipping), strconv.Itoa(g.Total())}
	return t
}

// layout tracks the write position on the current page, top down.
type layout struct {
	c    *vgpdf.Canvas
	area draw.Canvas
	y    vg.Length
}

func newLayout(c *vgpdf.Canvas) *layout {
	l := &layout{c: c}
	l.reset()
	return l
}

func (l *layout) reset() {
	dc := draw.New(l.c)
	l.area = draw.Crop(dc, pdfMargin, -pdfMargin, pdfMargin, -pdfMargin)
	l.y = l.area.Max.Y
}

func (l *layout) nextPage() {
	l.c.NextPage()
	l.reset()
}

// ensure starts a new page unless h fits below the write position. A fresh
// page is never skipped, so blocks taller than a page still get drawn.
func (l *layout) ensure(h vg.Length) {
	if l.y-h < l.area.Min.Y && l.y < l.area.Max.Y {
		l.nextPage()
	}
}

func (l *layout) gap(h vg.Length) {
	l.y -= h
}

func (l *layout) text(txt string, fnt font.Font, clr color.Color, align draw.XAlignment) {
	h := fnt.Size * 1.2
	l.ensure(h)
	x := l.area.Min.X
	if align == draw.XCenter {
		x = (l.area.Min.X + l.area.Max.X) / 2
	}
	fillText(l.area, txt, fnt, x, l.y-h/2, align, clr)
	l.y -= h
}

// section draws a heading and its table. The heading is kept on the same
// page as the table header and first row.
func (l *layout) section(title string, t table) {
	headingH := vg.Points(16)*1.2 + vg.Points(32)
	l.ensure(headingH + headerHeight + rowHeight)
	l.gap(vg.Points(20))
	l.text(title, sansBold(16), slate, draw.XLeft)
	l.gap(vg.Points(12))
	l.table(t)
	l.gap(0.3 * vg.Inch)
}

func (l *layout) table(t table) {
	var width vg.Length
	for _, w := range t.widths {
		width += w
	}
	x0 := l.area.Min.X + (l.area.Max.X-l.area.Min.X-width)/2

	l.row(t, x0, t.header, headerHeight, t.headerFill, whiteSmoke, sansBold(12))
	for i, r := range t.rows {
		if l.y-rowHeight < l.area.Min.Y {
			l.nextPage()
			l.row(t, x0, t.header, headerHeight, t.headerFill, whiteSmoke, sansBold(12))
		}
		fill := color.Color(color.White)
		if i%2 == 1 {
			fill = lightGray
		}
		l.row(t, x0, r, rowHeight, fill, color.Black, sans(10))
	}
	l.ensure(rowHeight)
	l.row(t, x0, t.total, rowHeight, t.totalFill, t.totalText, sansBold(11))
}

func (l *layout) row(t table, x0 vg.Length, cells []string, h vg.Length, fill, text color.Color, fnt font.Font) {
	top, bottom := l.y, l.y-h
	x := x0
	for i, w := range t.widths {
		rect := []vg.Point{
			{X: x, Y: bottom}, {X: x + w, Y: bottom},
			{X: x + w, Y: top}, {X: x, Y: top},
		}
		l.area.FillPolygon(fill, rect)
		l.area.StrokeLines(draw.LineStyle{Color: color.Black, Width: vg.Points(1)}, append(rect, rect[0]))
		if i < len(cells) {
			fillText(l.area, cells[i], fnt, x+w/2, bottom+h/2, draw.XCenter, text)
		}
		x += w
	}
	l.y = bottom
}

func sans(size vg.Length) font.Font {
	return font.Font{Typeface: plot.DefaultFont.Typeface, Variant: "Sans", Size: size}
}

// boldSans is Liberation Sans Bold registered as its own variant with normal
// weight. vgpdf adds every face to the PDF without a style but selects bold
// faces with style "B", which fpdf cannot resolve.
var boldSans = font.Font{Typeface: plot.DefaultFont.Typeface, Variant: "SansBold"}

var registerBold sync.Once

func registerFonts() {
	registerBold.Do(func() {
		src := font.DefaultCache.Lookup(font.Font{
			Typeface: plot.DefaultFont.Typeface,
			Variant:  "Sans",
			Weight:   xfont.WeightBold,
		}, 12)
		font.DefaultCache.Add(font.Collection{{Font: boldSans, Face: src.Face}})
	})
}

func sansBold(size vg.Length) font.Font {
	registerFonts()
	f := boldSans
	f.Size = size
	return f
}

func fillText(c draw.Canvas, txt string, fnt font.Font, x, y vg.Length, align draw.XAlignment, clr color.Color) {
	// The Liberation fonts lack some typographic dashes; keep to ASCII.
	txt = strings.NewReplacer("—", "-", "–", "-").Replace(txt)
	sty := draw.TextStyle{
		Color:   clr,
		Font:    fnt,
		XAlign:  align,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
	c.FillText(sty, vg.Point{X: x, Y: y}, txt)
}
