package forms

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/zalepa/orderdesk/orders"
)

// SlipRenderer fills a local plain-text template and lays it out as a
// one-page PDF. Lines starting with "# " are headings. Lines whose
// placeholders all resolve to blanks are dropped.
type SlipRenderer struct {
	path  string
	lines []string
}

// NewSlipRenderer returns a renderer for the template file at path.
// Call Prepare before the first Render.
func NewSlipRenderer(path string) *SlipRenderer {
	return &SlipRenderer{path: path}
}

// Prepare reads the template file.
func (r *SlipRenderer) Prepare(ctx context.Context) error {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, r.path)
	}
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	r.lines = strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	return nil
}

func (r *SlipRenderer) Render(ctx context.Context, o orders.PickupOrder, path string) error {
	if r.lines == nil {
		return fmt.Errorf("%w: Prepare was not called", ErrTemplateNotFound)
	}
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(19, 19, 19)
	pdf.SetAutoPageBreak(false, 19)
	pdf.SetTitle("Order "+o.OrderNumber, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	_, pageHeight := pdf.GetPageSize()
	for _, line := range r.lines {
		text, keep := fillLine(o, line)
		if !keep {
			continue
		}
		if pdf.GetY() > pageHeight-25 {
			break
		}
		if heading, ok := strings.CutPrefix(text, "# "); ok {
			pdf.SetFont("Helvetica", "B", 16)
			pdf.MultiCell(0, 9, tr(heading), "", "L", false)
			pdf.Ln(2)
			continue
		}
		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, 6.5, tr(text), "", "L", false)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pdf.Output(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// fillLine substitutes the placeholders of o in line. keep is false for a
// line that had placeholders and is blank once filled.
func fillLine(o orders.PickupOrder, line string) (text string, keep bool) {
	text = o.Fill(line)
	if strings.Contains(line, "{{") && text != line && strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}
