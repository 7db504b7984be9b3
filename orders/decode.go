package orders

import (
	"fmt"
	"strconv"
	"strings"
)

// cell returns row[i], or "" when the row is too short.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// DecodeRow decodes one MASTER row. line is the 1-based sheet row number.
func DecodeRow(row []string, line int) Row {
	return Row{
		Line:        line,
		OrderNumber: cell(row, ColOrderNumber),
		Delivery:    cell(row, ColDelivery),
		Quantity:    cell(row, ColQuantity),
		Flavor:      cell(row, ColFlavor),
		Price:       cell(row, ColPrice),
		BillingName: cell(row, ColBillingName),
		School:      cell(row, ColSchool),
		Student:     cell(row, ColStudent),
		Grade:       cell(row, ColGrade),
	}
}

// DecodeMaster splits a MASTER table into its header and decoded rows. The
// header must be wide enough for every column the layout reads; data rows may
// be shorter and their missing cells decode as empty strings.
func DecodeMaster(table [][]string) (header []string, rows []Row, err error) {
	if len(table) == 0 {
		return nil, nil, fmt.Errorf("master sheet is empty")
	}
	header = table[0]
	if len(header) < MinColumns {
		return nil, nil, fmt.Errorf("master header has %d columns, need at least %d", len(header), MinColumns)
	}
	rows = make([]Row, 0, len(table)-1)
	for i, r := range table[1:] {
		rows = append(rows, DecodeRow(r, i+2))
	}
	return header, rows, nil
}

// SchoolHeader projects the MASTER header onto the school sheet columns.
func SchoolHeader(header []string) []string {
	out := make([]string, len(schoolColumns))
	for i, c := range schoolColumns {
		out[i] = cell(header, c)
	}
	return out
}

// SchoolRecord returns the school sheet cells for r.
func (r Row) SchoolRecord() []string {
	return []string{
		r.OrderNumber, r.Student, r.Grade,
		r.Quantity, r.Flavor, r.Price,
		r.Delivery, r.BillingName, r.School,
	}
}

// DecodeSchoolRow decodes a row of a school sheet back into a Row. Line is
// left zero; school sheet rows are never highlighted.
func DecodeSchoolRow(row []string) Row {
	return Row{
		OrderNumber: cell(row, SchoolColOrderNumber),
		Student:     cell(row, SchoolColStudent),
		Grade:       cell(row, SchoolColGrade),
		Quantity:    cell(row, SchoolColQuantity),
		Flavor:      cell(row, SchoolColFlavor),
		Price:       cell(row, SchoolColPrice),
		Delivery:    cell(row, SchoolColDelivery),
		BillingName: cell(row, SchoolColBillingName),
		School:      cell(row, SchoolColSchool),
	}
}

// SchoolName returns the trimmed school cell.
func (r Row) SchoolName() string { return strings.TrimSpace(r.School) }

// Qty parses the quantity cell. Anything that is not a plain run of digits
// counts as zero.
func (r Row) Qty() int { return ParseCount(r.Quantity) }

// IsPickup reports whether the delivery text names a pick-up.
func (r Row) IsPickup() bool {
	return strings.Contains(strings.ToLower(r.Delivery), "pick")
}

// ParseCount parses s as a non-negative integer, returning 0 for anything
// that is not all digits.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// OrderKey is the numeric sort key of an order number; non-numeric order
// numbers sort as 0.
func OrderKey(orderNumber string) int {
	return ParseCount(orderNumber)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
