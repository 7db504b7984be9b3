package orders

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// masterRow builds a MASTER row with the given fields at their offsets.
func masterRow(order, student, grade, qty, flavor, delivery, school string) []string {
	row := make([]string, MinColumns)
	row[ColOrderNumber] = order
	row[ColStudent] = student
	row[ColGrade] = grade
	row[ColQuantity] = qty
	row[ColFlavor] = flavor
	row[ColPrice] = "$5.00"
	row[ColDelivery] = delivery
	row[ColBillingName] = "Billing " + student
	row[ColSchool] = school
	return row
}

func masterHeader() []string {
	h := make([]string, MinColumns)
	for i := range h {
		h[i] = "col" + string(rune('A'+i%26))
	}
	h[ColOrderNumber] = "Order"
	h[ColStudent] = "Student"
	h[ColGrade] = "Grade"
	h[ColQuantity] = "Qty"
	h[ColFlavor] = "Flavor"
	h[ColPrice] = "Price"
	h[ColDelivery] = "Delivery"
	h[ColBillingName] = "Billing"
	h[ColSchool] = "School"
	return h
}

func TestDecodeMaster(t *testing.T) {
	table := [][]string{
		masterHeader(),
		masterRow("5001", "Alice", "2", "3", "Choco", "Pick-up", "Lincoln"),
		{"5002"}, // short row: every missing cell decodes empty
	}
	header, rows, err := DecodeMaster(table)
	if err != nil {
		t.Fatalf("DecodeMaster: %v", err)
	}
	if len(header) != MinColumns {
		t.Errorf("header width = %d, want %d", len(header), MinColumns)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Line != 2 || rows[1].Line != 3 {
		t.Errorf("lines = %d, %d, want 2, 3", rows[0].Line, rows[1].Line)
	}
	want := Row{Line: 3, OrderNumber: "5002"}
	if diff := cmp.Diff(want, rows[1]); diff != "" {
		t.Errorf("short row mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMaster_NarrowHeader(t *testing.T) {
	if _, _, err := DecodeMaster([][]string{{"Order", "Name"}}); err == nil {
		t.Error("expected error for a header narrower than the layout")
	}
	if _, _, err := DecodeMaster(nil); err == nil {
		t.Error("expected error for an empty table")
	}
}

func TestSchoolHeaderAndRecord(t *testing.T) {
	got := SchoolHeader(masterHeader())
	want := []string{"Order", "Student", "Grade", "Qty", "Flavor", "Price", "Delivery", "Billing", "School"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SchoolHeader mismatch (-want +got):\n%s", diff)
	}

	r := DecodeRow(masterRow("5001", "Alice", "2", "3", "Choco", "Pick-up", "Lincoln"), 2)
	rec := r.SchoolRecord()
	if len(rec) != SchoolColumnCount {
		t.Fatalf("record width = %d, want %d", len(rec), SchoolColumnCount)
	}
	back := DecodeSchoolRow(rec)
	back.Line = r.Line
	if diff := cmp.Diff(r, back); diff != "" {
		t.Errorf("school record round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"3", 3},
		{" 12 ", 12},
		{"0", 0},
		{"abc", 0},
		{"", 0},
		{"-2", 0},
		{"2.5", 0},
		{"99999999999999999999999", 0},
	}
	for _, tt := range tests {
		if got := ParseCount(tt.input); got != tt.want {
			t.Errorf("ParseCount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestIsPickup(t *testing.T) {
	tests := []struct {
		delivery string
		want     bool
	}{
		{"Pick-up at school", true},
		{"PICKUP", true},
		{"pick up", true},
		{"Ship to home", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := (Row{Delivery: tt.delivery}).IsPickup(); got != tt.want {
			t.Errorf("IsPickup(%q) = %v, want %v", tt.delivery, got, tt.want)
		}
	}
}

func TestGroupBySchool(t *testing.T) {
	table := [][]string{
		masterHeader(),
		masterRow("1", "A", "1", "1", "Choco", "Pick-up", "Lincoln"),
		masterRow("2", "B", "1", "1", "Choco", "Pick-up", " Adams "),
		masterRow("3", "C", "1", "1", "Choco", "Pick-up", ""),
		masterRow("4", "D", "1", "1", "Choco", "Pick-up", "Lincoln"),
		{"5"},
	}
	_, rows, err := DecodeMaster(table)
	if err != nil {
		t.Fatal(err)
	}
	groups := GroupBySchool(rows)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].School != "Lincoln" || groups[1].School != "Adams" {
		t.Errorf("group order = %q, %q, want Lincoln, Adams", groups[0].School, groups[1].School)
	}
	if groups[0].Index != 0 || groups[1].Index != 1 {
		t.Errorf("indexes = %d, %d", groups[0].Index, groups[1].Index)
	}

	// Every row with a school lands in exactly one group.
	withSchool := 0
	for _, r := range rows {
		if r.SchoolName() != "" {
			withSchool++
		}
	}
	total := 0
	seen := make(map[int]bool)
	for _, g := range groups {
		total += len(g.Rows)
		for _, r := range g.Rows {
			if seen[r.Line] {
				t.Errorf("row %d grouped twice", r.Line)
			}
			seen[r.Line] = true
			if r.SchoolName() != g.School {
				t.Errorf("row %d school %q in group %q", r.Line, r.SchoolName(), g.School)
			}
		}
	}
	if total != withSchool {
		t.Errorf("grouped %d rows, want %d", total, withSchool)
	}
	if got := []int{groups[0].Rows[0].Line, groups[0].Rows[1].Line}; got[0] != 2 || got[1] != 5 {
		t.Errorf("Lincoln lines = %v, want [2 5]", got)
	}
}

func TestSchoolColor(t *testing.T) {
	if SchoolColor(0) != SchoolColor(len(schoolPalette)) {
		t.Error("palette should wrap around")
	}
	if SchoolColor(0) == SchoolColor(1) {
		t.Error("neighbouring schools share a color")
	}
	if SchoolColor(3) != SchoolColor(3) {
		t.Error("color not deterministic")
	}
}

func TestSheetName(t *testing.T) {
	if got := SheetName("Lincoln Elementary"); got != "Lincoln Elementary MASTER" {
		t.Errorf("SheetName = %q", got)
	}
	tests := []struct {
		title  string
		school string
		ok     bool
	}{
		{"Lincoln MASTER", "Lincoln", true},
		{"MASTER", "", false},
		{" MASTER", "", false},
		{"Summary", "", false},
	}
	for _, tt := range tests {
		school, ok := SchoolFromSheet(tt.title)
		if school != tt.school || ok != tt.ok {
			t.Errorf("SchoolFromSheet(%q) = %q, %v, want %q, %v", tt.title, school, ok, tt.school, tt.ok)
		}
	}
}

func TestSortByOrderDesc(t *testing.T) {
	records := [][]string{
		{"12", "a"},
		{"x", "b"},
		{"100", "c"},
		{"12", "d"},
		{},
	}
	SortByOrderDesc(records)
	want := [][]string{{"100", "c"}, {"12", "a"}, {"12", "d"}, {"x", "b"}, {}}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("SortByOrderDesc mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeNew(t *testing.T) {
	existing := [][]string{
		{"5001", "Alice", "Choco"},
		{"5001", "Alice", "Caramel"},
		{"", "", ""},
	}
	incoming := [][]string{
		{"5001", "Alice", "Choco"},
		{"5001", "Alice", "Caramel"},
		{"5003", "Cara", "Kettle"},
		{"5003", "Cara", "Cheddar"},
		{"5002", "Bob", "Choco"},
	}
	merged, added := MergeNew(existing, incoming)
	if added != 3 {
		t.Errorf("added = %d, want 3", added)
	}
	want := [][]string{
		{"5003", "Cara", "Kettle"},
		{"5003", "Cara", "Cheddar"},
		{"5002", "Bob", "Choco"},
		{"5001", "Alice", "Choco"},
		{"5001", "Alice", "Caramel"},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("MergeNew mismatch (-want +got):\n%s", diff)
	}

	// A second pass with the same input adds nothing.
	again, added := MergeNew(merged, incoming)
	if added != 0 {
		t.Errorf("second pass added %d rows", added)
	}
	if diff := cmp.Diff(merged, again); diff != "" {
		t.Errorf("second pass changed the sheet (-want +got):\n%s", diff)
	}
}

func TestMergeNew_MissingOrderNumber(t *testing.T) {
	incoming := [][]string{
		{"5001", "Alice", "Choco"},
		{"", "Nobody", "Caramel"},
	}
	merged, added := MergeNew(nil, incoming)
	if added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}

	// The sheet API drops trailing empty cells when reading back.
	stored := [][]string{
		{"5001", "Alice", "Choco"},
		{"", "Nobody", "Caramel"},
	}
	withTrailing := [][]string{
		{"5001", "Alice", "Choco", ""},
		{"", "Nobody", "Caramel", ""},
	}
	again, added := MergeNew(stored, withTrailing)
	if added != 0 {
		t.Errorf("second pass added %d rows", added)
	}
	if diff := cmp.Diff(merged, again); diff != "" {
		t.Errorf("second pass changed the sheet (-want +got):\n%s", diff)
	}

	_, added = MergeNew(stored, [][]string{{"", "Nobody", "Kettle"}})
	if added != 1 {
		t.Errorf("different record without order number: added = %d, want 1", added)
	}
}
