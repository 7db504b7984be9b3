package orders

import (
	"image/color"
	"sort"
	"strings"
)

// schoolPalette holds the pastel backgrounds used to tag master rows by school.
var schoolPalette = []color.RGBA{
	{R: 255, G: 230, B: 230, A: 255},
	{R: 230, G: 255, B: 230, A: 255},
	{R: 230, G: 230, B: 255, A: 255},
	{R: 255, G: 255, B: 230, A: 255},
	{R: 255, G: 230, B: 255, A: 255},
	{R: 230, G: 255, B: 255, A: 255},
	{R: 255, G: 242, B: 230, A: 255},
	{R: 242, G: 242, B: 255, A: 255},
	{R: 230, G: 255, B: 242, A: 255},
	{R: 255, G: 230, B: 242, A: 255},
}

// SchoolColor returns the highlight color of the school first seen at
// position index. Colors repeat after the palette is exhausted.
func SchoolColor(index int) color.RGBA {
	if index < 0 {
		index = -index
	}
	return schoolPalette[index%len(schoolPalette)]
}

// SheetName returns the title of the per-school worksheet.
func SheetName(school string) string {
	return school + " MASTER"
}

// SchoolFromSheet reverses SheetName. ok is false for titles that are not
// school sheets.
func SchoolFromSheet(title string) (school string, ok bool) {
	const suffix = " MASTER"
	if !strings.HasSuffix(title, suffix) {
		return "", false
	}
	school = strings.TrimSuffix(title, suffix)
	if school == "" {
		return "", false
	}
	return school, true
}

// GroupBySchool partitions rows by their trimmed school name. Rows without a
// school are dropped. Groups are returned in first-seen order and each group
// keeps its rows in source order.
func GroupBySchool(rows []Row) []SchoolGroup {
	var groups []SchoolGroup
	index := make(map[string]int)
	for _, r := range rows {
		name := r.SchoolName()
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, SchoolGroup{School: name, Index: i})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	return groups
}

// Records returns the school sheet cells of every row in the group.
func (g SchoolGroup) Records() [][]string {
	out := make([][]string, len(g.Rows))
	for i, r := range g.Rows {
		out[i] = r.SchoolRecord()
	}
	return out
}

// SortByOrderDesc sorts school sheet records by order number, highest first.
// Records with equal keys keep their relative order.
func SortByOrderDesc(records [][]string) {
	sort.SliceStable(records, func(i, j int) bool {
		return OrderKey(cell(records[i], 0)) > OrderKey(cell(records[j], 0))
	})
}

// MergeNew combines the data rows already present in a school sheet with the
// incoming records. Incoming records whose order number is already present in
// the first column are skipped. Records without an order number are matched on
// their whole contents instead, ignoring trailing empty cells. Blank existing
// rows are dropped. The merged set is sorted by SortByOrderDesc; added counts
// the incoming records that were kept.
func MergeNew(existing, incoming [][]string) (merged [][]string, added int) {
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		k, ok := mergeKey(r)
		if !ok {
			continue
		}
		seen[k] = true
		merged = append(merged, r)
	}
	for _, r := range incoming {
		k, _ := mergeKey(r)
		if seen[k] {
			continue
		}
		merged = append(merged, r)
		added++
	}
	SortByOrderDesc(merged)
	return merged, added
}

// mergeKey reports false for a row with no content.
func mergeKey(r []string) (string, bool) {
	if n := cell(r, 0); n != "" {
		return "#" + n, true
	}
	end := len(r)
	for end > 0 && strings.TrimSpace(r[end-1]) == "" {
		end--
	}
	if end == 0 {
		return "", false
	}
	return "=" + strings.Join(r[:end], "\x1f"), true
}
