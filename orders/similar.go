package orders

import (
	"sort"
	"strings"
)

// schoolLevels maps trailing school designations to the level they name.
// Longer designations come first so "ELEMENTARY SCHOOL" is tried before
// "SCHOOL". An empty level marks a designation that says nothing about the
// grades taught.
var schoolLevels = []struct {
	suffix, level string
}{
	{"ELEMENTARY SCHOOL", "ELEMENTARY"},
	{"MIDDLE SCHOOL", "MIDDLE"},
	{"HIGH SCHOOL", "HIGH"},
	{"ELEMENTARY", "ELEMENTARY"},
	{"ACADEMY", ""},
	{"SCHOOL", ""},
	{"MIDDLE", "MIDDLE"},
	{"ELEM", "ELEMENTARY"},
	{"ES", "ELEMENTARY"},
	{"MS", "MIDDLE"},
	{"HS", "HIGH"},
}

// schoolKey is a school name reduced for comparison.
type schoolKey struct {
	base, level string
}

// matches reports whether two keys may name the same school. A name without
// a level matches any level of the same base.
func (k schoolKey) matches(o schoolKey) bool {
	return k.base == o.base && (k.level == "" || o.level == "" || k.level == o.level)
}

// parseSchoolName uppercases a school name, collapses its whitespace and
// splits off a trailing school designation.
func parseSchoolName(name string) schoolKey {
	upper := strings.Join(strings.Fields(strings.ToUpper(name)), " ")
	upper = strings.TrimSuffix(upper, ".")
	for _, d := range schoolLevels {
		if strings.HasSuffix(upper, " "+d.suffix) {
			return schoolKey{base: upper[:len(upper)-len(d.suffix)-1], level: d.level}
		}
	}
	return schoolKey{base: upper}
}

// SimilarPair is two school names that probably refer to the same school.
// First is the name seen first in MASTER.
type SimilarPair struct {
	First, Second string
}

// SimilarSchools finds school names that differ only in case, spacing or a
// school designation. Designations naming different levels, such as "ES" and
// "MS", keep two names apart. Such rows are still grouped separately; callers
// warn about them so the sheet can be fixed by hand.
func SimilarSchools(groups []SchoolGroup) []SimilarPair {
	keys := make([]schoolKey, len(groups))
	for i, g := range groups {
		keys[i] = parseSchoolName(g.School)
	}
	var pairs []SimilarPair
	for i := range groups {
		for j := i + 1; j < len(groups); j++ {
			if keys[i].matches(keys[j]) {
				pairs = append(pairs, SimilarPair{First: groups[i].School, Second: groups[j].School})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].First != pairs[j].First {
			return pairs[i].First < pairs[j].First
		}
		return pairs[i].Second < pairs[j].Second
	})
	return pairs
}
