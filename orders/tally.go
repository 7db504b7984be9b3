package orders

import (
	"sort"
	"strings"
)

// Tally accumulates bag counts per school and flavor, split by delivery mode.
type Tally struct {
	Schools map[string]map[string]*Counts
	Flavors map[string]*Counts
	Rows    int // rows that contributed
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{
		Schools: make(map[string]map[string]*Counts),
		Flavors: make(map[string]*Counts),
	}
}

// Add counts r. Rows without a school or flavor, or with a zero or malformed
// quantity, are ignored. It reports whether the row was counted.
func (t *Tally) Add(r Row) bool {
	school := r.SchoolName()
	flavor := strings.TrimSpace(r.Flavor)
	qty := r.Qty()
	if school == "" || flavor == "" || qty <= 0 {
		return false
	}

	flavors, ok := t.Schools[school]
	if !ok {
		flavors = make(map[string]*Counts)
		t.Schools[school] = flavors
	}
	add(flavors, flavor, qty, r.IsPickup())
	add(t.Flavors, flavor, qty, r.IsPickup())
	t.Rows++
	return true
}

func add(m map[string]*Counts, flavor string, qty int, pickup bool) {
	c, ok := m[flavor]
	if !ok {
		c = &Counts{}
		m[flavor] = c
	}
	if pickup {
		c.Pickup += qty
	} else {
		c.Shipping += qty
	}
}

// TallyRows builds a tally over rows.
func TallyRows(rows []Row) *Tally {
	t := NewTally()
	for _, r := range rows {
		t.Add(r)
	}
	return t
}

// SchoolNames returns the tallied schools in alphabetical order.
func (t *Tally) SchoolNames() []string {
	return sortedKeys(t.Schools)
}

// FlavorNames returns the flavors tallied for school, alphabetically. An empty
// school selects the global flavor list.
func (t *Tally) FlavorNames(school string) []string {
	if school == "" {
		return sortedKeys(t.Flavors)
	}
	return sortedKeys(t.Schools[school])
}

// SchoolTotal sums every flavor of school.
func (t *Tally) SchoolTotal(school string) Counts {
	return sum(t.Schools[school])
}

// GrandTotal sums every flavor across all schools.
func (t *Tally) GrandTotal() Counts {
	return sum(t.Flavors)
}

func sum(m map[string]*Counts) Counts {
	var total Counts
	for _, c := range m {
		total.Pickup += c.Pickup
		total.Shipping += c.Shipping
	}
	return total
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
