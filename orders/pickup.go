package orders

import (
	"sort"
	"strconv"
	"strings"
)

// MaxItems is the number of flavor/quantity slots on an order slip.
const MaxItems = 13

// unrankedGrade places grades that cannot be read after every real grade.
const unrankedGrade = 999

// GroupPickupOrders collects the pick-up rows of a school sheet into orders
// keyed by order number. Orders come back in first-seen order; items keep the
// order of their rows. Student, grade, billing name and school are taken from
// the first row of each order.
func GroupPickupOrders(rows []Row) []PickupOrder {
	var out []PickupOrder
	index := make(map[string]int)
	for _, r := range rows {
		if !r.IsPickup() {
			continue
		}
		i, ok := index[r.OrderNumber]
		if !ok {
			i = len(out)
			index[r.OrderNumber] = i
			out = append(out, PickupOrder{
				OrderNumber: r.OrderNumber,
				BillingName: r.BillingName,
				School:      r.School,
				Student:     r.Student,
				Grade:       r.Grade,
			})
		}
		out[i].Items = append(out[i].Items, Item{Flavor: r.Flavor, Quantity: r.Qty()})
	}
	return out
}

// GradeKey returns the sort rank of a grade and the text used to break ties
// within a rank. Kindergarten ranks 0, a grade starting with digits ranks as
// that number ("2A" ranks 2) and anything else ranks after every grade.
func GradeKey(grade string) (rank int, text string) {
	g := strings.ToUpper(strings.TrimSpace(grade))
	if g == "K" || strings.HasPrefix(g, "KINDER") {
		return 0, ""
	}
	digits := 0
	for digits < len(g) && g[digits] >= '0' && g[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return unrankedGrade, g
	}
	n, err := strconv.Atoi(g[:digits])
	if err != nil {
		return unrankedGrade, g
	}
	if digits == len(g) {
		return n, ""
	}
	return n, g
}

// SortPickupOrders orders slips by grade, then by student name.
func SortPickupOrders(orders []PickupOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		ri, ti := GradeKey(orders[i].Grade)
		rj, tj := GradeKey(orders[j].Grade)
		if ri != rj {
			return ri < rj
		}
		if ti != tj {
			return ti < tj
		}
		return orders[i].Student < orders[j].Student
	})
}

// Window returns orders[offset:offset+limit], clamped to the slice. A limit of
// zero or less means no limit.
func Window(orders []PickupOrder, offset, limit int) []PickupOrder {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(orders) {
		return nil
	}
	orders = orders[offset:]
	if limit > 0 && limit < len(orders) {
		orders = orders[:limit]
	}
	return orders
}

// Placeholders returns the template substitutions for o. Slots past the
// number of items are blank; items beyond MaxItems are not printed.
func (o PickupOrder) Placeholders() map[string]string {
	m := map[string]string{
		"{{Order Number}}": o.OrderNumber,
		"{{Billing Name}}": o.BillingName,
		"{{Student name}}": o.Student,
		"{{student name}}": o.Student,
		"{{Grade}}":        o.Grade,
		"{{School}}":       o.School,
	}
	for i := 1; i <= MaxItems; i++ {
		qty, flavor := "", ""
		if i <= len(o.Items) {
			qty = strconv.Itoa(o.Items[i-1].Quantity)
			flavor = o.Items[i-1].Flavor
		}
		m["{{quantity"+strconv.Itoa(i)+"}}"] = qty
		m["{{flavor name"+strconv.Itoa(i)+"}}"] = flavor
	}
	return m
}

// Fill substitutes every placeholder of o in s.
func (o PickupOrder) Fill(s string) string {
	ph := o.Placeholders()
	keys := make([]string, 0, len(ph))
	for k := range ph {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, ph[k])
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
