package orders

// Column offsets of the MASTER worksheet.
const (
	ColOrderNumber = 0  // A
	ColDelivery    = 14 // O
	ColQuantity    = 16 // Q
	ColFlavor      = 17 // R
	ColPrice       = 18 // S
	ColBillingName = 24 // Y
	ColSchool      = 47 // AV
	ColStudent     = 48 // AW
	ColGrade       = 50 // AY

	// MinColumns is the narrowest header the layout above can be decoded from.
	MinColumns = ColGrade + 1
)

// schoolColumns lists the master columns copied into a school sheet, in
// school-sheet order.
var schoolColumns = []int{
	ColOrderNumber, ColStudent, ColGrade,
	ColQuantity, ColFlavor, ColPrice,
	ColDelivery, ColBillingName, ColSchool,
}

// SchoolColumnCount is the width of a school sheet.
var SchoolColumnCount = len(schoolColumns)

// School sheet column offsets.
const (
	SchoolColOrderNumber = iota
	SchoolColStudent
	SchoolColGrade
	SchoolColQuantity
	SchoolColFlavor
	SchoolColPrice
	SchoolColDelivery
	SchoolColBillingName
	SchoolColSchool
)

// Row is one order line decoded from the MASTER worksheet. All fields are the
// raw cell text; Line is the 1-based sheet row the record came from.
type Row struct {
	Line        int
	OrderNumber string
	Delivery    string
	Quantity    string
	Flavor      string
	Price       string
	BillingName string
	School      string
	Student     string
	Grade       string
}

// SchoolGroup holds the rows of one school in source order.
type SchoolGroup struct {
	School string
	Index  int // first-seen position among schools
	Rows   []Row
}

// Counts splits a quantity by delivery mode.
type Counts struct {
	Pickup   int
	Shipping int
}

// Total returns pickup plus shipping.
func (c Counts) Total() int { return c.Pickup + c.Shipping }

// Item is one flavor line of a pick-up order.
type Item struct {
	Flavor   string
	Quantity int
}

// PickupOrder is one customer order collected for a pick-up slip.
type PickupOrder struct {
	OrderNumber string
	BillingName string
	School      string
	Student     string
	Grade       string
	Items       []Item
}
