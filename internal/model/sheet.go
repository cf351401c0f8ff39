package model

// Ranks enumerates the seating tiers in display order.  Sheets are
// static reference data shared by all events: one row per (rank, num)
// slot, provisioned once and never mutated.
var Ranks = []string{"S", "A", "B", "C"}

// ValidRank reports whether r is one of the provisioned seating tiers.
func ValidRank(r string) bool {
	for _, v := range Ranks {
		if v == r {
			return true
		}
	}
	return false
}

// Sheet is a physical seat slot.  Price is the rank-specific delta
// added to the event base price.
type Sheet struct {
	ID    int64  `json:"id"`    // sheets.id
	Rank  string `json:"rank"`  // sheets.rank (S/A/B/C)
	Num   int64  `json:"num"`   // sheets.num, unique within the rank
	Price int64  `json:"price"` // sheets.price
}
