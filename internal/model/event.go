package model

// Event is a single sellable event.  The same sheet inventory is sold
// for every event, so an event row carries only its title, the base
// ticket price and the two lifecycle flags.
//
// Lifecycle: draft (not public, not closed) -> public -> closed.  A
// closed event is terminal; it can never become public again.
type Event struct {
	ID     int64  `json:"id"`     // events.id
	Title  string `json:"title"`  // events.title
	Price  int64  `json:"price"`  // events.price (base price, added to the sheet rank price)
	Public bool   `json:"public"` // events.public_fg
	Closed bool   `json:"closed"` // events.closed_fg
}
