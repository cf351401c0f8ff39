// Package queue publishes reservation activity to RabbitMQ and runs
// the background consumer that writes it to the activity log.
package queue

// Activity types carried in ReservationEvent.Type.
const (
	TypeReservationCreated  = "reservation.created"
	TypeReservationCanceled = "reservation.canceled"
)

// ReservationEvent is the message published for every successful
// allocation or cancellation.  It carries enough context for
// downstream consumers to log or trigger analytics without querying
// the primary database.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID int64  `json:"reservation_id"`
	EventID       int64  `json:"event_id"`
	EventTitle    string `json:"event_title"`
	SheetRank     string `json:"sheet_rank"`
	SheetNum      int64  `json:"sheet_num"`
	UserID        int64  `json:"user_id"`
	Price         int64  `json:"price"` // event base + sheet rank delta
	OccurredAt    string `json:"occurred_at"`
}
