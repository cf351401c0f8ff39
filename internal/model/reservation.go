package model

import "time"

// Reservation binds one sheet to one user for one event.  Rows are
// never deleted: cancellation only sets CanceledAt, keeping the full
// history queryable for reports.
//
// Invariant: for a given (EventID, SheetID) pair at most one row has
// CanceledAt == nil.  The reservation repository enforces this under
// concurrency with row locks; see ReservationRepo.WithinTx.
type Reservation struct {
	ID         int64      `json:"id"`          // reservations.id
	EventID    int64      `json:"event_id"`    // reservations.event_id
	SheetID    int64      `json:"sheet_id"`    // reservations.sheet_id
	UserID     int64      `json:"user_id"`     // reservations.user_id
	ReservedAt time.Time  `json:"reserved_at"` // reservations.reserved_at
	CanceledAt *time.Time `json:"canceled_at"` // reservations.canceled_at (nil while active)
}

// Active reports whether the reservation still holds its sheet.
func (r *Reservation) Active() bool { return r.CanceledAt == nil }
