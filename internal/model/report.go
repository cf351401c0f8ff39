package model

import "time"

// SalesRow is one line of the sales ledger export.  It covers every
// reservation ever made, canceled ones included, so downstream
// accounting sees the full history rather than a current-state snapshot.
type SalesRow struct {
	ReservationID int64
	EventID       int64
	Rank          string
	Num           int64
	Price         int64 // event base + sheet rank delta
	UserID        int64
	ReservedAt    time.Time
	CanceledAt    *time.Time
}
