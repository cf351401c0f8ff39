package ports

import (
	"context"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// EventStore persists events.  Events are never deleted; lifecycle
// changes go through UpdateFlags only.
type EventStore interface {
	Create(ctx context.Context, ev *model.Event) error
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	List(ctx context.Context, publicOnly bool) ([]model.Event, error)
	UpdateFlags(ctx context.Context, id int64, public, closed bool) error
}

// AggregateStore serves the read-only aggregation queries.  Each method
// is a single consistent snapshot: counts of sheets and of active
// reservations always come from the same point in time.
type AggregateStore interface {
	// RankTallies returns per-rank totals and remaining counts for one
	// event.  Price carries the rank delta only; the caller adds the
	// event base price.
	RankTallies(ctx context.Context, eventID int64) (map[string]*model.RankSummary, error)

	// SeatStates returns the actively held seats of one event, ordered
	// by rank then seat number.  Free seats are absent; the sheet
	// layout comes from SheetStore.ListByRank.
	SeatStates(ctx context.Context, eventID int64) ([]model.SeatState, error)

	// RecentReservations lists a user's reservations ordered by most
	// recent activity (canceled_at falling back to reserved_at), ties
	// broken by reservation ID descending.
	RecentReservations(ctx context.Context, userID int64, limit int) ([]model.ReservationDigest, error)

	// TotalSpend sums event base + sheet price over the user's active
	// reservations.
	TotalSpend(ctx context.Context, userID int64) (int64, error)

	// RecentEventIDs lists the events the user touched most recently.
	RecentEventIDs(ctx context.Context, userID int64, limit int) ([]int64, error)
}
