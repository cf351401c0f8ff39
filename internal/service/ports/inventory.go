// Package ports declares the storage and messaging interfaces the
// service layer depends on.  The repository package provides the MySQL
// implementations; tests substitute in-memory fakes.
package ports

import (
	"context"
	"time"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// InventoryTx is the unit of work for seat allocation and cancellation.
// Implementations must give the closure serializable visibility over
// "which sheets of a rank have no active reservation for an event":
// two concurrent units may never both observe the same sheet as free
// and both bind it.
type InventoryTx interface {
	// AvailableSheets returns every sheet of the rank with no active
	// reservation for the event, locked until the unit commits or
	// rolls back.
	AvailableSheets(ctx context.Context, eventID int64, rank string) ([]model.Sheet, error)

	// InsertReservation appends a new active reservation and fills in
	// its generated ID.
	InsertReservation(ctx context.Context, res *model.Reservation) error

	// ActiveReservation returns the active holder of (eventID,
	// sheetID), locked for the rest of the unit.  Absence is reported
	// as sql.ErrNoRows.
	ActiveReservation(ctx context.Context, eventID, sheetID int64) (*model.Reservation, error)

	// CancelReservation stamps canceled_at on an active reservation.
	CancelReservation(ctx context.Context, reservationID int64, at time.Time) error
}

// InventoryStore runs a function inside one atomic unit of work.  The
// unit commits when fn returns nil and rolls back entirely otherwise;
// a failed commit must leave no partial writes behind.
type InventoryStore interface {
	WithinTx(ctx context.Context, fn func(tx InventoryTx) error) error
}

// SheetStore reads the static sheet inventory.
type SheetStore interface {
	// ListByRank returns the sheets of one rank ordered by seat number.
	ListByRank(ctx context.Context, rank string) ([]model.Sheet, error)

	// GetByRankAndNum resolves a single sheet; absence is sql.ErrNoRows.
	GetByRankAndNum(ctx context.Context, rank string, num int64) (*model.Sheet, error)
}
