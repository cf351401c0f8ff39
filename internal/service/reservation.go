package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service/ports"
)

// ReservationService is the allocation engine.  Reserve and Cancel run
// their seat-state reads and writes inside one InventoryStore unit of
// work, so two callers racing for the same (event, sheet) serialize on
// the store's row locks and can never both bind the seat.
type ReservationService struct {
	events   ports.EventStore
	sheets   ports.SheetStore
	store    ports.InventoryStore
	notifier ports.ReservationNotifier

	// pick chooses an index into the candidate set.  Overridable in
	// tests; defaults to a uniform choice so no seat is favored.
	pick func(n int) int
}

// NewReservationService wires the allocation engine.  notifier may be
// nil when no broker is configured.
func NewReservationService(events ports.EventStore, sheets ports.SheetStore, store ports.InventoryStore, notifier ports.ReservationNotifier) *ReservationService {
	if events == nil || sheets == nil || store == nil {
		panic("nil store passed to NewReservationService")
	}
	return &ReservationService{
		events:   events,
		sheets:   sheets,
		store:    store,
		notifier: notifier,
		pick:     rand.IntN,
	}
}

// Reserve allocates one free sheet of the requested rank to the user.
// It returns ErrInvalidEvent when the event is missing or not public,
// ErrInvalidRank for an unknown tier and ErrSoldOut when every sheet of
// the rank is held.  Sold-out is an expected outcome under contention,
// not a storage failure.
func (s *ReservationService) Reserve(ctx context.Context, eventID int64, rank string, userID int64) (*model.Reservation, *model.Sheet, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidEvent
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	if !ev.Public || ev.Closed {
		return nil, nil, ErrInvalidEvent
	}
	if !model.ValidRank(rank) {
		return nil, nil, ErrInvalidRank
	}

	var (
		res   *model.Reservation
		sheet model.Sheet
	)
	err = s.store.WithinTx(ctx, func(tx ports.InventoryTx) error {
		candidates, err := tx.AvailableSheets(ctx, eventID, rank)
		if err != nil {
			return fmt.Errorf("load candidates: %w", err)
		}
		if len(candidates) == 0 {
			return ErrSoldOut
		}
		sheet = candidates[s.pick(len(candidates))]
		res = &model.Reservation{
			EventID:    eventID,
			SheetID:    sheet.ID,
			UserID:     userID,
			ReservedAt: time.Now().UTC().Truncate(time.Second),
		}
		if err := tx.InsertReservation(ctx, res); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if s.notifier != nil {
		go s.notifier.ReservationCreated(context.WithoutCancel(ctx), res, ev, &sheet)
	}
	return res, &sheet, nil
}

// Cancel soft-cancels the active reservation on (eventID, rank, num).
// The seat becomes an allocation candidate again the moment the unit
// commits.  Cancellation locks the same reservation row Reserve's
// candidate scan locks, so a cancel and a concurrent allocate for the
// same seat cannot interleave.
func (s *ReservationService) Cancel(ctx context.Context, eventID int64, rank string, num int64, userID int64) error {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidEvent
		}
		return fmt.Errorf("get event: %w", err)
	}
	if !ev.Public || ev.Closed {
		return ErrInvalidEvent
	}
	if !model.ValidRank(rank) {
		return ErrInvalidRank
	}
	sheet, err := s.sheets.GetByRankAndNum(ctx, rank, num)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidSheet
		}
		return fmt.Errorf("get sheet: %w", err)
	}

	var canceled *model.Reservation
	err = s.store.WithinTx(ctx, func(tx ports.InventoryTx) error {
		res, err := tx.ActiveReservation(ctx, eventID, sheet.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotReserved
			}
			return fmt.Errorf("lock active reservation: %w", err)
		}
		if res.UserID != userID {
			return ErrNotPermitted
		}
		at := time.Now().UTC().Truncate(time.Second)
		if err := tx.CancelReservation(ctx, res.ID, at); err != nil {
			return fmt.Errorf("cancel reservation: %w", err)
		}
		res.CanceledAt = &at
		canceled = res
		return nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		go s.notifier.ReservationCanceled(context.WithoutCancel(ctx), canceled, ev, sheet)
	}
	return nil
}
