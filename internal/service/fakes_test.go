package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service/ports"
)

// memEvents is an in-memory ports.EventStore.
type memEvents struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.Event
}

func newMemEvents(events ...model.Event) *memEvents {
	s := &memEvents{byID: map[int64]*model.Event{}}
	for i := range events {
		ev := events[i]
		s.nextID++
		ev.ID = s.nextID
		s.byID[ev.ID] = &ev
	}
	return s
}

func (s *memEvents) Create(_ context.Context, ev *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	ev.ID = s.nextID
	cp := *ev
	s.byID[ev.ID] = &cp
	return nil
}

func (s *memEvents) GetByID(_ context.Context, id int64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *ev
	return &cp, nil
}

func (s *memEvents) List(_ context.Context, publicOnly bool) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, 0, len(s.byID))
	for id := int64(1); id <= s.nextID; id++ {
		ev, ok := s.byID[id]
		if !ok || (publicOnly && !ev.Public) {
			continue
		}
		out = append(out, *ev)
	}
	return out, nil
}

func (s *memEvents) UpdateFlags(_ context.Context, id int64, public, closed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	ev.Public = public
	ev.Closed = closed
	return nil
}

// memSheets is an in-memory ports.SheetStore over a fixed layout.
type memSheets struct {
	layout []model.Sheet
}

func (s *memSheets) ListByRank(_ context.Context, rank string) ([]model.Sheet, error) {
	var out []model.Sheet
	for _, sh := range s.layout {
		if sh.Rank == rank {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *memSheets) GetByRankAndNum(_ context.Context, rank string, num int64) (*model.Sheet, error) {
	for _, sh := range s.layout {
		if sh.Rank == rank && sh.Num == num {
			cp := sh
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// memInventory is an in-memory ports.InventoryStore.  WithinTx holds one
// mutex for the whole unit, which gives the same serialization the SQL
// implementation gets from row locks, and stages writes so a failed unit
// leaves no trace.
type memInventory struct {
	mu     sync.Mutex
	layout []model.Sheet
	nextID int64
	rows   []*model.Reservation

	insertErr error // injected failure for rollback tests
}

type memTx struct {
	inv      *memInventory
	inserted []*model.Reservation
	canceled map[int64]time.Time
}

func (s *memInventory) WithinTx(_ context.Context, fn func(tx ports.InventoryTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memTx{inv: s, canceled: map[int64]time.Time{}}
	if err := fn(tx); err != nil {
		return err
	}
	for _, res := range tx.inserted {
		cp := *res
		s.rows = append(s.rows, &cp)
	}
	for id, at := range tx.canceled {
		for _, row := range s.rows {
			if row.ID == id && row.CanceledAt == nil {
				t := at
				row.CanceledAt = &t
			}
		}
	}
	return nil
}

func (t *memTx) activeHolder(eventID, sheetID int64) *model.Reservation {
	for _, row := range t.inv.rows {
		if row.EventID == eventID && row.SheetID == sheetID && row.CanceledAt == nil {
			if _, gone := t.canceled[row.ID]; !gone {
				return row
			}
		}
	}
	for _, row := range t.inserted {
		if row.EventID == eventID && row.SheetID == sheetID {
			return row
		}
	}
	return nil
}

func (t *memTx) AvailableSheets(_ context.Context, eventID int64, rank string) ([]model.Sheet, error) {
	var out []model.Sheet
	for _, sh := range t.inv.layout {
		if sh.Rank == rank && t.activeHolder(eventID, sh.ID) == nil {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (t *memTx) InsertReservation(_ context.Context, res *model.Reservation) error {
	if t.inv.insertErr != nil {
		return t.inv.insertErr
	}
	t.inv.nextID++
	res.ID = t.inv.nextID
	t.inserted = append(t.inserted, res)
	return nil
}

func (t *memTx) ActiveReservation(_ context.Context, eventID, sheetID int64) (*model.Reservation, error) {
	res := t.activeHolder(eventID, sheetID)
	if res == nil {
		return nil, sql.ErrNoRows
	}
	cp := *res
	return &cp, nil
}

func (t *memTx) CancelReservation(_ context.Context, reservationID int64, at time.Time) error {
	if t.activeByID(reservationID) == nil {
		return sql.ErrNoRows
	}
	t.canceled[reservationID] = at
	return nil
}

func (t *memTx) activeByID(id int64) *model.Reservation {
	for _, row := range t.inv.rows {
		if row.ID == id && row.CanceledAt == nil {
			if _, gone := t.canceled[id]; !gone {
				return row
			}
		}
	}
	return nil
}

// activeCount reports committed active reservations, for assertions.
func (s *memInventory) activeCount(eventID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, row := range s.rows {
		if row.EventID == eventID && row.CanceledAt == nil {
			n++
		}
	}
	return n
}

// memUsers is an in-memory ports.UserStore.
type memUsers struct {
	byID map[int64]*model.User
}

func (s *memUsers) GetByLogin(_ context.Context, loginName string) (*model.User, error) {
	for _, u := range s.byID {
		if u.LoginName == loginName {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

// testLayout builds a small fixed layout: n seats of the given rank with
// the given price delta, numbered 1..n with unique global IDs.
func testLayout(rank string, n int, delta int64) []model.Sheet {
	out := make([]model.Sheet, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Sheet{ID: int64(i), Rank: rank, Num: int64(i), Price: delta})
	}
	return out
}
