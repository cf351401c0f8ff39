// Package repository implements the MySQL persistence layer.  Each
// repository owns the SQL for one aggregate; absence of a row is
// reported as sql.ErrNoRows so the service layer can translate it.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// EventRepo persists events.  Rows are only ever inserted and have
// their lifecycle flags updated; deletion is not supported.
type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// Create inserts a new event and fills in the generated ID.  New
// events are never closed.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events (title, price, public_fg, closed_fg) VALUES (?, ?, ?, 0)`
	result, err := r.db.ExecContext(ctx, q, ev.Title, ev.Price, ev.Public)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = id
	ev.Closed = false
	return nil
}

// GetByID returns one event; sql.ErrNoRows when it does not exist.
func (r *EventRepo) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	const q = `SELECT id, title, price, public_fg, closed_fg FROM events WHERE id = ?`
	var ev model.Event
	err := r.db.QueryRowContext(ctx, q, id).Scan(&ev.ID, &ev.Title, &ev.Price, &ev.Public, &ev.Closed)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// List returns events ordered by ID.  publicOnly restricts the result
// to events currently on sale.
func (r *EventRepo) List(ctx context.Context, publicOnly bool) ([]model.Event, error) {
	q := `SELECT id, title, price, public_fg, closed_fg FROM events ORDER BY id`
	if publicOnly {
		q = `SELECT id, title, price, public_fg, closed_fg FROM events WHERE public_fg = 1 ORDER BY id`
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Price, &ev.Public, &ev.Closed); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// UpdateFlags stores a lifecycle change.  The service layer has already
// validated the transition, including forcing public off when closing.
func (r *EventRepo) UpdateFlags(ctx context.Context, id int64, public, closed bool) error {
	const q = `UPDATE events SET public_fg = ?, closed_fg = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, public, closed, id)
	return err
}
