package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service/ports"
)

// EventService owns the event lifecycle.  Events start as drafts,
// become sellable when published and end closed; there is no way back
// out of closed.
type EventService struct {
	events ports.EventStore
}

func NewEventService(events ports.EventStore) *EventService {
	if events == nil {
		panic("nil store passed to NewEventService")
	}
	return &EventService{events: events}
}

// Create registers a new event.  public=true publishes it immediately;
// new events are never closed.
func (s *EventService) Create(ctx context.Context, title string, price int64, public bool) (*model.Event, error) {
	ev := &model.Event{Title: title, Price: price, Public: public}
	if err := s.events.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return ev, nil
}

// Get returns one event regardless of visibility.
func (s *EventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

// List returns events ordered by ID, optionally only public ones.
func (s *EventService) List(ctx context.Context, publicOnly bool) ([]model.Event, error) {
	return s.events.List(ctx, publicOnly)
}

// Edit applies an admin lifecycle change.  Closing an event forces it
// off sale in the same update, so closed+public can never be stored.
// The request is still rejected with ErrClosePublicEvent when it tries
// to close an event that is currently public: callers must unpublish
// and close together, which the forced flag expresses.
func (s *EventService) Edit(ctx context.Context, id int64, public, closed bool) (*model.Event, error) {
	if closed {
		public = false
	}

	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if ev.Closed {
		return nil, ErrClosedEvent
	}
	if ev.Public && closed {
		return nil, ErrClosePublicEvent
	}

	if err := s.events.UpdateFlags(ctx, id, public, closed); err != nil {
		return nil, fmt.Errorf("update event flags: %w", err)
	}
	ev.Public = public
	ev.Closed = closed
	return ev, nil
}
