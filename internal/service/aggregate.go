package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service/ports"
)

// AggregateService computes the derived views: per-event seat counts
// and the per-user activity summary.  It only reads; every count comes
// from a single snapshot query, so totals and remaining counts can
// never mix two points in time.
type AggregateService struct {
	events ports.EventStore
	sheets ports.SheetStore
	agg    ports.AggregateStore
	users  ports.UserStore
}

func NewAggregateService(events ports.EventStore, sheets ports.SheetStore, agg ports.AggregateStore, users ports.UserStore) *AggregateService {
	if events == nil || sheets == nil || agg == nil || users == nil {
		panic("nil store passed to NewAggregateService")
	}
	return &AggregateService{events: events, sheets: sheets, agg: agg, users: users}
}

// Summarize returns the event with per-rank totals, remaining counts
// and full prices.  remains(rank) always equals sheets(rank) minus
// active reservations of that rank for this event.
func (s *AggregateService) Summarize(ctx context.Context, eventID int64) (*model.EventSummary, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.summarize(ctx, ev)
}

func (s *AggregateService) summarize(ctx context.Context, ev *model.Event) (*model.EventSummary, error) {
	tallies, err := s.agg.RankTallies(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("rank tallies: %w", err)
	}
	sum := &model.EventSummary{
		ID:     ev.ID,
		Title:  ev.Title,
		Price:  ev.Price,
		Public: ev.Public,
		Closed: ev.Closed,
		Sheets: make(map[string]*model.RankSummary, len(model.Ranks)),
	}
	for _, rank := range model.Ranks {
		t, ok := tallies[rank]
		if !ok {
			t = &model.RankSummary{}
		}
		sum.Sheets[rank] = &model.RankSummary{
			Total:   t.Total,
			Remains: t.Remains,
			Price:   ev.Price + t.Price,
		}
		sum.Total += t.Total
		sum.Remains += t.Remains
	}
	return sum, nil
}

// Detail returns the seat-level view of one event: the full sheet
// layout per rank, overlaid with the active holders.  loginUserID
// marks the caller's own seats; pass 0 for anonymous requests.
func (s *AggregateService) Detail(ctx context.Context, eventID, loginUserID int64) (*model.EventDetail, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	states, err := s.agg.SeatStates(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("seat states: %w", err)
	}
	held := make(map[string]map[int64]model.SeatState, len(model.Ranks))
	for _, st := range states {
		m := held[st.Rank]
		if m == nil {
			m = make(map[int64]model.SeatState)
			held[st.Rank] = m
		}
		m[st.Num] = st
	}

	det := &model.EventDetail{
		ID:     ev.ID,
		Title:  ev.Title,
		Price:  ev.Price,
		Public: ev.Public,
		Closed: ev.Closed,
		Sheets: make(map[string]*model.RankDetail, len(model.Ranks)),
	}
	for _, rank := range model.Ranks {
		layout, err := s.sheets.ListByRank(ctx, rank)
		if err != nil {
			return nil, fmt.Errorf("list sheets: %w", err)
		}
		rd := &model.RankDetail{Detail: make([]model.SeatDetail, 0, len(layout))}
		det.Sheets[rank] = rd
		for _, sh := range layout {
			if rd.Price == 0 {
				rd.Price = ev.Price + sh.Price
			}
			det.Total++
			rd.Total++

			seat := model.SeatDetail{Num: sh.Num}
			if st, ok := held[rank][sh.Num]; ok {
				seat.Reserved = true
				seat.ReservedAt = st.ReservedAt
				seat.Mine = loginUserID != 0 && st.UserID == loginUserID
			} else {
				det.Remains++
				rd.Remains++
			}
			rd.Detail = append(rd.Detail, seat)
		}
	}
	return det, nil
}

// SummarizeUser builds the "my page" view for a user: five most recent
// reservations, lifetime spend over active reservations, and the five
// most recently touched events with full aggregates.
func (s *AggregateService) SummarizeUser(ctx context.Context, userID int64) (*model.UserSummary, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	recent, err := s.agg.RecentReservations(ctx, userID, 5)
	if err != nil {
		return nil, fmt.Errorf("recent reservations: %w", err)
	}
	total, err := s.agg.TotalSpend(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("total spend: %w", err)
	}
	eventIDs, err := s.agg.RecentEventIDs(ctx, userID, 5)
	if err != nil {
		return nil, fmt.Errorf("recent event ids: %w", err)
	}

	events := make([]*model.EventSummary, 0, len(eventIDs))
	for _, id := range eventIDs {
		sum, err := s.Summarize(ctx, id)
		if err != nil {
			return nil, err
		}
		events = append(events, sum)
	}

	return &model.UserSummary{
		ID:                 u.ID,
		Nickname:           u.Nickname,
		RecentReservations: recent,
		TotalPrice:         total,
		RecentEvents:       events,
	}, nil
}
