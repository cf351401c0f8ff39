package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// memAggregates serves canned aggregate snapshots.
type memAggregates struct {
	tallies  map[string]*model.RankSummary
	states   []model.SeatState
	recent   []model.ReservationDigest
	spend    int64
	eventIDs []int64
}

func (s *memAggregates) RankTallies(context.Context, int64) (map[string]*model.RankSummary, error) {
	return s.tallies, nil
}

func (s *memAggregates) SeatStates(context.Context, int64) ([]model.SeatState, error) {
	return s.states, nil
}

func (s *memAggregates) RecentReservations(context.Context, int64, int) ([]model.ReservationDigest, error) {
	return s.recent, nil
}

func (s *memAggregates) TotalSpend(context.Context, int64) (int64, error) { return s.spend, nil }

func (s *memAggregates) RecentEventIDs(context.Context, int64, int) ([]int64, error) {
	return s.eventIDs, nil
}

func noUsers() *memUsers { return &memUsers{byID: map[int64]*model.User{}} }

func TestSummarizeAddsBasePrice(t *testing.T) {
	events := newMemEvents(model.Event{Title: "ev", Price: 1000, Public: true})
	agg := &memAggregates{tallies: map[string]*model.RankSummary{
		"S": {Total: 50, Remains: 49, Price: 5000},
		"A": {Total: 150, Remains: 150, Price: 3000},
		"B": {Total: 300, Remains: 300, Price: 1000},
		"C": {Total: 500, Remains: 500, Price: 0},
	}}
	svc := NewAggregateService(events, &memSheets{}, agg, noUsers())

	sum, err := svc.Summarize(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), sum.ID)
	assert.Equal(t, 1000, int(sum.Price))
	assert.Equal(t, 1000, sum.Total)
	assert.Equal(t, 999, sum.Remains)
	require.Len(t, sum.Sheets, 4)
	assert.Equal(t, int64(6000), sum.Sheets["S"].Price)
	assert.Equal(t, int64(4000), sum.Sheets["A"].Price)
	assert.Equal(t, int64(2000), sum.Sheets["B"].Price)
	assert.Equal(t, int64(1000), sum.Sheets["C"].Price)
	assert.Equal(t, 49, sum.Sheets["S"].Remains)
}

func TestSummarizeMissingRankIsZero(t *testing.T) {
	events := newMemEvents(model.Event{Title: "ev", Price: 100, Public: true})
	agg := &memAggregates{tallies: map[string]*model.RankSummary{}}
	svc := NewAggregateService(events, &memSheets{}, agg, noUsers())

	sum, err := svc.Summarize(context.Background(), 1)
	require.NoError(t, err)

	// Every rank is present even without a tally row.
	require.Len(t, sum.Sheets, len(model.Ranks))
	for _, rank := range model.Ranks {
		require.Contains(t, sum.Sheets, rank)
		assert.Zero(t, sum.Sheets[rank].Total)
		assert.Zero(t, sum.Sheets[rank].Remains)
	}
	assert.Zero(t, sum.Total)
}

func TestSummarizeNotFound(t *testing.T) {
	svc := NewAggregateService(newMemEvents(), &memSheets{}, &memAggregates{}, noUsers())
	_, err := svc.Summarize(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

// liveTallies derives rank tallies from the committed inventory rows,
// so summaries in these tests reflect real allocation state instead of
// canned numbers.
type liveTallies struct {
	*memAggregates
	inv *memInventory
}

func (s *liveTallies) RankTallies(_ context.Context, eventID int64) (map[string]*model.RankSummary, error) {
	s.inv.mu.Lock()
	defer s.inv.mu.Unlock()
	tallies := make(map[string]*model.RankSummary)
	for _, sh := range s.inv.layout {
		t := tallies[sh.Rank]
		if t == nil {
			t = &model.RankSummary{Price: sh.Price}
			tallies[sh.Rank] = t
		}
		t.Total++
		held := false
		for _, row := range s.inv.rows {
			if row.EventID == eventID && row.SheetID == sh.ID && row.CanceledAt == nil {
				held = true
				break
			}
		}
		if !held {
			t.Remains++
		}
	}
	return tallies, nil
}

func TestSummarizeTracksAllocationState(t *testing.T) {
	layout := testLayout("S", 3, 5000)
	events := newMemEvents(model.Event{Title: "ev", Price: 1000, Public: true})
	inv := &memInventory{layout: layout}
	reservations := NewReservationService(events, &memSheets{layout: layout}, inv, nil)
	aggregates := NewAggregateService(events, &memSheets{layout: layout}, &liveTallies{memAggregates: &memAggregates{}, inv: inv}, noUsers())
	ctx := context.Background()

	// remains(rank) must equal sheets(rank) minus active reservations
	// after every commit.
	assertRemains := func(want int) {
		t.Helper()
		sum, err := aggregates.Summarize(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, sum.Sheets["S"].Total)
		assert.Equal(t, want, sum.Sheets["S"].Remains)
		assert.Equal(t, 3-inv.activeCount(1), sum.Sheets["S"].Remains)
	}

	assertRemains(3)

	_, sheet, err := reservations.Reserve(ctx, 1, "S", 7)
	require.NoError(t, err)
	assertRemains(2)

	_, _, err = reservations.Reserve(ctx, 1, "S", 8)
	require.NoError(t, err)
	assertRemains(1)

	require.NoError(t, reservations.Cancel(ctx, 1, "S", sheet.Num, 7))
	assertRemains(2)
}

func TestDetailMarksOwnSeats(t *testing.T) {
	layout := testLayout("S", 3, 5000)
	events := newMemEvents(model.Event{Title: "ev", Price: 1000, Public: true})
	agg := &memAggregates{states: []model.SeatState{
		{Rank: "S", Num: 1, Price: 5000, UserID: 7, ReservedAt: 1700000000},
		{Rank: "S", Num: 2, Price: 5000, UserID: 8, ReservedAt: 1700000100},
	}}
	svc := NewAggregateService(events, &memSheets{layout: layout}, agg, noUsers())
	ctx := context.Background()

	det, err := svc.Detail(ctx, 1, 7)
	require.NoError(t, err)

	s := det.Sheets["S"]
	require.NotNil(t, s)
	require.Len(t, s.Detail, 3)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Remains)
	assert.Equal(t, int64(6000), s.Price)

	assert.True(t, s.Detail[0].Reserved)
	assert.True(t, s.Detail[0].Mine, "own seat carries the mine marker")
	assert.Equal(t, int64(1700000000), s.Detail[0].ReservedAt)
	assert.True(t, s.Detail[1].Reserved)
	assert.False(t, s.Detail[1].Mine, "someone else's seat")
	assert.False(t, s.Detail[2].Reserved)
	assert.Zero(t, s.Detail[2].ReservedAt)

	// Ranks with no provisioned sheets still appear, empty.
	require.NotNil(t, det.Sheets["C"])
	assert.Empty(t, det.Sheets["C"].Detail)

	// Anonymous callers never see mine.
	det, err = svc.Detail(ctx, 1, 0)
	require.NoError(t, err)
	assert.False(t, det.Sheets["S"].Detail[0].Mine)
}

func TestSummarizeUser(t *testing.T) {
	events := newMemEvents(model.Event{Title: "ev", Price: 1000, Public: true})
	agg := &memAggregates{
		tallies: map[string]*model.RankSummary{"S": {Total: 1, Remains: 0, Price: 5000}},
		recent: []model.ReservationDigest{
			{ID: 3, SheetRank: "S", SheetNum: 1, Price: 6000, ReservedAt: 1700000200},
			{ID: 1, SheetRank: "A", SheetNum: 4, Price: 4000, ReservedAt: 1700000000, CanceledAt: 1700000100},
		},
		spend:    6000,
		eventIDs: []int64{1},
	}
	users := &memUsers{byID: map[int64]*model.User{
		7: {ID: 7, LoginName: "alice", Nickname: "Alice"},
	}}
	svc := NewAggregateService(events, &memSheets{}, agg, users)

	sum, err := svc.SummarizeUser(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), sum.ID)
	assert.Equal(t, "Alice", sum.Nickname)
	assert.Equal(t, int64(6000), sum.TotalPrice)
	require.Len(t, sum.RecentReservations, 2)
	assert.Equal(t, int64(3), sum.RecentReservations[0].ID)
	require.Len(t, sum.RecentEvents, 1)
	assert.Equal(t, int64(1), sum.RecentEvents[0].ID)
	assert.Equal(t, int64(6000), sum.RecentEvents[0].Sheets["S"].Price)
}

func TestSummarizeUserNotFound(t *testing.T) {
	svc := NewAggregateService(newMemEvents(), &memSheets{}, &memAggregates{}, noUsers())
	_, err := svc.SummarizeUser(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
