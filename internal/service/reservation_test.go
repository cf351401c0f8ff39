package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

func newReservationFixture(t *testing.T, layout []model.Sheet, events ...model.Event) (*ReservationService, *memInventory, *memEvents) {
	t.Helper()
	evs := newMemEvents(events...)
	inv := &memInventory{layout: layout}
	svc := NewReservationService(evs, &memSheets{layout: layout}, inv, nil)
	return svc, inv, evs
}

func TestReserveAssignsFreeSheet(t *testing.T) {
	layout := testLayout("S", 3, 5000)
	svc, inv, _ := newReservationFixture(t, layout, model.Event{Title: "rock fes", Price: 1000, Public: true})

	res, sheet, err := svc.Reserve(context.Background(), 1, "S", 42)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, sheet)

	assert.NotZero(t, res.ID)
	assert.Equal(t, int64(1), res.EventID)
	assert.Equal(t, sheet.ID, res.SheetID)
	assert.Equal(t, int64(42), res.UserID)
	assert.Equal(t, "S", sheet.Rank)
	assert.Nil(t, res.CanceledAt)
	assert.WithinDuration(t, time.Now().UTC(), res.ReservedAt, 5*time.Second)
	assert.Equal(t, 1, inv.activeCount(1))
}

func TestReservePickIsUsed(t *testing.T) {
	layout := testLayout("A", 5, 3000)
	svc, _, _ := newReservationFixture(t, layout, model.Event{Title: "ev", Price: 0, Public: true})
	svc.pick = func(n int) int { return n - 1 } // always the last candidate

	_, sheet, err := svc.Reserve(context.Background(), 1, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sheet.Num)

	// 5 is now taken, so the last remaining candidate is 4.
	_, sheet, err = svc.Reserve(context.Background(), 1, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), sheet.Num)
}

func TestReserveValidation(t *testing.T) {
	layout := testLayout("S", 1, 5000)
	svc, _, _ := newReservationFixture(t, layout,
		model.Event{Title: "public", Price: 100, Public: true},
		model.Event{Title: "draft", Price: 100, Public: false},
		model.Event{Title: "closed", Price: 100, Public: false, Closed: true},
	)
	ctx := context.Background()

	_, _, err := svc.Reserve(ctx, 999, "S", 1)
	assert.ErrorIs(t, err, ErrInvalidEvent, "missing event")

	_, _, err = svc.Reserve(ctx, 2, "S", 1)
	assert.ErrorIs(t, err, ErrInvalidEvent, "draft event")

	_, _, err = svc.Reserve(ctx, 3, "S", 1)
	assert.ErrorIs(t, err, ErrInvalidEvent, "closed event")

	_, _, err = svc.Reserve(ctx, 1, "X", 1)
	assert.ErrorIs(t, err, ErrInvalidRank)
}

func TestReserveSoldOut(t *testing.T) {
	layout := testLayout("C", 2, 0)
	svc, _, _ := newReservationFixture(t, layout, model.Event{Title: "ev", Price: 500, Public: true})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := svc.Reserve(ctx, 1, "C", int64(i+1))
		require.NoError(t, err)
	}
	_, _, err := svc.Reserve(ctx, 1, "C", 3)
	assert.ErrorIs(t, err, ErrSoldOut)
}

func TestReserveInsertFailureLeavesSeatFree(t *testing.T) {
	layout := testLayout("S", 1, 5000)
	svc, inv, _ := newReservationFixture(t, layout, model.Event{Title: "ev", Price: 100, Public: true})
	ctx := context.Background()

	inv.insertErr = assert.AnError
	_, _, err := svc.Reserve(ctx, 1, "S", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSoldOut)
	assert.Equal(t, 0, inv.activeCount(1))

	// The unit rolled back, so the seat is still sellable.
	inv.insertErr = nil
	_, sheet, err := svc.Reserve(ctx, 1, "S", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sheet.Num)
}

func TestReserveConcurrentNeverDoubleBooks(t *testing.T) {
	const seats = 10
	const callers = 25
	layout := testLayout("A", seats, 3000)
	svc, inv, _ := newReservationFixture(t, layout, model.Event{Title: "ev", Price: 1000, Public: true})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		won     []int64
		soldOut int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			res, _, err := svc.Reserve(context.Background(), 1, "A", userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won = append(won, res.SheetID)
			case err == ErrSoldOut:
				soldOut++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Len(t, won, seats, "exactly one winner per seat")
	assert.Equal(t, callers-seats, soldOut)
	seen := map[int64]bool{}
	for _, id := range won {
		assert.False(t, seen[id], "sheet %d assigned twice", id)
		seen[id] = true
	}
	assert.Equal(t, seats, inv.activeCount(1))
}

func TestCancelReleasesSeat(t *testing.T) {
	layout := testLayout("B", 1, 1000)
	svc, inv, _ := newReservationFixture(t, layout, model.Event{Title: "ev", Price: 100, Public: true})
	ctx := context.Background()

	_, sheet, err := svc.Reserve(ctx, 1, "B", 7)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, 1, "B", sheet.Num, 7))
	assert.Equal(t, 0, inv.activeCount(1))

	// The seat is immediately reservable again, by anyone.
	res, again, err := svc.Reserve(ctx, 1, "B", 8)
	require.NoError(t, err)
	assert.Equal(t, sheet.ID, again.ID)
	assert.Equal(t, int64(8), res.UserID)
}

func TestCancelValidation(t *testing.T) {
	layout := testLayout("S", 2, 5000)
	svc, _, _ := newReservationFixture(t, layout, model.Event{Title: "ev", Price: 100, Public: true})
	ctx := context.Background()

	_, sheet, err := svc.Reserve(ctx, 1, "S", 1)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Cancel(ctx, 999, "S", sheet.Num, 1), ErrInvalidEvent)
	assert.ErrorIs(t, svc.Cancel(ctx, 1, "X", sheet.Num, 1), ErrInvalidRank)
	assert.ErrorIs(t, svc.Cancel(ctx, 1, "S", 99, 1), ErrInvalidSheet)

	// Another user may not release the holder's seat.
	assert.ErrorIs(t, svc.Cancel(ctx, 1, "S", sheet.Num, 2), ErrNotPermitted)

	// A seat nobody holds has nothing to cancel; repeating a cancel
	// reports the same.
	free := int64(1)
	if sheet.Num == free {
		free = 2
	}
	assert.ErrorIs(t, svc.Cancel(ctx, 1, "S", free, 1), ErrNotReserved)
	require.NoError(t, svc.Cancel(ctx, 1, "S", sheet.Num, 1))
	assert.ErrorIs(t, svc.Cancel(ctx, 1, "S", sheet.Num, 1), ErrNotReserved)
}

func TestCancelKeepsHistory(t *testing.T) {
	layout := testLayout("A", 1, 3000)
	svc, inv, _ := newReservationFixture(t, layout, model.Event{Title: "ev", Price: 100, Public: true})
	ctx := context.Background()

	_, sheet, err := svc.Reserve(ctx, 1, "A", 5)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, 1, "A", sheet.Num, 5))
	_, _, err = svc.Reserve(ctx, 1, "A", 6)
	require.NoError(t, err)

	// Soft cancel: both rows survive, only one is active.
	inv.mu.Lock()
	defer inv.mu.Unlock()
	require.Len(t, inv.rows, 2)
	assert.NotNil(t, inv.rows[0].CanceledAt)
	assert.Nil(t, inv.rows[1].CanceledAt)
}

type recordingNotifier struct {
	created  chan *model.Reservation
	canceled chan *model.Reservation
}

func (n *recordingNotifier) ReservationCreated(_ context.Context, res *model.Reservation, _ *model.Event, _ *model.Sheet) {
	n.created <- res
}

func (n *recordingNotifier) ReservationCanceled(_ context.Context, res *model.Reservation, _ *model.Event, _ *model.Sheet) {
	n.canceled <- res
}

func TestReserveAndCancelNotify(t *testing.T) {
	layout := testLayout("S", 1, 5000)
	evs := newMemEvents(model.Event{Title: "ev", Price: 100, Public: true})
	inv := &memInventory{layout: layout}
	notifier := &recordingNotifier{
		created:  make(chan *model.Reservation, 1),
		canceled: make(chan *model.Reservation, 1),
	}
	svc := NewReservationService(evs, &memSheets{layout: layout}, inv, notifier)
	ctx := context.Background()

	res, sheet, err := svc.Reserve(ctx, 1, "S", 3)
	require.NoError(t, err)

	select {
	case got := <-notifier.created:
		assert.Equal(t, res.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("no created notification")
	}

	require.NoError(t, svc.Cancel(ctx, 1, "S", sheet.Num, 3))
	select {
	case got := <-notifier.canceled:
		assert.Equal(t, res.ID, got.ID)
		assert.NotNil(t, got.CanceledAt)
	case <-time.After(time.Second):
		t.Fatal("no canceled notification")
	}
}
