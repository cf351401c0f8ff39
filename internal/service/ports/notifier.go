package ports

import (
	"context"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// ReservationNotifier fans successful allocations and cancellations out
// to the message broker.  Implementations log and swallow their own
// errors: a broker outage must never fail a reservation.
type ReservationNotifier interface {
	ReservationCreated(ctx context.Context, res *model.Reservation, ev *model.Event, sheet *model.Sheet)
	ReservationCanceled(ctx context.Context, res *model.Reservation, ev *model.Event, sheet *model.Sheet)
}
