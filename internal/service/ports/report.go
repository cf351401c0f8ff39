package ports

import (
	"context"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// ReportStore reads the sales ledger.  A nil eventID selects all
// events.  Rows come back ordered by reservation ID ascending.
type ReportStore interface {
	SalesRows(ctx context.Context, eventID *int64) ([]model.SalesRow, error)
}
