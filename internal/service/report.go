package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/iliyamo/event-ticket-reservation/internal/service/ports"
)

// reportTimeFormat is the fixed timestamp format of exported ledgers.
// Changing it breaks downstream consumers.
const reportTimeFormat = "2006-01-02T15:04:05Z"

// SalesHeader is the column order of the sales export.  The order is a
// compatibility contract and must not change.
var SalesHeader = []string{
	"reservation_id", "event_id", "rank", "num",
	"price", "user_id", "sold_at", "canceled_at",
}

// ReportService renders the sales ledger for one event or for all of
// them.  The export is full history: canceled reservations appear with
// their cancellation timestamp populated.
type ReportService struct {
	reports ports.ReportStore
}

func NewReportService(reports ports.ReportStore) *ReportService {
	if reports == nil {
		panic("nil store passed to NewReportService")
	}
	return &ReportService{reports: reports}
}

// ExportSales returns ledger records in SalesHeader column order,
// sorted by reservation ID ascending.  A nil eventID exports every
// event.  canceled_at is empty for active reservations.
func (s *ReportService) ExportSales(ctx context.Context, eventID *int64) ([][]string, error) {
	rows, err := s.reports.SalesRows(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load sales rows: %w", err)
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		canceled := ""
		if r.CanceledAt != nil {
			canceled = r.CanceledAt.UTC().Format(reportTimeFormat)
		}
		records = append(records, []string{
			strconv.FormatInt(r.ReservationID, 10),
			strconv.FormatInt(r.EventID, 10),
			r.Rank,
			strconv.FormatInt(r.Num, 10),
			strconv.FormatInt(r.Price, 10),
			strconv.FormatInt(r.UserID, 10),
			r.ReservedAt.UTC().Format(reportTimeFormat),
			canceled,
		})
	}
	return records, nil
}

// FormatReportTime exposes the ledger timestamp format for callers that
// need to render single values (e.g. tests and log consumers).
func FormatReportTime(t time.Time) string { return t.UTC().Format(reportTimeFormat) }
