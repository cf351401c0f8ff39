package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// ReportRepo reads the sales ledger.  Exports include canceled
// reservations; the ledger is append-style history, never a snapshot.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// SalesRows returns ledger rows ordered by reservation ID ascending.
// A nil eventID selects every event.
func (r *ReportRepo) SalesRows(ctx context.Context, eventID *int64) ([]model.SalesRow, error) {
	q := `SELECT r.id, r.event_id, s.` + "`rank`" + `, s.num, s.price + e.price, r.user_id, r.reserved_at, r.canceled_at
FROM reservations r
  INNER JOIN sheets s ON s.id = r.sheet_id
  INNER JOIN events e ON e.id = r.event_id`
	args := []interface{}{}
	if eventID != nil {
		q += `
WHERE r.event_id = ?`
		args = append(args, *eventID)
	}
	q += `
ORDER BY r.id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.SalesRow, 0)
	for rows.Next() {
		var (
			row      model.SalesRow
			canceled sql.NullTime
		)
		if err := rows.Scan(
			&row.ReservationID, &row.EventID, &row.Rank, &row.Num,
			&row.Price, &row.UserID, &row.ReservedAt, &canceled,
		); err != nil {
			return nil, err
		}
		if canceled.Valid {
			at := canceled.Time
			row.CanceledAt = &at
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
