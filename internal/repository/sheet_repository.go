package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// SheetRepo reads the static sheet inventory.  Sheets are provisioned
// once per (rank, num) slot and shared by every event; there is no
// write path.
type SheetRepo struct {
	db *sql.DB
}

func NewSheetRepo(db *sql.DB) *SheetRepo { return &SheetRepo{db: db} }

// ListByRank returns the sheets of one rank ordered by seat number.
func (r *SheetRepo) ListByRank(ctx context.Context, rank string) ([]model.Sheet, error) {
	const q = `SELECT id, ` + "`rank`" + `, num, price FROM sheets WHERE ` + "`rank`" + ` = ? ORDER BY num`
	rows, err := r.db.QueryContext(ctx, q, rank)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sheets := make([]model.Sheet, 0)
	for rows.Next() {
		var s model.Sheet
		if err := rows.Scan(&s.ID, &s.Rank, &s.Num, &s.Price); err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, rows.Err()
}

// GetByRankAndNum resolves one sheet; sql.ErrNoRows when the slot does
// not exist.
func (r *SheetRepo) GetByRankAndNum(ctx context.Context, rank string, num int64) (*model.Sheet, error) {
	const q = `SELECT id, ` + "`rank`" + `, num, price FROM sheets WHERE ` + "`rank`" + ` = ? AND num = ?`
	var s model.Sheet
	if err := r.db.QueryRowContext(ctx, q, rank, num).Scan(&s.ID, &s.Rank, &s.Num, &s.Price); err != nil {
		return nil, err
	}
	return &s, nil
}
