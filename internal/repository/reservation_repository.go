package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service/ports"
)

// ReservationRepo owns the reservations table: the allocation unit of
// work plus the read-only aggregation queries.  Allocation correctness
// rests on WithinTx — the candidate scan takes row locks (FOR UPDATE)
// on the free sheets and their reservation gap, so two transactions can
// never both observe the same sheet as free and both insert a binding
// for it.  Cancellation locks the active reservation row the same way,
// which serializes it against a concurrent allocate for that seat.
type ReservationRepo struct {
	db *sql.DB
}

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// WithinTx runs fn in one transaction.  fn returning an error rolls
// the whole unit back; otherwise the unit commits.  No partial writes
// survive a failure anywhere in the sequence.
func (r *ReservationRepo) WithinTx(ctx context.Context, fn func(tx ports.InventoryTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&inventoryTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// inventoryTx implements ports.InventoryTx over one *sql.Tx.
type inventoryTx struct {
	tx *sql.Tx
}

// AvailableSheets locks and returns every sheet of the rank that has no
// active reservation for the event.  The locks are held until the
// enclosing transaction finishes.
func (t *inventoryTx) AvailableSheets(ctx context.Context, eventID int64, rank string) ([]model.Sheet, error) {
	const q = `SELECT s.id, s.` + "`rank`" + `, s.num, s.price
FROM sheets s
  LEFT JOIN reservations r
    ON r.canceled_at IS NULL
      AND r.event_id = ?
      AND r.sheet_id = s.id
WHERE s.` + "`rank`" + ` = ?
  AND r.id IS NULL
FOR UPDATE`
	rows, err := t.tx.QueryContext(ctx, q, eventID, rank)
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

// InsertReservation appends an active reservation and fills in its ID.
func (t *inventoryTx) InsertReservation(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (event_id, sheet_id, user_id, reserved_at) VALUES (?, ?, ?, ?)`
	result, err := t.tx.ExecContext(ctx, q, res.EventID, res.SheetID, res.UserID, res.ReservedAt)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = id
	return nil
}

// ActiveReservation locks and returns the active holder of the seat;
// sql.ErrNoRows when nobody holds it.
func (t *inventoryTx) ActiveReservation(ctx context.Context, eventID, sheetID int64) (*model.Reservation, error) {
	const q = `SELECT id, event_id, sheet_id, user_id, reserved_at, canceled_at
FROM reservations
WHERE event_id = ?
  AND sheet_id = ?
  AND canceled_at IS NULL
FOR UPDATE`
	var (
		res      model.Reservation
		canceled sql.NullTime
	)
	err := t.tx.QueryRowContext(ctx, q, eventID, sheetID).Scan(
		&res.ID, &res.EventID, &res.SheetID, &res.UserID, &res.ReservedAt, &canceled,
	)
	if err != nil {
		return nil, err
	}
	if canceled.Valid {
		at := canceled.Time
		res.CanceledAt = &at
	}
	return &res, nil
}

// CancelReservation stamps canceled_at on a still-active reservation.
func (t *inventoryTx) CancelReservation(ctx context.Context, reservationID int64, at time.Time) error {
	const q = `UPDATE reservations SET canceled_at = ? WHERE id = ? AND canceled_at IS NULL`
	result, err := t.tx.ExecContext(ctx, q, at, reservationID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RankTallies counts total and remaining sheets per rank for one event
// in a single statement, so both counts come from the same snapshot.
// The COUNT(r.id IS NULL OR NULL) form counts only unreserved sheets.
func (r *ReservationRepo) RankTallies(ctx context.Context, eventID int64) (map[string]*model.RankSummary, error) {
	const q = `SELECT s.` + "`rank`" + `, COUNT(*), COUNT(r.id IS NULL OR NULL), MIN(s.price)
FROM sheets s
  LEFT JOIN reservations r
    ON r.canceled_at IS NULL
      AND r.event_id = ?
      AND r.sheet_id = s.id
GROUP BY s.` + "`rank`"
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tallies := make(map[string]*model.RankSummary)
	for rows.Next() {
		var (
			rank string
			t    model.RankSummary
		)
		if err := rows.Scan(&rank, &t.Total, &t.Remains, &t.Price); err != nil {
			return nil, err
		}
		tallies[rank] = &t
	}
	return tallies, rows.Err()
}

// SeatStates returns the actively held seats of one event, ordered by
// rank then seat number.
func (r *ReservationRepo) SeatStates(ctx context.Context, eventID int64) ([]model.SeatState, error) {
	const q = `SELECT s.` + "`rank`" + `, s.num, s.price, r.user_id,
  CAST(UNIX_TIMESTAMP(r.reserved_at) AS SIGNED)
FROM reservations r
  INNER JOIN sheets s ON s.id = r.sheet_id
WHERE r.event_id = ?
  AND r.canceled_at IS NULL
ORDER BY s.` + "`rank`" + `, s.num`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	states := make([]model.SeatState, 0)
	for rows.Next() {
		var st model.SeatState
		if err := rows.Scan(&st.Rank, &st.Num, &st.Price, &st.UserID, &st.ReservedAt); err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

// RecentReservations lists a user's reservations ordered by most recent
// activity; ties fall back to reservation ID descending so the order is
// deterministic.
func (r *ReservationRepo) RecentReservations(ctx context.Context, userID int64, limit int) ([]model.ReservationDigest, error) {
	const q = `SELECT r.id,
  CAST(UNIX_TIMESTAMP(r.reserved_at) AS SIGNED),
  CAST(IFNULL(UNIX_TIMESTAMP(r.canceled_at), 0) AS SIGNED),
  s.` + "`rank`" + `, s.num, s.price + e.price,
  e.id, e.title, e.price, e.public_fg, e.closed_fg
FROM reservations r
  INNER JOIN events e ON e.id = r.event_id
  INNER JOIN sheets s ON s.id = r.sheet_id
WHERE r.user_id = ?
ORDER BY IFNULL(r.canceled_at, r.reserved_at) DESC, r.id DESC
LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	digests := make([]model.ReservationDigest, 0, limit)
	for rows.Next() {
		var d model.ReservationDigest
		if err := rows.Scan(
			&d.ID, &d.ReservedAt, &d.CanceledAt,
			&d.SheetRank, &d.SheetNum, &d.Price,
			&d.Event.ID, &d.Event.Title, &d.Event.Price, &d.Event.Public, &d.Event.Closed,
		); err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}
	return digests, rows.Err()
}

// TotalSpend sums the full price of the user's active reservations.
func (r *ReservationRepo) TotalSpend(ctx context.Context, userID int64) (int64, error) {
	const q = `SELECT IFNULL(SUM(e.price + s.price), 0)
FROM reservations r
  INNER JOIN events e ON e.id = r.event_id
  INNER JOIN sheets s ON s.id = r.sheet_id
WHERE r.user_id = ?
  AND r.canceled_at IS NULL`
	var total int64
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// RecentEventIDs lists the events the user touched most recently, by
// the latest reserve or cancel per event.
func (r *ReservationRepo) RecentEventIDs(ctx context.Context, userID int64, limit int) ([]int64, error) {
	const q = `SELECT event_id
FROM reservations
WHERE user_id = ?
GROUP BY event_id
ORDER BY MAX(IFNULL(canceled_at, reserved_at)) DESC, MAX(id) DESC
LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
