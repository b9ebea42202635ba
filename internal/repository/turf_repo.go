package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"turfbooking/internal/db"
)

// TurfRepository reads and writes the turf catalog: operating windows, slot
// granularity, blackout dates and price rules. The booking core treats it as
// a read-only collaborator.
type TurfRepository struct {
	DB *sql.DB
}

func NewTurfRepository(database *sql.DB) *TurfRepository {
	return &TurfRepository{DB: database}
}

// GetTurf loads a turf with its blackout dates and price rules. Returns
// (nil, nil) when no turf with the given id exists.
func (r *TurfRepository) GetTurf(ctx context.Context, id int) (*db.Turf, error) {
	var t db.Turf
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, address, contact_number, open_time, close_time, slot_minutes, active, created_at, updated_at
		FROM turfs WHERE id = $1`, id).Scan(
		&t.ID, &t.Name, &t.Address, &t.ContactNumber, &t.OpenTime, &t.CloseTime,
		&t.SlotMinutes, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying turf %d: %w", id, err)
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT to_char(blackout_date, 'YYYY-MM-DD') FROM turf_blackout_dates WHERE turf_id = $1 ORDER BY blackout_date`, id)
	if err != nil {
		return nil, fmt.Errorf("error querying blackout dates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("error scanning blackout date: %w", err)
		}
		t.BlackoutDates = append(t.BlackoutDates, date)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating blackout dates: %w", err)
	}

	ruleRows, err := r.DB.QueryContext(ctx, `
		SELECT id, turf_id, day_class, window_start, window_end, rate
		FROM turf_price_rules WHERE turf_id = $1 ORDER BY day_class, window_start`, id)
	if err != nil {
		return nil, fmt.Errorf("error querying price rules: %w", err)
	}
	defer ruleRows.Close()
	for ruleRows.Next() {
		var pr db.PriceRule
		if err := ruleRows.Scan(&pr.ID, &pr.TurfID, &pr.DayClass, &pr.WindowStart, &pr.WindowEnd, &pr.Rate); err != nil {
			return nil, fmt.Errorf("error scanning price rule: %w", err)
		}
		t.PriceRules = append(t.PriceRules, pr)
	}
	if err = ruleRows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating price rules: %w", err)
	}

	return &t, nil
}

func (r *TurfRepository) ListTurfs(ctx context.Context) ([]db.Turf, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, address, contact_number, open_time, close_time, slot_minutes, active, created_at, updated_at
		FROM turfs WHERE active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing turfs: %w", err)
	}
	defer rows.Close()

	var turfs []db.Turf
	for rows.Next() {
		var t db.Turf
		if err := rows.Scan(&t.ID, &t.Name, &t.Address, &t.ContactNumber, &t.OpenTime, &t.CloseTime,
			&t.SlotMinutes, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning turf: %w", err)
		}
		turfs = append(turfs, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating turfs: %w", err)
	}
	return turfs, nil
}

// CreateTurf inserts the turf row plus its blackout dates and price rules in
// one transaction.
func (r *TurfRepository) CreateTurf(ctx context.Context, t *db.Turf) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting turf transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO turfs (name, address, contact_number, open_time, close_time, slot_minutes, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		t.Name, t.Address, t.ContactNumber, t.OpenTime, t.CloseTime, t.SlotMinutes, t.Active,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting turf: %w", err)
	}

	if err := insertTurfChildren(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateTurf replaces the turf row and rewrites its blackout dates and price
// rules. Returns false when the turf does not exist.
func (r *TurfRepository) UpdateTurf(ctx context.Context, t *db.Turf) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("error starting turf transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE turfs SET name = $2, address = $3, contact_number = $4, open_time = $5, close_time = $6,
			slot_minutes = $7, active = $8, updated_at = now()
		WHERE id = $1`,
		t.ID, t.Name, t.Address, t.ContactNumber, t.OpenTime, t.CloseTime, t.SlotMinutes, t.Active)
	if err != nil {
		return false, fmt.Errorf("error updating turf %d: %w", t.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM turf_blackout_dates WHERE turf_id = $1`, t.ID); err != nil {
		return false, fmt.Errorf("error clearing blackout dates: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM turf_price_rules WHERE turf_id = $1`, t.ID); err != nil {
		return false, fmt.Errorf("error clearing price rules: %w", err)
	}
	if err := insertTurfChildren(ctx, tx, t); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *TurfRepository) DeleteTurf(ctx context.Context, id int) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM turfs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting turf %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func insertTurfChildren(ctx context.Context, tx *sql.Tx, t *db.Turf) error {
	for _, date := range t.BlackoutDates {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO turf_blackout_dates (turf_id, blackout_date) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			t.ID, date); err != nil {
			return fmt.Errorf("error inserting blackout date %s: %w", date, err)
		}
	}
	for _, pr := range t.PriceRules {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO turf_price_rules (turf_id, day_class, window_start, window_end, rate)
			VALUES ($1, $2, $3, $4, $5)`,
			t.ID, pr.DayClass, pr.WindowStart, pr.WindowEnd, pr.Rate); err != nil {
			return fmt.Errorf("error inserting price rule: %w", err)
		}
	}
	return nil
}
