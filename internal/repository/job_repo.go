package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// TurfDate identifies one turf calendar whose availability changed.
type TurfDate struct {
	TurfID int
	Date   string
}

// GetStalePendingBookingIDs returns ids of pending bookings whose payment was
// never acknowledged before the cutoff.
func (r *JobRepository) GetStalePendingBookingIDs(cutoff time.Time) ([]int, error) {
	query := `SELECT id FROM bookings WHERE status = 'pending' AND payment_status = 'pending' AND created_at < $1`
	rows, err := r.DB.Query(query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("error querying stale pending bookings: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// CancelBookings marks the given bookings canceled and reports which turf
// calendars were touched so their availability can be re-broadcast.
func (r *JobRepository) CancelBookings(ids []int) ([]TurfDate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		UPDATE bookings SET status = 'canceled', updated_at = now()
		WHERE id = ANY($1)
		RETURNING turf_id, to_char(booking_date, 'YYYY-MM-DD')`
	rows, err := r.DB.Query(query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error canceling stale bookings: %w", err)
	}
	defer rows.Close()

	seen := make(map[TurfDate]bool)
	var touched []TurfDate
	for rows.Next() {
		var td TurfDate
		if err := rows.Scan(&td.TurfID, &td.Date); err != nil {
			return nil, fmt.Errorf("error scanning canceled booking: %w", err)
		}
		if !seen[td] {
			seen[td] = true
			touched = append(touched, td)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return touched, nil
}
