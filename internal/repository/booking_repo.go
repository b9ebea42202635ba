package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	"turfbooking/internal/db"
	apperr "turfbooking/internal/errors"
)

// Postgres error codes the ledger reacts to.
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqUniqueViolation      = "23505"
)

// maxConflictRetries bounds how often a serialization failure is retried
// before surfacing as a storage fault.
const maxConflictRetries = 3

// BookingRepository is the authoritative ledger of bookings per turf and date.
type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

const bookingColumns = `id, code, turf_id, to_char(booking_date, 'YYYY-MM-DD'), slot, start_minute, end_minute,
	hours, user_name, user_email, user_phone, status, payment_status, rate, stripe_session_id, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*db.Booking, error) {
	var b db.Booking
	err := row.Scan(
		&b.ID, &b.Code, &b.TurfID, &b.Date, &b.Slot, &b.StartMinute, &b.EndMinute,
		&b.Hours, &b.UserName, &b.UserEmail, &b.UserPhone, &b.Status, &b.PaymentStatus,
		&b.Rate, &b.StripeSessionID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ActiveBookings returns the pending and confirmed bookings for a turf on a
// date, ordered by start time.
func (r *BookingRepository) ActiveBookings(ctx context.Context, turfID int, date string) ([]db.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE turf_id = $1 AND booking_date = $2 AND status IN ($3, $4)
		ORDER BY start_minute`
	rows, err := r.DB.QueryContext(ctx, query, turfID, date, db.StatusPending, db.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("error querying active bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return bookings, nil
}

// InsertIfFree writes the booking with status pending only if its
// [start_minute, end_minute) interval overlaps no active booking for the same
// turf and date. The check and the write run in one SERIALIZABLE transaction,
// so two concurrent callers targeting overlapping intervals cannot both
// observe "free". Serialization failures are retried a bounded number of
// times; a genuine overlap surfaces as ErrSlotConflict and writes nothing.
func (r *BookingRepository) InsertIfFree(ctx context.Context, b *db.Booking) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = r.insertIfFreeOnce(ctx, b)
		if err == nil || !isRetryablePQ(err) {
			return err
		}
		log.Printf("Booking insert for turf %d %s retried after serialization failure (attempt %d): %v",
			b.TurfID, b.Date, attempt, err)
	}
	return fmt.Errorf("%w: %v", apperr.ErrStorageUnavailable, err)
}

func (r *BookingRepository) insertIfFreeOnce(ctx context.Context, b *db.Booking) error {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	var conflict bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE turf_id = $1 AND booking_date = $2
			  AND status IN ($3, $4)
			  AND start_minute < $6 AND end_minute > $5
		)`, b.TurfID, b.Date, db.StatusPending, db.StatusConfirmed, b.StartMinute, b.EndMinute).Scan(&conflict)
	if err != nil {
		return fmt.Errorf("error checking slot overlap: %w", err)
	}
	if conflict {
		return apperr.ErrSlotConflict
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings
		(code, turf_id, booking_date, slot, start_minute, end_minute, hours, user_name, user_email, user_phone,
		 status, payment_status, rate, stripe_session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
		RETURNING id, created_at, updated_at`,
		b.Code, b.TurfID, b.Date, b.Slot, b.StartMinute, b.EndMinute, b.Hours,
		b.UserName, b.UserEmail, b.UserPhone, db.StatusPending, b.PaymentStatus, b.Rate, b.StripeSessionID,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return apperr.ErrSlotConflict
		}
		return fmt.Errorf("error inserting booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return apperr.ErrSlotConflict
		}
		return fmt.Errorf("error committing booking: %w", err)
	}
	b.Status = db.StatusPending
	return nil
}

func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*db.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE code = $1`, code)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying booking %q: %w", code, err)
	}
	return b, nil
}

func (r *BookingRepository) GetByStripeSessionID(ctx context.Context, sessionID string) (*db.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE stripe_session_id = $1`, sessionID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying booking for session %q: %w", sessionID, err)
	}
	return b, nil
}

// UpdateStatusBySessionID flips a booking's lifecycle and payment status after
// the payment collaborator reports an outcome. Returns the updated booking.
func (r *BookingRepository) UpdateStatusBySessionID(ctx context.Context, sessionID, status, paymentStatus string) (*db.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE bookings SET status = $2, payment_status = $3, updated_at = now()
		WHERE stripe_session_id = $1
		RETURNING `+bookingColumns, sessionID, status, paymentStatus)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error updating booking for session %q: %w", sessionID, err)
	}
	return b, nil
}

// CancelByCode marks a booking canceled. Canceled rows stop counting toward
// conflicts immediately. Returns the canceled booking for re-broadcast.
func (r *BookingRepository) CancelByCode(ctx context.Context, code string) (*db.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE bookings SET status = $2, updated_at = now()
		WHERE code = $1 AND status <> $2
		RETURNING `+bookingColumns, code, db.StatusCanceled)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error canceling booking %q: %w", code, err)
	}
	return b, nil
}

// ListBookings returns bookings filtered for the admin console.
func (r *BookingRepository) ListBookings(ctx context.Context, turfID int, date string, statuses []string, limit, offset int) ([]db.Booking, int64, error) {
	where := `WHERE 1=1`
	args := []any{}
	if turfID > 0 {
		args = append(args, turfID)
		where += fmt.Sprintf(` AND turf_id = $%d`, len(args))
	}
	if date != "" {
		args = append(args, date)
		where += fmt.Sprintf(` AND booking_date = $%d`, len(args))
	}
	if len(statuses) > 0 {
		args = append(args, pq.Array(statuses))
		where += fmt.Sprintf(` AND status = ANY($%d)`, len(args))
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting bookings: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM bookings %s ORDER BY booking_date DESC, start_minute LIMIT $%d OFFSET $%d`,
		bookingColumns, where, len(args)-1, len(args))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return bookings, total, nil
}

func isRetryablePQ(err error) bool {
	return isPQCode(err, pqSerializationFailure) || isPQCode(err, pqDeadlockDetected)
}

func isPQCode(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}
