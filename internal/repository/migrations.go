package repository

import "database/sql"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS turfs (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	address TEXT NOT NULL DEFAULT '',
	contact_number TEXT NOT NULL DEFAULT '',
	open_time TEXT NOT NULL,
	close_time TEXT NOT NULL,
	slot_minutes INT NOT NULL DEFAULT 15,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS turf_blackout_dates (
	turf_id INT NOT NULL REFERENCES turfs(id) ON DELETE CASCADE,
	blackout_date DATE NOT NULL,
	PRIMARY KEY (turf_id, blackout_date)
);

CREATE TABLE IF NOT EXISTS turf_price_rules (
	id SERIAL PRIMARY KEY,
	turf_id INT NOT NULL REFERENCES turfs(id) ON DELETE CASCADE,
	day_class TEXT NOT NULL CHECK (day_class IN ('weekday', 'weekend')),
	window_start TEXT NOT NULL,
	window_end TEXT NOT NULL,
	rate INT NOT NULL CHECK (rate >= 0)
);

CREATE TABLE IF NOT EXISTS bookings (
	id SERIAL PRIMARY KEY,
	code TEXT UNIQUE NOT NULL,
	turf_id INT NOT NULL REFERENCES turfs(id),
	booking_date DATE NOT NULL,
	slot TEXT NOT NULL,
	start_minute INT NOT NULL,
	end_minute INT NOT NULL,
	hours NUMERIC(4,2) NOT NULL,
	user_name TEXT NOT NULL DEFAULT '',
	user_email TEXT NOT NULL,
	user_phone TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	payment_status TEXT NOT NULL DEFAULT 'pending',
	rate INT NOT NULL DEFAULT 0,
	stripe_session_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- Backstop against exact-duplicate slots. Partially overlapping slots carry
-- different labels, so the serializable re-check in InsertIfFree remains the
-- real double-booking guard.
CREATE UNIQUE INDEX IF NOT EXISTS bookings_turf_date_slot_key
	ON bookings (turf_id, booking_date, slot) WHERE status <> 'canceled';

CREATE INDEX IF NOT EXISTS bookings_turf_date_status_idx
	ON bookings (turf_id, booking_date, status);

CREATE TABLE IF NOT EXISTS ratings (
	id SERIAL PRIMARY KEY,
	turf_id INT NOT NULL REFERENCES turfs(id) ON DELETE CASCADE,
	score INT NOT NULL CHECK (score BETWEEN 0 AND 10),
	comment TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS admins (
	id SERIAL PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL
);
`

// Migrate creates the schema on startup if it does not exist yet.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}
