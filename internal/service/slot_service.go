package service

import (
	"fmt"
	"math"
	"time"

	"turfbooking/internal/db"
	"turfbooking/internal/entities"
	apperr "turfbooking/internal/errors"
	"turfbooking/internal/timeutil"
)

// GenerateSlots derives the bookable windows for a turf on one date, given the
// requested duration and the active (pending or confirmed) bookings for that
// date. Candidates walk the operating window in granularity steps; a candidate
// that would not fit entirely before closing, or that overlaps an active
// booking on the half-open interval test, is suppressed. The result is a view:
// it is recomputed from current state on every call and never cached.
func GenerateSlots(turf *db.Turf, date string, requestedHours float64, active []db.Booking) ([]entities.Slot, error) {
	if requestedHours <= 0 {
		return nil, fmt.Errorf("%w: requested %v hours", apperr.ErrInvalidDuration, requestedHours)
	}
	step := turf.SlotMinutes
	if step <= 0 {
		return nil, fmt.Errorf("%w: slot granularity %d", apperr.ErrInvalidResourceConfig, step)
	}
	openM, err := timeutil.ToMinutes(turf.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%w: open time: %v", apperr.ErrInvalidResourceConfig, err)
	}
	closeM, err := timeutil.ToMinutes(turf.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%w: close time: %v", apperr.ErrInvalidResourceConfig, err)
	}
	// Windows spanning midnight are not representable in the minute-of-day
	// model and are rejected up front.
	if openM >= closeM {
		return nil, fmt.Errorf("%w: open %q is not before close %q", apperr.ErrInvalidResourceConfig, turf.OpenTime, turf.CloseTime)
	}

	// A blackout date is a normal outcome, not a fault: no slots today.
	if IsBlackoutDate(turf, date) {
		return []entities.Slot{}, nil
	}

	durationMin := int(math.Round(requestedHours * 60))
	slots := []entities.Slot{}
	for cursor := openM; cursor < closeM; cursor += step {
		// Raw minute count, deliberately unwrapped: a candidate whose end
		// passes midnight always exceeds closeM and terminates the walk.
		endM := cursor + durationMin
		if endM > closeM {
			break
		}
		if overlapsAny(cursor, endM, active) {
			continue
		}
		slots = append(slots, entities.Slot{
			Slot:      timeutil.FormatSlot(timeutil.ToLabel(cursor), timeutil.ToLabel(endM)),
			Available: true,
		})
	}
	return slots, nil
}

// overlapsAny applies the half-open interval test: [start, end) overlaps
// [b.Start, b.End) iff start < b.End && end > b.Start.
func overlapsAny(startM, endM int, active []db.Booking) bool {
	for _, b := range active {
		if b.Status == db.StatusCanceled {
			continue
		}
		if startM < b.EndMinute && endM > b.StartMinute {
			return true
		}
	}
	return false
}

// IsBlackoutDate reports whether the turf accepts no bookings on the date.
func IsBlackoutDate(turf *db.Turf, date string) bool {
	for _, d := range turf.BlackoutDates {
		if d == date {
			return true
		}
	}
	return false
}

// SelectRate picks the applicable price rule for a slot starting at
// startMinute on the given date and returns its rate. Rules constrain pricing
// only, never availability; with no matching rule the rate is zero.
func SelectRate(turf *db.Turf, date string, startMinute int) int {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0
	}
	dayClass := db.DayClassWeekday
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		dayClass = db.DayClassWeekend
	}
	for _, pr := range turf.PriceRules {
		if pr.DayClass != dayClass {
			continue
		}
		ws, err1 := timeutil.ToMinutes(pr.WindowStart)
		we, err2 := timeutil.ToMinutes(pr.WindowEnd)
		if err1 != nil || err2 != nil {
			continue
		}
		if startMinute >= ws && startMinute < we {
			return pr.Rate
		}
	}
	return 0
}
