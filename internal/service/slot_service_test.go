package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turfbooking/internal/db"
	apperr "turfbooking/internal/errors"
	"turfbooking/internal/timeutil"
)

func testTurf() *db.Turf {
	return &db.Turf{
		ID:          1,
		Name:        "Greenfield Arena",
		OpenTime:    "09:00 AM",
		CloseTime:   "11:00 AM",
		SlotMinutes: 60,
	}
}

func TestGenerateSlotsWalksOperatingWindow(t *testing.T) {
	turf := testTurf()
	turf.CloseTime = "12:00 PM"
	turf.SlotMinutes = 30

	slots, err := GenerateSlots(turf, "2026-09-01", 1, nil)
	require.NoError(t, err)

	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, s.Slot)
		assert.True(t, s.Available)
	}
	assert.Equal(t, []string{
		"09:00 AM - 10:00 AM",
		"09:30 AM - 10:30 AM",
		"10:00 AM - 11:00 AM",
		"10:30 AM - 11:30 AM",
		"11:00 AM - 12:00 PM",
	}, labels)
}

func TestGenerateSlotsContainmentBoundary(t *testing.T) {
	turf := testTurf()
	turf.CloseTime = "10:00 AM"
	turf.SlotMinutes = 15

	slots, err := GenerateSlots(turf, "2026-09-01", 1, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "09:00 AM - 10:00 AM", slots[0].Slot)
}

func TestGenerateSlotsSuppressesOverlaps(t *testing.T) {
	turf := testTurf()
	active := []db.Booking{{
		TurfID:      1,
		Slot:        "09:00 AM - 10:00 AM",
		StartMinute: 540,
		EndMinute:   600,
		Status:      db.StatusPending,
	}}

	slots, err := GenerateSlots(turf, "2026-09-01", 1, active)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "10:00 AM - 11:00 AM", slots[0].Slot)
}

func TestGenerateSlotsIgnoresCanceled(t *testing.T) {
	turf := testTurf()
	active := []db.Booking{{
		StartMinute: 540,
		EndMinute:   600,
		Status:      db.StatusCanceled,
	}}

	slots, err := GenerateSlots(turf, "2026-09-01", 1, active)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestGenerateSlotsBlackoutDate(t *testing.T) {
	turf := testTurf()
	turf.BlackoutDates = []string{"2026-09-01"}

	slots, err := GenerateSlots(turf, "2026-09-01", 1, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = GenerateSlots(turf, "2026-09-02", 1, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, slots)
}

func TestGenerateSlotsIdempotent(t *testing.T) {
	turf := testTurf()
	active := []db.Booking{{StartMinute: 540, EndMinute: 600, Status: db.StatusConfirmed}}

	first, err := GenerateSlots(turf, "2026-09-01", 1, active)
	require.NoError(t, err)
	second, err := GenerateSlots(turf, "2026-09-01", 1, active)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateSlotsEveryCandidateWithinWindow(t *testing.T) {
	turf := testTurf()
	turf.OpenTime = "06:00 AM"
	turf.CloseTime = "10:00 PM"
	turf.SlotMinutes = 15

	openM, _ := timeutil.ToMinutes(turf.OpenTime)
	closeM, _ := timeutil.ToMinutes(turf.CloseTime)

	for _, hours := range []float64{0.25, 1, 1.5, 3} {
		slots, err := GenerateSlots(turf, "2026-09-01", hours, nil)
		require.NoError(t, err)
		for _, s := range slots {
			startLabel, endLabel, err := timeutil.SplitSlot(s.Slot)
			require.NoError(t, err)
			startM, err := timeutil.ToMinutes(startLabel)
			require.NoError(t, err)
			endM, err := timeutil.ToMinutes(endLabel)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, startM, openM, s.Slot)
			assert.LessOrEqual(t, endM, closeM, s.Slot)
			assert.Less(t, startM, endM, s.Slot)
		}
	}
}

func TestGenerateSlotsInvalidConfig(t *testing.T) {
	turf := testTurf()
	turf.OpenTime = "11:00 AM"
	turf.CloseTime = "09:00 AM"
	_, err := GenerateSlots(turf, "2026-09-01", 1, nil)
	assert.True(t, errors.Is(err, apperr.ErrInvalidResourceConfig))

	turf = testTurf()
	turf.SlotMinutes = 0
	_, err = GenerateSlots(turf, "2026-09-01", 1, nil)
	assert.True(t, errors.Is(err, apperr.ErrInvalidResourceConfig))

	turf = testTurf()
	turf.OpenTime = "garbage"
	_, err = GenerateSlots(turf, "2026-09-01", 1, nil)
	assert.True(t, errors.Is(err, apperr.ErrInvalidResourceConfig))
}

func TestGenerateSlotsInvalidDuration(t *testing.T) {
	_, err := GenerateSlots(testTurf(), "2026-09-01", 0, nil)
	assert.True(t, errors.Is(err, apperr.ErrInvalidDuration))

	_, err = GenerateSlots(testTurf(), "2026-09-01", -1, nil)
	assert.True(t, errors.Is(err, apperr.ErrInvalidDuration))
}

func TestSelectRate(t *testing.T) {
	turf := testTurf()
	turf.PriceRules = []db.PriceRule{
		{DayClass: db.DayClassWeekday, WindowStart: "06:00 AM", WindowEnd: "05:00 PM", Rate: 800},
		{DayClass: db.DayClassWeekday, WindowStart: "05:00 PM", WindowEnd: "10:00 PM", Rate: 1200},
		{DayClass: db.DayClassWeekend, WindowStart: "06:00 AM", WindowEnd: "10:00 PM", Rate: 1500},
	}

	// 2026-09-01 is a Tuesday, 2026-09-05 a Saturday.
	assert.Equal(t, 800, SelectRate(turf, "2026-09-01", 540))
	assert.Equal(t, 1200, SelectRate(turf, "2026-09-01", 1080))
	assert.Equal(t, 1500, SelectRate(turf, "2026-09-05", 540))

	// No rule covers the slot: rate selection yields zero, availability is untouched.
	assert.Equal(t, 0, SelectRate(turf, "2026-09-01", 120))
}
