package timeutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "turfbooking/internal/errors"
)

func TestToMinutes(t *testing.T) {
	cases := []struct {
		label   string
		minutes int
	}{
		{"12:00 AM", 0},
		{"12:30 AM", 30},
		{"01:00 AM", 60},
		{"9:15 AM", 555},
		{"11:59 AM", 719},
		{"12:00 PM", 720},
		{"01:00 PM", 780},
		{"11:59 PM", 1439},
	}
	for _, c := range cases {
		got, err := ToMinutes(c.label)
		require.NoError(t, err, c.label)
		assert.Equal(t, c.minutes, got, c.label)
	}
}

func TestToMinutesMalformed(t *testing.T) {
	for _, label := range []string{"", "9:15", "25:00 AM", "09:75 PM", "09:00am", "9.15 AM", "13:00 PM"} {
		_, err := ToMinutes(label)
		assert.True(t, errors.Is(err, apperr.ErrMalformedTimeLabel), "label %q", label)
	}
}

func TestRoundTripAllMinutes(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		got, err := ToMinutes(ToLabel(m))
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
}

func TestToLabelWraps(t *testing.T) {
	assert.Equal(t, "12:00 AM", ToLabel(MinutesPerDay))
	assert.Equal(t, "01:30 AM", ToLabel(MinutesPerDay+90))
	assert.Equal(t, "11:00 PM", ToLabel(-60))
}

func TestAddHours(t *testing.T) {
	end, err := AddHours("09:00 AM", 1)
	require.NoError(t, err)
	assert.Equal(t, "10:00 AM", end)

	end, err = AddHours("09:00 AM", 1.5)
	require.NoError(t, err)
	assert.Equal(t, "10:30 AM", end)

	end, err = AddHours("11:45 PM", 0.25)
	require.NoError(t, err)
	assert.Equal(t, "12:00 AM", end)

	// Wraps silently past midnight; the slot generator rejects such candidates.
	end, err = AddHours("11:30 PM", 2)
	require.NoError(t, err)
	assert.Equal(t, "01:30 AM", end)

	_, err = AddHours("garbage", 1)
	assert.True(t, errors.Is(err, apperr.ErrMalformedTimeLabel))
}

func TestSplitSlot(t *testing.T) {
	start, end, err := SplitSlot("09:00 AM - 10:00 AM")
	require.NoError(t, err)
	assert.Equal(t, "09:00 AM", start)
	assert.Equal(t, "10:00 AM", end)

	_, _, err = SplitSlot("09:00 AM")
	assert.Error(t, err)
}
