// Package timeutil converts between the 12-hour time-of-day labels used on turf
// operating windows and booking slots ("09:00 AM") and minutes since midnight.
package timeutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	apperr "turfbooking/internal/errors"
)

// MinutesPerDay bounds every minute-of-day value; labels never roll over to the
// next calendar date.
const MinutesPerDay = 24 * 60

var labelPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2}) (AM|PM)$`)

// ToMinutes parses a "hh:mm AM|PM" label into minutes since midnight (0-1439).
func ToMinutes(label string) (int, error) {
	m := labelPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", apperr.ErrMalformedTimeLabel, label)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", apperr.ErrMalformedTimeLabel, label)
	}
	if m[3] == "PM" && hour != 12 {
		hour += 12
	}
	if m[3] == "AM" && hour == 12 {
		hour = 0
	}
	return hour*60 + minute, nil
}

// ToLabel is the inverse of ToMinutes. Values are wrapped modulo one day before
// formatting, so 1440 and 0 both render as "12:00 AM".
func ToLabel(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	hour24 := minutes / 60
	minute := minutes % 60
	hour12 := hour24 % 12
	if hour12 == 0 {
		hour12 = 12
	}
	period := "AM"
	if hour24 >= 12 {
		period = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", hour12, minute, period)
}

// AddHours computes the end label for a slot starting at startLabel and lasting
// the given fractional hours. The result wraps past midnight without any day
// rollover; callers comparing against a closing time must use raw minute counts.
func AddHours(startLabel string, hours float64) (string, error) {
	start, err := ToMinutes(startLabel)
	if err != nil {
		return "", err
	}
	return ToLabel(start + int(math.Round(hours*60))), nil
}

// SplitSlot breaks a "<start> - <end>" slot label into its two time labels.
func SplitSlot(slot string) (startLabel, endLabel string, err error) {
	parts := strings.Split(slot, " - ")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: slot %q", apperr.ErrMalformedTimeLabel, slot)
	}
	return parts[0], parts[1], nil
}

// FormatSlot renders the canonical slot label for a start/end pair.
func FormatSlot(startLabel, endLabel string) string {
	return startLabel + " - " + endLabel
}
