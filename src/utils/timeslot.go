package utils

import (
	"fmt"
	"rms/src/config"
	"time"
)

// ParseClock converts a wall-clock "HH:MM" string to minutes since
// midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse(config.TIME_PARSE_FORMAT, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, ErrBadRequest)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// SlotOverlaps reports whether the half-open intervals
// [startA, startA+durA) and [startB, startB+durB) intersect. Durations are
// in minutes; back-to-back slots do not overlap.
func SlotOverlaps(startA, durA, startB, durB int) bool {
	endA := startA + durA
	endB := startB + durB
	return startA < endB && startB < endA
}

// EndClock renders the derived end time for a start clock and duration.
func EndClock(clock string, durationMinutes int) string {
	start, err := ParseClock(clock)
	if err != nil {
		return ""
	}
	end := (start + durationMinutes) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", end/60, end%60)
}

// SlotStart resolves the absolute start of a reservation slot.
func SlotStart(date string, clock string) (time.Time, error) {
	t, err := time.Parse(config.DATE_PARSE_FORMAT+" "+config.TIME_PARSE_FORMAT, date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot %q %q: %w", date, clock, ErrBadRequest)
	}
	return t, nil
}

func DurationOrDefault(duration *int) int {
	if duration != nil && *duration > 0 {
		return *duration
	}
	return config.DEFAULT_RESERVATION_DURATION_MINUTES
}
