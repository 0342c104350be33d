package network

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the correction applied once to a negative travel time.
const MinutesPerDay = 24 * 60

// ParseClock converts a "H:MM:SS" time of the service day into minutes since
// the start of that day. Hours may exceed 23.
func ParseClock(raw string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: expected H:MM:SS", raw)
	}

	var fields [3]int
	for i, part := range parts {
		if !isDigits(part) {
			return 0, fmt.Errorf("invalid time %q: non numeric field %q", raw, part)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", raw, err)
		}
		fields[i] = n
	}

	hours, minutes, seconds := fields[0], fields[1], fields[2]
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("invalid time %q: minutes and seconds must be below 60", raw)
	}

	return float64(hours*60+minutes) + float64(seconds)/60, nil
}

// FormatClock renders an offset from the start of the service day as H:MM:SS.
func FormatClock(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// TravelMinutes returns the time needed to go from one arrival to the next.
// A negative delta is read as a run crossing midnight and is shifted by one
// day, once. It reports whether that correction was applied.
func TravelMinutes(from, to float64) (float64, bool) {
	delta := to - from
	if delta < 0 {
		return delta + MinutesPerDay, true
	}
	return delta, false
}
