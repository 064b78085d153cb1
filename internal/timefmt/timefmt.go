// Package timefmt renders timestamps in the API's fixed display timezone
// and provides the calendar-day arithmetic shared by habits and diaries.
package timefmt

import (
	"fmt"
	"time"
)

// DisplayLayout is the wire format for every timestamp the API emits.
const DisplayLayout = "2006-01-02 15:04:05"

// displayZone is UTC+8. Clients render whatever the API sends verbatim,
// so output must not depend on the deployment locale.
var displayZone = time.FixedZone("UTC+8", 8*60*60)

// Format renders the instant as a display-zone timestamp string.
// The zero time renders as an empty string.
func Format(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(displayZone).Format(DisplayLayout)
}

// DayStart returns the instant at which the display-zone calendar day
// containing value begins.
func DayStart(value time.Time) time.Time {
	local := value.In(displayZone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, displayZone)
}

// SameDay reports whether both instants fall on the same display-zone
// calendar day.
func SameDay(first, second time.Time) bool {
	return DayStart(first).Equal(DayStart(second))
}

// PreviousDay returns the start of the calendar day immediately before the
// day containing value.
func PreviousDay(value time.Time) time.Time {
	return DayStart(value).AddDate(0, 0, -1)
}

// ParseInput parses a client-supplied date string. Bare dates and
// display-layout timestamps are interpreted in the display zone; RFC 3339
// values carry their own offset.
func ParseInput(value string) (time.Time, error) {
	if parsed, err := time.ParseInLocation("2006-01-02", value, displayZone); err == nil {
		return parsed, nil
	}
	if parsed, err := time.ParseInLocation(DisplayLayout, value, displayZone); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("timefmt: unrecognized date %q", value)
}
