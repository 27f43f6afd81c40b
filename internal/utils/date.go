// Date-boundary helpers for history filtering.
//
// All boundaries are computed in UTC so a "from"/"to" day never shifts with
// the server's local timezone.
package utils

import "time"

// dateLayout is the wire format for from/to query parameters.
const dateLayout = "2006-01-02"

// ParseDayStart parses a YYYY-MM-DD value and floors it to 00:00:00 UTC.
// An empty string yields (nil, nil) so absent filters stay absent.
func ParseDayStart(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseDayEnd parses a YYYY-MM-DD value and ceils it to the last nanosecond
// of that day in UTC, making the bound inclusive for timestamps up to
// 23:59:59.999999999. An empty string yields (nil, nil).
func ParseDayEnd(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &end, nil
}
