package main

import (
	"fmt"
	"time"
)

const dateOnly = "2006-01-02"

// window resolves the export bounds. An empty --to means now and an empty
// --from means 24h before --to.
func window(from, to string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	toTime, err := parseEnd(to, now.UTC(), loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	fromTime, err := parseStart(from, toTime.Add(-24*time.Hour), loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !fromTime.Before(toTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from (%s) must be before --to (%s)",
			fromTime.Format(time.RFC3339), toTime.Format(time.RFC3339))
	}
	return fromTime, toTime, nil
}

// parseStart parses a start boundary that may be RFC3339 or YYYY-MM-DD.
// Date-only values are midnight in loc. If empty, defaultVal is returned.
func parseStart(val string, defaultVal time.Time, loc *time.Location) (time.Time, error) {
	if val == "" {
		return defaultVal, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t.UTC(), nil
	}
	if d, err := time.ParseInLocation(dateOnly, val, loc); err == nil {
		return d.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid --from %q, expected RFC3339 or YYYY-MM-DD", val)
}

// parseEnd parses an end boundary that may be RFC3339 or YYYY-MM-DD.
// Date-only form is treated as inclusive by converting to the next midnight
// in loc. If empty, defaultVal is returned.
func parseEnd(val string, defaultVal time.Time, loc *time.Location) (time.Time, error) {
	if val == "" {
		return defaultVal, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t.UTC(), nil
	}
	if d, err := time.ParseInLocation(dateOnly, val, loc); err == nil {
		return d.AddDate(0, 0, 1).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid --to %q, expected RFC3339 or YYYY-MM-DD", val)
}
