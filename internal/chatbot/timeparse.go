package chatbot

import (
	"strings"
	"time"

	"github.com/crewscheduler/backend/internal/models"
)

// Unparseable dates resolve to the zero time. It sorts before every real
// timestamp and never matches a calendar day the responder asks about.
var sentinel = time.Time{}

var isoLocalLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
}

// shiftStart combines the shift date and start time. A shift without a
// start time has no position on the clock and resolves to the sentinel.
func shiftStart(s models.Shift, loc *time.Location) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s.ShiftDate+" "+s.StartTime, loc)
	if err != nil {
		return sentinel
	}
	return t
}

// flightDeparture accepts ISO 8601 (with or without offset, a trailing Z is
// ignored) and "YYYY-MM-DD HH:MM:SS". Naive values are read in loc.
func flightDeparture(f models.Flight, loc *time.Location) time.Time {
	return parseDateTime(f.DepartureTime, loc)
}

func parseDateTime(raw string, loc *time.Location) time.Time {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "T") {
		t, err := time.ParseInLocation("2006-01-02 15:04:05", raw, loc)
		if err != nil {
			return sentinel
		}
		return t
	}
	raw = strings.ReplaceAll(raw, "Z", "")
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc)
	}
	for _, layout := range isoLocalLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t
		}
	}
	return sentinel
}

// within reports whether a and b are strictly less than d apart. It avoids
// Sub, which saturates when one side is the sentinel.
func within(a, b time.Time, d time.Duration) bool {
	return a.Before(b.Add(d)) && b.Before(a.Add(d))
}

// day truncates t to its calendar date in t's own location.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
