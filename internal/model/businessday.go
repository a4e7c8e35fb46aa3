package model

import (
	"fmt"
	"time"
)

// DayFormat is the wire and storage format of a business day.
const DayFormat = "2006-01-02"

// businessLoc is the single timezone in which calendar-day boundaries
// are taken.  Every writer derives business days through this package
// so the boundary is computed the same way at every call site.
var businessLoc = time.Local

// SetBusinessLocation fixes the timezone used for business-day
// derivation.  Called once at startup, before any writer runs.
func SetBusinessLocation(loc *time.Location) {
	if loc != nil {
		businessLoc = loc
	}
}

// BusinessDay returns the calendar-day bucket for an instant, in the
// configured business timezone.
func BusinessDay(t time.Time) string {
	return t.In(businessLoc).Format(DayFormat)
}

// ValidateDay checks a YYYY-MM-DD string and returns it normalized.
func ValidateDay(raw string) (string, error) {
	t, err := time.ParseInLocation(DayFormat, raw, businessLoc)
	if err != nil {
		return "", fmt.Errorf("invalid business day %q", raw)
	}
	return t.Format(DayFormat), nil
}
