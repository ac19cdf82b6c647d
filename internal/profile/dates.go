package profile

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"01/2006",
	"2006",
}

var presentMarkers = map[string]struct{}{
	"":             {},
	"present":      {},
	"présent":      {},
	"current":      {},
	"now":          {},
	"aujourd'hui":  {},
	"en cours":     {},
	"actuellement": {},
}

// ParseDate parses the date formats accepted in profiles.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q (expected YYYY-MM-DD, YYYY-MM, MM/YYYY or YYYY)", s)
}

// IsPresent reports whether an end date means the position is still held.
func IsPresent(s string) bool {
	_, ok := presentMarkers[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Months returns the whole months spent in the position. Unknown or inverted
// dates count as zero.
func (e Experience) Months(now time.Time) int {
	start, err := ParseDate(e.StartDate)
	if err != nil {
		return 0
	}

	end := now
	if !IsPresent(e.EndDate) {
		if end, err = ParseDate(e.EndDate); err != nil {
			return 0
		}
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// Period renders "start - end" for display.
func (e Experience) Period() string {
	start := strings.TrimSpace(e.StartDate)
	if start == "" {
		return ""
	}
	end := strings.TrimSpace(e.EndDate)
	if IsPresent(end) {
		end = "Présent"
	}
	return start + " - " + end
}
