package bill

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const wireDateLayout = "2006-01-02"

// monthAbbreviations maps the French month abbreviations used by the
// presentation layer to calendar months. The keys match the exact strings
// the backend has historically produced, trailing dot included.
var monthAbbreviations = map[string]time.Month{
	"Jan.":  time.January,
	"Fév.":  time.February,
	"Mar.":  time.March,
	"Avr.":  time.April,
	"Mai":   time.May,
	"Juin":  time.June,
	"Juil.": time.July,
	"Août":  time.August,
	"Sept.": time.September,
	"Oct.":  time.October,
	"Nov.":  time.November,
	"Déc.":  time.December,
}

// FormatDate converts a wire date (YYYY-MM-DD) into the display form
// DD/MM/YYYY. A malformed wire date is an error; the caller decides whether
// to degrade or abort.
func FormatDate(wire string) (string, error) {
	t, err := time.Parse(wireDateLayout, wire)
	if err != nil {
		return "", fmt.Errorf("invalid wire date %q: %w", wire, err)
	}
	return t.Format("02/01/2006"), nil
}

// ParseDisplayDate turns a display-formatted date back into a calendar day.
// It accepts DD/MM/YYYY and the abbreviated French form ("4 Avr. 2004").
// Only the resulting calendar date may be used for ordering; the display
// strings themselves do not sort chronologically.
func ParseDisplayDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return t, nil
	}

	parts := strings.Fields(s)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unrecognized display date %q", s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized display date %q", s)
	}
	month, ok := monthAbbreviations[parts[1]]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month abbreviation %q", parts[1])
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized display date %q", s)
	}
	if year < 100 {
		year += 2000
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// sortKey resolves the calendar date of a bill for ordering, trying the wire
// layout first and the display layouts as fallback for already-formatted
// records. Unparseable dates sort last.
func sortKey(b Bill) (time.Time, bool) {
	if t, err := time.Parse(wireDateLayout, b.Date); err == nil {
		return t, true
	}
	if t, err := ParseDisplayDate(b.Date); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// SortNewestFirst orders bills for display, most recent calendar date first.
func SortNewestFirst(bills []Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		ti, oki := sortKey(bills[i])
		tj, okj := sortKey(bills[j])
		if oki != okj {
			return oki
		}
		return ti.After(tj)
	})
}
