package stay

import (
	"strconv"
	"strings"
	"time"
)

// Values the warehouse uses to mark rows that must never be published.
const (
	excludedRateCode    = "FX"
	excludedChannel1Key = "4"
)

// Cutoff selects how the departure date key compares against "today".
type Cutoff int

const (
	// DepartedBeforeToday requires the stay to have ended strictly before the
	// current date key.
	DepartedBeforeToday Cutoff = iota
	// DepartedByToday also admits stays whose departure is the current date
	// key.
	DepartedByToday
)

type EligibilityPolicy struct {
	Cutoff Cutoff
}

// Eligible reports whether row represents a completed, non-cancelled,
// non-excluded stay as of todayKey. Every field access is defensive: a
// missing or malformed value makes the row ineligible, never an error.
func (p EligibilityPolicy) Eligible(row Row, todayKey int) bool {
	departure, ok := dateKeyValue(row, FieldDepartureDateKey)
	if !ok {
		return false
	}
	switch p.Cutoff {
	case DepartedByToday:
		if departure > todayKey {
			return false
		}
	default:
		if departure >= todayKey {
			return false
		}
	}

	if row.Present(FieldCancelDateKey) {
		return false
	}
	if stringValue(row, FieldRateCode) == excludedRateCode {
		return false
	}
	if stringValue(row, FieldDistChannel1Key) == excludedChannel1Key {
		return false
	}

	rewardsID := stringValue(row, FieldRewardsID)
	if rewardsID == "" || rewardsID == SentinelRewardsID {
		return false
	}
	return true
}

// DateKeyOf renders t as a yyyymmdd integer key, matching the warehouse's
// date key encoding.
func DateKeyOf(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// dateKeyValue reads a field as a yyyymmdd key. Warehouse variants deliver
// date keys as integers, date strings, or DATE columns.
func dateKeyValue(row Row, name string) (int, bool) {
	v, ok := row.Get(name)
	if !ok {
		return 0, false
	}
	switch d := v.(type) {
	case int64:
		return int(d), true
	case float64:
		if d == float64(int64(d)) {
			return int(d), true
		}
		return 0, false
	case time.Time:
		return DateKeyOf(d), true
	case string:
		return parseDateKey(d)
	default:
		return 0, false
	}
}

func parseDateKey(s string) (int, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	if len(s) != 8 {
		return 0, false
	}
	key, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return key, true
}

// stringValue reads a field as a comparable code. Numeric channel keys and
// their string forms compare equal ("4" vs 4).
func stringValue(row Row, name string) string {
	v, ok := row.Get(name)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}
