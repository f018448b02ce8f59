package events

import (
	"strings"
	"time"
)

type Tab string

const (
	TabUpcoming Tab = "upcoming"
	TabPast     Tab = "past"
)

// ParseTab returns TabUpcoming for an empty string, false for anything
// that is neither tab.
func ParseTab(s string) (Tab, bool) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case "", TabUpcoming:
		return TabUpcoming, true
	case TabPast:
		return TabPast, true
	default:
		return "", false
	}
}

// Window is an inclusive date range. A nil bound is open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// StartOfDay is 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfPreviousDay is 23:59:59.999 of the day before t.
func EndOfPreviousDay(t time.Time) time.Time {
	return StartOfDay(t).Add(-time.Millisecond)
}

// EffectiveWindow clamps the caller's bounds to the tab. Upcoming never
// reaches before today, past never reaches into today. A caller bound that
// is narrower than the tab boundary is kept; the opposite bound passes
// through untouched.
func EffectiveWindow(tab Tab, from, to *time.Time, now time.Time) Window {
	if tab == TabPast {
		yesterdayEnd := EndOfPreviousDay(now)
		effTo := yesterdayEnd
		if to != nil && to.Before(yesterdayEnd) {
			effTo = *to
		}
		return Window{From: clone(from), To: &effTo}
	}

	todayStart := StartOfDay(now)
	effFrom := todayStart
	if from != nil && from.After(todayStart) {
		effFrom = *from
	}
	return Window{From: &effFrom, To: clone(to)}
}

func clone(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
