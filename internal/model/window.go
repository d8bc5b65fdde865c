package model

import "time"

// Window is the half-open interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TodayWindow is [today's midnight, tomorrow's midnight) in t's location.
func TodayWindow(t time.Time) Window {
	return DueSoonWindow(t, 1)
}

// DueSoonWindow is [today's midnight, today's midnight + days).
// Days are calendar days, so a DST switch does not shift the bounds.
func DueSoonWindow(t time.Time, days int) Window {
	start := StartOfDay(t)
	return Window{From: start, To: start.AddDate(0, 0, days)}
}

// Contains reports whether ts is set and falls inside the window.
func (w Window) Contains(ts *time.Time) bool {
	if ts == nil {
		return false
	}
	return !ts.Before(w.From) && ts.Before(w.To)
}
