package model

import (
	"testing"
	"time"
)

func TestTodayWindow(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2024, 5, 14, 15, 30, 0, 0, loc)
	w := TodayWindow(now)

	if !w.From.Equal(time.Date(2024, 5, 14, 0, 0, 0, 0, loc)) {
		t.Fatalf("from=%v", w.From)
	}
	if !w.To.Equal(time.Date(2024, 5, 15, 0, 0, 0, 0, loc)) {
		t.Fatalf("to=%v", w.To)
	}
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2024, 5, 14, 15, 30, 0, 0, time.Local)
	today := TodayWindow(now)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}

	cases := []struct {
		name string
		ts   *time.Time
		want bool
	}{
		{"nil deadline", nil, false},
		{"now", at(0), true},
		{"midnight is included", &today.From, true},
		{"next midnight is excluded", &today.To, false},
		{"now plus 25h", at(25 * time.Hour), false},
		{"yesterday", at(-24 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := today.Contains(tc.ts); got != tc.want {
				t.Fatalf("Contains=%v want %v", got, tc.want)
			}
		})
	}
}

func TestDueSoonWindow(t *testing.T) {
	now := time.Date(2024, 5, 14, 9, 0, 0, 0, time.UTC)
	w := DueSoonWindow(now, 7)

	sixDays := now.AddDate(0, 0, 6)
	sevenDays := StartOfDay(now).AddDate(0, 0, 7)
	earlierToday := StartOfDay(now).Add(time.Hour)

	if !w.Contains(&sixDays) {
		t.Fatal("six days ahead should be due soon")
	}
	if w.Contains(&sevenDays) {
		t.Fatal("the upper bound is exclusive")
	}
	if !w.Contains(&earlierToday) {
		t.Fatal("earlier today is still inside the window")
	}
}
