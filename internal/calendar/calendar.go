package calendar

import (
	"fmt"
	"time"
)

// KeyLayout is the layout of day keys used everywhere in the day logs (YYYY-MM-DD).
const KeyLayout = "2006-01-02"

// Key formats the calendar date of t as a day key.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses a day key and returns that date at local midnight.
func ParseKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(KeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day key [%s]: %w", key, err)
	}
	return t, nil
}

func IsValidKey(key string) bool {
	_, err := ParseKey(key)
	return err == nil
}

// Today returns the current calendar date of the given timezone, expressed as local midnight.
// The date is formatted in the target zone first and re-parsed at local midnight, so two
// results for the same zone day always compare equal, whatever the host zone is.
// An empty or unknown timezone falls back to the host zone.
func Today(now time.Time, timezone string) time.Time {
	loc := time.Local
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}
	inZone := now.In(loc)
	return Midnight(inZone)
}

// Midnight drops the clock part of t and moves it to local midnight of the same calendar date.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// AddDays moves t by n calendar days (DST safe).
func AddDays(t time.Time, n int) time.Time {
	return Midnight(t).AddDate(0, 0, n)
}

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	day := Midnight(t)
	// time.Weekday is Sunday based; shift so that Monday == 0
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekKeys returns the day keys of the Monday..Sunday window containing t.
func WeekKeys(t time.Time) []string {
	monday := WeekStart(t)
	keys := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		keys = append(keys, Key(monday.AddDate(0, 0, i)))
	}
	return keys
}

// MonthKeys returns all the day keys of the given month, in order.
func MonthKeys(year int, month time.Month) []string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	var keys []string
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		keys = append(keys, Key(d))
	}
	return keys
}

// MonthGridOffset is the number of blank cells before the 1st of the month
// in a Monday-first calendar grid.
func MonthGridOffset(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return (int(first.Weekday()) + 6) % 7
}
