package domain

import "time"

const DateLayout = "2006-01-02"

// DateOf drops the clock part and keeps the calendar day of t as a UTC
// midnight, so day arithmetic is exact.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
