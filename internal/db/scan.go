package db

import (
	"fmt"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000Z07:00"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	dateLayout,
}

// Date scans a calendar day stored as DATE (pgx) or TEXT (sqlite) into Dest
// as a UTC midnight.
type Date struct {
	Dest *time.Time
}

func (d Date) Scan(src interface{}) error {
	t, err := parseTime(src)
	if err != nil {
		return err
	}
	*d.Dest = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

// Timestamp scans TIMESTAMPTZ (pgx) or TEXT/DATETIME (sqlite) into Dest as UTC.
type Timestamp struct {
	Dest *time.Time
}

func (ts Timestamp) Scan(src interface{}) error {
	t, err := parseTime(src)
	if err != nil {
		return err
	}
	*ts.Dest = t.UTC()
	return nil
}

// DateArg formats a day the way both drivers accept it for a DATE column.
func DateArg(t time.Time) string {
	return t.Format(dateLayout)
}

// TimestampArg renders a fixed-width UTC timestamp so sqlite text columns
// sort chronologically.
func TimestampArg(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(src interface{}) (time.Time, error) {
	switch v := src.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTimeString(v)
	case []byte:
		return parseTimeString(string(v))
	case nil:
		return time.Time{}, fmt.Errorf("cannot scan NULL into a time")
	default:
		return time.Time{}, fmt.Errorf("cannot scan %T into a time", src)
	}
}

func parseTimeString(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time value %q", value)
}
