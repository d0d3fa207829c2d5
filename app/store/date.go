package store

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
)

// DateLayout is the ISO-8601 calendar date layout used on the wire and in the database
const DateLayout = "2006-01-02"

// Date is a calendar date without time component
type Date struct {
	t time.Time // always midnight UTC
}

// NewDate makes a Date from year, month and day
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's location
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

// String returns the date as YYYY-MM-DD
func (d Date) String() string { return d.t.Format(DateLayout) }

// Before reports whether d is before other
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(text []byte) error {
	v, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Value implements driver.Valuer, dates are stored as TEXT
func (d Date) Value() (driver.Value, error) { return d.String(), nil }

// Scan implements sql.Scanner
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	case time.Time:
		*d = DateOf(v)
		return nil
	default:
		return fmt.Errorf("can't scan %T into date", src)
	}
}

// JSONSchema describes Date as an ISO-8601 date string
func (Date) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Format: "date"}
}
