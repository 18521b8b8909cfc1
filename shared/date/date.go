// Package date provides a calendar date without a time-of-day or zone.
//
// Stay dates (check-in, check-out, season bounds, blackout days) are compared
// day by day. Keeping them apart from time.Time avoids a stay shifting by one
// day when an instant is rendered in another timezone.
package date

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

const Layout = "2006-01-02"

const hoursPerDay = 24

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Of returns the calendar date of t in t's own location.
func Of(t time.Time) Date {
	year, month, day := t.Date()

	return Date{Year: year, Month: month, Day: day}
}

func Parse(value string) (Date, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}

	return Of(t), nil
}

func MustParse(value string) Date {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return d
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) AddDays(n int) Date { return Of(d.Time().AddDate(0, 0, n)) }

// DaysUntil returns the number of whole days from d to other; negative when other is earlier.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / hoursPerDay)
}

func (d Date) Before(other Date) bool { return d.Time().Before(other.Time()) }
func (d Date) After(other Date) bool  { return d.Time().After(other.Time()) }
func (d Date) Equal(other Date) bool  { return d == other }

// Within reports whether d lies in [from, to]; a zero bound is open.
func (d Date) Within(from, to Date) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}

	if !to.IsZero() && d.After(to) {
		return false
	}

	return true
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return d.Time().Format(Layout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	if raw == nil || *raw == "" {
		*d = Date{}

		return nil
	}

	parsed, err := Parse(*raw)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = Of(v)
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into date.Date", src)
	}

	return nil
}

func (d *Date) scanString(v string) error {
	if len(v) > len(Layout) {
		v = v[:len(Layout)]
	}

	parsed, err := Parse(v)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Value implements driver.Valuer; the zero date is stored as NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil //nolint:nilnil
	}

	return d.String(), nil
}

// Range returns every date in [from, to).
func Range(from, to Date) []Date {
	days := from.DaysUntil(to)
	if days <= 0 {
		return nil
	}

	dates := make([]Date, 0, days)
	for i := range days {
		dates = append(dates, from.AddDays(i))
	}

	return dates
}

// List is a set of dates persisted as a JSON array, e.g. ["2025-12-24","2025-12-25"].
type List []Date

func (l List) Contains(d Date) bool {
	return slices.Contains(l, d)
}

// Scan implements sql.Scanner for JSON/JSONB columns.
func (l *List) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*l = nil

		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into date.List", src)
	}

	var dates []Date
	if err := json.Unmarshal(raw, &dates); err != nil {
		return fmt.Errorf("failed to decode date list: %w", err)
	}

	*l = dates

	return nil
}

// Value implements driver.Valuer; a nil list is stored as an empty array.
func (l List) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}

	encoded, err := json.Marshal([]Date(l))
	if err != nil {
		return nil, fmt.Errorf("failed to encode date list: %w", err)
	}

	return string(encoded), nil
}
