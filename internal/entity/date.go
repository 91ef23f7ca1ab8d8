package entity

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day. It is stored as the list [Day, Month, Year].
type Date struct {
	Day   uint16
	Month uint16
	Year  uint16
}

// epoch is the reference day for DaysSince2020.
var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

const secondsPerDay = 24 * 60 * 60

// ParseDate accepts an RFC 3339 full-date ("2023-08-21") or a full RFC 3339
// timestamp, whose date part is used.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Day: uint16(d), Month: uint16(m), Year: uint16(y)}
}

// FromList builds a date from its stored [day, month, year] form.
func FromList(v []uint16) (Date, error) {
	if len(v) != 3 {
		return Date{}, fmt.Errorf("date has %d components, want 3", len(v))
	}
	return Date{Day: v[0], Month: v[1], Year: v[2]}, nil
}

// List returns the stored [day, month, year] form.
func (d Date) List() []uint16 {
	return []uint16{d.Day, d.Month, d.Year}
}

// Time returns midnight UTC on d, or an error if d is not a calendar day.
func (d Date) Time() (time.Time, error) {
	t := time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
	if DateOf(t) != d {
		return time.Time{}, fmt.Errorf("invalid date %s", d)
	}
	return t, nil
}

// Compare orders dates by year, then month, then day.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpUint16(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpUint16(d.Month, o.Month)
	default:
		return cmpUint16(d.Day, o.Day)
	}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DaysSince2020 returns the number of days from 2020-01-01 to d. Days
// before 2020 are negative.
func DaysSince2020(d Date) (int, error) {
	t, err := d.Time()
	if err != nil {
		return 0, err
	}
	return int((t.Unix() - epoch.Unix()) / secondsPerDay), nil
}

func cmpUint16(a, b uint16) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
