package comicdate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	keyLayout   = "2006-01-02"
	longLayout  = "January 02, 2006"
	monthLayout = "January 2006"

	minYear = 1
	maxYear = 9999
)

// datePattern matches three digit runs separated by one or more non-digits.
var datePattern = regexp.MustCompile(`(\d+)\D+(\d+)\D+(\d+)`)

// Date is a calendar day without a time-of-day or zone component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the date for the given components. ok is false when they do not
// form a valid calendar date.
func New(year int, month time.Month, day int) (Date, bool) {
	if year < minYear || year > maxYear {
		return Date{}, false
	}
	if month < time.January || month > time.December {
		return Date{}, false
	}
	if day < 1 || day > daysIn(year, month) {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// MustNew is New for literals known to be valid.
func MustNew(year int, month time.Month, day int) Date {
	d, ok := New(year, month, day)
	if !ok {
		panic(fmt.Sprintf("comicdate: invalid date %04d-%02d-%02d", year, month, day))
	}
	return d
}

// Parse extracts the first year/month/day triple embedded in value. Malformed
// input and impossible dates both yield ok == false.
func Parse(value string) (Date, bool) {
	match := datePattern.FindStringSubmatch(value)
	if match == nil {
		return Date{}, false
	}
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return Date{}, false
	}
	month, err := strconv.Atoi(match[2])
	if err != nil {
		return Date{}, false
	}
	day, err := strconv.Atoi(match[3])
	if err != nil {
		return Date{}, false
	}
	return New(year, time.Month(month), day)
}

// ParseISO parses a strict YYYY-MM-DD string, as accepted for the cutoff.
func ParseISO(value string) (Date, error) {
	trimmed := strings.TrimSpace(value)
	t, err := time.Parse(keyLayout, trimmed)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: expected YYYY-MM-DD", value)
	}
	return FromTime(t), nil
}

// FromTime truncates t to its calendar day in t's location.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns midnight UTC on d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// SameMonth reports whether both dates fall in the same calendar month.
func (d Date) SameMonth(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month
}

// Key formats d as YYYY-MM-DD. It is used for page names and annotation lines.
func (d Date) Key() string {
	return d.Time().Format(keyLayout)
}

// Long formats d as "March 05, 2021".
func (d Date) Long() string {
	return d.Time().Format(longLayout)
}

// MonthLabel formats d as "March 2021".
func (d Date) MonthLabel() string {
	return d.Time().Format(monthLayout)
}

func (d Date) String() string {
	return d.Key()
}

// Within reports whether d is on or before cutoff. A nil cutoff has no upper
// bound.
func Within(d Date, cutoff *Date) bool {
	if cutoff == nil {
		return true
	}
	return !d.After(*cutoff)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
