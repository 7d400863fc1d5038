// Package dateformat turns a local time (or a step count) into the short
// labels shown in the top and bottom text regions.
package dateformat

import (
	"strconv"
	"strings"
	"time"
)

// MaxLen is the longest label a region can hold.
const MaxLen = 19

type Type int

const (
	Weekday Type = iota
	MonthDay
	YearMonthDay
	DayMonthYear
	MonthDayYear
	MonthYear
	WeekdayDay
	StepCount
)

var names = [...]string{
	Weekday:      "weekday",
	MonthDay:     "month-day",
	YearMonthDay: "yyyy-mm-dd",
	DayMonthYear: "dd/mm/yyyy",
	MonthDayYear: "mm/dd/yyyy",
	MonthYear:    "month-year",
	WeekdayDay:   "weekday-day",
	StepCount:    "step-count",
}

type layout struct {
	layout string
	upper  bool
}

var layouts = map[Type]layout{
	Weekday:      {"Monday", true},
	MonthDay:     {"January 02", true},
	YearMonthDay: {"2006-01-02", false},
	DayMonthYear: {"02/01/2006", false},
	MonthDayYear: {"01/02/2006", false},
	MonthYear:    {"Jan 2006", true},
	WeekdayDay:   {"Mon 02", true},
}

func (f Type) Valid() bool { return f >= Weekday && f <= StepCount }

func (f Type) String() string {
	if !f.Valid() {
		return names[Weekday]
	}
	return names[f]
}

// Parse accepts a format name or its numeric index.
func Parse(s string) (Type, bool) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(s, n) {
			return Type(i), true
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Type(n).Valid() {
		return Type(n), true
	}
	return Weekday, false
}

// Format renders t (or n for StepCount) in format f. Unknown formats fall
// back to Weekday; a zero t yields "" for every time-based format.
func Format(t time.Time, f Type, n int) string {
	if f == StepCount {
		return truncate(strconv.Itoa(n))
	}
	l, ok := layouts[f]
	if !ok {
		l = layouts[Weekday]
	}
	if t.IsZero() {
		return ""
	}
	s := t.Format(l.layout)
	if l.upper {
		s = upperASCII(s)
	}
	return truncate(s)
}

// upperASCII uppercases a-z only and leaves every other byte alone.
func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func truncate(s string) string {
	if len(s) > MaxLen {
		return s[:MaxLen]
	}
	return s
}
