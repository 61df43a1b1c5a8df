package attrs

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Date is a calendar date. Construction and parsing do not validate the
// month or day against the calendar.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

// Time is a time of day with nanosecond precision.
type Time struct {
	Hour       uint8
	Min        uint8
	Sec        uint8
	Nanosecond uint32
}

// Offset is a fixed UTC offset. East is true for offsets ahead of UTC.
type Offset struct {
	Hour uint8
	Min  uint8
	East bool
}

// DateTime combines a Date and a Time with an optional UTC offset.
type DateTime struct {
	Date   Date
	Time   Time
	Offset *Offset
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compare returns -1, 0 or 1 ordering d against o.
func (d Date) Compare(o Date) int {
	if c := cmp.Compare(d.Year, o.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Month, o.Month); c != 0 {
		return c
	}
	return cmp.Compare(d.Day, o.Day)
}

// IsLeap reports whether the date falls in a leap year.
func (d Date) IsLeap() bool { return IsLeapYear(int(d.Year)) }

// DayOfYear returns the 1-based ordinal day within the year.
func (d Date) DayOfYear() int {
	doy := int(d.Day)
	for m := 1; m < int(d.Month) && m <= 12; m++ {
		doy += DaysInMonth(int(d.Year), m)
	}
	return doy
}

// WithTime combines the date with t into a DateTime without an offset.
func (d Date) WithTime(t Time) DateTime {
	return DateTime{Date: d, Time: t}
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month (1-12) of year, or 0 for
// an out of range month.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	return 0
}

func (t Time) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Min, t.Sec)
	if t.Nanosecond > 0 {
		frac := strings.TrimRight(fmt.Sprintf("%09d", t.Nanosecond), "0")
		s += "." + frac
	}
	return s
}

// Compare returns -1, 0 or 1 ordering t against o.
func (t Time) Compare(o Time) int {
	if c := cmp.Compare(t.SecondsSinceMidnight(), o.SecondsSinceMidnight()); c != 0 {
		return c
	}
	return cmp.Compare(t.Nanosecond, o.Nanosecond)
}

// SecondsSinceMidnight returns the whole seconds elapsed since 00:00:00.
func (t Time) SecondsSinceMidnight() uint32 {
	return uint32(t.Hour)*3600 + uint32(t.Min)*60 + uint32(t.Sec)
}

// TimeFromSeconds builds a Time from seconds since midnight. Hours wrap at 24.
func TimeFromSeconds(secs uint32) Time {
	return Time{
		Hour: uint8(secs / 3600 % 24),
		Min:  uint8(secs / 60 % 60),
		Sec:  uint8(secs % 60),
	}
}

func (o Offset) String() string {
	sign := '-'
	if o.East {
		sign = '+'
	}
	return fmt.Sprintf("%c%02d:%02d", sign, o.Hour, o.Min)
}

func (o Offset) seconds() int {
	s := int(o.Hour)*3600 + int(o.Min)*60
	if o.East {
		return s
	}
	return -s
}

func (dt DateTime) String() string {
	s := dt.Date.String() + " " + dt.Time.String()
	if dt.Offset != nil {
		s += dt.Offset.String()
	}
	return s
}

// Equal compares date, time and offset.
func (dt DateTime) Equal(o DateTime) bool {
	if dt.Date != o.Date || dt.Time != o.Time {
		return false
	}
	if dt.Offset == nil || o.Offset == nil {
		return dt.Offset == nil && o.Offset == nil
	}
	return *dt.Offset == *o.Offset
}

// Compare orders by date then time. Offsets are only taken into account when
// both values carry one.
func (dt DateTime) Compare(o DateTime) int {
	if dt.Offset != nil && o.Offset != nil && *dt.Offset != *o.Offset {
		if c := cmp.Compare(dt.unixSeconds(), o.unixSeconds()); c != 0 {
			return c
		}
		return cmp.Compare(dt.Time.Nanosecond, o.Time.Nanosecond)
	}
	if c := dt.Date.Compare(o.Date); c != 0 {
		return c
	}
	return dt.Time.Compare(o.Time)
}

func (dt DateTime) unixSeconds() int64 {
	s := daysFromCivil(int64(dt.Date.Year), int64(dt.Date.Month), int64(dt.Date.Day))*86400 +
		int64(dt.Time.SecondsSinceMidnight())
	if dt.Offset != nil {
		s -= int64(dt.Offset.seconds())
	}
	return s
}

// daysFromCivil counts days since 1970-01-01 in the proleptic Gregorian calendar.
func daysFromCivil(y, m, d int64) int64 {
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// ParseDate parses YYYY-MM-DD. The month and day are not range checked.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, "-")
	year, err := datePart[uint16](parts, 0, "Year", 16)
	if err != nil {
		return Date{}, err
	}
	month, err := datePart[uint8](parts, 1, "Month", 8)
	if err != nil {
		return Date{}, err
	}
	day, err := datePart[uint8](parts, 2, "Day", 8)
	if err != nil {
		return Date{}, err
	}
	if len(parts) > 3 {
		return Date{}, errors.New("Invalid Date")
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseTime parses HH:MM[:SS[.fraction]].
func ParseTime(s string) (Time, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return Time{}, errors.New("Invalid Time")
	}
	hour, err := datePart[uint8](parts, 0, "Hour", 8)
	if err != nil {
		return Time{}, err
	}
	minute, err := datePart[uint8](parts, 1, "Minute", 8)
	if err != nil {
		return Time{}, err
	}
	var (
		sec  uint8
		nano uint32
	)
	if len(parts) == 3 {
		whole, frac, hasFrac := strings.Cut(parts[2], ".")
		parts[2] = whole
		if sec, err = datePart[uint8](parts, 2, "Second", 8); err != nil {
			return Time{}, err
		}
		if hasFrac {
			if nano, err = parseFraction(frac); err != nil {
				return Time{}, err
			}
		}
	}
	if hour > 23 {
		return Time{}, errors.New("Invalid Hour (use 0-23)")
	}
	if minute > 59 {
		return Time{}, errors.New("Invalid Minute (use 0-59)")
	}
	if sec > 59 {
		return Time{}, errors.New("Invalid Second (use 0-59)")
	}
	return Time{Hour: hour, Min: minute, Sec: sec, Nanosecond: nano}, nil
}

// ParseDateTime parses a date and a time separated by a space or 'T'. The
// time may be followed by 'Z' or a ±HH:MM offset.
func ParseDateTime(s string) (DateTime, error) {
	i := strings.IndexAny(s, " T")
	if i < 0 {
		return DateTime{}, errors.New("Invalid DateTime use YYYY-mm-dd HH:MM[:SS]")
	}
	date, err := ParseDate(s[:i])
	if err != nil {
		return DateTime{}, err
	}
	ts := s[i+1:]
	var off *Offset
	switch {
	case strings.HasSuffix(ts, "Z"):
		ts = strings.TrimSuffix(ts, "Z")
		off = &Offset{East: true}
	default:
		if j := strings.IndexAny(ts, "+-"); j >= 0 {
			o, err := parseOffset(ts[j:])
			if err != nil {
				return DateTime{}, err
			}
			ts = ts[:j]
			off = &o
		}
	}
	t, err := ParseTime(ts)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{Date: date, Time: t, Offset: off}, nil
}

func parseOffset(s string) (Offset, error) {
	east := s[0] == '+'
	h, m, ok := strings.Cut(s[1:], ":")
	if !ok {
		return Offset{}, errors.New("Invalid Offset use ±HH:MM")
	}
	hour, err := strconv.ParseUint(h, 10, 8)
	if err != nil || hour > 23 {
		return Offset{}, errors.New("Invalid Offset Hour")
	}
	minute, err := strconv.ParseUint(m, 10, 8)
	if err != nil || minute > 59 {
		return Offset{}, errors.New("Invalid Offset Minute")
	}
	return Offset{Hour: uint8(hour), Min: uint8(minute), East: east}, nil
}

func parseFraction(frac string) (uint32, error) {
	if frac == "" {
		return 0, errors.New("Invalid Second")
	}
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, errors.New("Invalid Second")
		}
	}
	if len(frac) > 9 {
		frac = frac[:9]
	}
	frac += strings.Repeat("0", 9-len(frac))
	n, err := strconv.ParseUint(frac, 10, 32)
	if err != nil {
		return 0, errors.New("Invalid Second")
	}
	return uint32(n), nil
}

func datePart[T uint8 | uint16](parts []string, idx int, name string, bits int) (T, error) {
	if idx >= len(parts) || parts[idx] == "" {
		return 0, fmt.Errorf("%s not present", name)
	}
	n, err := strconv.ParseUint(parts[idx], 10, bits)
	if err != nil {
		return 0, fmt.Errorf("Invalid %s", name)
	}
	return T(n), nil
}
