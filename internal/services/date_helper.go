package services

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	InvalidDateLabel = "Invalid Date"
	DefaultTimeOfDay = "12:00:00"
	cellDateLayout   = "2006-01-02"
)

var (
	ErrCellDateInvalid  = errors.New("invalid date")
	ErrTimeOfDayInvalid = errors.New("invalid time")
)

var DayInitials = []string{"S", "M", "T", "W", "T", "F", "S"}

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// OffsetMonth moves value by span calendar months. Days past the end of the
// target month roll over into the following month.
func OffsetMonth(value time.Time, span int) time.Time {
	return value.AddDate(0, span, 0)
}

func PrettyDate(value time.Time) string {
	if value.IsZero() {
		return InvalidDateLabel
	}
	return value.Format("January 2, 2006")
}

func PrettyTime(value time.Time) string {
	if value.IsZero() {
		return InvalidDateLabel
	}
	return value.Format("15:04:05")
}

// NormalizeTime pads "HH:MM" to "HH:MM:SS". A bare single field is not read
// as an hour: it collapses to noon.
func NormalizeTime(raw string) string {
	parts := strings.Split(raw, ":")
	switch len(parts) {
	case 1:
		return DefaultTimeOfDay
	case 2:
		parts = append(parts, "00")
	}
	return strings.Join(parts, ":")
}

// ParseTimeOfDay reads hour, minute and second from normalized text. Values
// are not range checked; time.Date rolls them over when combined with a day.
func ParseTimeOfDay(raw string) (int, int, int, error) {
	parts := strings.Split(NormalizeTime(strings.TrimSpace(raw)), ":")
	values := [3]int{}
	for index := 0; index < 3; index++ {
		value, err := strconv.Atoi(strings.TrimSpace(parts[index]))
		if err != nil {
			return 0, 0, 0, ErrTimeOfDayInvalid
		}
		values[index] = value
	}
	return values[0], values[1], values[2], nil
}

func CombineDateAndTime(day time.Time, timeOfDay string) (time.Time, error) {
	hour, minute, second, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	year, month, date := day.Date()
	return time.Date(year, month, date, hour, minute, second, 0, day.Location()), nil
}

func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func DaysInMonth(month time.Month, year int) int {
	if month == time.February && IsLeapYear(year) {
		return 29
	}
	return monthDays[int(month)-1]
}

func DateOnly(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, value.Location())
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return DateOnly(value.In(location))
}

// ParseCellDate accepts the plain day form rendered into data-date as well as
// full ISO-8601 timestamps.
func ParseCellDate(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, ErrCellDateInvalid
	}
	if parsed, err := time.ParseInLocation(cellDateLayout, value, location); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, ErrCellDateInvalid
	}
	return DateAtLocation(parsed, location), nil
}

// ParseOptionTime reads a construction option. Day-only values keep midnight.
func ParseOptionTime(raw string, location *time.Location, fallback time.Time) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return fallback, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.In(location), nil
	}
	if parsed, err := time.ParseInLocation("2006-01-02T15:04:05", value, location); err == nil {
		return parsed, nil
	}
	if parsed, err := time.ParseInLocation(cellDateLayout, value, location); err == nil {
		return parsed, nil
	}
	return time.Time{}, ErrCellDateInvalid
}

func CellDateString(value time.Time) string {
	return value.Format(cellDateLayout)
}
