package services

import (
	"fmt"
	"strings"
	"time"
)

var monthNames = map[string][]string{
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	"ru": {"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь", "Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"},
}

var monthGenitiveNames = map[string][]string{
	"ru": {"января", "февраля", "марта", "апреля", "мая", "июня", "июля", "августа", "сентября", "октября", "ноября", "декабря"},
}

var dayInitials = map[string][]string{
	"en": DayInitials,
	"ru": {"В", "П", "В", "С", "Ч", "П", "С"},
}

func normalizeLocaleLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}

// LocalizedMonthYear renders a calendar caption; unknown languages fall back
// to English.
func LocalizedMonthYear(language string, month MonthSpec) string {
	names, ok := monthNames[normalizeLocaleLanguage(language)]
	monthIndex := int(month.Month) - 1
	if !ok || monthIndex < 0 || monthIndex >= len(names) {
		return month.Caption()
	}
	return fmt.Sprintf("%s %d", names[monthIndex], month.Year)
}

// LocalizedPrettyDate keeps the "Invalid Date" rendering for zero values.
func LocalizedPrettyDate(language string, value time.Time) string {
	if value.IsZero() {
		return InvalidDateLabel
	}
	names, ok := monthGenitiveNames[normalizeLocaleLanguage(language)]
	if !ok {
		return PrettyDate(value)
	}
	return fmt.Sprintf("%d %s %d", value.Day(), names[int(value.Month())-1], value.Year())
}

func LocalizedDayInitials(language string) []string {
	initials, ok := dayInitials[normalizeLocaleLanguage(language)]
	if !ok {
		initials = DayInitials
	}
	result := make([]string, len(initials))
	copy(result, initials)
	return result
}
