package services

import (
	"fmt"
	"time"
)

const (
	CalendarColumns = 7
	CalendarRows    = 6
	CalendarCells   = CalendarColumns * CalendarRows
)

type MonthSpec struct {
	Month time.Month
	Year  int
}

func MonthOf(value time.Time) MonthSpec {
	return MonthSpec{Month: value.Month(), Year: value.Year()}
}

func (spec MonthSpec) FirstDay(location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return time.Date(spec.Year, spec.Month, 1, 0, 0, 0, 0, location)
}

func (spec MonthSpec) Offset(span int) MonthSpec {
	return MonthOf(spec.FirstDay(time.UTC).AddDate(0, span, 0))
}

func (spec MonthSpec) Caption() string {
	return fmt.Sprintf("%s %d", spec.Month.String(), spec.Year)
}

func (spec MonthSpec) Value() string {
	return fmt.Sprintf("%04d-%02d", spec.Year, int(spec.Month))
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains compares calendar dates only; time of day is ignored on both ends.
func (rng DateRange) Contains(day time.Time) bool {
	day = DateOnly(day)
	start := DateOnly(rng.Start.In(day.Location()))
	end := DateOnly(rng.End.In(day.Location()))
	return !day.Before(start) && !day.After(end)
}

type CalendarCell struct {
	Blank      bool
	Date       time.Time
	DateString string
	Day        int
	Selected   bool
	Static     bool
}

type CalendarView struct {
	Month   MonthSpec
	Caption string
	Header  []string
	Cells   []CalendarCell
}

func (view CalendarView) Weeks() [][]CalendarCell {
	weeks := make([][]CalendarCell, 0, CalendarRows)
	for row := 0; row < CalendarRows; row++ {
		weeks = append(weeks, view.Cells[row*CalendarColumns:(row+1)*CalendarColumns])
	}
	return weeks
}

// BuildCalendarView lays the month out on a fixed Sunday-first 6x7 grid. The
// result depends only on its arguments and is rebuilt whole on every call.
func BuildCalendarView(month MonthSpec, rng DateRange, editing bool, location *time.Location) CalendarView {
	if location == nil {
		location = time.UTC
	}
	firstDay := month.FirstDay(location)
	leading := int(firstDay.Weekday())
	lastIndex := DaysInMonth(month.Month, month.Year) + leading - 1
	rangeStart := DateAtLocation(rng.Start, location)

	cells := make([]CalendarCell, 0, CalendarCells)
	for index := 0; index < CalendarCells; index++ {
		if index < leading || index > lastIndex {
			cells = append(cells, CalendarCell{Blank: true})
			continue
		}

		day := firstDay.AddDate(0, 0, index-leading)
		cells = append(cells, CalendarCell{
			Date:       day,
			DateString: CellDateString(day),
			Day:        day.Day(),
			Selected:   rng.Contains(day),
			Static:     editing && day.Before(rangeStart),
		})
	}

	header := make([]string, len(DayInitials))
	copy(header, DayInitials)

	return CalendarView{
		Month:   month,
		Caption: month.Caption(),
		Header:  header,
		Cells:   cells,
	}
}
