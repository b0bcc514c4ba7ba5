package api

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rangepick/internal/services"
)

type CalendarDay struct {
	Blank      bool
	DateString string
	Day        int
	Selected   bool
	Static     bool
	CellClass  string
}

type CalendarMonth struct {
	Caption string
	Value   string
	Header  []string
	Weeks   [][]CalendarDay
}

type pickerPayload struct {
	ID         string            `json:"id"`
	Token      string            `json:"token,omitempty"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	PickingEnd bool              `json:"picking_end"`
	Visible    bool              `json:"visible"`
	FromDate   string            `json:"from_date"`
	ToDate     string            `json:"to_date"`
	StartTime  string            `json:"start_time"`
	EndTime    string            `json:"end_time"`
	Calendars  []calendarPayload `json:"calendars"`
}

type calendarPayload struct {
	Month   string        `json:"month"`
	Caption string        `json:"caption"`
	Cells   []cellPayload `json:"cells"`
}

type cellPayload struct {
	Date     string `json:"date,omitempty"`
	Day      int    `json:"day,omitempty"`
	Selected bool   `json:"selected,omitempty"`
	Static   bool   `json:"static,omitempty"`
}

type historyEntry struct {
	Start     string
	End       string
	AppliedAt string
}

func buildCalendarMonths(state services.PickerState, language string, location *time.Location) []CalendarMonth {
	views := state.Calendars(location)
	months := make([]CalendarMonth, 0, len(views))
	for _, view := range views {
		weeks := make([][]CalendarDay, 0, services.CalendarRows)
		for _, week := range view.Weeks() {
			days := make([]CalendarDay, 0, len(week))
			for _, cell := range week {
				days = append(days, CalendarDay{
					Blank:      cell.Blank,
					DateString: cell.DateString,
					Day:        cell.Day,
					Selected:   cell.Selected,
					Static:     cell.Static,
					CellClass:  calendarCellClass(cell),
				})
			}
			weeks = append(weeks, days)
		}

		months = append(months, CalendarMonth{
			Caption: services.LocalizedMonthYear(language, view.Month),
			Value:   view.Month.Value(),
			Header:  services.LocalizedDayInitials(language),
			Weeks:   weeks,
		})
	}
	return months
}

func calendarCellClass(cell services.CalendarCell) string {
	if cell.Blank {
		return "cell"
	}
	class := "cell date"
	if cell.Static {
		class += " static"
	}
	if cell.Selected {
		class += " selected"
	}
	return class
}

func dateInputClass(state services.PickerState, field string) string {
	class := "ss-date-" + field
	if state.AlterField() == field {
		class += " alter"
	}
	return class
}

func (handler *Handler) buildPickerWidgetData(pickerID string, state services.PickerState, language string, messages map[string]string) fiber.Map {
	fromDate := services.LocalizedPrettyDate(language, state.Range.Start)
	toDate := services.LocalizedPrettyDate(language, state.Range.End)

	return fiber.Map{
		"PickerID":   pickerID,
		"Visible":    state.Visible,
		"PickingEnd": state.PickingEnd,
		"FromDate":   fromDate,
		"ToDate":     toDate,
		"FromClass":  dateInputClass(state, services.TimeFieldFrom),
		"ToClass":    dateInputClass(state, services.TimeFieldTo),
		"StartTime":  state.StartTime,
		"EndTime":    state.EndTime,
		"InputValue": fromDate + " " + state.StartTime + " - " + toDate + " " + state.EndTime,
		"Calendars":  buildCalendarMonths(state, language, handler.location),
		"PrevDelta":  -1,
		"NextDelta":  1,
		"Messages":   messages,
		"Lang":       language,
	}
}

func buildPickerPayload(pickerID string, state services.PickerState, location *time.Location) pickerPayload {
	views := state.Calendars(location)
	calendars := make([]calendarPayload, 0, len(views))
	for _, view := range views {
		cells := make([]cellPayload, 0, len(view.Cells))
		for _, cell := range view.Cells {
			cells = append(cells, cellPayload{
				Date:     cell.DateString,
				Day:      cell.Day,
				Selected: cell.Selected,
				Static:   cell.Static,
			})
		}
		calendars = append(calendars, calendarPayload{
			Month:   view.Month.Value(),
			Caption: view.Caption,
			Cells:   cells,
		})
	}

	return pickerPayload{
		ID:         pickerID,
		Start:      state.Range.Start,
		End:        state.Range.End,
		PickingEnd: state.PickingEnd,
		Visible:    state.Visible,
		FromDate:   state.FromDateLabel(),
		ToDate:     state.ToDateLabel(),
		StartTime:  state.StartTime,
		EndTime:    state.EndTime,
		Calendars:  calendars,
	}
}

func buildHistoryEntries(history []services.AppliedRange, language string, now time.Time) []historyEntry {
	entries := make([]historyEntry, 0, len(history))
	for _, applied := range history {
		entries = append(entries, historyEntry{
			Start:     services.LocalizedPrettyDate(language, applied.Start) + " " + services.PrettyTime(applied.Start),
			End:       services.LocalizedPrettyDate(language, applied.End) + " " + services.PrettyTime(applied.End),
			AppliedAt: humanize.RelTime(applied.AppliedAt, now, "ago", "from now"),
		})
	}
	return entries
}
