package services

import (
	"errors"
	"strings"
	"time"
)

const (
	TimeFieldFrom = "from"
	TimeFieldTo   = "to"

	// Ranges shorter than this open on the end month; longer ones open one
	// month after the start.
	shortRangeSpan = 30 * 24 * time.Hour
)

var ErrTimeFieldInvalid = errors.New("invalid time field")

type PickerOptions struct {
	StartDate time.Time
	EndDate   time.Time
}

type PickerState struct {
	Range      DateRange
	PickingEnd bool
	Center     MonthSpec
	StartTime  string
	EndTime    string
	Visible    bool
}

type UpdateEvent struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewPickerState(options PickerOptions, now time.Time) PickerState {
	start := options.StartDate
	if start.IsZero() {
		start = now
	}
	end := options.EndDate
	if end.IsZero() {
		end = now
	}

	return PickerState{
		Range:     DateRange{Start: start, End: end},
		Center:    InitialCenterMonth(start, end),
		StartTime: PrettyTime(start),
		EndTime:   PrettyTime(end),
	}
}

func InitialCenterMonth(start time.Time, end time.Time) MonthSpec {
	if end.Sub(start) < shortRangeSpan {
		return MonthOf(end)
	}
	return MonthOf(OffsetMonth(start, 1))
}

// Click applies a day-cell click. While picking the end date, a day before
// the current start is ignored and changed is false.
func (state PickerState) Click(day time.Time) (PickerState, bool) {
	if !state.PickingEnd {
		state.PickingEnd = true
		state.Range = DateRange{Start: day, End: day}
		return state, true
	}
	if DateOnly(day).Before(DateAtLocation(state.Range.Start, day.Location())) {
		return state, false
	}
	state.PickingEnd = false
	state.Range.End = day
	return state, true
}

func (state PickerState) Navigate(delta int) PickerState {
	state.Center = state.Center.Offset(delta)
	return state
}

func (state PickerState) BlurTime(field string, raw string) (PickerState, error) {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case TimeFieldFrom:
		state.StartTime = NormalizeTime(raw)
	case TimeFieldTo:
		state.EndTime = NormalizeTime(raw)
	default:
		return state, ErrTimeFieldInvalid
	}
	return state, nil
}

// Apply combines the picked days with the time fields into the final range
// and hides the overlay.
func (state PickerState) Apply() (PickerState, UpdateEvent, error) {
	start, err := CombineDateAndTime(state.Range.Start, state.StartTime)
	if err != nil {
		return state, UpdateEvent{}, err
	}
	end, err := CombineDateAndTime(state.Range.End, state.EndTime)
	if err != nil {
		return state, UpdateEvent{}, err
	}
	state.Visible = false
	return state, UpdateEvent{Start: start, End: end}, nil
}

func (state PickerState) Focus() PickerState {
	state.Visible = true
	return state
}

func (state PickerState) Blur() PickerState {
	state.Visible = false
	return state
}

func (state PickerState) SetStartDate(value time.Time) PickerState {
	state.Range.Start = value
	return state
}

func (state PickerState) SetEndDate(value time.Time) PickerState {
	state.Range.End = value
	return state
}

func (state PickerState) Window() [3]MonthSpec {
	return [3]MonthSpec{state.Center.Offset(-1), state.Center, state.Center.Offset(1)}
}

func (state PickerState) Calendars(location *time.Location) []CalendarView {
	window := state.Window()
	views := make([]CalendarView, 0, len(window))
	for _, month := range window {
		views = append(views, BuildCalendarView(month, state.Range, state.PickingEnd, location))
	}
	return views
}

func (state PickerState) FromDateLabel() string {
	return PrettyDate(state.Range.Start)
}

func (state PickerState) ToDateLabel() string {
	return PrettyDate(state.Range.End)
}

// AlterField names the date input the next click fills.
func (state PickerState) AlterField() string {
	if state.PickingEnd {
		return TimeFieldTo
	}
	return TimeFieldFrom
}
