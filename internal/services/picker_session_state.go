package services

import (
	"time"

	"github.com/terraincognita07/rangepick/internal/models"
)

func PickerStateFromSession(session models.PickerSession, location *time.Location) PickerState {
	if location == nil {
		location = time.UTC
	}
	return PickerState{
		Range: DateRange{
			Start: session.RangeStart.In(location),
			End:   session.RangeEnd.In(location),
		},
		PickingEnd: session.PickingEnd,
		Center:     MonthSpec{Month: time.Month(session.CenterMonth), Year: session.CenterYear},
		StartTime:  session.StartTime,
		EndTime:    session.EndTime,
		Visible:    session.Visible,
	}
}

func ApplyPickerState(session *models.PickerSession, state PickerState) {
	session.RangeStart = state.Range.Start
	session.RangeEnd = state.Range.End
	session.PickingEnd = state.PickingEnd
	session.CenterYear = state.Center.Year
	session.CenterMonth = int(state.Center.Month)
	session.StartTime = state.StartTime
	session.EndTime = state.EndTime
	session.Visible = state.Visible
}
