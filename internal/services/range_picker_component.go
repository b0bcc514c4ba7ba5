package services

import (
	"errors"
	"time"
)

var ErrPickerDestroyed = errors.New("picker destroyed")

type UpdateListener func(UpdateEvent)

// PickerProps are the externally settable inputs of a picker. Nil fields are
// left untouched by Update.
type PickerProps struct {
	StartDate *time.Time
	EndDate   *time.Time
	Visible   *bool
}

// Component is the lifecycle every picker front end drives.
type Component interface {
	Create(options PickerOptions) error
	Update(props PickerProps) error
	Destroy()
}

// RangePicker owns one PickerState and fans applied ranges out to its
// listeners. It is not safe for concurrent use.
type RangePicker struct {
	state     PickerState
	location  *time.Location
	now       func() time.Time
	listeners []UpdateListener
	created   bool
	destroyed bool
}

func NewRangePicker(location *time.Location, now func() time.Time) *RangePicker {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &RangePicker{location: location, now: now}
}

func (picker *RangePicker) Create(options PickerOptions) error {
	if picker.destroyed {
		return ErrPickerDestroyed
	}
	picker.state = NewPickerState(options, picker.now().In(picker.location))
	picker.created = true
	return nil
}

func (picker *RangePicker) Update(props PickerProps) error {
	if err := picker.ready(); err != nil {
		return err
	}
	if props.StartDate != nil {
		picker.state = picker.state.SetStartDate(*props.StartDate)
	}
	if props.EndDate != nil {
		picker.state = picker.state.SetEndDate(*props.EndDate)
	}
	if props.Visible != nil {
		if *props.Visible {
			picker.state = picker.state.Focus()
		} else {
			picker.state = picker.state.Blur()
		}
	}
	return nil
}

func (picker *RangePicker) Destroy() {
	picker.destroyed = true
	picker.listeners = nil
	picker.state = PickerState{}
}

func (picker *RangePicker) Subscribe(listener UpdateListener) {
	if listener == nil || picker.destroyed {
		return
	}
	picker.listeners = append(picker.listeners, listener)
}

func (picker *RangePicker) State() PickerState {
	return picker.state
}

// Restore replaces the current state, e.g. after loading a persisted session.
func (picker *RangePicker) Restore(state PickerState) {
	picker.state = state
	picker.created = true
}

func (picker *RangePicker) Location() *time.Location {
	return picker.location
}

func (picker *RangePicker) SetStartDate(value time.Time) error {
	return picker.Update(PickerProps{StartDate: &value})
}

func (picker *RangePicker) SetEndDate(value time.Time) error {
	return picker.Update(PickerProps{EndDate: &value})
}

func (picker *RangePicker) Click(day time.Time) (bool, error) {
	if err := picker.ready(); err != nil {
		return false, err
	}
	next, changed := picker.state.Click(day)
	picker.state = next
	return changed, nil
}

func (picker *RangePicker) Navigate(delta int) error {
	if err := picker.ready(); err != nil {
		return err
	}
	picker.state = picker.state.Navigate(delta)
	return nil
}

func (picker *RangePicker) BlurTime(field string, raw string) error {
	if err := picker.ready(); err != nil {
		return err
	}
	next, err := picker.state.BlurTime(field, raw)
	if err != nil {
		return err
	}
	picker.state = next
	return nil
}

func (picker *RangePicker) Apply() (UpdateEvent, error) {
	if err := picker.ready(); err != nil {
		return UpdateEvent{}, err
	}
	next, event, err := picker.state.Apply()
	if err != nil {
		return UpdateEvent{}, err
	}
	picker.state = next
	for _, listener := range picker.listeners {
		listener(event)
	}
	return event, nil
}

func (picker *RangePicker) Calendars() []CalendarView {
	return picker.state.Calendars(picker.location)
}

func (picker *RangePicker) ready() error {
	if picker.destroyed {
		return ErrPickerDestroyed
	}
	if !picker.created {
		return errors.New("picker not created")
	}
	return nil
}
