package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/terraincognita07/rangepick/internal/services"
)

type focusArea int

const (
	focusCalendar focusArea = iota
	focusFromTime
	focusToTime
)

// Model drives a services.RangePicker from the keyboard. The cursor is the
// day the next enter press clicks.
type Model struct {
	picker    *services.RangePicker
	language  string
	messages  map[string]string
	cursor    time.Time
	focus     focusArea
	fromInput textinput.Model
	toInput   textinput.Model
	applied   *services.UpdateEvent
	err       error
	quitting  bool
}

func NewModel(picker *services.RangePicker, language string, messages map[string]string) Model {
	state := picker.State()

	fromInput := newTimeInput(state.StartTime)
	toInput := newTimeInput(state.EndTime)

	return Model{
		picker:    picker,
		language:  language,
		messages:  messages,
		cursor:    services.DateAtLocation(state.Range.Start, picker.Location()),
		fromInput: fromInput,
		toInput:   toInput,
	}
}

func newTimeInput(value string) textinput.Model {
	input := textinput.New()
	input.Placeholder = services.DefaultTimeOfDay
	input.CharLimit = 8
	input.Width = 8
	input.Prompt = ""
	input.SetValue(value)
	return input
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Applied returns the range emitted by the last apply, if any.
func (m Model) Applied() (services.UpdateEvent, bool) {
	if m.applied == nil {
		return services.UpdateEvent{}, false
	}
	return *m.applied, true
}

func (m Model) Err() error {
	return m.err
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyTab:
		m.cycleFocus(1)
		return m, nil
	case tea.KeyShiftTab:
		m.cycleFocus(-1)
		return m, nil
	}

	if m.focus != focusCalendar {
		return m.updateTimeInput(keyMsg)
	}
	return m.updateCalendar(keyMsg)
}

func (m Model) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyLeft:
		m.moveCursor(m.cursor.AddDate(0, 0, -1))
	case tea.KeyRight:
		m.moveCursor(m.cursor.AddDate(0, 0, 1))
	case tea.KeyUp:
		m.moveCursor(m.cursor.AddDate(0, 0, -7))
	case tea.KeyDown:
		m.moveCursor(m.cursor.AddDate(0, 0, 7))
	case tea.KeyEnter, tea.KeySpace:
		if _, err := m.picker.Click(m.cursor); err != nil {
			m.err = err
		}
	case tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "[":
			m.navigate(-1)
		case "]":
			m.navigate(1)
		case "a":
			return m.apply()
		case "q":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateTimeInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.blurTimeInput()
		m.focus = focusCalendar
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusFromTime {
		m.fromInput, cmd = m.fromInput.Update(msg)
	} else {
		m.toInput, cmd = m.toInput.Update(msg)
	}
	return m, cmd
}

func (m Model) apply() (tea.Model, tea.Cmd) {
	event, err := m.picker.Apply()
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.applied = &event
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) cycleFocus(step int) {
	if m.focus != focusCalendar {
		m.blurTimeInput()
	}
	m.focus = focusArea((int(m.focus) + step + 3) % 3)

	switch m.focus {
	case focusFromTime:
		m.fromInput.Focus()
	case focusToTime:
		m.toInput.Focus()
	}
}

// blurTimeInput normalizes the focused time field the way a DOM blur does.
func (m *Model) blurTimeInput() {
	field := services.TimeFieldFrom
	input := &m.fromInput
	if m.focus == focusToTime {
		field = services.TimeFieldTo
		input = &m.toInput
	}
	input.Blur()

	if err := m.picker.BlurTime(field, input.Value()); err != nil {
		m.err = err
		return
	}
	state := m.picker.State()
	if field == services.TimeFieldFrom {
		input.SetValue(state.StartTime)
	} else {
		input.SetValue(state.EndTime)
	}
}

// moveCursor shifts the window when the cursor leaves the visible months.
func (m *Model) moveCursor(next time.Time) {
	m.cursor = next
	window := m.picker.State().Window()
	target := services.MonthOf(next)
	if target == window[0] || target == window[1] || target == window[2] {
		return
	}
	delta := monthDistance(window[1], target)
	if delta > 0 {
		delta--
	} else {
		delta++
	}
	m.navigate(delta)
}

func (m *Model) navigate(delta int) {
	if delta == 0 {
		return
	}
	if err := m.picker.Navigate(delta); err != nil {
		m.err = err
		return
	}
	window := m.picker.State().Window()
	current := services.MonthOf(m.cursor)
	if current != window[0] && current != window[1] && current != window[2] {
		m.cursor = shiftMonthClamped(m.cursor, delta)
	}
}

// shiftMonthClamped moves by whole months, keeping the day inside the target
// month instead of rolling into the next one.
func shiftMonthClamped(value time.Time, delta int) time.Time {
	target := services.MonthOf(value).Offset(delta)
	day := value.Day()
	if last := services.DaysInMonth(target.Month, target.Year); day > last {
		day = last
	}
	return time.Date(target.Year, target.Month, day, 0, 0, 0, 0, value.Location())
}

func monthDistance(from services.MonthSpec, to services.MonthSpec) int {
	return (to.Year-from.Year)*12 + int(to.Month) - int(from.Month)
}
