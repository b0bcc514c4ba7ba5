package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/terraincognita07/rangepick/internal/services"
)

var (
	captionStyle  = lipgloss.NewStyle().Bold(true).Width(7 * 3).Align(lipgloss.Center)
	headerStyle   = lipgloss.NewStyle().Faint(true).Width(3).Align(lipgloss.Center)
	cellStyle     = lipgloss.NewStyle().Width(3).Align(lipgloss.Right)
	selectedStyle = cellStyle.Reverse(true)
	staticStyle   = cellStyle.Faint(true)
	cursorStyle   = cellStyle.Underline(true).Bold(true)
	monthStyle    = lipgloss.NewStyle().Padding(0, 1)
	labelStyle    = lipgloss.NewStyle().Width(6)
	alterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

func (m Model) View() string {
	if m.quitting {
		if m.applied != nil {
			return fmt.Sprintf("%s: %s - %s\n", m.label("picker.tui.applied", "Applied"),
				m.applied.Start.Format("2006-01-02 15:04:05"), m.applied.End.Format("2006-01-02 15:04:05"))
		}
		return ""
	}

	state := m.picker.State()
	sections := []string{
		m.renderField(services.TimeFieldFrom, state),
		m.renderField(services.TimeFieldTo, state),
		"",
		m.renderCalendars(),
	}
	if m.err != nil {
		sections = append(sections, errorStyle.Render(m.err.Error()))
	}
	sections = append(sections, helpStyle.Render(m.label("picker.tui.help", "arrows move, enter picks, tab edits time, [ ] month, a applies, q quits")))
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderField(field string, state services.PickerState) string {
	label := m.label("picker.label.from", "From")
	date := services.LocalizedPrettyDate(m.language, state.Range.Start)
	input := m.fromInput.View()
	if field == services.TimeFieldTo {
		label = m.label("picker.label.to", "To")
		date = services.LocalizedPrettyDate(m.language, state.Range.End)
		input = m.toInput.View()
	}

	marker := "  "
	if state.AlterField() == field {
		marker = alterStyle.Render("› ")
	}
	return marker + labelStyle.Render(label) + " " + date + "  " + input
}

func (m Model) renderCalendars() string {
	views := m.picker.Calendars()
	rendered := make([]string, 0, len(views))
	for _, view := range views {
		rendered = append(rendered, monthStyle.Render(m.renderMonth(view)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderMonth(view services.CalendarView) string {
	lines := make([]string, 0, services.CalendarRows+2)
	lines = append(lines, captionStyle.Render(services.LocalizedMonthYear(m.language, view.Month)))

	initials := services.LocalizedDayInitials(m.language)
	header := make([]string, 0, len(initials))
	for _, initial := range initials {
		header = append(header, headerStyle.Render(initial))
	}
	lines = append(lines, strings.Join(header, ""))

	cursor := services.CellDateString(m.cursor)
	for _, week := range view.Weeks() {
		cells := make([]string, 0, len(week))
		for _, cell := range week {
			cells = append(cells, renderCell(cell, cell.DateString == cursor && !cell.Blank))
		}
		lines = append(lines, strings.Join(cells, ""))
	}
	return strings.Join(lines, "\n")
}

func renderCell(cell services.CalendarCell, focused bool) string {
	if cell.Blank {
		return cellStyle.Render("")
	}
	text := fmt.Sprintf("%d", cell.Day)
	switch {
	case focused:
		return cursorStyle.Render(text)
	case cell.Selected:
		return selectedStyle.Render(text)
	case cell.Static:
		return staticStyle.Render(text)
	default:
		return cellStyle.Render(text)
	}
}

func (m Model) label(key string, fallback string) string {
	if value, ok := m.messages[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
