package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aevel/pland/internal/api"
	"github.com/aevel/pland/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette = CommandPaletteState{}
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.setStatus("command palette closed", false)
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := m.Palette.Input
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.setStatus(err.Error(), true)
		m.notify("Command failed", err.Error(), "error")
		return m, nil
	}

	switch cmd.Type {
	case commands.TypeAdd:
		return m, createTaskCmd(m.Service, api.CreateTaskRequest{Text: cmd.Add.Text})
	case commands.TypeEvent:
		return m, createEventCmd(m.Service, api.CreateEventRequest{
			Date:     cmd.Event.Date,
			Title:    cmd.Event.Title,
			IsAllDay: true,
		})
	case commands.TypeReschedule:
		date := cmd.Reschedule.Date
		note := fmt.Sprintf("event %s moved to %s", cmd.Reschedule.EventID, date)
		return m, updateEventCmd(m.Service, cmd.Reschedule.EventID, api.EventPatch{Date: &date}, note)
	case commands.TypeGoto:
		m.CurrentView = ViewCalendar
		return m.focusMonth(cmd.Goto.Year, cmd.Goto.Month)
	}
	return m, nil
}
