package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aevel/pland/internal/api"
	"github.com/aevel/pland/internal/dates"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.moveCalendarCursor(-1)
		return m, nil
	case "l", "right":
		m.moveCalendarCursor(1)
		return m, nil
	case "j", "down":
		m.moveCalendarCursor(7)
		return m, nil
	case "k", "up":
		m.moveCalendarCursor(-7)
		return m, nil
	case "tab":
		cell := m.currentCell()
		if len(cell.Events) > 1 {
			m.Calendar.EventCursor = (m.Calendar.EventCursor + 1) % len(cell.Events)
		}
		return m, nil
	case "n", "]":
		return m.shiftMonth(1)
	case "p", "[":
		return m.shiftMonth(-1)
	case "t":
		return m.gotoToday()
	case "g":
		return m.grabEvent()
	case "esc":
		return m.cancelEventDrag()
	case "enter":
		if m.Calendar.Drag.Phase == DragActive {
			return m.dropEvent()
		}
		if ev, ok := m.currentEvent(); ok {
			return m.openEditEventForm(ev)
		}
		return m, nil
	case "a":
		return m.openAddEventForm(m.currentCell().DateKey)
	case "d":
		if ev, ok := m.currentEvent(); ok {
			m.Confirm = ConfirmState{
				Action: ConfirmEventDelete,
				IDs:    []string{ev.ID},
				Prompt: fmt.Sprintf("delete event %q? (y/n)", ev.Title),
			}
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) moveCalendarCursor(delta int) {
	next := m.Calendar.Cursor + delta
	if next < 0 || next >= len(m.Calendar.Cells) {
		return
	}
	m.Calendar.Cursor = next
	m.Calendar.EventCursor = 0
}

func (m Model) shiftMonth(delta int) (tea.Model, tea.Cmd) {
	year, month := m.Calendar.FocusYear, int(m.Calendar.FocusMonth)
	month += delta
	for month < 1 {
		month += 12
		year--
	}
	for month > 12 {
		month -= 12
		year++
	}
	return m.focusMonth(year, month)
}

func (m Model) focusMonth(year, month int) (tea.Model, tea.Cmd) {
	m.Calendar.FocusYear = year
	m.Calendar.FocusMonth = time.Month(month)
	m.Calendar.Cursor = -1
	m.Calendar.EventCursor = 0
	m.rebuildGrid()
	m.persistUIState()
	return m, nil
}

func (m Model) gotoToday() (tea.Model, tea.Cmd) {
	year, month, _, err := dates.ParseDayKey(m.TodayKey)
	if err != nil {
		return m, nil
	}
	return m.focusMonth(year, int(month))
}

// grabEvent enters the dragging phase with the event under the cursor. The
// grid is untouched until the server confirms the new date.
func (m Model) grabEvent() (tea.Model, tea.Cmd) {
	ev, ok := m.currentEvent()
	if !ok {
		m.setStatus("no event to move here", true)
		return m, nil
	}
	m.Calendar.Drag = CalendarDrag{
		Phase:    DragActive,
		EventID:  ev.ID,
		Title:    ev.Title,
		FromDate: ev.Date,
	}
	m.setStatus(fmt.Sprintf("moving %q, pick a day and press enter", ev.Title), false)
	return m, nil
}

func (m Model) cancelEventDrag() (tea.Model, tea.Cmd) {
	if m.Calendar.Drag.Phase != DragActive {
		return m, nil
	}
	m.Calendar.Drag = CalendarDrag{Phase: DragIdle}
	m.setStatus("move cancelled", false)
	return m, nil
}

// dropEvent resolves the drag onto the focused cell. Dropping outside the
// month keeps the drag alive; a same-day drop still patches, the server
// answer is what rebuilds the grid either way.
func (m Model) dropEvent() (tea.Model, tea.Cmd) {
	cell := m.currentCell()
	if !cell.IsCurrentMonth || cell.DateKey == "" {
		m.setStatus("pick a day inside the month", true)
		return m, nil
	}
	drag := m.Calendar.Drag
	m.Calendar.Drag = CalendarDrag{Phase: DragIdle}
	date := cell.DateKey
	patch := api.EventPatch{Date: &date}
	note := fmt.Sprintf("moved %q to %s", drag.Title, date)
	return m, updateEventCmd(m.Service, drag.EventID, patch, note)
}
