package update

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aevel/pland/internal/agenda"
)

// clipboardWriter is the copy seam; tests swap in a capture implementation
// so they never touch the real system clipboard.
type clipboardWriter interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.Tasks.Cursor < len(m.Tasks.Rows)-1 {
			m.Tasks.Cursor++
		}
		return m, nil
	case "k", "up":
		if m.Tasks.Cursor > 0 {
			m.Tasks.Cursor--
		}
		return m, nil
	case " ", "space":
		if row, ok := m.currentTaskRow(); ok {
			m.Tasks.Selected[row.Task.ID] = !m.Tasks.Selected[row.Task.ID]
			if !m.Tasks.Selected[row.Task.ID] {
				delete(m.Tasks.Selected, row.Task.ID)
			}
		}
		return m, nil
	case "x":
		for _, row := range m.Tasks.Rows {
			m.Tasks.Selected[row.Task.ID] = true
		}
		return m, nil
	case "X":
		m.Tasks.Selected = make(map[string]bool)
		m.setStatus("selection cleared", false)
		return m, nil
	case "c":
		return m.bulkComplete()
	case "D":
		return m.requestBulkDelete()
	case "u":
		return m.undoLastDelete()
	case "enter":
		if m.Tasks.Drag.Phase == DragActive {
			return m.dropTask()
		}
		if row, ok := m.currentTaskRow(); ok {
			return m, toggleTaskCmd(m.Service, row.Task.ID, !row.Task.Done)
		}
		return m, nil
	case "g":
		return m.grabTask()
	case "esc":
		return m.cancelTaskDrag()
	case "d":
		if row, ok := m.currentTaskRow(); ok {
			m.Confirm = ConfirmState{
				Action: ConfirmTaskDelete,
				IDs:    []string{row.Task.ID},
				Prompt: fmt.Sprintf("delete task %q? (y/n)", row.Task.Text),
			}
		}
		return m, nil
	case "y":
		return m.copyTasks()
	case "a":
		return m.openAddTaskForm()
	}
	return m, nil
}

func (m Model) bulkComplete() (tea.Model, tea.Cmd) {
	ids := m.selectedIDs()
	if len(ids) == 0 {
		m.setStatus("nothing selected", true)
		return m, nil
	}
	return m, batchCompleteCmd(m.Service, ids)
}

func (m Model) requestBulkDelete() (tea.Model, tea.Cmd) {
	ids := m.selectedIDs()
	if len(ids) == 0 {
		m.setStatus("nothing selected", true)
		return m, nil
	}
	m.Confirm = ConfirmState{
		Action: ConfirmBatchDelete,
		IDs:    ids,
		Prompt: fmt.Sprintf("delete %d selected task(s)? (y/n)", len(ids)),
	}
	return m, nil
}

func (m Model) undoLastDelete() (tea.Model, tea.Cmd) {
	if len(m.lastDeleted) == 0 {
		m.setStatus("nothing to undo", true)
		return m, nil
	}
	return m, undoDeleteCmd(m.Service, m.lastDeleted)
}

// grabTask starts a reorder drag with the task under the cursor. Completed
// tasks have no manual order, so they cannot be grabbed.
func (m Model) grabTask() (tea.Model, tea.Cmd) {
	row, ok := m.currentTaskRow()
	if !ok {
		return m, nil
	}
	if row.Bucket == agenda.BucketCompleted {
		m.setStatus("completed tasks keep their own order", true)
		return m, nil
	}
	m.Tasks.Drag = TaskDrag{Phase: DragActive, TaskID: row.Task.ID, Text: row.Task.Text}
	m.setStatus(fmt.Sprintf("moving %q, pick a task and press enter", row.Task.Text), false)
	return m, nil
}

func (m Model) cancelTaskDrag() (tea.Model, tea.Cmd) {
	if m.Tasks.Drag.Phase != DragActive {
		return m, nil
	}
	m.Tasks.Drag = TaskDrag{Phase: DragIdle}
	m.setStatus("move cancelled", false)
	return m, nil
}

// dropTask reorders the dragged task before the task under the cursor and
// persists the full reconciled order. The list itself only changes when
// the reloaded tasks and preferences come back.
func (m Model) dropTask() (tea.Model, tea.Cmd) {
	target, ok := m.currentTaskRow()
	drag := m.Tasks.Drag
	m.Tasks.Drag = TaskDrag{Phase: DragIdle}
	if !ok {
		return m, nil
	}
	order, err := m.Tasks.Buckets.ReorderDrop(drag.TaskID, target.Task.ID)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	return m, saveOrderCmd(m.Service, order)
}

func (m Model) copyTasks() (tea.Model, tea.Cmd) {
	lines := make([]string, 0, 1)
	if len(m.Tasks.Selected) > 0 {
		for _, row := range m.Tasks.Rows {
			if m.Tasks.Selected[row.Task.ID] {
				lines = append(lines, row.Task.Text)
			}
		}
	} else if row, ok := m.currentTaskRow(); ok {
		lines = append(lines, row.Task.Text)
	}
	if len(lines) == 0 {
		m.setStatus("nothing to copy", true)
		return m, nil
	}
	if err := m.clip.WriteAll(strings.Join(lines, "\n")); err != nil {
		m.setStatus(fmt.Sprintf("clipboard copy failed: %v", err), true)
		return m, nil
	}
	m.setStatus(fmt.Sprintf("copied %d task(s)", len(lines)), false)
	return m, nil
}
