package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aevel/pland/internal/dates"
)

// uiState is the slice of UI position worth keeping between runs. It never
// holds task or event data; the server owns all of that.
type uiState struct {
	LastView   string `json:"last_view"`
	FocusMonth string `json:"focus_month"`
}

func (m *Model) applyUIState(state uiState) {
	if isKnownView(View(state.LastView)) {
		m.CurrentView = View(state.LastView)
	}
	if dates.IsDayKey(state.FocusMonth + "-01") {
		year, month, _, err := dates.ParseDayKey(state.FocusMonth + "-01")
		if err == nil {
			m.Calendar.FocusYear = year
			m.Calendar.FocusMonth = month
			m.Calendar.Cursor = -1
		}
	}
}

func (m *Model) persistUIState() {
	if strings.TrimSpace(m.stateFilePath) == "" {
		return
	}
	state := uiState{
		LastView:   string(m.CurrentView),
		FocusMonth: monthKey(m.Calendar.FocusYear, m.Calendar.FocusMonth),
	}
	// Best effort: a failed write never interrupts the session.
	_ = saveUIState(m.stateFilePath, state)
}

func monthKey(year int, month time.Month) string {
	return strings.TrimSuffix(dates.MonthPrefix(year, month), "-")
}

func saveUIState(path string, state uiState) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func loadUIState(path string) (uiState, error) {
	var state uiState
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return state, nil
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, err
	}
	return state, nil
}
