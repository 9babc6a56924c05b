package update

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestUIStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	in := uiState{LastView: string(ViewTasks), FocusMonth: "2024-11"}
	if err := saveUIState(path, in); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	out, err := loadUIState(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file must be renamed away")
	}
}

func TestLoadUIStateMissingFile(t *testing.T) {
	out, err := loadUIState(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if out != (uiState{}) {
		t.Fatalf("expected zero state, got %+v", out)
	}
}

func TestApplyUIState(t *testing.T) {
	m := newTestModel(&fakeService{})
	m.applyUIState(uiState{LastView: string(ViewTasks), FocusMonth: "2023-06"})
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected tasks view, got %q", m.CurrentView)
	}
	if m.Calendar.FocusYear != 2023 || m.Calendar.FocusMonth != time.June {
		t.Fatalf("expected Jun 2023, got %s %d", m.Calendar.FocusMonth, m.Calendar.FocusYear)
	}
}

func TestApplyUIStateIgnoresGarbage(t *testing.T) {
	m := newTestModel(&fakeService{})
	m.applyUIState(uiState{LastView: "Dashboard", FocusMonth: "last month"})
	if m.CurrentView != ViewCalendar {
		t.Fatalf("garbage view must not apply, got %q", m.CurrentView)
	}
	if m.Calendar.FocusYear != 2024 || m.Calendar.FocusMonth != time.February {
		t.Fatalf("garbage month must not apply, got %s %d", m.Calendar.FocusMonth, m.Calendar.FocusYear)
	}
}

func TestPersistUIStateOnViewSwitch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	m := newTestModel(&fakeService{})
	m.stateFilePath = path

	m, _ = apply(t, m, keyRunes("2"))
	state, err := loadUIState(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if state.LastView != string(ViewTasks) {
		t.Fatalf("expected persisted tasks view, got %q", state.LastView)
	}
	if state.FocusMonth != "2024-02" {
		t.Fatalf("expected persisted focus month, got %q", state.FocusMonth)
	}
}
