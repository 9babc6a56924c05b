package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aevel/pland/internal/alert"
	"github.com/aevel/pland/internal/api"
	"github.com/aevel/pland/internal/update"
)

func main() {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())
	if cfg.UIStatePath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.UIStatePath = filepath.Join(home, ".config", "pland", "state.json")
		}
	}

	client, err := api.NewClient(cfg.ServerURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pland: %v\n", err)
		os.Exit(1)
	}

	engine := alert.NewEngine(cfg.AlertBuffer)
	engine.Start()
	defer engine.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	m := update.NewModelWithConfig(client, engine, notifier, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "pland failed: %v\n", err)
		os.Exit(1)
	}
}
