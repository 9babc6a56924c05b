package update

import "testing"

func TestDefaultRuntimeConfig(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.ServerURL == "" {
		t.Fatal("default server URL must be set")
	}
	if cfg.MaxVisibleEvents != 5 {
		t.Fatalf("expected 5 visible events, got %d", cfg.MaxVisibleEvents)
	}
	if cfg.DesktopNotifications {
		t.Fatal("desktop notifications must default off")
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("PLAND_SERVER_URL", "http://planner.local:8080")
	t.Setenv("PLAND_DESKTOP_NOTIFICATIONS", "yes")
	t.Setenv("PLAND_MAX_VISIBLE_EVENTS", "3")
	t.Setenv("PLAND_ALERT_LEAD_MINUTES", "10")
	t.Setenv("PLAND_STATE_FILE", "/tmp/pland-state.json")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.ServerURL != "http://planner.local:8080" {
		t.Fatalf("unexpected server URL: %q", cfg.ServerURL)
	}
	if !cfg.DesktopNotifications {
		t.Fatal("expected desktop notifications on")
	}
	if cfg.MaxVisibleEvents != 3 || cfg.AlertLeadMinutes != 10 {
		t.Fatalf("unexpected numbers: %+v", cfg)
	}
	if cfg.UIStatePath != "/tmp/pland-state.json" {
		t.Fatalf("unexpected state path: %q", cfg.UIStatePath)
	}
}

func TestRuntimeConfigIgnoresInvalidValues(t *testing.T) {
	t.Setenv("PLAND_MAX_VISIBLE_EVENTS", "lots")
	t.Setenv("PLAND_DESKTOP_NOTIFICATIONS", "maybe")
	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.MaxVisibleEvents != 5 {
		t.Fatalf("invalid int must keep default, got %d", cfg.MaxVisibleEvents)
	}
	if cfg.DesktopNotifications {
		t.Fatal("invalid bool must keep default")
	}
}
