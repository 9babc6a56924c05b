package update

import (
	"os"
	"strconv"
	"strings"
)

type RuntimeConfig struct {
	ServerURL            string
	DesktopNotifications bool
	MaxVisibleEvents     int
	AlertLeadMinutes     int
	AlertBuffer          int
	UIStatePath          string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		ServerURL:            "http://127.0.0.1:5000",
		DesktopNotifications: false,
		MaxVisibleEvents:     5,
		AlertLeadMinutes:     1,
		AlertBuffer:          16,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("PLAND_SERVER_URL")); v != "" {
		cfg.ServerURL = v
	}
	if v, ok := getEnvBool("PLAND_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("PLAND_MAX_VISIBLE_EVENTS"); ok && v > 0 {
		cfg.MaxVisibleEvents = v
	}
	if v, ok := getEnvInt("PLAND_ALERT_LEAD_MINUTES"); ok && v > 0 {
		cfg.AlertLeadMinutes = v
	}
	if v, ok := getEnvInt("PLAND_ALERT_BUFFER"); ok && v > 0 {
		cfg.AlertBuffer = v
	}
	if v := strings.TrimSpace(os.Getenv("PLAND_STATE_FILE")); v != "" {
		cfg.UIStatePath = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
