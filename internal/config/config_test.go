package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets every WINTOUCHER_ variable touched by tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WINTOUCHER_DATA_DIR",
		"WINTOUCHER_POINTS_PATH",
		"WINTOUCHER_MAX_CONTACTS",
		"WINTOUCHER_PRESS_HOLD_MS",
		"WINTOUCHER_FLICK_STEPS",
		"WINTOUCHER_FLICK_STEP_INTERVAL_MS",
		"WINTOUCHER_OVERLAY_OPACITY",
		"WINTOUCHER_MONITOR_INDEX",
		"WINTOUCHER_TOGGLE_KEY",
		"WINTOUCHER_LISTENER_ENABLED",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// TestLoad_Defaults verifies defaults apply with no file and no env.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("WINTOUCHER_DATA_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxContacts != 10 || cfg.FlickSteps != 10 || cfg.FlickStepMs != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ToggleKey != 0x1B {
		t.Fatalf("expected Esc toggle key, got 0x%X", cfg.ToggleKey)
	}
	if !cfg.ListenerEnabled {
		t.Fatalf("expected listener enabled by default")
	}
	if filepath.Base(cfg.PointsPath) != "points.json" {
		t.Fatalf("unexpected points path: %s", cfg.PointsPath)
	}
}

// TestLoad_FileOverridesDefaults verifies YAML values replace defaults.
func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := "max_contacts: 4\nflick_steps: 20\noverlay_opacity: 128\ntoggle_key: 0x70\nlistener_enabled: false\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(file), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("WINTOUCHER_DATA_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxContacts != 4 || cfg.FlickSteps != 20 || cfg.OverlayOpacity != 128 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.ToggleKey != 0x70 {
		t.Fatalf("expected F1 toggle key, got 0x%X", cfg.ToggleKey)
	}
	if cfg.ListenerEnabled {
		t.Fatalf("expected listener disabled by file")
	}
}

// TestLoad_EnvOverridesFile verifies env wins over the file.
func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("max_contacts: 4\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("WINTOUCHER_DATA_DIR", dir)
	t.Setenv("WINTOUCHER_MAX_CONTACTS", "7")
	t.Setenv("WINTOUCHER_TOGGLE_KEY", "0x20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxContacts != 7 {
		t.Fatalf("env override not applied: %+v", cfg)
	}
	if cfg.ToggleKey != 0x20 {
		t.Fatalf("expected Space toggle key, got 0x%X", cfg.ToggleKey)
	}
}

// TestLoad_RejectsInvalid verifies validation failures.
func TestLoad_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"WINTOUCHER_MAX_CONTACTS":    "0",
		"WINTOUCHER_FLICK_STEPS":     "-1",
		"WINTOUCHER_OVERLAY_OPACITY": "300",
		"WINTOUCHER_TOGGLE_KEY":      "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("WINTOUCHER_DATA_DIR", t.TempDir())
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected %s=%s to be rejected", key, value)
			}
		})
	}
}

// TestLoad_BadIntRejected verifies non-numeric env values error out.
func TestLoad_BadIntRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("WINTOUCHER_DATA_DIR", t.TempDir())
	t.Setenv("WINTOUCHER_PRESS_HOLD_MS", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
