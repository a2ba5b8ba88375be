// Package config loads file and environment configuration for WinToucher.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultDataDir        = "./data"
	defaultMaxContacts    = 10
	defaultPressHoldMs    = 50
	defaultFlickSteps     = 10
	defaultFlickStepMs    = 5
	defaultOverlayOpacity = 200
	defaultMonitorIdx     = 1
	defaultToggleKey      = 0x1B // Esc
)

// Config holds runtime configuration values.
type Config struct {
	DataDir         string `yaml:"data_dir"`
	PointsPath      string `yaml:"points_path"`
	MaxContacts     int    `yaml:"max_contacts"`
	PressHoldMs     int    `yaml:"press_hold_ms"`
	FlickSteps      int    `yaml:"flick_steps"`
	FlickStepMs     int    `yaml:"flick_step_interval_ms"`
	OverlayOpacity  int    `yaml:"overlay_opacity"`
	MonitorIndex    int    `yaml:"monitor_index"`
	ToggleKey       uint16 `yaml:"toggle_key"`
	ListenerEnabled bool   `yaml:"listener_enabled"`
}

// Load reads configuration from ./data/config.yaml and environment
// variables. Environment variables win over the file; the file wins
// over defaults.
func Load() (Config, error) {
	cfg := Config{
		DataDir:         defaultDataDir,
		MaxContacts:     defaultMaxContacts,
		PressHoldMs:     defaultPressHoldMs,
		FlickSteps:      defaultFlickSteps,
		FlickStepMs:     defaultFlickStepMs,
		OverlayOpacity:  defaultOverlayOpacity,
		MonitorIndex:    defaultMonitorIdx,
		ToggleKey:       defaultToggleKey,
		ListenerEnabled: true,
	}

	dir := envString("WINTOUCHER_DATA_DIR", cfg.DataDir)
	if err := loadFile(filepath.Join(dir, "config.yaml"), &cfg); err != nil {
		return Config{}, err
	}
	cfg.DataDir = dir

	cfg.PointsPath = envString("WINTOUCHER_POINTS_PATH", cfg.PointsPath)
	if cfg.PointsPath == "" {
		cfg.PointsPath = filepath.Join(cfg.DataDir, "points.json")
	}

	maxContacts, err := envInt("WINTOUCHER_MAX_CONTACTS", cfg.MaxContacts)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxContacts = maxContacts

	pressHold, err := envInt("WINTOUCHER_PRESS_HOLD_MS", cfg.PressHoldMs)
	if err != nil {
		return Config{}, err
	}
	cfg.PressHoldMs = pressHold

	flickSteps, err := envInt("WINTOUCHER_FLICK_STEPS", cfg.FlickSteps)
	if err != nil {
		return Config{}, err
	}
	cfg.FlickSteps = flickSteps

	flickStep, err := envInt("WINTOUCHER_FLICK_STEP_INTERVAL_MS", cfg.FlickStepMs)
	if err != nil {
		return Config{}, err
	}
	cfg.FlickStepMs = flickStep

	opacity, err := envInt("WINTOUCHER_OVERLAY_OPACITY", cfg.OverlayOpacity)
	if err != nil {
		return Config{}, err
	}
	cfg.OverlayOpacity = opacity

	monitorIdx, err := envInt("WINTOUCHER_MONITOR_INDEX", cfg.MonitorIndex)
	if err != nil {
		return Config{}, err
	}
	cfg.MonitorIndex = monitorIdx

	toggleKey, err := envKey("WINTOUCHER_TOGGLE_KEY", cfg.ToggleKey)
	if err != nil {
		return Config{}, err
	}
	cfg.ToggleKey = toggleKey

	cfg.ListenerEnabled = envBool("WINTOUCHER_LISTENER_ENABLED", cfg.ListenerEnabled)

	return cfg, cfg.validate()
}

// validate rejects values the engine or the overlay cannot work with.
func (c Config) validate() error {
	if c.MaxContacts <= 0 || c.MaxContacts > 256 {
		return fmt.Errorf("max_contacts must be 1-256, got %d", c.MaxContacts)
	}
	if c.PressHoldMs < 0 {
		return errors.New("press_hold_ms must be >= 0")
	}
	if c.FlickSteps <= 0 {
		return errors.New("flick_steps must be > 0")
	}
	if c.FlickStepMs <= 0 {
		return errors.New("flick_step_interval_ms must be > 0")
	}
	if c.OverlayOpacity < 1 || c.OverlayOpacity > 255 {
		return fmt.Errorf("overlay_opacity must be 1-255, got %d", c.OverlayOpacity)
	}
	if c.MonitorIndex < 0 {
		return errors.New("monitor_index must be >= 0")
	}
	if c.ToggleKey == 0 {
		return errors.New("toggle_key must not be zero")
	}
	return nil
}

// loadFile merges a YAML config file into cfg. A missing file is not
// an error.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// envKey returns a virtual-key env override when present, otherwise a
// default. Both decimal and 0x-prefixed hex are accepted.
func envKey(key string, def uint16) (uint16, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.ParseUint(raw, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%s must be a virtual-key code: %w", key, err)
	}
	return uint16(value), nil
}
