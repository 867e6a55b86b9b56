// Package config loads and persists windowsnap's config.json.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/1broseidon/windowsnap/internal/layout"
)

const (
	DefaultProfile          = "default"
	DefaultAutosaveProfile  = "autosave"
	DefaultEnumerateTimeout = 10
	DefaultAutosaveInterval = 30
)

// HistoryConfig configures the SQLite history log.
type HistoryConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Path defaults to <config dir>/history.db when empty.
	Path string `json:"path" yaml:"path"`
}

// AutosaveConfig configures the daemon's periodic snapshot.
type AutosaveConfig struct {
	Enabled         bool   `json:"enabled" yaml:"enabled"`
	Profile         string `json:"profile" yaml:"profile"`
	IntervalMinutes int    `json:"interval_minutes" yaml:"interval_minutes"`
}

// Config is the on-disk configuration.
type Config struct {
	DefaultProfile string `json:"default_profile" yaml:"default_profile"`
	// Platform selects the window source: auto, x11, wmctrl, macos, windows.
	Platform                string            `json:"platform" yaml:"platform"`
	EnumerateTimeoutSeconds int               `json:"enumerate_timeout_seconds" yaml:"enumerate_timeout_seconds"`
	LogLevel                string            `json:"log_level" yaml:"log_level"`
	History                 HistoryConfig     `json:"history" yaml:"history"`
	PaletteBackend          string            `json:"palette_backend" yaml:"palette_backend"`
	Hotkeys                 map[string]string `json:"hotkeys" yaml:"hotkeys"`
	Autosave                AutosaveConfig    `json:"autosave" yaml:"autosave"`
}

// ValidationError reports an invalid config field.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func DefaultHotkeys() map[string]string {
	return map[string]string{
		"super+shift+s": "save:" + DefaultProfile,
		"super+shift+r": "restore:" + DefaultProfile,
	}
}

func DefaultConfig() *Config {
	return &Config{
		DefaultProfile:          DefaultProfile,
		Platform:                "auto",
		EnumerateTimeoutSeconds: DefaultEnumerateTimeout,
		LogLevel:                "info",
		History:                 HistoryConfig{Enabled: true},
		PaletteBackend:          "auto",
		Hotkeys:                 DefaultHotkeys(),
		Autosave: AutosaveConfig{
			Enabled:         false,
			Profile:         DefaultAutosaveProfile,
			IntervalMinutes: DefaultAutosaveInterval,
		},
	}
}

// EnumerateTimeout returns the bound on external window listing commands.
func (c *Config) EnumerateTimeout() time.Duration {
	if c.EnumerateTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.EnumerateTimeoutSeconds) * time.Second
}

// AutosaveInterval returns the autosave period.
func (c *Config) AutosaveInterval() time.Duration {
	return time.Duration(c.Autosave.IntervalMinutes) * time.Minute
}

// ProfileOrDefault returns name, or the configured default profile when name is empty.
func (c *Config) ProfileOrDefault(name string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	if c.DefaultProfile != "" {
		return c.DefaultProfile
	}
	return DefaultProfile
}

func (c *Config) Validate() error {
	if err := layout.ValidateName(c.DefaultProfile); err != nil {
		return &ValidationError{Path: "default_profile", Err: err}
	}
	switch c.Platform {
	case "auto", "x11", "wmctrl", "macos", "windows":
	default:
		return &ValidationError{Path: "platform", Err: fmt.Errorf("platform must be one of: auto, x11, wmctrl, macos, windows")}
	}
	if c.EnumerateTimeoutSeconds < 0 {
		return &ValidationError{Path: "enumerate_timeout_seconds", Err: fmt.Errorf("enumerate_timeout_seconds must be >= 0")}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	switch c.PaletteBackend {
	case "auto", "rofi", "fuzzel", "dmenu", "wofi", "terminal":
	default:
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, rofi, fuzzel, dmenu, wofi, terminal")}
	}
	for key, action := range c.Hotkeys {
		if strings.TrimSpace(key) == "" {
			return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("hotkeys contains an empty key binding")}
		}
		if _, err := ParseHotkeyAction(action); err != nil {
			return &ValidationError{Path: "hotkeys." + key, Err: err}
		}
	}
	if c.Autosave.Enabled {
		if err := layout.ValidateName(c.Autosave.Profile); err != nil {
			return &ValidationError{Path: "autosave.profile", Err: err}
		}
		if c.Autosave.IntervalMinutes < 1 {
			return &ValidationError{Path: "autosave.interval_minutes", Err: fmt.Errorf("interval_minutes must be >= 1")}
		}
	}
	return nil
}

// normalize lowercases the enumerated string fields.
func (c *Config) normalize() {
	c.Platform = strings.ToLower(strings.TrimSpace(c.Platform))
	c.PaletteBackend = strings.ToLower(strings.TrimSpace(c.PaletteBackend))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "warn" {
		c.LogLevel = "warning"
	}
}

// repair resets every field that fails Validate to its default and returns
// one message per reset field. c is valid afterwards.
func (c *Config) repair() []string {
	var msgs []string
	def := DefaultConfig()
	limit := len(c.Hotkeys) + 16
	for i := 0; i < limit; i++ {
		err := c.Validate()
		if err == nil {
			return msgs
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) || !c.reset(vErr.Path, def) {
			break
		}
		msgs = append(msgs, fmt.Sprintf("%v; using default", err))
	}
	if err := c.Validate(); err != nil {
		*c = *def
		msgs = append(msgs, fmt.Sprintf("%v; using default config", err))
	}
	return msgs
}

// reset restores the field named by a ValidationError path.
func (c *Config) reset(path string, def *Config) bool {
	switch path {
	case "default_profile":
		c.DefaultProfile = def.DefaultProfile
	case "platform":
		c.Platform = def.Platform
	case "enumerate_timeout_seconds":
		c.EnumerateTimeoutSeconds = def.EnumerateTimeoutSeconds
	case "log_level":
		c.LogLevel = def.LogLevel
	case "palette_backend":
		c.PaletteBackend = def.PaletteBackend
	case "hotkeys":
		for key := range c.Hotkeys {
			if strings.TrimSpace(key) == "" {
				delete(c.Hotkeys, key)
			}
		}
	case "autosave.profile":
		c.Autosave.Profile = def.Autosave.Profile
	case "autosave.interval_minutes":
		c.Autosave.IntervalMinutes = def.Autosave.IntervalMinutes
	default:
		key, ok := strings.CutPrefix(path, "hotkeys.")
		if !ok {
			return false
		}
		if _, bound := c.Hotkeys[key]; !bound {
			return false
		}
		delete(c.Hotkeys, key)
	}
	return true
}

// Hotkey action kinds.
const (
	ActionSave    = "save"
	ActionRestore = "restore"
	ActionMenu    = "menu"
)

// HotkeyAction is a parsed hotkeys value such as "restore:work".
type HotkeyAction struct {
	Kind string
	// Profile is empty when the default profile should be used.
	Profile string
}

func (a HotkeyAction) String() string {
	if a.Profile == "" {
		return a.Kind
	}
	return a.Kind + ":" + a.Profile
}

// ParseHotkeyAction parses "save[:profile]", "restore[:profile]" or "menu".
func ParseHotkeyAction(s string) (HotkeyAction, error) {
	kind, profile, hasProfile := strings.Cut(strings.TrimSpace(s), ":")
	kind = strings.ToLower(strings.TrimSpace(kind))
	profile = strings.TrimSpace(profile)

	switch kind {
	case ActionSave, ActionRestore:
		if hasProfile && profile != "" {
			if err := layout.ValidateName(profile); err != nil {
				return HotkeyAction{}, err
			}
		}
		return HotkeyAction{Kind: kind, Profile: profile}, nil
	case ActionMenu:
		if hasProfile && profile != "" {
			return HotkeyAction{}, fmt.Errorf("action %q takes no profile", kind)
		}
		return HotkeyAction{Kind: kind}, nil
	default:
		return HotkeyAction{}, fmt.Errorf("unknown action %q (expected save[:profile], restore[:profile] or menu)", s)
	}
}
