package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	homeEnv           = "WINDOWSNAP_HOME"
	platformEnv       = "WINDOWSNAP_PLATFORM"
	defaultProfileEnv = "WINDOWSNAP_DEFAULT_PROFILE"

	configFileName  = "config.json"
	layoutsDirName  = "layouts"
	historyFileName = "history.db"
)

// LoadResult carries the loaded config and what happened while loading it.
type LoadResult struct {
	Config *Config
	Path   string
	// Created is set when no config existed and defaults were written.
	Created bool
	// BackupPath is set when a corrupt config was moved aside.
	BackupPath string
	// Warnings are non-fatal problems the caller should surface.
	Warnings []string
}

// Dir returns the windowsnap home directory, $WINDOWSNAP_HOME or ~/.windowsnap.
func Dir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(homeEnv)); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".windowsnap"), nil
}

func DefaultConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LayoutsDir returns the directory holding layout files for a config path.
func LayoutsDir(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), layoutsDirName)
}

// HistoryPath returns the history database path for a config loaded from configPath.
func (c *Config) HistoryPath(configPath string) string {
	if p := strings.TrimSpace(c.History.Path); p != "" {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), historyFileName)
}

// Load reads config from the standard location.
func Load() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads config from path. A missing file is created with
// defaults. A file that cannot be parsed is renamed to <path>.bak and
// replaced by defaults. Fields that parse but fail validation fall back to
// their defaults with a warning; the file itself is left alone. Environment
// overrides are applied before validation and never persisted.
func LoadFromPath(path string) (*LoadResult, error) {
	res := &LoadResult{Path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		res.Config = DefaultConfig()
		if err := res.Config.SaveTo(path); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not write default config: %v", err))
		} else {
			res.Created = true
		}
	case err != nil:
		res.Config = DefaultConfig()
		res.Warnings = append(res.Warnings, fmt.Sprintf("could not read config %s: %v; using defaults", path, err))
	default:
		cfg, parseErr := parse(data)
		if parseErr != nil {
			res.Config = DefaultConfig()
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not parse config %s: %v; using defaults", path, parseErr))
			backup := path + ".bak"
			if err := os.Rename(path, backup); err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("could not back up corrupt config: %v", err))
			} else {
				res.BackupPath = backup
				if err := res.Config.SaveTo(path); err != nil {
					res.Warnings = append(res.Warnings, fmt.Sprintf("could not write default config: %v", err))
				}
			}
		} else {
			res.Config = cfg
		}
	}

	applyEnv(res.Config)
	for _, msg := range res.Config.repair() {
		res.Warnings = append(res.Warnings, fmt.Sprintf("invalid config %s: %s", path, msg))
	}
	return res, nil
}

// parse decodes data over the defaults so that missing keys keep their
// default values. A present "hotkeys" object replaces the default bindings.
func parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Hotkeys = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Hotkeys == nil {
		cfg.Hotkeys = DefaultHotkeys()
	}
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(platformEnv)); v != "" {
		cfg.Platform = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(defaultProfileEnv)); v != "" {
		cfg.DefaultProfile = v
	}
}

// SaveTo validates c and writes it to path with 2-space indentation.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetDefaultProfile updates default_profile in the config file at path,
// leaving environment overrides out of the persisted file.
func SetDefaultProfile(path, name string) error {
	if _, err := LoadFromPath(path); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	onDisk, err := parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	onDisk.repair()
	onDisk.DefaultProfile = name
	return onDisk.SaveTo(path)
}
