package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Config is the user preference file, config.json under ConfigDir.
type Config struct {
	// RTL mirrors the outline for right-to-left scripts.
	RTL bool `json:"rtl"`
	// DarkMode selects the dark palette.
	DarkMode bool `json:"darkmode"`
}

// Keys lists the settings `Set` understands.
var Keys = []string{"rtl", "darkmode"}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.altflow).
	if v := strings.TrimSpace(os.Getenv("ALTFLOW_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".altflow"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads config.json. A missing file yields the zero Config.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// The TUI and the settings command may write at the same time.
	return atomicWriteFile(dir, "config.json.*.tmp", path, append(b, '\n'), 0o600)
}

// Set updates one setting by key from its string form.
func (c *Config) Set(key, value string) error {
	var field *bool
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "rtl":
		field = &c.RTL
	case "darkmode", "dark-mode", "dark":
		field = &c.DarkMode
	default:
		return UnknownKeyError{Key: key}
	}
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q (want true|false)", key, value)
	}
	*field = v
	return nil
}

type UnknownKeyError struct {
	Key string
}

func (e UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown setting: %q (want %s)", e.Key, strings.Join(Keys, "|"))
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
