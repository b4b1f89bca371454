// Package config holds the persisted user settings.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	DefaultTerminal = "Terminal"
	DefaultTimeout  = "10000"
	DefaultLoadTime = "1000"
)

// Dir is the settings directory below the vault root.
const Dir = ".snipexec"

var ErrInvalidSettings = errors.New("invalid settings")

// Settings mirrors the persisted data file. Durations are milliseconds kept
// as strings, the way the settings form stores them.
type Settings struct {
	// Terminal is a display name only.
	Terminal string `json:"terminal"`
	// Timeout is the delay before the deferred artifact cleanup.
	Timeout string `json:"timeout"`
	// LoadTime is the delay before the first decoration pass.
	LoadTime string `json:"loadTime"`
}

func Default() Settings {
	return Settings{
		Terminal: DefaultTerminal,
		Timeout:  DefaultTimeout,
		LoadTime: DefaultLoadTime,
	}
}

// Path is the settings file of the vault at root.
func Path(root string) string {
	return filepath.Join(root, Dir, "data.json")
}

// Load reads the settings file over the defaults. A missing file yields the
// defaults.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, errors.Wrapf(err, "failed to read settings: %s", path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), errors.Mark(errors.Wrapf(err, "failed to decode settings: %s", path), ErrInvalidSettings)
	}
	s.applyDefaults()

	return s, nil
}

func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create settings directory: %s", path)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write settings: %s", path)
	}
	return nil
}

func (s *Settings) applyDefaults() {
	if s.Terminal == "" {
		s.Terminal = DefaultTerminal
	}
	if s.Timeout == "" {
		s.Timeout = DefaultTimeout
	}
	if s.LoadTime == "" {
		s.LoadTime = DefaultLoadTime
	}
}

// Set updates one option by its persisted key. An empty value restores the
// default.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "terminal":
		s.Terminal = value
	case "timeout":
		s.Timeout = value
	case "loadTime":
		s.LoadTime = value
	default:
		return errors.Wrapf(ErrInvalidSettings, "unknown option '%s'", key)
	}
	s.applyDefaults()
	return nil
}

// CleanupDelay is Timeout as a duration, falling back to the default when the
// value is not a non-negative integer.
func (s Settings) CleanupDelay() time.Duration {
	return millis(s.Timeout, DefaultTimeout)
}

// LoadDelay is LoadTime as a duration, with the same fallback as
// CleanupDelay.
func (s Settings) LoadDelay() time.Duration {
	return millis(s.LoadTime, DefaultLoadTime)
}

func millis(value, fallback string) time.Duration {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		n, _ = strconv.ParseInt(fallback, 10, 64)
	}
	return time.Duration(n) * time.Millisecond
}
