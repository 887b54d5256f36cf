package regmv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	configDirName  = "regmv"
	configFileName = "config.json"
)

// Config is the full option set of one regmv run.
type Config struct {
	Root    string
	Match   string
	Replace string

	// Selection.
	Recursive      bool
	FollowSymlinks bool
	IncludeHidden  bool
	TargetKind     TargetKind

	// Matching.
	MatchFullPath bool

	// Dangerous.
	Execute      bool
	BypassChecks bool

	// Display.
	Verbosity Level
	NoColor   bool
	Copy      bool

	ChangeLogPath string
}

// fileConfig mirrors the keys accepted in the config file. Absent keys
// leave the defaults alone.
type fileConfig struct {
	Verbosity json.RawMessage `json:"verbosity"`
	NoColor   *bool           `json:"noColor"`
	ChangeLog *string         `json:"changelog"`
	All       *bool           `json:"all"`
	Recursive *bool           `json:"recursive"`
	Symlinks  *bool           `json:"symlinks"`
}

func DefaultConfig() Config {
	return Config{
		Root:          "./",
		TargetKind:    TargetFiles,
		Verbosity:     LevelInfo,
		ChangeLogPath: DefaultChangeLogPath,
	}
}

func (c *Config) Validate() error {
	switch c.TargetKind {
	case TargetFiles, TargetDirectories:
	default:
		return fmt.Errorf("invalid target kind %q (use %q or %q)", c.TargetKind, TargetFiles, TargetDirectories)
	}
	if c.Verbosity < LevelTrace || c.Verbosity > LevelFatal {
		return fmt.Errorf("verbosity %d out of range (use 0-6)", c.Verbosity)
	}
	if c.Root == "" {
		return errors.New("root directory must not be empty")
	}
	if c.ChangeLogPath == "" {
		return errors.New("changelog path must not be empty")
	}
	return nil
}

func (c *Config) EnumerateOptions() EnumerateOptions {
	return EnumerateOptions{
		Root:           c.Root,
		Recursive:      c.Recursive,
		FollowSymlinks: c.FollowSymlinks,
		IncludeHidden:  c.IncludeHidden,
		IncludeFiles:   c.TargetKind == TargetFiles,
		IncludeDirs:    c.TargetKind == TargetDirectories,
	}
}

func (c *Config) ExecuteOptions() ExecuteOptions {
	return ExecuteOptions{
		DryRun:        !c.Execute,
		Bypass:        c.BypassChecks,
		ChangeLogPath: c.ChangeLogPath,
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/regmv/config.json or the
// platform equivalent.
func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// LoadConfigFile merges the file at path into base. A missing file is not
// an error.
func LoadConfigFile(fsys afero.Fs, path string, base Config) (Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, withStackTrace(err)
	}

	var stored fileConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return base, fmt.Errorf("malformed config file %s: %w", path, err)
	}
	return mergeConfig(base, stored)
}

func mergeConfig(base Config, stored fileConfig) (Config, error) {
	merged := base
	if len(stored.Verbosity) > 0 && string(stored.Verbosity) != "null" {
		raw := string(stored.Verbosity)
		var name string
		if err := json.Unmarshal(stored.Verbosity, &name); err == nil {
			raw = name
		}
		level, err := ParseLevel(raw)
		if err != nil {
			return base, err
		}
		merged.Verbosity = level
	}
	if stored.NoColor != nil {
		merged.NoColor = *stored.NoColor
	}
	if stored.ChangeLog != nil {
		merged.ChangeLogPath = *stored.ChangeLog
	}
	if stored.All != nil {
		merged.IncludeHidden = *stored.All
	}
	if stored.Recursive != nil {
		merged.Recursive = *stored.Recursive
	}
	if stored.Symlinks != nil {
		merged.FollowSymlinks = *stored.Symlinks
	}
	return merged, nil
}
