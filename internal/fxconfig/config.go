// Package fxconfig is FilterX's own Go-level configuration surface:
// which functions are registered, debug/trace flags, scratch-buffer
// sizing hints, and which message store backend the CLI driver wires
// up. It is generalized from the teacher's internal/util.Configuration
// (a flat settings struct) but loaded from a TOML file via
// github.com/BurntSushi/toml — a dependency the teacher's own go.mod
// already carries indirectly; this package is what makes it a direct
// one.
package fxconfig

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config mirrors spec.md's configuration-time concerns: which
// built-in functions a host registers, the debug/trace toggles (the
// CLI driver copies Debug onto fxexpr.Config and fxeval.Context, and
// Trace onto fxeval.Context), and the host collaborator
// backend selection the CLI driver (cmd/filterx) uses to build a
// fxhost.MessageStore.
type Config struct {
	Debug bool `toml:"debug"`
	Trace bool `toml:"trace"`

	// FloatingSlots sizes fxvar.Scope's dense floating-variable slice
	// hint, passed to fxeval.NewContext.
	FloatingSlots int `toml:"floating_slots"`

	Functions []string `toml:"functions"`

	Log    LogConfig    `toml:"log"`
	Store  StoreConfig  `toml:"store"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
	Color bool   `toml:"color"`
}

// StoreConfig selects and parameterizes the fxhost.MessageStore
// backend: "sqlite" (Path) or "mysql"/"postgres" (DSN).
type StoreConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	DSN     string `toml:"dsn"`
}

// Default returns the configuration the CLI driver falls back to when
// no config file is given.
func Default() Config {
	return Config{
		FloatingSlots: 8,
		Functions:     []string{"startswith", "endswith", "includes", "len", "lower", "upper", "is_null", "has_key"},
		Log:           LogConfig{Level: "info", Color: true},
		Store:         StoreConfig{Backend: "sqlite", Path: "filterx.db"},
	}
}

// Load reads and decodes a TOML configuration file at path, starting
// from Default() so a partial file only overrides what it names.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("filterx: load config %s: %w", path, err)
	}
	return cfg, nil
}
