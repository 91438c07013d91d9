package fxconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filterx.toml")
	body := `
debug = true
floating_slots = 16

[log]
level = "debug"
file = "/var/log/filterx.log"

[store]
backend = "mysql"
dsn = "user:pass@tcp(127.0.0.1:3306)/filterx"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Debug {
		t.Errorf("expected debug=true")
	}
	if cfg.FloatingSlots != 16 {
		t.Errorf("got floating slots %d, want 16", cfg.FloatingSlots)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/var/log/filterx.log" {
		t.Errorf("log config not overridden: %+v", cfg.Log)
	}
	if cfg.Store.Backend != "mysql" || cfg.Store.DSN == "" {
		t.Errorf("store config not overridden: %+v", cfg.Store)
	}
	// Functions list wasn't set in the file, default should survive.
	if len(cfg.Functions) == 0 {
		t.Errorf("expected default functions list to survive partial override")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/filterx.toml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
