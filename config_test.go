package sprout

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseConfigTOML(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
debug = true
tps = 30
library = "anims.yaml"

[window]
title = "demo"
width = 320

[logging]
level = "debug"
`), "toml")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if !cfg.Debug || cfg.TPS != 30 || cfg.Library != "anims.yaml" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Window.Title != "demo" || cfg.Window.Width != 320 {
		t.Errorf("window = %+v", cfg.Window)
	}
	// Unset fields keep their defaults.
	if cfg.Window.Height != 480 || cfg.Logging.Format != "console" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestParseConfigYAML(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
tps: 120
window:
  title: yaml demo
logging:
  format: json
`), "yml")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.TPS != 120 || cfg.Window.Title != "yaml demo" || cfg.Logging.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Window.Width != 640 {
		t.Errorf("Width = %d, want default 640", cfg.Window.Width)
	}
}

func TestParseConfigErrors(t *testing.T) {
	if _, err := ParseConfig([]byte(`tps = 0`), "toml"); err == nil {
		t.Error("zero tps accepted")
	}
	if _, err := ParseConfig(nil, "ini"); err == nil {
		t.Error("unknown format accepted")
	}
	if _, err := ParseConfig([]byte("tps: [1"), "yaml"); err == nil {
		t.Error("malformed yaml accepted")
	}
}

func TestLoadConfigResolvesLibrary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.toml")
	if err := os.WriteFile(path, []byte(`library = "behaviors.yaml"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if want := filepath.Join(dir, "behaviors.yaml"); cfg.Library != want {
		t.Errorf("Library = %q, want %q", cfg.Library, want)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestNewLogger(t *testing.T) {
	for _, c := range []struct {
		cfg  LoggingConfig
		want zapcore.Level
	}{
		{LoggingConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{LoggingConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{LoggingConfig{Level: "nonsense"}, zapcore.InfoLevel},
	} {
		log, err := NewLogger(c.cfg)
		if err != nil {
			t.Fatalf("NewLogger(%+v): %v", c.cfg, err)
		}
		if !log.Core().Enabled(c.want) || (c.want > zapcore.DebugLevel && log.Core().Enabled(c.want-1)) {
			t.Errorf("NewLogger(%+v) level mismatch", c.cfg)
		}
	}
}
