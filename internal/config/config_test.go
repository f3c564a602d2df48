package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != ":3000" {
		t.Errorf("expected addr :3000, got %s", cfg.Server.Addr)
	}
	if cfg.Server.StaticDir != "public" {
		t.Errorf("expected static dir public, got %s", cfg.Server.StaticDir)
	}
	if cfg.Server.OutputDir != "generated" {
		t.Errorf("expected output dir generated, got %s", cfg.Server.OutputDir)
	}
	if !cfg.Server.SaveFiles {
		t.Error("expected save_files enabled by default")
	}
	if cfg.Generation.MaxDurationSec != 10 {
		t.Errorf("expected max duration 10, got %v", cfg.Generation.MaxDurationSec)
	}
	if cfg.Generation.DefaultDurationSec != 1 {
		t.Errorf("expected default duration 1, got %v", cfg.Generation.DefaultDurationSec)
	}
	if cfg.Export.SampleRate != 0 {
		t.Errorf("expected native export rate, got %d", cfg.Export.SampleRate)
	}
	if !cfg.Playback.Enabled {
		t.Error("expected playback enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("expected default addr, got %s", cfg.Server.Addr)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
theme = "gruvbox"

[server]
addr = "127.0.0.1:8080"
static_dir = "/srv/www"
output_dir = "/var/lib/melodia"
save_files = false

[generation]
max_duration_sec = 2.5
default_duration_sec = 0.5
seed = 1234

[export]
sample_rate = 22050

[playback]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Theme != "gruvbox" {
		t.Errorf("expected gruvbox, got %s", cfg.Theme)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("expected 127.0.0.1:8080, got %s", cfg.Server.Addr)
	}
	if cfg.Server.StaticDir != "/srv/www" {
		t.Errorf("expected /srv/www, got %s", cfg.Server.StaticDir)
	}
	if cfg.Server.OutputDir != "/var/lib/melodia" {
		t.Errorf("expected /var/lib/melodia, got %s", cfg.Server.OutputDir)
	}
	if cfg.Server.SaveFiles {
		t.Error("expected save_files disabled")
	}
	if cfg.Generation.MaxDurationSec != 2.5 {
		t.Errorf("expected 2.5, got %v", cfg.Generation.MaxDurationSec)
	}
	if cfg.Generation.DefaultDurationSec != 0.5 {
		t.Errorf("expected 0.5, got %v", cfg.Generation.DefaultDurationSec)
	}
	if cfg.Generation.Seed != 1234 {
		t.Errorf("expected seed 1234, got %d", cfg.Generation.Seed)
	}
	if cfg.Export.SampleRate != 22050 {
		t.Errorf("expected 22050, got %d", cfg.Export.SampleRate)
	}
	if cfg.Playback.Enabled {
		t.Error("expected playback disabled")
	}
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[server]
addr = ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected :9000, got %s", cfg.Server.Addr)
	}
	// Non-overridden values should remain defaults
	if cfg.Server.OutputDir != "generated" {
		t.Errorf("expected default output dir, got %s", cfg.Server.OutputDir)
	}
	if cfg.Generation.MaxDurationSec != 10 {
		t.Errorf("expected default max duration, got %v", cfg.Generation.MaxDurationSec)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero ceiling", "[generation]\nmax_duration_sec = 0\n"},
		{"default above ceiling", "[generation]\nmax_duration_sec = 1\ndefault_duration_sec = 5\n"},
		{"negative rate", "[export]\nsample_rate = -1\n"},
		{"missing output dir", "[server]\noutput_dir = \"\"\nsave_files = true\n"},
		{"bad toml", "[server\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Theme = "everforest"
	cfg.Generation.Seed = 42

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}

	if loaded.Theme != "everforest" {
		t.Errorf("expected theme everforest, got %s", loaded.Theme)
	}
	if loaded.Generation.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Generation.Seed)
	}
	if loaded.Server.Addr != ":3000" {
		t.Errorf("expected default addr preserved, got %s", loaded.Server.Addr)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "config.toml")

	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save failed to create nested dirs: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist at %s: %v", path, err)
	}
}

func TestLoadCustomThemes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
theme = "ocean"

[[custom_theme]]
name = "ocean"
primary = "#0077B6"
secondary = "#00B4D8"
accent = "#90E0EF"
error = "#E63946"
success = "#2A9D8F"
warning = "#E9C46A"
background = "#03045E"
text = "#CAF0F8"
dimmed = "#5C677D"
separator = "#1B3A4B"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.CustomThemes) != 1 {
		t.Fatalf("expected 1 custom theme, got %d", len(cfg.CustomThemes))
	}
	if cfg.CustomThemes[0].Primary != "#0077B6" {
		t.Errorf("expected primary #0077B6, got %s", cfg.CustomThemes[0].Primary)
	}
}
