package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ServerConfig holds HTTP endpoint settings.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`
	OutputDir string `toml:"output_dir"`
	SaveFiles bool   `toml:"save_files"`
}

// GenerationConfig holds melody generation settings.
type GenerationConfig struct {
	MaxDurationSec     float64 `toml:"max_duration_sec"`
	DefaultDurationSec float64 `toml:"default_duration_sec"`
	Seed               int64   `toml:"seed"` // 0 seeds from the clock
}

// ExportConfig holds output format settings.
type ExportConfig struct {
	SampleRate int `toml:"sample_rate"` // 0 keeps the native 44100 Hz
}

// PlaybackConfig holds local playback settings.
type PlaybackConfig struct {
	Enabled bool `toml:"enabled"`
}

// CustomTheme defines a user-provided TUI color theme.
type CustomTheme struct {
	Name       string `toml:"name"`
	Primary    string `toml:"primary"`
	Secondary  string `toml:"secondary"`
	Accent     string `toml:"accent"`
	Error      string `toml:"error"`
	Success    string `toml:"success"`
	Warning    string `toml:"warning"`
	Background string `toml:"background"`
	Text       string `toml:"text"`
	Dimmed     string `toml:"dimmed"`
	Separator  string `toml:"separator"`
}

// Config is the top-level configuration.
type Config struct {
	Theme        string           `toml:"theme"`
	Server       ServerConfig     `toml:"server"`
	Generation   GenerationConfig `toml:"generation"`
	Export       ExportConfig     `toml:"export"`
	Playback     PlaybackConfig   `toml:"playback"`
	CustomThemes []CustomTheme    `toml:"custom_theme"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		Theme: "synthwave",
		Server: ServerConfig{
			Addr:      ":3000",
			StaticDir: "public",
			OutputDir: "generated",
			SaveFiles: true,
		},
		Generation: GenerationConfig{
			MaxDurationSec:     10,
			DefaultDurationSec: 1,
			Seed:               0,
		},
		Export: ExportConfig{
			SampleRate: 0,
		},
		Playback: PlaybackConfig{
			Enabled: true,
		},
	}
}

// DefaultPath returns the default config file path (~/.config/melodia/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "melodia", "config.toml")
}

// Validate checks value ranges that the TOML decoder cannot enforce.
func (c *Config) Validate() error {
	if c.Generation.MaxDurationSec <= 0 {
		return fmt.Errorf("generation.max_duration_sec must be positive, got %v", c.Generation.MaxDurationSec)
	}
	if c.Generation.DefaultDurationSec < 0 || c.Generation.DefaultDurationSec > c.Generation.MaxDurationSec {
		return fmt.Errorf("generation.default_duration_sec must be in [0, %v], got %v",
			c.Generation.MaxDurationSec, c.Generation.DefaultDurationSec)
	}
	if c.Export.SampleRate < 0 {
		return fmt.Errorf("export.sample_rate must not be negative, got %d", c.Export.SampleRate)
	}
	if c.Server.SaveFiles && c.Server.OutputDir == "" {
		return errors.New("server.output_dir is required when save_files is enabled")
	}
	return nil
}

// Save writes the config as TOML to the given path, creating parent
// directories if needed. The write is atomic: data is written to a
// temporary file and renamed into place so a crash mid-write cannot
// corrupt the existing config.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".melodia-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML config from path. If the file does not exist,
// it returns the default config without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
