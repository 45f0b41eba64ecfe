package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// SpiroConfig holds everything a host needs to wire the curve engine to storage and output
type SpiroConfig struct {
	// === STORAGE ===
	AssetsPath string // base directory for spiro state
	DbPath     string // location of the sqlite database holding the settings record
	AppKey     string // fixed key the settings record is stored under

	// === HOSTS ===
	HTTPAddr string // listen address of the web target
	LogPath  string // file used when logging to file

	// === DRAWING ===
	CanvasWidth  int     // pixel width of rendered SVG documents
	CanvasHeight int     // pixel height of rendered SVG documents
	Margin       float64 // fraction of the half-extent kept free around the curve
	Background   string  // page background colour of the web target
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *SpiroConfig {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	assets := filepath.Join(home, ".spiro")
	return &SpiroConfig{
		AssetsPath: assets,
		DbPath:     filepath.Join(assets, "spiro.db"),
		AppKey:     "app",

		HTTPAddr: "localhost:8080",
		LogPath:  "/tmp/spiro.log",

		CanvasWidth:  800,
		CanvasHeight: 800,
		Margin:       0.05,
		Background:   "#1b1b1b",
	}
}

// Global configuration instance
var Config *SpiroConfig

func init() {
	Config = DefaultConfig()
}

// UpdateConfig replaces the global configuration
func UpdateConfig(newConfig *SpiroConfig) error {
	if err := ValidateConfig(newConfig); err != nil {
		return err
	}
	Config = newConfig
	return nil
}

// ValidateConfig ensures all configuration values are usable
func ValidateConfig(config *SpiroConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if config.DbPath == "" {
		return fmt.Errorf("DbPath cannot be empty")
	}
	if config.AppKey == "" {
		return fmt.Errorf("AppKey cannot be empty")
	}
	if config.CanvasWidth <= 0 || config.CanvasHeight <= 0 {
		return fmt.Errorf("canvas must have a positive size, got: %dx%d", config.CanvasWidth, config.CanvasHeight)
	}
	if config.Margin < 0 || config.Margin >= 1 {
		return fmt.Errorf("Margin should be between 0.0 and 1.0, got: %f", config.Margin)
	}
	return nil
}

// EnsureAssetsPath creates the directory holding the database if needed
func (c *SpiroConfig) EnsureAssetsPath() error {
	dir := filepath.Dir(c.DbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create assets directory %s: %w", dir, err)
	}
	return nil
}
