// Package config handles configuration for pagescout.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/pagescout/pkg/core"
)

// Config represents the workspace configuration (pagescout.yaml).
// CLI flags override any value set here.
type Config struct {
	// Session settings
	ServerURL    string                 `yaml:"serverURL"`    // Appium server URL
	SessionID    string                 `yaml:"sessionID"`    // Attach to an existing session
	Capabilities map[string]interface{} `yaml:"capabilities"` // Capabilities for new sessions
	BundleID     string                 `yaml:"bundleID"`     // App to watch in capture mode

	// Capture settings
	SnapshotDir      string `yaml:"snapshotDir"`      // Where snapshots are written
	PollInterval     string `yaml:"pollInterval"`     // Watch mode poll interval, e.g. "2s"
	SnapshotMaxDepth int    `yaml:"snapshotMaxDepth"` // iOS page source depth limit, 0 = server default

	// Extract settings
	OutputDir       string   `yaml:"outputDir"`       // Where locator files are written
	Format          string   `yaml:"format"`          // tsv or report
	InteractiveTags []string `yaml:"interactiveTags"` // Extra tags treated as interactive

	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		ServerURL:    "http://127.0.0.1:4723",
		SnapshotDir:  "snapshots",
		OutputDir:    "locators",
		Format:       "tsv",
		PollInterval: "2s",
	}
}

// Load loads configuration from a file, applied on top of defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, core.ErrInvalidConfig.WithCause(err)
	}

	return cfg, nil
}

// LoadFromDir looks for pagescout.yaml or pagescout.yml in the directory.
// Returns defaults when no config file exists.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"pagescout.yaml", "pagescout.yml"} {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}
	return Default(), nil
}

// Interval parses the poll interval.
func (c *Config) Interval() (time.Duration, error) {
	if c.PollInterval == "" {
		return 2 * time.Second, nil
	}
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 0, core.ErrInvalidConfig.WithCause(err).WithMessage(fmt.Sprintf("invalid pollInterval %q", c.PollInterval))
	}
	return d, nil
}

// Validate checks values that every command depends on.
func (c *Config) Validate() error {
	if c.Format != "" && c.Format != "tsv" && c.Format != "report" {
		return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("format must be tsv or report, got %q", c.Format))
	}
	if _, err := c.Interval(); err != nil {
		return err
	}
	return nil
}

// ValidateCapture additionally checks the settings capture needs. Extract
// never contacts the server, so it runs with Validate alone.
func (c *Config) ValidateCapture() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ServerURL == "" {
		return core.ErrMissingRequired.WithMessage("serverURL is required")
	}
	return nil
}
