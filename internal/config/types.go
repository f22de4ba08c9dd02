// Package config loads querypad's configuration from its config file,
// environment variables and command-line flags.
package config

import "time"

// UIConfig holds configuration for the interactive result viewer.
type UIConfig struct {
	Overscan int    `koanf:"overscan"`
	Theme    string `koanf:"theme"`
	NullText string `koanf:"null_text"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Overscan: DefaultOverscan,
		Theme:    DefaultTheme,
		NullText: DefaultNullText,
	}
}

// GetUIConfig returns the UI config with defaults applied for any
// unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Overscan <= 0 {
		ui.Overscan = DefaultOverscan
	}
	if ui.Theme == "" {
		ui.Theme = DefaultTheme
	}
	if ui.NullText == "" {
		ui.NullText = DefaultNullText
	}
	return ui
}

// Config holds all querypad configuration options.
type Config struct {
	Connection   string        `koanf:"connection"`
	StatePath    string        `koanf:"state_path"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
	HistoryLimit int           `koanf:"history_limit"`
	UI           *UIConfig     `koanf:"ui"`
}

// Default configuration values.
const (
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultQueryTimeout = 30 * time.Second
	DefaultHistoryLimit = 1000
	DefaultOverscan     = 10
	DefaultTheme        = "dark"
	DefaultNullText     = "<NULL>"
)
