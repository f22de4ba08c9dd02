// Package commands implements the querypad subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/querypad/querypad/internal/cli/output"
	"github.com/querypad/querypad/internal/config"
	"github.com/querypad/querypad/internal/engine"
	"github.com/querypad/querypad/internal/workspace"
	"github.com/querypad/querypad/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	conn, err := ResolveConnection(cfg)
	if err != nil {
		return nil, nil, err
	}

	eng, err := createEngine(cfg, conn, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an
// engine. Useful for commands that don't need database access.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration. It uses
// config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	statePath := os.Getenv("QUERYPAD_STATE_PATH")
	if statePath == "" {
		statePath, _ = workspace.StatePath()
	}

	return &config.Config{
		Connection:   os.Getenv("QUERYPAD_CONNECTION"),
		StatePath:    statePath,
		Verbose:      os.Getenv("QUERYPAD_VERBOSE") == "true",
		OutputFormat: getEnvOrDefault("QUERYPAD_OUTPUT", config.DefaultOutput),
		QueryTimeout: config.DefaultQueryTimeout,
		HistoryLimit: config.DefaultHistoryLimit,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// ResolveConnection picks the connection to use: the configured name
// first, then the last connection remembered in settings. A name that
// is not saved but points at an existing file is treated as an ad hoc
// SQLite connection. Passwords come from the system keyring when the
// saved entry has none.
func ResolveConnection(cfg *config.Config) (core.ConnectionConfig, error) {
	name := cfg.Connection
	if name == "" {
		if settings, err := workspace.LoadSettings(); err == nil {
			name = settings.LastConnection
		}
	}
	if name == "" {
		return core.ConnectionConfig{}, fmt.Errorf("no connection specified (use --connection or 'querypad connections add')")
	}

	conns, err := workspace.LoadConnections()
	if err != nil {
		return core.ConnectionConfig{}, err
	}

	if conn, ok := workspace.FindConnection(conns, name); ok {
		config.ExpandConnectionEnvVars(&conn)
		if conn.Password == "" && conn.Host != "" {
			if secrets, err := workspace.OpenSecrets(); err == nil {
				if pw, err := secrets.Password(conn.Name); err == nil {
					conn.Password = pw
				}
			}
		}
		return conn, nil
	}

	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return core.ConnectionConfig{Name: name, Type: "sqlite", Path: name}, nil
	}

	return core.ConnectionConfig{}, fmt.Errorf("unknown connection: %s", name)
}

func createEngine(cfg *config.Config, conn core.ConnectionConfig, logger *slog.Logger) (*engine.Engine, error) {
	// Ensure state directory exists
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	return engine.New(engine.Config{
		Connection:   conn,
		StatePath:    cfg.StatePath,
		QueryTimeout: cfg.QueryTimeout,
		Logger:       logger,
	})
}

// rememberConnection records the connection as the most recently used
// one. Failures are not worth failing the command over.
func rememberConnection(logger *slog.Logger, name string) {
	settings, err := workspace.LoadSettings()
	if err != nil {
		logger.Warn("failed to load settings", "error", err)
		return
	}
	if settings.LastConnection == name {
		return
	}
	settings.LastConnection = name
	if err := workspace.SaveSettings(settings); err != nil {
		logger.Warn("failed to save settings", "error", err)
	}
}
