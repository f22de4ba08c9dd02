package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querypad/querypad/internal/workspace"
	"github.com/querypad/querypad/pkg/core"
)

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	home := t.TempDir()
	t.Setenv(workspace.EnvHome, home)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, 30*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 1000, cfg.HistoryLimit)
	assert.Equal(t, filepath.Join(home, "state.db"), cfg.StatePath)
	assert.Empty(t, cfg.Connection)
	assert.False(t, cfg.Verbose)

	ui := cfg.GetUIConfig()
	assert.Equal(t, 10, ui.Overscan)
	assert.Equal(t, "dark", ui.Theme)
	assert.Equal(t, "<NULL>", ui.NullText)
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	t.Setenv(workspace.EnvHome, t.TempDir())

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "querypad.yaml")
	cfgContent := `connection: prod
output: json
query_timeout: 2m
history_limit: 50
ui:
  overscan: 20
  theme: light
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0600))

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Connection)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 2*time.Minute, cfg.QueryTimeout)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 20, cfg.GetUIConfig().Overscan)
	assert.Equal(t, "light", cfg.GetUIConfig().Theme)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	t.Setenv(workspace.EnvHome, t.TempDir())

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "querypad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: json\n"), 0600))

	t.Setenv("QUERYPAD_OUTPUT", "csv")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.OutputFormat, "env var should override config file")
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	t.Setenv(workspace.EnvHome, t.TempDir())

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "querypad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: json\n"), 0600))

	t.Setenv("QUERYPAD_OUTPUT", "csv")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "output format")
	require.NoError(t, flags.Set("output", "text"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.OutputFormat, "flag value should override config file and env var")
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	t.Setenv(workspace.EnvHome, t.TempDir())

	t.Setenv("QUERYPAD_OUTPUT", "markdown")

	// Create flag set but don't set the flag (Changed will be false)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "output format")

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.OutputFormat, "env var should be used when flag is not set")
}

func TestLoadConfig_FlagRemaps(t *testing.T) {
	ResetConfig()
	t.Setenv(workspace.EnvHome, t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state", "", "state database path")
	flags.Duration("timeout", 0, "query timeout")
	require.NoError(t, flags.Set("state", "/tmp/custom.db"))
	require.NoError(t, flags.Set("timeout", "5s"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.StatePath, "--state should map to state_path")
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout, "--timeout should map to query_timeout")
}

func TestLoadConfig_DurationFromEnv(t *testing.T) {
	ResetConfig()
	t.Setenv(workspace.EnvHome, t.TempDir())
	t.Setenv("QUERYPAD_QUERY_TIMEOUT", "90s")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.QueryTimeout)
}

func TestLoadConfig_InvalidOutput(t *testing.T) {
	ResetConfig()
	t.Setenv(workspace.EnvHome, t.TempDir())

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "querypad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: xml\n"), 0600))

	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
	assert.Contains(t, err.Error(), "markdown", "error should list valid formats")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		errSubstr string
	}{
		{
			name:    "valid",
			cfg:     Config{OutputFormat: "auto"},
			wantErr: false,
		},
		{
			name:      "unknown format",
			cfg:       Config{OutputFormat: "yaml"},
			wantErr:   true,
			errSubstr: "invalid output format",
		},
		{
			name:      "negative timeout",
			cfg:       Config{OutputFormat: "text", QueryTimeout: -time.Second},
			wantErr:   true,
			errSubstr: "query_timeout cannot be negative",
		},
		{
			name:      "negative history limit",
			cfg:       Config{OutputFormat: "text", HistoryLimit: -1},
			wantErr:   true,
			errSubstr: "history_limit cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetUIConfig(t *testing.T) {
	t.Run("nil UI returns defaults", func(t *testing.T) {
		cfg := &Config{}
		ui := cfg.GetUIConfig()
		assert.Equal(t, DefaultOverscan, ui.Overscan)
		assert.Equal(t, DefaultTheme, ui.Theme)
		assert.Equal(t, DefaultNullText, ui.NullText)
	})

	t.Run("partial UI is filled in", func(t *testing.T) {
		cfg := &Config{UI: &UIConfig{Theme: "light"}}
		ui := cfg.GetUIConfig()
		assert.Equal(t, "light", ui.Theme)
		assert.Equal(t, DefaultOverscan, ui.Overscan)
		assert.Equal(t, DefaultNullText, ui.NullText)
	})
}

// TestExpandEnvVars tests the expandEnvVars function.
func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single variable",
			input:    "${TEST_VAR_ONE}",
			expected: "value_one",
		},
		{
			name:     "multiple variables",
			input:    "${TEST_VAR_ONE}/${TEST_VAR_TWO}",
			expected: "value_one/value_two",
		},
		{
			name:     "variable in path",
			input:    "/path/to/${TEST_VAR_ONE}/file",
			expected: "/path/to/value_one/file",
		},
		{
			name:     "unset variable stays as-is",
			input:    "${UNSET_VARIABLE}",
			expected: "${UNSET_VARIABLE}",
		},
		{
			name:     "no variables",
			input:    "plain string",
			expected: "plain string",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandEnvVars(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExpandConnectionEnvVars(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	conn := &core.ConnectionConfig{
		Name:     "prod",
		Host:     "${TEST_DB_HOST}",
		Database: "app",
		Username: "svc",
		Password: "${TEST_DB_PASSWORD}",
	}
	ExpandConnectionEnvVars(conn)

	assert.Equal(t, "db.internal", conn.Host)
	assert.Equal(t, "secret123", conn.Password)
	assert.Equal(t, "app", conn.Database)

	// Nil is tolerated.
	ExpandConnectionEnvVars(nil)
}
