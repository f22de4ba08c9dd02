package duckdb

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Extensions to install and load (e.g., "httpfs", "spatial", "json")
	Extensions []string `mapstructure:"extensions"`

	// Settings to apply at session level (e.g., memory_limit, threads)
	Settings map[string]string `mapstructure:"settings"`
}

// ParseParams decodes connection params into a Params struct.
// Nil or empty input yields an empty struct.
func ParseParams(params map[string]any) (*Params, error) {
	out := &Params{}
	if len(params) == 0 {
		return out, nil
	}
	if err := mapstructure.Decode(params, out); err != nil {
		return nil, fmt.Errorf("failed to parse duckdb params: %w", err)
	}
	return out, nil
}
