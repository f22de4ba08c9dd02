package config

import (
	"fmt"
	"strings"
)

// ValidOutputFormats lists the formats the render layer understands.
var ValidOutputFormats = []string{"auto", "text", "json", "csv", "markdown"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	valid := false
	for _, f := range ValidOutputFormats {
		if c.OutputFormat == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid output format %q (valid formats: %s)", c.OutputFormat, strings.Join(ValidOutputFormats, ", "))
	}

	if c.QueryTimeout < 0 {
		return fmt.Errorf("query_timeout cannot be negative")
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit cannot be negative")
	}

	return nil
}
