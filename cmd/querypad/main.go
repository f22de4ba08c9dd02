// Package main provides the querypad CLI.
package main

import (
	"os"

	"github.com/querypad/querypad/internal/cli"

	// Register the bundled database adapters.
	_ "github.com/querypad/querypad/pkg/adapters/duckdb"
	_ "github.com/querypad/querypad/pkg/adapters/mysql"
	_ "github.com/querypad/querypad/pkg/adapters/postgres"
	_ "github.com/querypad/querypad/pkg/adapters/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
