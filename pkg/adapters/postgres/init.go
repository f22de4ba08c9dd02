// Package postgres provides a PostgreSQL database adapter for querypad.
//
// This file registers the PostgreSQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/querypad/querypad/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/querypad/querypad/pkg/adapter"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
