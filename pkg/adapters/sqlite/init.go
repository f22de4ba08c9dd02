// Package sqlite provides a SQLite database adapter for querypad.
//
// This file registers the SQLite adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/querypad/querypad/pkg/adapters/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/querypad/querypad/pkg/adapter"
)

func init() {
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
