// Package adapter provides database adapter interfaces and implementations
// for querypad's query engine.
//
// This package contains the public contract that all database adapters must
// implement plus the shared registry and result capture helpers. Concrete
// adapter implementations are in pkg/adapters/ subdirectories.
//
// Note: Core types (Config, Column, Metadata, Rows, Adapter) are defined in
// pkg/core. This package re-exports them via type aliases for convenience.
package adapter

import (
	"github.com/querypad/querypad/pkg/core"
)

// Type aliases for the core contract types. Use core.* types directly in
// new code.
type (
	// Config is an alias for core.ConnectionConfig.
	Config = core.ConnectionConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata

	// Rows is an alias for core.Rows.
	Rows = core.Rows

	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter
)
