// Package core defines the shared language of the querypad system.
//
// This package contains:
//   - Value, the closed cell value union every result flows through
//   - ResultSnapshot, the immutable output of one query execution
//   - Service interfaces (Adapter, Store)
//   - Connection configuration types (ConnectionConfig)
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
