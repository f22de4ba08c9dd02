// Package grid implements the result viewer's derived-data pipeline:
// adapting a result snapshot into identity-keyed rows, filtering and
// sorting them into a derived view, windowing the view for
// virtualized rendering, tracking row selection, and exporting or
// copying the derived data.
//
// The pipeline is pure with respect to its snapshot: a snapshot is
// never mutated, and the same inputs always produce the same view.
// Identity is positional (the row's index in the source snapshot) and
// survives any combination of filtering and sorting.
package grid
