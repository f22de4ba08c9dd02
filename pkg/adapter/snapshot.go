package adapter

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/querypad/querypad/pkg/core"
)

// Snapshot drains rows into an immutable core.ResultSnapshot, coercing
// every driver value into the closed core.Value union. The rows are
// closed before returning.
func Snapshot(rows *core.Rows) (*core.ResultSnapshot, error) {
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	snap := &core.ResultSnapshot{Columns: cols, Rows: [][]core.Value{}}
	scan := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range scan {
		ptrs[i] = &scan[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		row := make([]core.Value, len(cols))
		for i, raw := range scan {
			row[i] = CoerceValue(raw)
		}
		snap.Rows = append(snap.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}

	snap.RowCount = len(snap.Rows)
	return snap, nil
}

// CoerceValue maps a driver value onto the core.Value union. Byte slices
// that hold valid UTF-8 become strings; anything a driver hands back
// outside the standard set degrades to its printed form.
func CoerceValue(raw any) core.Value {
	switch v := raw.(type) {
	case nil:
		return core.Null()
	case bool:
		return core.NewBool(v)
	case int64:
		return core.NewInt(v)
	case int:
		return core.NewInt(int64(v))
	case int32:
		return core.NewInt(int64(v))
	case float64:
		return core.NewFloat(v)
	case float32:
		return core.NewFloat(float64(v))
	case string:
		return core.NewString(v)
	case []byte:
		if utf8.Valid(v) {
			return core.NewString(string(v))
		}
		return core.NewRaw(v)
	case time.Time:
		return core.NewString(v.Format(time.RFC3339))
	default:
		return core.NewString(fmt.Sprintf("%v", v))
	}
}
