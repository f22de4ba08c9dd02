package engine

import (
	"reflect"
	"testing"
)

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"select", "SELECT * FROM users", true},
		{"lowercase select", "select 1", true},
		{"leading whitespace", "\n\t  SELECT 1", true},
		{"cte", "WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"explain", "EXPLAIN SELECT 1", true},
		{"pragma", "PRAGMA table_info(users)", true},
		{"show", "SHOW TABLES", true},
		{"values", "VALUES (1), (2)", true},
		{"insert", "INSERT INTO t VALUES (1)", false},
		{"update", "UPDATE t SET x = 1", false},
		{"delete", "DELETE FROM t", false},
		{"create", "CREATE TABLE t (id INTEGER)", false},
		{"drop", "DROP TABLE t", false},
		{"line comment then select", "-- note\nSELECT 1", true},
		{"block comment then select", "/* note */ SELECT 1", true},
		{"comment only", "-- nothing here", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReturnsRows(tt.query); got != tt.want {
				t.Errorf("ReturnsRows(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "two statements",
			script: "SELECT 1; SELECT 2;",
			want:   []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:   "no trailing semicolon",
			script: "SELECT 1",
			want:   []string{"SELECT 1"},
		},
		{
			name:   "semicolon inside single quotes",
			script: "SELECT 'a;b'; SELECT 2",
			want:   []string{"SELECT 'a;b'", "SELECT 2"},
		},
		{
			name:   "semicolon inside double quotes",
			script: `SELECT ";" FROM t; DELETE FROM t`,
			want:   []string{`SELECT ";" FROM t`, "DELETE FROM t"},
		},
		{
			name:   "doubled quote escape",
			script: "SELECT 'it''s; fine'; SELECT 2",
			want:   []string{"SELECT 'it''s; fine'", "SELECT 2"},
		},
		{
			name:   "semicolon inside line comment",
			script: "SELECT 1 -- trailing; note\n; SELECT 2",
			want:   []string{"SELECT 1 -- trailing; note", "SELECT 2"},
		},
		{
			name:   "semicolon inside block comment",
			script: "SELECT /* a;b */ 1; SELECT 2",
			want:   []string{"SELECT /* a;b */ 1", "SELECT 2"},
		},
		{
			name:   "blank segments dropped",
			script: ";;\n;SELECT 1;",
			want:   []string{"SELECT 1"},
		},
		{
			name:   "empty script",
			script: "  \n ",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitStatements(tt.script)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitStatements(%q) = %q, want %q", tt.script, got, tt.want)
			}
		})
	}
}
