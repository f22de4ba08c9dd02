package engine

import "strings"

// queryKeywords lead statements that produce rows.
var queryKeywords = map[string]bool{
	"select":   true,
	"with":     true,
	"show":     true,
	"explain":  true,
	"describe": true,
	"desc":     true,
	"pragma":   true,
	"values":   true,
	"table":    true,
}

// ReturnsRows reports whether the statement is expected to produce a
// result set, judged by its leading keyword.
func ReturnsRows(query string) bool {
	word := firstKeyword(query)
	return queryKeywords[word]
}

// firstKeyword extracts the first SQL keyword, skipping whitespace,
// line comments and block comments.
func firstKeyword(query string) string {
	s := query
	for {
		s = strings.TrimSpace(s)
		switch {
		case strings.HasPrefix(s, "--"):
			idx := strings.IndexByte(s, '\n')
			if idx < 0 {
				return ""
			}
			s = s[idx+1:]
		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s, "*/")
			if idx < 0 {
				return ""
			}
			s = s[idx+2:]
		default:
			end := 0
			for end < len(s) {
				c := s[end]
				if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' {
					end++
					continue
				}
				break
			}
			return strings.ToLower(s[:end])
		}
	}
}

// SplitStatements splits a script on semicolons, respecting single and
// double quoted strings, line comments and block comments. Empty
// statements are dropped; the trailing semicolon is not required.
func SplitStatements(script string) []string {
	var stmts []string
	var buf strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(buf.String())
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
		buf.Reset()
	}

	i := 0
	for i < len(script) {
		c := script[i]
		switch {
		case c == ';':
			flush()
			i++

		case c == '\'' || c == '"':
			quote := c
			buf.WriteByte(c)
			i++
			for i < len(script) {
				buf.WriteByte(script[i])
				if script[i] == quote {
					// Doubled quote is an escaped quote, not the end.
					if i+1 < len(script) && script[i+1] == quote {
						buf.WriteByte(script[i+1])
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}

		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			for i < len(script) && script[i] != '\n' {
				buf.WriteByte(script[i])
				i++
			}

		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			buf.WriteString("/*")
			i += 2
			for i < len(script) {
				if script[i] == '*' && i+1 < len(script) && script[i+1] == '/' {
					buf.WriteString("*/")
					i += 2
					break
				}
				buf.WriteByte(script[i])
				i++
			}

		default:
			buf.WriteByte(c)
			i++
		}
	}
	flush()

	return stmts
}
