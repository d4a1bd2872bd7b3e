package store

import "strings"

// conjunction accumulates equality predicates joined with AND. Values are
// always bound as parameters, never interpolated. Columns come from constants
// in this package, never from callers.
type conjunction struct {
	parts []string
	args  []any
}

// eq adds "column = ?" bound to value.
func (c *conjunction) eq(column string, value any) {
	c.parts = append(c.parts, column+" = ?")
	c.args = append(c.args, value)
}

func (c *conjunction) empty() bool {
	return len(c.parts) == 0
}

// where returns the WHERE clause with a leading space, or "" when no
// predicate was added, plus the bound values in order.
func (c *conjunction) where() (string, []any) {
	if c.empty() {
		return "", nil
	}
	return " WHERE " + strings.Join(c.parts, " AND "), c.args
}
