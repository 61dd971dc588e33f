// Package query implements the ad-hoc query console: a safety gate that
// accepts free-text SQL, rejects anything that is not a plain SELECT, and
// normalizes the result set into a generic columns/rows shape.
//
// The gate is a denylist heuristic, not a parser. Any occurrence of a
// write-statement keyword anywhere in the text rejects the query, including
// inside quoted identifiers (a column named "updated_at" trips the "update"
// check). That over-breadth is intentional and load-bearing: it keeps the
// check conservative and the behavior predictable. A stricter gate would
// parse the statement and whitelist SELECT nodes.
package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// forbiddenKeywords are rejected on plain substring containment after
// lowercasing. Order matters only for which keyword gets reported first.
var forbiddenKeywords = []string{
	"drop",
	"delete",
	"update",
	"insert",
	"alter",
	"create",
	"truncate",
}

// ErrNotSelect rejects input that does not start with a SELECT token.
var ErrNotSelect = errors.New("only SELECT statements are allowed")

// ForbiddenKeywordError rejects input containing a denylisted keyword.
type ForbiddenKeywordError struct {
	Keyword string
}

func (e *ForbiddenKeywordError) Error() string {
	return fmt.Sprintf("query contains forbidden keyword %q", e.Keyword)
}

// ExecError wraps a failure reported by the database engine after the query
// passed validation. The input was user-supplied, so the HTTP boundary
// reports this as a client error.
type ExecError struct {
	Message string
}

func (e *ExecError) Error() string {
	return "query execution failed: " + e.Message
}

// Result is the normalized tabular result of an ad-hoc query. For an empty
// result set Columns is empty as well: the console never learns column names
// of a query that returned no rows.
type Result struct {
	Columns       []string        `json:"columns"`
	Rows          [][]interface{} `json:"rows"`
	RowCount      int             `json:"rowCount"`
	ExecutionTime int64           `json:"executionTime"`
}

// Guard validates and executes ad-hoc read-only queries.
type Guard struct {
	db *gorm.DB
}

// NewGuard creates a Guard over the given database handle.
func NewGuard(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// Validate applies the safety checks in order, first violation wins.
// Lowercasing happens only for comparison; the caller forwards the original
// text.
func Validate(queryText string) error {
	normalized := strings.ToLower(strings.TrimSpace(queryText))

	if !strings.HasPrefix(normalized, "select") {
		return ErrNotSelect
	}
	for _, kw := range forbiddenKeywords {
		if strings.Contains(normalized, kw) {
			return &ForbiddenKeywordError{Keyword: kw}
		}
	}
	return nil
}

// Execute validates queryText and, if allowed, forwards it verbatim to the
// database. ExecutionTime is wall-clock milliseconds from dispatch to the
// full materialization of the result set.
func (g *Guard) Execute(queryText string) (*Result, error) {
	if err := Validate(queryText); err != nil {
		return nil, err
	}

	start := time.Now()

	rows, err := g.db.Raw(queryText).Rows()
	if err != nil {
		return nil, &ExecError{Message: err.Error()}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &ExecError{Message: err.Error()}
	}

	out := make([][]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &ExecError{Message: err.Error()}
		}
		// Drivers hand text columns back as []byte; make them JSON-friendly.
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecError{Message: err.Error()}
	}

	result := &Result{
		Columns:       cols,
		Rows:          out,
		RowCount:      len(out),
		ExecutionTime: time.Since(start).Milliseconds(),
	}
	if result.RowCount == 0 {
		result.Columns = []string{}
	}
	return result, nil
}
