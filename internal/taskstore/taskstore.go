// Package taskstore queries the task database.
package taskstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fentz26/taskwtools/internal/models"
)

// Op is a field match operator.
type Op int

const (
	// OpIs matches the field exactly.
	OpIs Op = iota
	// OpPrefix matches fields starting with the value.
	OpPrefix
	// OpHas matches fields containing the value.
	OpHas
	// OpRegex matches fields against the value as a regular expression.
	OpRegex
)

func (o Op) String() string {
	switch o {
	case OpIs:
		return "is"
	case OpPrefix:
		return "startswith"
	case OpHas:
		return "has"
	case OpRegex:
		return "regex"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Virtual tags understood by Filter in addition to ordinary task tags.
const (
	TagWaiting = "WAITING"
	TagBlocked = "BLOCKED"
)

// Clause is one field predicate.
type Clause struct {
	Field string
	Op    Op
	Value string
}

// Query is a conjunction of clauses and tag predicates.
type Query struct {
	Clauses []Clause
	Include []string
	Exclude []string
}

// Where returns a copy of q with an extra clause.
func (q Query) Where(field string, op Op, value string) Query {
	out := q
	out.Clauses = append(append([]Clause(nil), q.Clauses...), Clause{Field: field, Op: op, Value: value})
	return out
}

// String renders the query for diagnostics and cache keys. Tag predicates are
// sorted so that equivalent queries render identically.
func (q Query) String() string {
	var parts []string
	for _, c := range q.Clauses {
		parts = append(parts, fmt.Sprintf("%s.%s:%s", c.Field, c.Op, c.Value))
	}
	inc := append([]string(nil), q.Include...)
	exc := append([]string(nil), q.Exclude...)
	sort.Strings(inc)
	sort.Strings(exc)
	for _, t := range inc {
		parts = append(parts, "+"+t)
	}
	for _, t := range exc {
		parts = append(parts, "-"+t)
	}
	return strings.Join(parts, " ")
}

// Store is the task database as seen by the resolver.
type Store interface {
	// Filter returns every task matching q, in store order.
	Filter(ctx context.Context, q Query) ([]models.Task, error)
}
