package repository

import "strings"

// queryBuilder accumulates optional predicate clauses and their bound
// arguments over an immutable base query. Clause fragments are trusted
// constants; every caller-supplied value is bound as a parameter.
type queryBuilder struct {
	sql  strings.Builder
	args []any
}

// newQueryBuilder starts a builder from a base query. The base must
// already contain a WHERE clause (typically "WHERE 1=1") so that
// predicates can be appended uniformly.
func newQueryBuilder(base string) *queryBuilder {
	b := &queryBuilder{}
	b.sql.WriteString(base)
	return b
}

// Where appends an AND predicate with its bound values.
func (b *queryBuilder) Where(clause string, args ...any) *queryBuilder {
	b.sql.WriteString(" AND ")
	b.sql.WriteString(clause)
	b.args = append(b.args, args...)
	return b
}

// OrderBy appends an ORDER BY clause.
func (b *queryBuilder) OrderBy(clause string) *queryBuilder {
	b.sql.WriteString(" ORDER BY ")
	b.sql.WriteString(clause)
	return b
}

// Limit appends a LIMIT clause with the bound row cap.
func (b *queryBuilder) Limit(n int) *queryBuilder {
	b.sql.WriteString(" LIMIT ?")
	b.args = append(b.args, n)
	return b
}

// Query returns the assembled SQL and its arguments.
func (b *queryBuilder) Query() (string, []any) {
	return b.sql.String(), b.args
}
