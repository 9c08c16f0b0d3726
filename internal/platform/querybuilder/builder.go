// Package querybuilder renders the small set of postgres statements the repositories
// need. Placeholders are always $n, numbered in the order arguments are bound.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// statement accumulates SQL text and its bound arguments.
type statement struct {
	sql  strings.Builder
	args []any
}

func (s *statement) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

func (s *statement) bind(value any) {
	s.args = append(s.args, value)
	s.sql.WriteString("$")
	s.sql.WriteString(strconv.Itoa(len(s.args)))
}

// bindExpr copies expr, replacing each ? with the next value from values. Extra ? marks
// are left as-is.
func (s *statement) bindExpr(expr string, values []any) {
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(values) {
			s.bind(values[next])
			next++
			continue
		}
		s.sql.WriteByte(expr[i])
	}
}

func (s *statement) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			s.write(" WHERE ")
		} else {
			s.write(" AND ")
		}
		c.render(s)
	}
}

func (s *statement) result() (string, []any, error) {
	return s.sql.String(), s.args, nil
}

type Condition interface {
	render(s *statement)
}

type conditionFunc func(s *statement)

func (f conditionFunc) render(s *statement) { f(s) }

func Eq(column string, value any) Condition {
	return conditionFunc(func(s *statement) {
		s.write(column, " = ")
		s.bind(value)
	})
}

// In renders a never-true predicate for an empty list so callers need no special case.
func In(column string, values []any) Condition {
	return conditionFunc(func(s *statement) {
		if len(values) == 0 {
			s.write("1=0")
			return
		}
		s.write(column, " IN (")
		for i, v := range values {
			if i > 0 {
				s.write(", ")
			}
			s.bind(v)
		}
		s.write(")")
	})
}

func IsNull(column string) Condition {
	return conditionFunc(func(s *statement) {
		s.write(column, " IS NULL")
	})
}

// Expr is a raw predicate with ? placeholders.
func Expr(expr string, args ...any) Condition {
	return conditionFunc(func(s *statement) {
		s.bindExpr(expr, args)
	})
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(columns ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, columns...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var s statement
	s.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	s.where(b.where)
	if len(b.orderBy) > 0 {
		s.write(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.write(" LIMIT ", strconv.Itoa(b.limit))
	}
	return s.result()
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
}

// InsertInto builds a single-row insert.
func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = append([]any(nil), values...)
	return b
}

// Suffix is appended verbatim, typically an ON CONFLICT or RETURNING clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.values) != len(b.columns) {
		return "", nil, fmt.Errorf("insert has %d values for %d columns", len(b.values), len(b.columns))
	}

	var s statement
	s.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			s.write(", ")
		}
		s.bind(v)
	}
	s.write(")")
	if b.suffix != "" {
		s.write(" ", b.suffix)
	}
	return s.result()
}

type assignment struct {
	column string
	expr   string
	args   []any
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	return b.SetExpr(column, "?", value)
}

// SetExpr assigns a raw expression such as NOW() or CAST(? AS JSONB).
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, expr: expr, args: args})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to build an update without a WHERE clause.
func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("update requires at least one condition")
	}

	var s statement
	s.write("UPDATE ", b.table, " SET ")
	for i, a := range b.sets {
		if i > 0 {
			s.write(", ")
		}
		s.write(a.column, " = ")
		s.bindExpr(a.expr, a.args)
	}
	s.where(b.where)
	return s.result()
}
