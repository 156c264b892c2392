// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package query

import (
	"fmt"
	"strconv"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEqualFold("city", filter.City)
//	whereClause, args := wb.Build()
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEqualFold adds a case-insensitive equality filter on column.
// Blank values are skipped.
func (wb *WhereBuilder) AddEqualFold(column, value string) *WhereBuilder {
	value = strings.TrimSpace(value)
	if value == "" {
		return wb
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("lower(%s) = lower(?)", column))
	wb.args = append(wb.args, value)
	return wb
}

// AddContainsFold adds a case-insensitive substring filter on column.
// Blank values are skipped.
func (wb *WhereBuilder) AddContainsFold(column, value string) *WhereBuilder {
	value = strings.TrimSpace(value)
	if value == "" {
		return wb
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("lower(%s) LIKE '%%' || lower(?) || '%%'", column))
	wb.args = append(wb.args, value)
	return wb
}

// AddIn adds "column IN (?, ?, ...)". An empty slice is skipped.
func (wb *WhereBuilder) AddIn(column string, values []interface{}) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, Placeholders(len(values))))
	wb.args = append(wb.args, values...)
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// Placeholders returns n comma separated "?" placeholders.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// InsertValues renders a multi-row INSERT for rows tuples of columns.
func InsertValues(table string, columns []string, rows int) string {
	tuple := "(" + Placeholders(len(columns)) + ")"

	var sb strings.Builder
	sb.Grow(32 + len(table) + rows*(len(tuple)+2))
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")
	for i := 0; i < rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tuple)
	}
	return sb.String()
}

// Rebind rewrites "?" placeholders to PostgreSQL "$n" placeholders.
// Question marks inside single-quoted literals are left alone.
func Rebind(q string) string {
	var sb strings.Builder
	sb.Grow(len(q) + 8)
	n := 0
	quoted := false
	for i := 0; i < len(q); i++ {
		c := q[i]
		switch {
		case c == '\'':
			quoted = !quoted
			sb.WriteByte(c)
		case c == '?' && !quoted:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
