// Package query builds parameterized SELECT statements over stored alarm records.
package query

import (
	"fmt"
	"strings"

	"github.com/cdtdelta/tiaalarms/internal/model"
)

// Table is the alarm record table queried by Build.
const Table = "tia_alarms"

// DefaultOrder keeps records in consolidated order.
const DefaultOrder = "run_id, seq"

// Logic determines how multiple predicates are combined.
type Logic int

const (
	AND Logic = iota
	OR
)

// Operator represents a SQL comparison operator.
type Operator string

const (
	Equal          Operator = "="
	NotEqual       Operator = "!="
	Like           Operator = "LIKE"
	NotLike        Operator = "NOT LIKE"
	GreaterOrEqual Operator = ">="
	LessOrEqual    Operator = "<="
)

// validOperators is the set of allowed operators for validation.
var validOperators = map[Operator]bool{
	Equal: true, NotEqual: true, Like: true, NotLike: true,
	GreaterOrEqual: true, LessOrEqual: true,
}

// Predicate represents a single filter condition or a composite of conditions.
// Predicates use parameterized values to prevent SQL injection.
type Predicate struct {
	kind  predicateKind
	field string
	op    Operator
	value interface{}
	lo    int
	hi    int
	left  *Predicate
	right *Predicate
	logic Logic
}

type predicateKind int

const (
	predNone predicateKind = iota
	predSimple
	predKeyRange
	predComposite
)

// Simple creates a predicate that compares a field to a value.
// Returns nil if the field name is invalid or the operator is unrecognized.
func Simple(field string, op Operator, value interface{}) *Predicate {
	if !isValidField(field) || !validOperators[op] {
		return nil
	}
	return &Predicate{
		kind:  predSimple,
		field: field,
		op:    op,
		value: value,
	}
}

// KeyRange creates a predicate selecting custom keys between lo and hi (inclusive).
func KeyRange(lo, hi int) *Predicate {
	return &Predicate{
		kind: predKeyRange,
		lo:   lo,
		hi:   hi,
	}
}

// Combine joins multiple predicates with the given logic (AND or OR).
// Returns nil for an empty slice. Returns the single predicate if only one is given.
// Nil predicates in the slice are skipped.
func Combine(preds []*Predicate, logic Logic) *Predicate {
	filtered := make([]*Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			filtered = append(filtered, p)
		}
	}

	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}

	result := &Predicate{
		kind:  predComposite,
		left:  filtered[0],
		right: filtered[1],
		logic: logic,
	}

	for i := 2; i < len(filtered); i++ {
		result = &Predicate{
			kind:  predComposite,
			left:  result,
			right: filtered[i],
			logic: logic,
		}
	}

	return result
}

// WhereClause returns the SQL WHERE fragment and its parameter values in the
// default dialect. For example: "(db = ?)", []interface{}{"DB1"}
func (p *Predicate) WhereClause() (string, []interface{}) {
	return p.WhereClauseFor(DefaultDialect)
}

// WhereClauseFor renders the predicate with d's placeholders, numbered from 1.
func (p *Predicate) WhereClauseFor(d QueryDialect) (string, []interface{}) {
	next := 1
	return p.render(d, &next)
}

// render emits the fragment, advancing next past every placeholder it uses.
func (p *Predicate) render(d QueryDialect, next *int) (string, []interface{}) {
	if p == nil {
		return "", nil
	}

	placeholder := func() string {
		s := d.Placeholder(*next)
		*next++
		return s
	}

	switch p.kind {
	case predSimple:
		col := d.QuoteColumn(p.field)
		if p.op == Like || p.op == NotLike {
			return fmt.Sprintf("(%s %s %s)", col, p.op, placeholder()),
				[]interface{}{fmt.Sprintf("%%%v%%", p.value)}
		}
		return fmt.Sprintf("(%s %s %s)", col, p.op, placeholder()),
			[]interface{}{p.value}

	case predKeyRange:
		from := placeholder()
		to := placeholder()
		return fmt.Sprintf("(custom_key BETWEEN %s AND %s)", from, to),
			[]interface{}{p.lo, p.hi}

	case predComposite:
		leftSQL, leftArgs := p.left.render(d, next)
		rightSQL, rightArgs := p.right.render(d, next)

		if leftSQL == "" && rightSQL == "" {
			return "", nil
		}
		if leftSQL == "" {
			return rightSQL, rightArgs
		}
		if rightSQL == "" {
			return leftSQL, leftArgs
		}

		logicStr := "AND"
		if p.logic == OR {
			logicStr = "OR"
		}

		sql := fmt.Sprintf("(%s %s %s)", leftSQL, logicStr, rightSQL)
		args := append(leftArgs, rightArgs...)
		return sql, args

	default:
		return "", nil
	}
}

// Fields returns the list of field names referenced by this predicate tree.
func (p *Predicate) Fields() []string {
	if p == nil {
		return nil
	}

	switch p.kind {
	case predSimple:
		return []string{p.field}
	case predKeyRange:
		return []string{"custom_key"}
	case predComposite:
		seen := make(map[string]bool)
		var result []string
		for _, f := range append(p.left.Fields(), p.right.Fields()...) {
			if !seen[f] {
				seen[f] = true
				result = append(result, f)
			}
		}
		return result
	default:
		return nil
	}
}

// Query builds a full SELECT statement from predicates, ordering, and pagination.
type Query struct {
	predicates []*Predicate
	logic      Logic
	orderBy    string
	pageSize   int
	page       int
	dialect    QueryDialect
}

// New creates a new Query with the given page size.
// Pass 0 for no pagination.
func New(pageSize int) *Query {
	return &Query{
		logic:    AND,
		orderBy:  DefaultOrder,
		pageSize: pageSize,
		page:     1,
		dialect:  DefaultDialect,
	}
}

// SetDialect selects the SQL dialect used by Build and BuildCount.
func (q *Query) SetDialect(d QueryDialect) {
	if d != nil {
		q.dialect = d
	}
}

// SetLogic sets how top-level predicates are combined (AND or OR).
func (q *Query) SetLogic(logic Logic) {
	q.logic = logic
}

// AddPredicate appends a predicate to the query. Nil predicates are ignored.
func (q *Query) AddPredicate(p *Predicate) {
	if p != nil {
		q.predicates = append(q.predicates, p)
	}
}

// ClearPredicates removes all predicates from the query.
func (q *Query) ClearPredicates() {
	q.predicates = nil
}

// OrderBy sets the column to sort results by.
// Pass an empty string to restore the consolidated order.
// Returns an error if the field name is not valid.
func (q *Query) OrderBy(field string) error {
	if field == "" {
		q.orderBy = DefaultOrder
		return nil
	}
	if !isValidField(field) {
		return fmt.Errorf("invalid order by field: %s", field)
	}
	q.orderBy = field
	return nil
}

// SetPage sets the current page number (1-based).
func (q *Query) SetPage(page int) {
	if page >= 1 {
		q.page = page
	}
}

// PageNumber returns the current page number (1-based).
func (q *Query) PageNumber() int {
	return q.page
}

// selectList is the row id followed by the record columns, in scan order.
func (q *Query) selectList() string {
	cols := []string{q.dialect.IDColumn()}
	for _, f := range model.RecordFields {
		cols = append(cols, q.dialect.QuoteColumn(f))
	}
	return strings.Join(cols, ", ")
}

// where renders the combined predicates, or "" when there are none.
func (q *Query) where() (string, []interface{}) {
	combined := Combine(q.predicates, q.logic)
	if combined == nil {
		return "", nil
	}
	return combined.WhereClauseFor(q.dialect)
}

// Build generates the full SQL SELECT statement and its parameter values.
func (q *Query) Build() (string, []interface{}) {
	sql := "SELECT " + q.selectList() + " FROM " + Table

	whereSQL, args := q.where()
	if whereSQL != "" {
		sql += " WHERE " + whereSQL
	}

	sql += " ORDER BY " + q.orderBy

	if q.pageSize > 0 {
		offset := q.pageSize * (q.page - 1)
		sql += fmt.Sprintf(" LIMIT %d OFFSET %d", q.pageSize, offset)
	}

	return sql, args
}

// BuildCount generates a COUNT query using the same predicates.
func (q *Query) BuildCount() (string, []interface{}) {
	sql := "SELECT COUNT(*) FROM " + Table

	whereSQL, args := q.where()
	if whereSQL != "" {
		sql += " WHERE " + whereSQL
	}

	return sql, args
}

// PredicateFields returns all field names referenced across all predicates.
func (q *Query) PredicateFields() []string {
	seen := make(map[string]bool)
	var result []string
	for _, p := range q.predicates {
		for _, f := range p.Fields() {
			if !seen[f] {
				seen[f] = true
				result = append(result, f)
			}
		}
	}
	return result
}

// RawQuery wraps a user-provided SQL WHERE clause for direct execution.
type RawQuery struct {
	Query
	rawWhere string
}

// NewRaw creates a query from a raw WHERE clause string.
// The raw clause is used as-is, so the caller is responsible for safety.
// Pagination and ordering still work normally on top of it.
func NewRaw(pageSize int, whereClause string) *RawQuery {
	return &RawQuery{
		Query:    *New(pageSize),
		rawWhere: whereClause,
	}
}

// SetRawWhere replaces the raw WHERE clause.
func (rq *RawQuery) SetRawWhere(whereClause string) {
	rq.rawWhere = whereClause
}

// Build generates the SQL with the raw WHERE clause.
func (rq *RawQuery) Build() (string, []interface{}) {
	sql := "SELECT " + rq.selectList() + " FROM " + Table

	if rq.rawWhere != "" {
		sql += " WHERE " + rq.rawWhere
	}

	sql += " ORDER BY " + rq.orderBy

	if rq.pageSize > 0 {
		offset := rq.pageSize * (rq.page - 1)
		sql += fmt.Sprintf(" LIMIT %d OFFSET %d", rq.pageSize, offset)
	}

	// Raw queries don't use parameterized args for the WHERE clause
	return sql, nil
}

// isValidField checks a field name against the known columns.
func isValidField(name string) bool {
	for _, f := range model.AlarmFields {
		if f == name {
			return true
		}
	}
	return false
}
