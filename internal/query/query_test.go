package query

import (
	"fmt"
	"strings"
	"testing"
)

// pgDialect numbers placeholders like PostgreSQL.
type pgDialect struct{}

func (pgDialect) Placeholder(index int) string { return fmt.Sprintf("$%d", index) }
func (pgDialect) IDColumn() string             { return "id" }
func (pgDialect) QuoteColumn(name string) string {
	if name == "value" || name == "number" {
		return `"` + name + `"`
	}
	return name
}

func TestSimplePredicate(t *testing.T) {
	p := Simple("db", Equal, "DB1")
	if p == nil {
		t.Fatal("expected non-nil predicate")
	}

	sql, args := p.WhereClause()
	if sql != "(db = ?)" {
		t.Errorf("expected '(db = ?)', got '%s'", sql)
	}
	if len(args) != 1 || args[0] != "DB1" {
		t.Errorf("expected args ['DB1'], got %v", args)
	}
}

func TestSimplePredicateInvalidField(t *testing.T) {
	p := Simple("DROP TABLE", Equal, "oops")
	if p != nil {
		t.Error("expected nil for invalid field name")
	}
}

func TestSimplePredicateInvalidOperator(t *testing.T) {
	p := Simple("db", "HACK", "value")
	if p != nil {
		t.Error("expected nil for invalid operator")
	}
}

func TestLikePredicate(t *testing.T) {
	p := Simple("message", Like, "overflow")
	sql, args := p.WhereClause()

	if sql != "(message LIKE ?)" {
		t.Errorf("expected '(message LIKE ?)', got '%s'", sql)
	}
	if len(args) != 1 || args[0] != "%overflow%" {
		t.Errorf("expected args ['%%overflow%%'], got %v", args)
	}
}

func TestNotLikePredicate(t *testing.T) {
	p := Simple("subgroup", NotLike, "Spare")
	sql, args := p.WhereClause()

	if sql != "(subgroup NOT LIKE ?)" {
		t.Errorf("expected '(subgroup NOT LIKE ?)', got '%s'", sql)
	}
	if len(args) != 1 || args[0] != "%Spare%" {
		t.Errorf("expected args ['%%Spare%%'], got %v", args)
	}
}

func TestIntegerValue(t *testing.T) {
	p := Simple("priority", Equal, 1)
	_, args := p.WhereClause()
	if len(args) != 1 || args[0] != 1 {
		t.Errorf("expected integer arg 1, got %v", args)
	}
}

func TestKeyRangePredicate(t *testing.T) {
	sql, args := KeyRange(10000, 19999).WhereClause()
	if sql != "(custom_key BETWEEN ? AND ?)" {
		t.Errorf("unexpected SQL: %s", sql)
	}
	if len(args) != 2 || args[0] != 10000 || args[1] != 19999 {
		t.Errorf("expected args [10000 19999], got %v", args)
	}
}

func TestCombineAND(t *testing.T) {
	p := Combine([]*Predicate{
		Simple("db", Equal, "DB1"),
		Simple("structure", Equal, "Alm"),
	}, AND)

	sql, args := p.WhereClause()
	if sql != "((db = ?) AND (structure = ?))" {
		t.Errorf("unexpected SQL: %s", sql)
	}
	if len(args) != 2 {
		t.Errorf("expected 2 args, got %d", len(args))
	}
}

func TestCombineOR(t *testing.T) {
	p := Combine([]*Predicate{
		Simple("db", Equal, "DB1"),
		Simple("db", Equal, "DB2"),
	}, OR)

	sql, _ := p.WhereClause()
	if sql != "((db = ?) OR (db = ?))" {
		t.Errorf("unexpected SQL: %s", sql)
	}
}

func TestCombineThreeLeftLeaning(t *testing.T) {
	p := Combine([]*Predicate{
		Simple("db", Equal, "DB1"),
		Simple("structure", Equal, "Alm"),
		Simple("subgroup", Equal, "Tanks"),
	}, AND)

	sql, args := p.WhereClause()
	want := "(((db = ?) AND (structure = ?)) AND (subgroup = ?))"
	if sql != want {
		t.Errorf("expected '%s', got '%s'", want, sql)
	}
	if len(args) != 3 || args[2] != "Tanks" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestCombineSingle(t *testing.T) {
	p := Simple("db", Equal, "DB1")
	if Combine([]*Predicate{p}, AND) != p {
		t.Error("expected single predicate to be returned as-is")
	}
}

func TestCombineEmptyAndNils(t *testing.T) {
	if Combine(nil, AND) != nil {
		t.Error("expected nil for empty slice")
	}
	if Combine([]*Predicate{nil, nil}, AND) != nil {
		t.Error("expected nil when all predicates are nil")
	}

	p := Combine([]*Predicate{nil, Simple("db", Equal, "DB1"), nil}, AND)
	sql, _ := p.WhereClause()
	if sql != "(db = ?)" {
		t.Errorf("expected nils skipped, got '%s'", sql)
	}
}

func TestNilPredicateWhereClause(t *testing.T) {
	var p *Predicate
	sql, args := p.WhereClause()
	if sql != "" || args != nil {
		t.Errorf("expected empty clause, got '%s' %v", sql, args)
	}
}

func TestWhereClauseForNumbersPlaceholders(t *testing.T) {
	p := Combine([]*Predicate{
		Simple("run_id", Equal, "abc"),
		KeyRange(10000, 19999),
		Simple("value", GreaterOrEqual, 3),
	}, AND)

	sql, args := p.WhereClauseFor(pgDialect{})
	want := `(((run_id = $1) AND (custom_key BETWEEN $2 AND $3)) AND ("value" >= $4))`
	if sql != want {
		t.Errorf("expected '%s', got '%s'", want, sql)
	}
	if len(args) != 4 {
		t.Errorf("expected 4 args, got %v", args)
	}
}

func TestPredicateFields(t *testing.T) {
	p := Combine([]*Predicate{
		Simple("db", Equal, "DB1"),
		KeyRange(0, 1),
		Simple("db", Equal, "DB2"),
	}, OR)

	fields := p.Fields()
	if len(fields) != 2 || fields[0] != "db" || fields[1] != "custom_key" {
		t.Errorf("expected [db custom_key], got %v", fields)
	}
}

func TestQueryBuildNoPredicates(t *testing.T) {
	sql, args := New(0).Build()

	want := "SELECT rowid, db, structure, subgroup, number, name, tag, value, message, priority, custom_key " +
		"FROM tia_alarms ORDER BY run_id, seq"
	if sql != want {
		t.Errorf("expected '%s', got '%s'", want, sql)
	}
	if args != nil {
		t.Errorf("expected nil args, got %v", args)
	}
}

func TestQueryBuildWithPredicate(t *testing.T) {
	q := New(0)
	q.AddPredicate(Simple("db", Equal, "DB1"))
	q.AddPredicate(nil)

	sql, args := q.Build()
	if !strings.Contains(sql, "WHERE (db = ?)") {
		t.Errorf("expected WHERE clause, got: %s", sql)
	}
	if len(args) != 1 {
		t.Errorf("expected 1 arg, got %d", len(args))
	}
}

func TestQueryOrderBy(t *testing.T) {
	q := New(0)
	if err := q.OrderBy("custom_key"); err != nil {
		t.Fatalf("OrderBy failed: %v", err)
	}
	sql, _ := q.Build()
	if !strings.HasSuffix(sql, "ORDER BY custom_key") {
		t.Errorf("expected ORDER BY custom_key, got: %s", sql)
	}

	if err := q.OrderBy("bogus"); err == nil {
		t.Error("expected error for invalid order by field")
	}

	q.OrderBy("")
	sql, _ = q.Build()
	if !strings.HasSuffix(sql, "ORDER BY run_id, seq") {
		t.Errorf("expected default order restored, got: %s", sql)
	}
}

func TestQueryBuildWithPagination(t *testing.T) {
	q := New(50)
	q.SetPage(3)

	sql, _ := q.Build()
	if !strings.HasSuffix(sql, "LIMIT 50 OFFSET 100") {
		t.Errorf("expected LIMIT/OFFSET, got: %s", sql)
	}
	if q.PageNumber() != 3 {
		t.Errorf("expected page 3, got %d", q.PageNumber())
	}

	q.SetPage(0)
	if q.PageNumber() != 3 {
		t.Errorf("expected invalid page to be ignored, got %d", q.PageNumber())
	}
}

func TestQueryBuildPostgres(t *testing.T) {
	q := New(10)
	q.SetDialect(pgDialect{})
	q.AddPredicate(Simple("db", Equal, "DB1"))
	q.AddPredicate(KeyRange(10000, 10010))

	sql, args := q.Build()
	if !strings.HasPrefix(sql, `SELECT id, db, structure, subgroup, "number", name, tag, "value",`) {
		t.Errorf("expected PostgreSQL select list, got: %s", sql)
	}
	if !strings.Contains(sql, "WHERE ((db = $1) AND (custom_key BETWEEN $2 AND $3))") {
		t.Errorf("expected numbered placeholders, got: %s", sql)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %d", len(args))
	}
}

func TestQueryBuildCount(t *testing.T) {
	q := New(100)
	q.AddPredicate(Simple("structure", Equal, "Sign"))

	sql, args := q.BuildCount()
	if sql != "SELECT COUNT(*) FROM tia_alarms WHERE (structure = ?)" {
		t.Errorf("unexpected count SQL: %s", sql)
	}
	if len(args) != 1 {
		t.Errorf("expected 1 arg, got %d", len(args))
	}
}

func TestQueryORLogic(t *testing.T) {
	q := New(0)
	q.SetLogic(OR)
	q.AddPredicate(Simple("db", Equal, "DB1"))
	q.AddPredicate(Simple("db", Equal, "DB2"))

	sql, _ := q.Build()
	if !strings.Contains(sql, "((db = ?) OR (db = ?))") {
		t.Errorf("expected OR logic, got: %s", sql)
	}
}

func TestQueryPredicateFields(t *testing.T) {
	q := New(0)
	q.AddPredicate(Simple("db", Equal, "DB1"))
	q.AddPredicate(KeyRange(1, 2))
	q.AddPredicate(Simple("db", Equal, "DB2"))

	fields := q.PredicateFields()
	if len(fields) != 2 {
		t.Errorf("expected 2 distinct fields, got %v", fields)
	}

	q.ClearPredicates()
	if len(q.PredicateFields()) != 0 {
		t.Error("expected no fields after ClearPredicates")
	}
}

// --- RawQuery tests ---

func TestRawQueryBuild(t *testing.T) {
	rq := NewRaw(1000, "db = 'DB1' AND priority = 1")
	rq.OrderBy("custom_key")

	sql, args := rq.Build()

	if !strings.Contains(sql, "WHERE db = 'DB1' AND priority = 1") {
		t.Errorf("expected raw WHERE clause, got: %s", sql)
	}
	if !strings.Contains(sql, "ORDER BY custom_key") {
		t.Errorf("expected ORDER BY, got: %s", sql)
	}
	if !strings.Contains(sql, "LIMIT 1000 OFFSET 0") {
		t.Errorf("expected LIMIT/OFFSET, got: %s", sql)
	}
	if args != nil {
		t.Errorf("expected nil args for raw query, got: %v", args)
	}
}

func TestRawQueryEmpty(t *testing.T) {
	sql, _ := NewRaw(0, "").Build()
	if strings.Contains(sql, "WHERE") {
		t.Errorf("expected no WHERE for empty raw query, got: %s", sql)
	}
}

func TestRawQuerySetRawWhere(t *testing.T) {
	rq := NewRaw(0, "db = 'DB1'")
	rq.SetRawWhere("db = 'DB2'")

	sql, _ := rq.Build()
	if !strings.Contains(sql, "db = 'DB2'") {
		t.Errorf("expected updated WHERE, got: %s", sql)
	}
}
