package migrations

import (
	"strings"
	"testing"
)

func TestEmbeddedMigrationsLoad(t *testing.T) {
	pg, err := load(PostgresFS, "postgres")
	if err != nil {
		t.Fatalf("load postgres: %v", err)
	}
	if len(pg) < 2 || pg[0].name != "001_tokens.sql" || pg[1].name != "002_swaps.sql" {
		t.Fatalf("unexpected postgres migrations: %+v", pg)
	}

	ch, err := load(ClickhouseFS, "clickhouse")
	if err != nil {
		t.Fatalf("load clickhouse: %v", err)
	}
	if len(ch) == 0 {
		t.Fatal("no clickhouse migrations embedded")
	}
	for _, m := range ch {
		if err := validateNoSemicolonInStrings(m.sql); err != nil {
			t.Errorf("%s: %v", m.name, err)
		}
	}
}

func TestSplitStatements(t *testing.T) {
	sql := `-- header
CREATE TABLE a (x Int32);

-- second
CREATE TABLE b (y String)
ENGINE = MergeTree() ORDER BY y;
`
	stmts := splitStatements(sql)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if !strings.HasPrefix(stmts[1], "CREATE TABLE b") {
		t.Errorf("unexpected second statement: %q", stmts[1])
	}
}

func TestValidateNoSemicolonInStrings(t *testing.T) {
	if err := validateNoSemicolonInStrings(`SELECT 'a''b'; SELECT 1;`); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validateNoSemicolonInStrings(`SELECT 'a;b'`); err == nil {
		t.Error("expected error for semicolon in literal")
	}
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://localhost:9000/snipers")
	if err != nil || db != "snipers" {
		t.Errorf("databaseFromDSN = %q, %v", db, err)
	}
	if _, err := databaseFromDSN("clickhouse://localhost:9000"); err == nil {
		t.Error("expected error for missing database")
	}
}
