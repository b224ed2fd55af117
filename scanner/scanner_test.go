package scanner

import (
	"database/sql"
	"io"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestFromDataInfersColumns(t *testing.T) {
	s := FromData([][]any{{1, "a", nil}, {2, "b", 3.5}})
	cols, err := s.Columns()
	if err != nil {
		t.Fatalf("Columns failed: %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	if cols[0].Name() != "column_0" || cols[0].DatabaseTypeName() != "int" {
		t.Errorf("unexpected first column: %s %s", cols[0].Name(), cols[0].DatabaseTypeName())
	}
	if cols[2].DatabaseTypeName() != "nil" {
		t.Errorf("nil value should give nil type, got %s", cols[2].DatabaseTypeName())
	}
	n := 0
	for s.Next() {
		if _, err := s.ScanRow(); err != nil {
			t.Fatalf("ScanRow failed: %v", err)
		}
		n++
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
	if _, err := s.ScanRow(); err != io.EOF {
		t.Errorf("expected io.EOF after last row, got %v", err)
	}
}

func TestFromDataWithColumns(t *testing.T) {
	s := FromDataWithColumns([]string{"ID", "NAME"}, nil)
	cols, _ := s.Columns()
	if len(cols) != 2 || cols[1].Name() != "NAME" {
		t.Fatalf("unexpected columns %v", cols)
	}
	if s.Next() {
		t.Error("empty data should have no rows")
	}
}

func TestScanRowRejectsRaggedRows(t *testing.T) {
	s := FromData([][]any{{1, 2}, {3}})
	s.Next()
	if _, err := s.ScanRow(); err != nil {
		t.Fatalf("first row: %v", err)
	}
	s.Next()
	if _, err := s.ScanRow(); err == nil {
		t.Error("expected an error for a short row")
	}
}

func TestNormalizeTypeName(t *testing.T) {
	cases := map[string]string{
		"INT_TYPE":      "INT",
		"decimal(10,2)": "DECIMAL",
		" varchar ":     "VARCHAR",
		"":              "",
	}
	for in, want := range cases {
		if got := NormalizeTypeName(in); got != want {
			t.Errorf("NormalizeTypeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromSQL(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE q (name TEXT, data BLOB); INSERT INTO q VALUES ('QSYSOPR', x'c1'), (NULL, x'c2')`); err != nil {
		t.Fatal(err)
	}
	rows, err := db.Query(`SELECT name, data FROM q`)
	if err != nil {
		t.Fatal(err)
	}
	s := FromSQL(rows, "sqlite3")
	cols, err := s.Columns()
	if err != nil || len(cols) != 2 || cols[1].Name() != "data" {
		t.Fatalf("unexpected columns %v: %v", cols, err)
	}

	var first []byte
	var names []any
	for s.Next() {
		row, err := s.ScanRow()
		if err != nil {
			t.Fatalf("ScanRow failed: %v", err)
		}
		if first == nil {
			first = row[1].([]byte)
		}
		names = append(names, row[0])
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "QSYSOPR" || names[1] != nil {
		t.Errorf("a NULL must not keep the previous row's value, got %v", names)
	}
	if len(first) != 1 || first[0] != 0xc1 {
		t.Errorf("scanned bytes changed by the next row: %x", first)
	}
	if s.Next() {
		t.Error("exhausted rows should stay exhausted")
	}
}
