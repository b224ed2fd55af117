package meta

import (
	"database/sql"
	"reflect"

	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/scanner"
)

// SQLResultSetMetaData describes the columns of a SQL (or Hive) result set.
type SQLResultSetMetaData struct {
	columns
	source []scanner.Column
}

func NewSQLResultSetMetaData(cols []scanner.Column) *SQLResultSetMetaData {
	md := &SQLResultSetMetaData{columns: make(columns, len(cols)), source: cols}
	for i, col := range cols {
		typeName := scanner.NormalizeTypeName(col.DatabaseTypeName())
		c := newColumn(widenForScanType(SQLColumnType(typeName), col.ScanType()))
		c.name = col.Name()
		c.typeName = typeName
		if n, ok := col.Length(); ok && n > 0 && n < 1<<31 {
			c.displaySize = int(n)
		} else if p, s, ok := col.DecimalSize(); ok {
			c.displaySize = int(p) + 1
			if s > 0 {
				c.displaySize++
			}
		}
		md.columns[i] = c
	}
	return md
}

// SetColumnType changes the type of column i. Loaders use it to widen a
// column whose values do not fit the type derived from the driver.
func (md *SQLResultSetMetaData) SetColumnType(i int, t Type) error {
	if err := checkColumn(i, len(md.columns)); err != nil {
		return err
	}
	if !t.Valid() {
		return errs.IllegalArgument("type", errs.ParameterValueNotValid)
	}
	md.columns[i].typ = t
	md.columns[i].alignment = defaultAlignment(t)
	return nil
}

var (
	int64Types = map[reflect.Type]bool{
		reflect.TypeOf(int64(0)):        true,
		reflect.TypeOf(uint32(0)):       true,
		reflect.TypeOf(sql.NullInt64{}): true,
	}
	uint64Type = reflect.TypeOf(uint64(0))
)

// widenForScanType corrects a type derived from the type name when the
// driver scans wider values. SQLite reports INTEGER columns, which hold
// 64-bit values, with an int64 scan type.
func widenForScanType(t Type, scanType reflect.Type) Type {
	if scanType == nil || (t != Integer && t != Short && t != Long) {
		return t
	}
	if scanType == uint64Type {
		return BigDecimal
	}
	if t != Long && int64Types[scanType] {
		return Long
	}
	return t
}

// Columns returns the driver columns the metadata was built from.
func (md *SQLResultSetMetaData) Columns() []scanner.Column {
	return md.source
}

// SQLColumnType maps a normalized database type name to a column type.
// Unknown names map to String.
func SQLColumnType(typeName string) Type {
	switch scanner.NormalizeTypeName(typeName) {
	case "INT", "INTEGER", "MEDIUMINT", "INT4", "INT32":
		return Integer
	case "BIGINT", "INT8", "INT64", "LONG":
		return Long
	case "SMALLINT", "TINYINT", "INT2", "INT16":
		return Short
	case "DECIMAL", "NUMERIC", "DECFLOAT":
		return BigDecimal
	case "DOUBLE", "REAL", "DOUBLE PRECISION", "FLOAT8", "FLOAT64":
		return Double
	case "FLOAT", "FLOAT4", "FLOAT32":
		return Float
	case "BLOB", "BINARY", "VARBINARY", "LONGBLOB", "MEDIUMBLOB", "TINYBLOB", "BYTEA", "BYTES":
		return ByteArray
	}
	return String
}
