package rowdata

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/meta"
	"github.com/go-data-exporter/hostdata/scanner"
	"github.com/go-data-exporter/hostdata/tostring"
)

// SQLResultSetRowData buffers a forward-only result set so it can be
// navigated with the cursor.
type SQLResultSetRowData struct {
	list
	driver string
}

// LoadSQLResultSet reads every row of rows and closes it.
func LoadSQLResultSet(rows *sql.Rows, driver string) (*SQLResultSetRowData, error) {
	defer rows.Close()
	return LoadRows(scanner.FromSQL(rows, driver))
}

// LoadRows reads every row of a scanner stream, such as a Hive cursor.
// Values are coerced to their column type; a column holding a value that
// does not fit is widened so every stored value stays acceptable to it.
func LoadRows(rows scanner.Rows) (*SQLResultSetRowData, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, errs.NewRowDataError(rows.Driver(), err)
	}
	md := meta.NewSQLResultSetMetaData(cols)
	types := make([]meta.Type, md.ColumnCount())
	for i := range types {
		types[i], _ = md.ColumnType(i)
	}
	d := &SQLResultSetRowData{list: newList(md), driver: rows.Driver()}
	for rows.Next() {
		values, err := rows.ScanRow()
		if err != nil {
			logger.Warn("scan of ", rows.Driver(), " row ", len(d.rows)+1, " failed: ", err)
			return nil, errs.NewRowDataError(rows.Driver(), err)
		}
		row := copyValues(values, types)
		for i, v := range row {
			if i < len(types) && !types[i].Accepts(v) {
				d.widenColumn(md, types, i, v)
				row[i] = coerce(types[i], v)
			}
		}
		d.appendRow(row)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewRowDataError(rows.Driver(), err)
	}
	logger.Debug("loaded ", len(d.rows), " rows from ", rows.Driver())
	return d, nil
}

// widenColumn changes the type of column i to one that accepts v and
// converts the values already loaded into it.
func (d *SQLResultSetRowData) widenColumn(md *meta.SQLResultSetMetaData, types []meta.Type, i int, v any) {
	to := widen(types[i], v)
	name, _ := md.ColumnName(i)
	logger.Debug("column ", name, " widened from ", types[i], " to ", to, " for a ", fmt.Sprintf("%T", v), " value")
	types[i] = to
	_ = md.SetColumnType(i, to)
	for _, row := range d.rows {
		row[i] = coerce(to, row[i])
	}
}

// widen picks the narrowest type that holds both the values of t and v.
func widen(t meta.Type, v any) meta.Type {
	switch t {
	case meta.Short, meta.Integer, meta.Long:
		if _, ok := toInt64(v); ok && t != meta.Long {
			return meta.Long
		}
		if _, ok := toDecimal(v); ok {
			return meta.BigDecimal
		}
	case meta.Float:
		switch v.(type) {
		case float64, string:
			if _, ok := coerce(meta.Double, v).(float64); ok {
				return meta.Double
			}
		}
	case meta.Double:
		if _, ok := toDecimal(v); ok {
			return meta.BigDecimal
		}
	}
	return meta.String
}

// Driver names the source the rows were read from.
func (d *SQLResultSetRowData) Driver() string {
	return d.driver
}

// copyValues detaches a scanned row from the scanner's reused buffers and
// coerces each value to the Go type its column type accepts.
func copyValues(values []any, types []meta.Type) []any {
	row := make([]any, len(values))
	for i, v := range values {
		if i < len(types) {
			v = coerce(types[i], v)
		}
		if b, ok := v.([]byte); ok {
			v = append([]byte(nil), b...)
		}
		row[i] = v
	}
	return row
}

// coerce converts driver values (int64, float64, text as []byte) into the
// representation of t. Values that do not convert cleanly are kept as is.
func coerce(t meta.Type, v any) any {
	if v == nil || t.Accepts(v) {
		return v
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch t {
	case meta.String:
		return tostring.ToString(v).String
	case meta.Integer:
		if n, ok := toInt64(v); ok && n >= math.MinInt32 && n <= math.MaxInt32 {
			return int32(n)
		}
	case meta.Short:
		if n, ok := toInt64(v); ok && n >= math.MinInt16 && n <= math.MaxInt16 {
			return int16(n)
		}
	case meta.Long:
		if n, ok := toInt64(v); ok {
			return n
		}
	case meta.Double:
		switch x := v.(type) {
		case string:
			if f, err := strconv.ParseFloat(x, 64); err == nil {
				return f
			}
		}
		if n, ok := toInt64(v); ok {
			return float64(n)
		}
	case meta.Float:
		switch x := v.(type) {
		case float64:
			if f := float32(x); float64(f) == x || math.IsNaN(x) {
				return f
			}
		case string:
			if f, err := strconv.ParseFloat(x, 32); err == nil {
				return float32(f)
			}
		}
	case meta.BigDecimal:
		if d, ok := toDecimal(v); ok {
			return d
		}
	}
	return v
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	case uint:
		return int64(x), uint64(x) <= math.MaxInt64
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	if n, ok := toInt64(v); ok {
		return decimal.NewFromInt(n), true
	}
	switch x := v.(type) {
	case uint64:
		return decimal.RequireFromString(strconv.FormatUint(x, 10)), true
	case uint:
		return decimal.RequireFromString(strconv.FormatUint(uint64(x), 10)), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(x), true
	case string:
		d, err := decimal.NewFromString(x)
		return d, err == nil
	case []byte:
		d, err := decimal.NewFromString(string(x))
		return d, err == nil
	}
	return decimal.Decimal{}, false
}
