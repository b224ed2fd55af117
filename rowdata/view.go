package rowdata

import (
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/hostdata/meta"
	"github.com/go-data-exporter/hostdata/scanner"
)

// view streams a range of rows of a RowData to a codec by moving the
// RowData's cursor. The rows are never modified.
type view struct {
	rd      RowData
	start   int
	end     int
	started bool
	columns []scanner.Column
	row     []any
	err     error
}

// Scanner returns a forward-only stream over every row of rd.
func Scanner(rd RowData) scanner.Rows {
	return Window(rd, 0, rd.Length())
}

// Window returns a forward-only stream over at most count rows starting at
// row start. The window is clipped to the list.
func Window(rd RowData, start, count int) scanner.Rows {
	if start < 0 {
		start = 0
	}
	end := start + count
	if count < 0 || end > rd.Length() {
		end = rd.Length()
	}
	return &view{rd: rd, start: start, end: end}
}

func (v *view) Next() bool {
	if v.err != nil {
		return false
	}
	target := v.start
	if v.started {
		target = v.rd.CurrentPosition() + 1
	}
	v.started = true
	if target >= v.end {
		v.rd.Absolute(v.end)
		return false
	}
	return v.rd.Absolute(target)
}

func (v *view) ScanRow() ([]any, error) {
	n := v.rd.MetaData().ColumnCount()
	if v.row == nil {
		v.row = make([]any, n)
	}
	for i := range n {
		val, err := v.rd.Object(i)
		if err != nil {
			v.err = err
			return nil, err
		}
		v.row[i] = val
	}
	return v.row, nil
}

func (v *view) Columns() ([]scanner.Column, error) {
	if v.columns == nil {
		v.columns = Columns(v.rd.MetaData())
	}
	return v.columns, nil
}

func (v *view) Driver() string {
	if d, ok := v.rd.(interface{ Driver() string }); ok {
		return d.Driver()
	}
	return "rowdata"
}

func (v *view) Err() error {
	return v.err
}

// Columns adapts row metadata to the scanner column description used by
// the codecs.
func Columns(md meta.RowMetaData) []scanner.Column {
	if sql, ok := md.(*meta.SQLResultSetMetaData); ok {
		return sql.Columns()
	}
	cols := make([]scanner.Column, md.ColumnCount())
	for i := range cols {
		cols[i] = &metaColumn{md: md, index: i}
	}
	return cols
}

type metaColumn struct {
	md    meta.RowMetaData
	index int
}

func (c *metaColumn) Index() int {
	return c.index
}

func (c *metaColumn) Name() string {
	name, _ := c.md.ColumnName(c.index)
	return name
}

func (c *metaColumn) Length() (length int64, ok bool) {
	size, err := c.md.ColumnDisplaySize(c.index)
	if err != nil || size == 0 {
		return 0, false
	}
	return int64(size), true
}

func (c *metaColumn) DecimalSize() (precision, scale int64, ok bool) {
	return 0, 0, false
}

var scanTypes = map[meta.Type]reflect.Type{
	meta.ByteArray:  reflect.TypeOf([]byte(nil)),
	meta.BigDecimal: reflect.TypeOf(decimal.Decimal{}),
	meta.Double:     reflect.TypeOf(float64(0)),
	meta.Float:      reflect.TypeOf(float32(0)),
	meta.Integer:    reflect.TypeOf(int32(0)),
	meta.Long:       reflect.TypeOf(int64(0)),
	meta.Short:      reflect.TypeOf(int16(0)),
	meta.String:     reflect.TypeOf(""),
}

func (c *metaColumn) ScanType() reflect.Type {
	t, err := c.md.ColumnType(c.index)
	if err != nil {
		return nil
	}
	return scanTypes[t]
}

func (c *metaColumn) Nullable() (nullable, ok bool) {
	return true, true
}

func (c *metaColumn) DatabaseTypeName() string {
	name, _ := c.md.ColumnTypeName(c.index)
	return name
}
