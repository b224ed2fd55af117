package meta

import (
	"strings"

	"github.com/go-data-exporter/hostdata/errs"
)

// RowMetaData describes the columns of a row list. Indexed accessors return
// an error wrapping errs.ErrIllegalArgument for an index outside
// [0, ColumnCount()).
type RowMetaData interface {
	ColumnCount() int
	ColumnName(i int) (string, error)
	ColumnLabel(i int) (string, error)
	ColumnType(i int) (Type, error)
	ColumnTypeName(i int) (string, error)
	ColumnAlignment(i int) (Alignment, error)
	ColumnDirection(i int) (Direction, error)
	ColumnDisplaySize(i int) (int, error)
	IsNumericData(i int) (bool, error)
	// ColumnIndex returns the index of the column with the given name, or -1.
	ColumnIndex(name string) int
}

// column is the resolved description of one column; every variant keeps a
// slice of them.
type column struct {
	name        string
	label       string
	typ         Type
	typeName    string
	alignment   Alignment
	direction   Direction
	displaySize int
}

func newColumn(t Type) column {
	return column{typ: t, alignment: defaultAlignment(t), direction: LeftToRight}
}

// columns implements RowMetaData over a slice of resolved columns.
type columns []column

func checkColumn(i, n int) error {
	if i < 0 || i >= n {
		return errs.IllegalArgument("columnIndex", errs.RangeNotValid)
	}
	return nil
}

func (cs columns) ColumnCount() int {
	return len(cs)
}

func (cs columns) ColumnName(i int) (string, error) {
	if err := checkColumn(i, len(cs)); err != nil {
		return "", err
	}
	return cs[i].name, nil
}

func (cs columns) ColumnLabel(i int) (string, error) {
	if err := checkColumn(i, len(cs)); err != nil {
		return "", err
	}
	if cs[i].label == "" {
		return cs[i].name, nil
	}
	return cs[i].label, nil
}

func (cs columns) ColumnType(i int) (Type, error) {
	if err := checkColumn(i, len(cs)); err != nil {
		return String, err
	}
	return cs[i].typ, nil
}

func (cs columns) ColumnTypeName(i int) (string, error) {
	if err := checkColumn(i, len(cs)); err != nil {
		return "", err
	}
	if cs[i].typeName != "" {
		return cs[i].typeName, nil
	}
	return cs[i].typ.String(), nil
}

func (cs columns) ColumnAlignment(i int) (Alignment, error) {
	if err := checkColumn(i, len(cs)); err != nil {
		return Left, err
	}
	return cs[i].alignment, nil
}

func (cs columns) ColumnDirection(i int) (Direction, error) {
	if err := checkColumn(i, len(cs)); err != nil {
		return LeftToRight, err
	}
	return cs[i].direction, nil
}

func (cs columns) ColumnDisplaySize(i int) (int, error) {
	if err := checkColumn(i, len(cs)); err != nil {
		return 0, err
	}
	return cs[i].displaySize, nil
}

func (cs columns) IsNumericData(i int) (bool, error) {
	if err := checkColumn(i, len(cs)); err != nil {
		return false, err
	}
	return cs[i].typ.IsNumeric(), nil
}

func (cs columns) ColumnIndex(name string) int {
	for i := range cs {
		if strings.EqualFold(cs[i].name, name) {
			return i
		}
	}
	return -1
}

// ColumnNames returns the names of all columns of md.
func ColumnNames(md RowMetaData) []string {
	names := make([]string, md.ColumnCount())
	for i := range names {
		names[i], _ = md.ColumnName(i)
	}
	return names
}
