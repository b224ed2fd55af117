package scanner

import (
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
)

// sliceRowsScanner implements Rows over a slice of rows. Column metadata is
// inferred from the first row unless names are given.
type sliceRowsScanner struct {
	rows    [][]any
	names   []string
	columns []Column
	lastRow []any
	cursor  int
}

// FromData creates a Rows stream from a 2D slice; columns are named
// column_0, column_1, ...
func FromData(rows [][]any) Rows {
	return FromDataWithColumns(nil, rows)
}

// FromDataWithColumns is FromData with explicit column names. A nil names
// slice falls back to the generated names.
func FromDataWithColumns(names []string, rows [][]any) Rows {
	s := &sliceRowsScanner{rows: rows, names: names}
	s.columns, _ = s.Columns()
	return s
}

func (s *sliceRowsScanner) Driver() string {
	return "go-slice"
}

func (s *sliceRowsScanner) Err() error {
	return nil
}

func (s *sliceRowsScanner) Next() bool {
	if s.cursor >= len(s.rows) {
		return false
	}
	s.lastRow = s.rows[s.cursor]
	return true
}

// ScanRow returns the row prepared by Next and moves past it.
func (s *sliceRowsScanner) ScanRow() ([]any, error) {
	if s.cursor >= len(s.rows) {
		return nil, io.EOF
	}
	if s.lastRow == nil {
		return nil, errors.New("hostdata: scan called without calling Next")
	}
	if len(s.lastRow) != len(s.columns) {
		return nil, errors.Errorf("length of row %d != number of columns: %d != %d", s.cursor+1, len(s.lastRow), len(s.columns))
	}
	row := s.lastRow
	s.lastRow = nil
	s.cursor++
	return row, nil
}

func (s *sliceRowsScanner) Columns() ([]Column, error) {
	if s.columns != nil {
		return s.columns, nil
	}
	width := len(s.names)
	if width == 0 && len(s.rows) != 0 {
		width = len(s.rows[0])
	}
	for i := range width {
		c := &sliceColumn{index: i, name: fmt.Sprintf("column_%d", i), goType: "nil"}
		if i < len(s.names) {
			c.name = s.names[i]
		}
		if len(s.rows) != 0 && i < len(s.rows[0]) && s.rows[0][i] != nil {
			c.goType = reflect.TypeOf(s.rows[0][i]).String()
		}
		s.columns = append(s.columns, c)
	}
	return s.columns, nil
}
