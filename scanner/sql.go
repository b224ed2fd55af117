package scanner

import (
	"database/sql"

	"github.com/pkg/errors"
)

// sqlRowsScanner streams a *sql.Rows. The rows are closed as soon as Next
// reports the end of the result, so a loader that stops early still has to
// call Close.
type sqlRowsScanner struct {
	*sql.Rows

	driver  string
	columns []Column
	row     int
	values  []any
	dest    []any
}

// FromSQL creates a Rows stream over a *sql.Rows. The driver name is passed
// to custom type mappers and reported in row data errors.
func FromSQL(rows *sql.Rows, driver string) Rows {
	return &sqlRowsScanner{Rows: rows, driver: driver}
}

type sqlColumn struct {
	*sql.ColumnType
	index int
}

func (c *sqlColumn) Index() int {
	return c.index
}

func (s *sqlRowsScanner) Columns() ([]Column, error) {
	if s.columns != nil {
		return s.columns, nil
	}
	types, err := s.Rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrapf(err, "%s column types", s.driver)
	}
	cols := make([]Column, len(types))
	for i, c := range types {
		cols[i] = &sqlColumn{ColumnType: c, index: i}
	}
	s.columns = cols
	return cols, nil
}

func (s *sqlRowsScanner) Next() bool {
	if !s.Rows.Next() {
		s.Rows.Close()
		return false
	}
	s.row++
	return true
}

// ScanRow scans the current row into a slice reused across rows. database/sql
// copies driver bytes into *any destinations, but the slice itself is
// overwritten by the next call.
func (s *sqlRowsScanner) ScanRow() ([]any, error) {
	if s.values == nil {
		cols, err := s.Columns()
		if err != nil {
			return nil, err
		}
		s.values = make([]any, len(cols))
		s.dest = make([]any, len(cols))
		for i := range s.values {
			s.dest[i] = &s.values[i]
		}
	}
	if err := s.Rows.Scan(s.dest...); err != nil {
		return nil, errors.Wrapf(err, "%s row %d", s.driver, s.row)
	}
	return s.values, nil
}

func (s *sqlRowsScanner) Driver() string {
	return s.driver
}
