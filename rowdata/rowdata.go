// Package rowdata holds ordered lists of rows addressed through a cursor.
//
// Every list shares the same cursor contract: the position ranges over
// [-1, Length()], where -1 is "before first" and Length() is "after last".
// Rows are appended, inserted and removed by the owning application and read
// by converters, which only ever move the cursor. A RowData is not safe for
// concurrent use.
package rowdata

import (
	"github.com/jrivets/log4g"

	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/meta"
)

var logger = log4g.GetLogger("hostdata.rowdata")

// PropertyList holds auxiliary tags attached to one cell, for example a
// hyperlink target.
type PropertyList []any

// RowData is a cursor-addressed list of fixed-width rows.
type RowData interface {
	Length() int
	MetaData() meta.RowMetaData

	CurrentPosition() int
	Absolute(rowIndex int) bool
	Relative(n int) bool
	First() bool
	Last() bool
	Next() bool
	Previous() bool
	BeforeFirst()
	AfterLast()
	IsBeforeFirst() bool
	IsAfterLast() bool
	IsFirst() bool
	IsLast() bool

	// Object returns the value of a column of the current row.
	Object(columnIndex int) (any, error)
	// ObjectProperties returns the property list of a column of the
	// current row.
	ObjectProperties(columnIndex int) (PropertyList, error)
	// RowProperties returns the property lists of the current row, one per
	// column.
	RowProperties() ([]PropertyList, error)
}

// list is the storage and cursor shared by the concrete row lists.
type list struct {
	md       meta.RowMetaData
	rows     [][]any
	props    [][]PropertyList
	position int

	listeners      []registration
	nextListenerID int
}

func newList(md meta.RowMetaData) list {
	return list{md: md, position: -1}
}

func (l *list) Length() int {
	return len(l.rows)
}

func (l *list) MetaData() meta.RowMetaData {
	return l.md
}

func (l *list) CurrentPosition() int {
	return l.position
}

// Absolute positions the cursor at rowIndex. An index below zero, or any
// index on an empty list, moves before the first row; an index past the end
// moves after the last row. Only an in-range index returns true.
func (l *list) Absolute(rowIndex int) bool {
	if rowIndex < 0 || len(l.rows) == 0 {
		l.position = -1
		return false
	}
	if rowIndex >= len(l.rows) {
		l.position = len(l.rows)
		return false
	}
	l.position = rowIndex
	return true
}

func (l *list) Relative(n int) bool {
	return l.Absolute(l.position + n)
}

func (l *list) First() bool {
	if len(l.rows) == 0 {
		return false
	}
	l.position = 0
	return true
}

func (l *list) Last() bool {
	if len(l.rows) == 0 {
		return false
	}
	l.position = len(l.rows) - 1
	return true
}

// Next returns false exactly when the cursor ends up after the last row.
func (l *list) Next() bool {
	if len(l.rows) == 0 {
		return false
	}
	if l.position < len(l.rows) {
		l.position++
	}
	return l.position != len(l.rows)
}

// Previous returns false once the cursor is before the first row.
func (l *list) Previous() bool {
	if l.position >= 0 {
		l.position--
	}
	return l.position != -1
}

func (l *list) BeforeFirst() {
	l.position = -1
}

func (l *list) AfterLast() {
	l.position = len(l.rows)
}

func (l *list) IsBeforeFirst() bool {
	return l.position == -1
}

func (l *list) IsAfterLast() bool {
	return l.position == len(l.rows)
}

func (l *list) IsFirst() bool {
	return len(l.rows) != 0 && l.position == 0
}

func (l *list) IsLast() bool {
	return len(l.rows) != 0 && l.position == len(l.rows)-1
}

// checkPosition validates that the cursor is on a row.
func (l *list) checkPosition() error {
	if len(l.rows) == 0 {
		return errs.IllegalState("rowData", errs.LengthNotValid)
	}
	if l.position < 0 || l.position >= len(l.rows) {
		return errs.IllegalState("position", errs.RangeNotValid)
	}
	return nil
}

// checkColumn validates columnIndex against the metadata and, when the
// cursor is on a row, against the width of that row.
func (l *list) checkColumn(columnIndex int) error {
	if l.md == nil {
		return errs.IllegalState("metaData", errs.PropertyNotSet)
	}
	if columnIndex < 0 || columnIndex >= l.md.ColumnCount() {
		return errs.IllegalArgument("columnIndex", errs.RangeNotValid)
	}
	if l.position >= 0 && l.position < len(l.rows) &&
		(columnIndex >= len(l.rows[l.position]) || columnIndex >= len(l.props[l.position])) {
		return errs.IllegalState("row", errs.LengthNotValid)
	}
	return nil
}

func (l *list) Object(columnIndex int) (any, error) {
	if err := l.checkPosition(); err != nil {
		return nil, err
	}
	if err := l.checkColumn(columnIndex); err != nil {
		return nil, err
	}
	return l.rows[l.position][columnIndex], nil
}

func (l *list) ObjectProperties(columnIndex int) (PropertyList, error) {
	if err := l.checkPosition(); err != nil {
		return nil, err
	}
	if err := l.checkColumn(columnIndex); err != nil {
		return nil, err
	}
	return l.props[l.position][columnIndex], nil
}

func (l *list) RowProperties() ([]PropertyList, error) {
	if err := l.checkPosition(); err != nil {
		return nil, err
	}
	return l.props[l.position], nil
}

// clear drops every row and moves the cursor before the first row.
func (l *list) clear() {
	l.rows = nil
	l.props = nil
	l.position = -1
}

// appendRow stores a row with empty property lists. The row slice is kept.
func (l *list) appendRow(row []any) {
	l.rows = append(l.rows, row)
	l.props = append(l.props, make([]PropertyList, len(row)))
}

// clampPosition keeps the cursor inside [-1, Length()] after removals.
func (l *list) clampPosition() {
	if l.position > len(l.rows) {
		l.position = len(l.rows)
	}
}
