package rowdata

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/meta"
)

// ListRowData is a row list filled by the application. Every row has one
// value per column of its ListMetaData and one property list per column.
type ListRowData struct {
	list
	listMD *meta.ListMetaData
}

// NewListRowData creates an empty list. md may be nil and set later with
// SetMetaData, but rows cannot be added until it is.
func NewListRowData(md *meta.ListMetaData) *ListRowData {
	d := &ListRowData{list: newList(nil)}
	if md != nil {
		d.SetMetaData(md)
	}
	return d
}

// SetMetaData replaces the column description and removes every row. The
// list keeps a copy of md, so later changes to md do not reach rows that
// were validated against the old columns; call SetMetaData again instead.
func (d *ListRowData) SetMetaData(md *meta.ListMetaData) {
	if md != nil {
		md = md.Clone()
		d.md = md
	} else {
		d.md = nil
	}
	d.listMD = md
	d.clear()
}

// ListMetaData returns a copy of the column description.
func (d *ListRowData) ListMetaData() *meta.ListMetaData {
	if d.listMD == nil {
		return nil
	}
	return d.listMD.Clone()
}

// validateRow checks the row and property widths and the value types.
func (d *ListRowData) validateRow(row []any, props []PropertyList) error {
	if d.listMD == nil {
		return errs.IllegalState("metaData", errs.PropertyNotSet)
	}
	n := d.listMD.ColumnCount()
	if len(row) != n {
		return errs.IllegalArgument("row", errs.LengthNotValid)
	}
	if props != nil && len(props) != n {
		return errs.IllegalArgument("properties", errs.LengthNotValid)
	}
	for i, v := range row {
		t, _ := d.listMD.ColumnType(i)
		if !t.Accepts(v) {
			return errors.Wrapf(errs.IllegalArgument("row["+strconv.Itoa(i)+"]", errs.ParameterValueNotValid),
				"%T is not a %s value", v, t)
		}
	}
	return nil
}

func (d *ListRowData) checkRowIndex(rowIndex, limit int) error {
	if rowIndex < 0 || rowIndex > limit {
		return errs.IllegalArgument("rowIndex", errs.RangeNotValid)
	}
	return nil
}

func rowProperties(props []PropertyList, n int) []PropertyList {
	if props == nil {
		return make([]PropertyList, n)
	}
	return append([]PropertyList(nil), props...)
}

// AddRow appends a row with empty property lists.
func (d *ListRowData) AddRow(row []any) error {
	return d.InsertRow(row, nil, len(d.rows))
}

// AddRowWithProperties appends a row together with its property lists.
func (d *ListRowData) AddRowWithProperties(row []any, props []PropertyList) error {
	return d.InsertRow(row, props, len(d.rows))
}

// InsertRow inserts a row before rowIndex; rowIndex == Length() appends. A
// cursor at or after rowIndex keeps pointing at the same row.
func (d *ListRowData) InsertRow(row []any, props []PropertyList, rowIndex int) error {
	if err := d.validateRow(row, props); err != nil {
		return err
	}
	if err := d.checkRowIndex(rowIndex, len(d.rows)); err != nil {
		return err
	}
	r := append([]any(nil), row...)
	p := rowProperties(props, len(row))
	d.rows = append(d.rows, nil)
	d.props = append(d.props, nil)
	copy(d.rows[rowIndex+1:], d.rows[rowIndex:])
	copy(d.props[rowIndex+1:], d.props[rowIndex:])
	d.rows[rowIndex] = r
	d.props[rowIndex] = p
	if d.position >= rowIndex {
		d.position++
	}
	d.fire(d, rowAdded, rowIndex)
	return nil
}

// SetRow replaces the row at rowIndex. nil props keeps the existing
// property lists.
func (d *ListRowData) SetRow(row []any, props []PropertyList, rowIndex int) error {
	if err := d.validateRow(row, props); err != nil {
		return err
	}
	if err := d.checkRowIndex(rowIndex, len(d.rows)-1); err != nil {
		return err
	}
	d.rows[rowIndex] = append([]any(nil), row...)
	if props != nil {
		d.props[rowIndex] = rowProperties(props, len(row))
	}
	d.fire(d, rowChanged, rowIndex)
	return nil
}

// RemoveRow deletes the row at rowIndex. A cursor after the removed row
// moves back by one so it keeps pointing at the same row.
func (d *ListRowData) RemoveRow(rowIndex int) error {
	if err := d.checkRowIndex(rowIndex, len(d.rows)-1); err != nil {
		return err
	}
	d.rows = append(d.rows[:rowIndex], d.rows[rowIndex+1:]...)
	d.props = append(d.props[:rowIndex], d.props[rowIndex+1:]...)
	if d.position > rowIndex {
		d.position--
	}
	d.clampPosition()
	d.fire(d, rowRemoved, rowIndex)
	return nil
}

// SetRowProperties replaces the property lists of the row at rowIndex.
func (d *ListRowData) SetRowProperties(props []PropertyList, rowIndex int) error {
	if d.listMD == nil {
		return errs.IllegalState("metaData", errs.PropertyNotSet)
	}
	if len(props) != d.listMD.ColumnCount() {
		return errs.IllegalArgument("properties", errs.LengthNotValid)
	}
	if err := d.checkRowIndex(rowIndex, len(d.rows)-1); err != nil {
		return err
	}
	d.props[rowIndex] = rowProperties(props, len(props))
	d.fire(d, rowChanged, rowIndex)
	return nil
}

// SetObjectProperties replaces the property list of a column of the current
// row.
func (d *ListRowData) SetObjectProperties(props PropertyList, columnIndex int) error {
	if err := d.checkPosition(); err != nil {
		return err
	}
	if err := d.checkColumn(columnIndex); err != nil {
		return err
	}
	d.props[d.position][columnIndex] = props
	d.fire(d, rowChanged, d.position)
	return nil
}
