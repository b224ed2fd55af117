package meta

import "github.com/go-data-exporter/hostdata/errs"

// ListMetaData is metadata defined column by column by the caller. New
// columns are String typed, left aligned and left-to-right.
type ListMetaData struct {
	columns
}

func NewListMetaData(columnCount int) (*ListMetaData, error) {
	md := &ListMetaData{}
	if err := md.SetColumnCount(columnCount); err != nil {
		return nil, err
	}
	return md, nil
}

// Clone returns an independent copy of md.
func (md *ListMetaData) Clone() *ListMetaData {
	return &ListMetaData{columns: append(columns(nil), md.columns...)}
}

// SetColumnCount discards every column description and creates n defaults.
func (md *ListMetaData) SetColumnCount(n int) error {
	if n < 0 {
		return errs.IllegalArgument("columnCount", errs.RangeNotValid)
	}
	md.columns = make(columns, n)
	for i := range md.columns {
		md.columns[i] = newColumn(String)
	}
	return nil
}

func (md *ListMetaData) SetColumnName(i int, name string) error {
	if err := checkColumn(i, len(md.columns)); err != nil {
		return err
	}
	if name == "" {
		return errs.IllegalArgument("name", errs.ParameterValueNotValid)
	}
	md.columns[i].name = name
	return nil
}

func (md *ListMetaData) SetColumnLabel(i int, label string) error {
	if err := checkColumn(i, len(md.columns)); err != nil {
		return err
	}
	md.columns[i].label = label
	return nil
}

// SetColumnType also resets the column's alignment to the type's default.
func (md *ListMetaData) SetColumnType(i int, t Type) error {
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

func (md *ListMetaData) SetColumnAlignment(i int, a Alignment) error {
	if err := checkColumn(i, len(md.columns)); err != nil {
		return err
	}
	if a < Left || a > Right {
		return errs.IllegalArgument("alignment", errs.ParameterValueNotValid)
	}
	md.columns[i].alignment = a
	return nil
}

func (md *ListMetaData) SetColumnDirection(i int, d Direction) error {
	if err := checkColumn(i, len(md.columns)); err != nil {
		return err
	}
	if d != LeftToRight && d != RightToLeft {
		return errs.IllegalArgument("direction", errs.ParameterValueNotValid)
	}
	md.columns[i].direction = d
	return nil
}

func (md *ListMetaData) SetColumnDisplaySize(i int, size int) error {
	if err := checkColumn(i, len(md.columns)); err != nil {
		return err
	}
	if size < 0 {
		return errs.IllegalArgument("displaySize", errs.RangeNotValid)
	}
	md.columns[i].displaySize = size
	return nil
}

// Column is a convenience description used by DefineColumns.
type Column struct {
	Name  string
	Label string
	Type  Type
}

// DefineColumns builds a ListMetaData from column descriptions in one call.
func DefineColumns(cols ...Column) (*ListMetaData, error) {
	md, err := NewListMetaData(len(cols))
	if err != nil {
		return nil, err
	}
	for i, c := range cols {
		if err := md.SetColumnName(i, c.Name); err != nil {
			return nil, err
		}
		if err := md.SetColumnType(i, c.Type); err != nil {
			return nil, err
		}
		if c.Label != "" {
			md.columns[i].label = c.Label
		}
	}
	return md, nil
}
