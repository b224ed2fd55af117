package meta

import (
	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/record"
)

// RecordFormatMetaData describes the fields of a host record format, one
// column per field.
type RecordFormatMetaData struct {
	columns
	format *record.Format
}

func NewRecordFormatMetaData(format *record.Format) (*RecordFormatMetaData, error) {
	if format == nil {
		return nil, errs.IllegalState("recordFormat", errs.PropertyNotSet)
	}
	md := &RecordFormatMetaData{format: format, columns: make(columns, len(format.Fields))}
	for i := range format.Fields {
		f := &format.Fields[i]
		c := newColumn(FieldColumnType(f))
		c.name = f.Name
		c.label = f.TextDescription
		c.typeName = f.Type.String()
		c.displaySize = fieldDisplaySize(f)
		md.columns[i] = c
	}
	return md, nil
}

func (md *RecordFormatMetaData) RecordFormat() *record.Format {
	return md.format
}

// FieldColumnType maps a record field to the column type of its decoded
// value.
func FieldColumnType(f *record.FieldDescription) Type {
	switch f.Type {
	case record.Character:
		if f.CCSID == record.HexCCSID {
			return ByteArray
		}
		return String
	case record.Binary:
		switch f.Length {
		case 2:
			return Short
		case 4:
			return Integer
		}
		return Long
	case record.Float:
		if f.Length == 4 {
			return Float
		}
		return Double
	case record.PackedDecimal, record.ZonedDecimal:
		return BigDecimal
	}
	return ByteArray
}

// fieldDisplaySize leaves room for the sign and the decimal point.
func fieldDisplaySize(f *record.FieldDescription) int {
	switch f.Type {
	case record.PackedDecimal, record.ZonedDecimal:
		n := f.Length + 1
		if f.Decimals > 0 {
			n++
		}
		return n
	case record.Binary:
		return map[int]int{2: 6, 4: 11, 8: 20}[f.Length]
	case record.Float:
		if f.Length == 4 {
			return 14
		}
		return 24
	case record.Hex:
		return 2 * f.Length
	}
	return f.Length
}
