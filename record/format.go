// Package record converts host records, fixed-length byte buffers described
// by a record format, into Go values and back.
package record

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/errs"
)

// FieldType is the host data type of a field.
type FieldType int

const (
	Character FieldType = iota
	Binary
	Float
	PackedDecimal
	ZonedDecimal
	Hex
)

func (t FieldType) String() string {
	switch t {
	case Character:
		return "CHAR"
	case Binary:
		return "BINARY"
	case Float:
		return "FLOAT"
	case PackedDecimal:
		return "PACKED"
	case ZonedDecimal:
		return "ZONED"
	case Hex:
		return "HEX"
	}
	return "UNKNOWN"
}

// FieldDescription describes one field of a record format.
//
// Length is the number of bytes for Character, Hex, Binary (2, 4 or 8) and
// Float (4 or 8) fields, and the number of digits for PackedDecimal and
// ZonedDecimal fields. Decimals is the number of digits after the decimal
// point. CCSID only applies to Character fields.
type FieldDescription struct {
	Name            string
	TextDescription string
	Type            FieldType
	Length          int
	Decimals        int
	CCSID           int
}

// ByteLength is the number of bytes the field occupies in a record.
func (f *FieldDescription) ByteLength() int {
	if f.Type == PackedDecimal {
		return f.Length/2 + 1
	}
	return f.Length
}

func (f *FieldDescription) validate() error {
	if f.Name == "" {
		return errs.IllegalArgument("fieldName", errs.ParameterValueNotValid)
	}
	switch f.Type {
	case Character, Hex:
		if f.Length <= 0 {
			return errs.IllegalArgument(f.Name+".length", errs.LengthNotValid)
		}
	case Binary:
		if f.Length != 2 && f.Length != 4 && f.Length != 8 {
			return errs.IllegalArgument(f.Name+".length", errs.LengthNotValid)
		}
	case Float:
		if f.Length != 4 && f.Length != 8 {
			return errs.IllegalArgument(f.Name+".length", errs.LengthNotValid)
		}
	case PackedDecimal, ZonedDecimal:
		if f.Length <= 0 || f.Length > 63 {
			return errs.IllegalArgument(f.Name+".length", errs.LengthNotValid)
		}
		if f.Decimals < 0 || f.Decimals > f.Length {
			return errs.IllegalArgument(f.Name+".decimals", errs.RangeNotValid)
		}
	default:
		return errs.IllegalArgument(f.Name+".type", errs.ParameterValueNotValid)
	}
	return nil
}

// Format is an ordered list of field descriptions.
type Format struct {
	Name   string
	Fields []FieldDescription

	offsets []int
	length  int
}

// NewFormat validates the fields and computes their offsets.
func NewFormat(name string, fields ...FieldDescription) (*Format, error) {
	if name == "" {
		return nil, errs.IllegalArgument("formatName", errs.ParameterValueNotValid)
	}
	f := &Format{Name: name, Fields: fields, offsets: make([]int, len(fields))}
	seen := make(map[string]bool, len(fields))
	for i := range fields {
		if err := fields[i].validate(); err != nil {
			return nil, errors.Wrapf(err, "format %s", name)
		}
		key := strings.ToUpper(fields[i].Name)
		if seen[key] {
			return nil, errors.Wrapf(errs.IllegalArgument(fields[i].Name, errs.ParameterValueNotValid), "format %s: duplicate field", name)
		}
		seen[key] = true
		f.offsets[i] = f.length
		f.length += fields[i].ByteLength()
	}
	return f, nil
}

// RecordLength is the total byte length of a record of this format.
func (f *Format) RecordLength() int {
	return f.length
}

func (f *Format) NumberOfFields() int {
	return len(f.Fields)
}

// FieldIndex returns the index of the named field (case-insensitive), or -1.
func (f *Format) FieldIndex(name string) int {
	for i := range f.Fields {
		if strings.EqualFold(f.Fields[i].Name, name) {
			return i
		}
	}
	return -1
}

func (f *Format) Field(i int) (*FieldDescription, error) {
	if i < 0 || i >= len(f.Fields) {
		return nil, errs.IllegalArgument("fieldIndex", errs.RangeNotValid)
	}
	return &f.Fields[i], nil
}
