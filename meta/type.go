// Package meta describes the columns of a row list: count, name, label,
// data type, alignment and direction. The concrete variants adapt a caller
// defined column list, a host record format, a resource list and a SQL
// result set to the same RowMetaData shape.
package meta

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type is the data type of a column.
type Type int

const (
	ByteArray Type = iota
	BigDecimal
	Double
	Float
	Integer
	Long
	Short
	String
)

var typeNames = [...]string{
	ByteArray:  "byte[]",
	BigDecimal: "BigDecimal",
	Double:     "double",
	Float:      "float",
	Integer:    "int",
	Long:       "long",
	Short:      "short",
	String:     "String",
}

func (t Type) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return typeNames[t]
}

func (t Type) Valid() bool {
	return t >= ByteArray && t <= String
}

// IsNumeric is true for every type except ByteArray and String.
func (t Type) IsNumeric() bool {
	switch t {
	case BigDecimal, Double, Float, Integer, Long, Short:
		return true
	}
	return false
}

// ParseType accepts the names returned by Type.String, case-insensitively.
func ParseType(name string) (Type, bool) {
	for i, n := range typeNames {
		if strings.EqualFold(n, name) {
			return Type(i), true
		}
	}
	switch strings.ToLower(name) {
	case "bytes", "binary":
		return ByteArray, true
	case "decimal":
		return BigDecimal, true
	case "integer":
		return Integer, true
	case "string", "char":
		return String, true
	}
	return String, false
}

// Accepts reports whether v may be stored in a column of type t. nil is
// accepted by every type. Integer columns take any Go integer that fits in
// 32 bits; String columns also take time.Time.
func (t Type) Accepts(v any) bool {
	if v == nil {
		return true
	}
	switch t {
	case ByteArray:
		_, ok := v.([]byte)
		return ok
	case BigDecimal:
		switch v.(type) {
		case decimal.Decimal, *decimal.Decimal:
			return true
		}
		return false
	case Double:
		switch v.(type) {
		case float64, float32:
			return true
		}
		return false
	case Float:
		_, ok := v.(float32)
		return ok
	case Integer:
		switch v := v.(type) {
		case int32, int16, int8, uint16, uint8:
			return true
		case int:
			return int(int32(v)) == v
		}
		return false
	case Long:
		switch v.(type) {
		case int64, int, int32, int16, int8, uint32, uint16, uint8:
			return true
		}
		return false
	case Short:
		switch v.(type) {
		case int16, int8, uint8:
			return true
		}
		return false
	case String:
		switch v.(type) {
		case string, time.Time:
			return true
		}
		return false
	}
	return false
}

// Alignment is the horizontal alignment of a column's values.
type Alignment int

const (
	Left Alignment = iota
	Center
	Right
)

func (a Alignment) String() string {
	switch a {
	case Left:
		return "left"
	case Center:
		return "center"
	case Right:
		return "right"
	}
	return "unknown"
}

// Direction is the text direction of a column.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// defaultAlignment right-aligns numbers.
func defaultAlignment(t Type) Alignment {
	if t.IsNumeric() {
		return Right
	}
	return Left
}
