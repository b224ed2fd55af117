// Package tostring converts row values into their text form for the text
// codecs, reporting NULL separately from the empty string.
package tostring

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/hostdata/scanner"
)

var jsonStd = jsoniter.ConfigCompatibleWithStandardLibrary

// String is a converted value. IsNULL marks an absent value.
type String struct {
	String string
	IsNULL bool
}

// Null is the converted form of a missing value.
var Null = String{IsNULL: true}

// Bytes selects how []byte values (ByteArray columns) are rendered.
type Bytes int

const (
	// BytesRaw copies the bytes into the string unchanged.
	BytesRaw Bytes = iota
	// BytesHex renders upper-case hex digits, the way host hex fields are shown.
	BytesHex
)

// ToString converts v with the default rules and raw byte rendering.
func ToString(v any) String {
	return Convert(v, BytesRaw)
}

// Convert converts an arbitrary value. Zero times and values whose JSON form
// is null, [] or {} count as NULL.
func Convert(v any, bytes Bytes) String {
	if v == nil {
		return Null
	}
	switch v := v.(type) {
	case string:
		return String{v, false}
	case []byte:
		if bytes == BytesHex {
			return String{strings.ToUpper(hex.EncodeToString(v)), false}
		}
		return String{string(v), false}
	case bool:
		return String{strconv.FormatBool(v), false}
	case int:
		return String{strconv.Itoa(v), false}
	case int8:
		return String{strconv.FormatInt(int64(v), 10), false}
	case int16:
		return String{strconv.FormatInt(int64(v), 10), false}
	case int32:
		return String{strconv.FormatInt(int64(v), 10), false}
	case int64:
		return String{strconv.FormatInt(v, 10), false}
	case uint:
		return String{strconv.FormatUint(uint64(v), 10), false}
	case uint8:
		return String{strconv.FormatUint(uint64(v), 10), false}
	case uint16:
		return String{strconv.FormatUint(uint64(v), 10), false}
	case uint32:
		return String{strconv.FormatUint(uint64(v), 10), false}
	case uint64:
		return String{strconv.FormatUint(v, 10), false}
	case decimal.Decimal:
		return String{v.String(), false}
	case decimal.NullDecimal:
		if !v.Valid {
			return Null
		}
		return String{v.Decimal.String(), false}
	case time.Time:
		if v.IsZero() {
			return Null
		}
		return String{v.Format(time.RFC3339Nano), false}
	case float32:
		return String{strconv.FormatFloat(float64(v), 'f', -1, 32), false}
	case float64:
		return String{strconv.FormatFloat(v, 'f', -1, 64), false}
	}
	if jsonMarshaler, ok := v.(json.Marshaler); ok {
		if jsonData, err := jsonMarshaler.MarshalJSON(); err == nil {
			return fromJSON(jsonData)
		}
	}
	if fmtStringer, ok := v.(fmt.Stringer); ok {
		return String{fmtStringer.String(), false}
	}
	if jsonData, err := jsonStd.Marshal(v); err == nil {
		return fromJSON(jsonData)
	}
	return String{fmt.Sprintf("%v", v), false}
}

func fromJSON(data []byte) String {
	s := strings.Trim(string(data), `"`)
	if s == "[]" || s == "{}" || s == "null" {
		return Null
	}
	return String{s, false}
}

// Mappers holds per-type conversion overrides registered by codec options.
type Mappers map[reflect.Type]func(any, scanner.Metadata) String

// Register installs fn for values of dynamic type T.
func Register[T any](m Mappers, fn func(v T, metadata scanner.Metadata) String) {
	var zero T
	m[reflect.TypeOf(zero)] = func(v any, metadata scanner.Metadata) String {
		return fn(v.(T), metadata)
	}
}

// Convert applies the override registered for v's type, falling back to
// the default rules.
func (m Mappers) Convert(v any, metadata scanner.Metadata, bytes Bytes) String {
	if v == nil {
		return Null
	}
	if fn, ok := m[reflect.TypeOf(v)]; ok {
		return fn(v, metadata)
	}
	return Convert(v, bytes)
}
