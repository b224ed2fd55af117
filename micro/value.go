package micro

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/hostdata/errs"
)

// Tag identifies the type of a value written by WriteValue.
type Tag byte

const (
	TagNull Tag = iota
	TagBytes
	TagDecimal
	TagDouble
	TagFloat
	TagInt
	TagLong
	TagShort
	TagString
	TagBool
	TagTime
	// TagText is a string longer than WriteUTF allows.
	TagText
)

// WriteValue writes a tag byte followed by the value. Go ints are narrowed
// to the smallest of Int and Long that holds them; decimals travel as
// their string form and times as UTC nanoseconds. Strings over 65535 bytes
// are written as TagText.
func (w *Writer) WriteValue(v any) error {
	switch v := v.(type) {
	case nil:
		return w.WriteByte(byte(TagNull))
	case []byte:
		return w.tagged(TagBytes, func() error { return w.WriteBytes(v) })
	case decimal.Decimal:
		return w.tagged(TagDecimal, func() error { return w.WriteUTF(v.String()) })
	case *decimal.Decimal:
		if v == nil {
			return w.WriteByte(byte(TagNull))
		}
		return w.WriteValue(*v)
	case float64:
		return w.tagged(TagDouble, func() error { return w.WriteDouble(v) })
	case float32:
		return w.tagged(TagFloat, func() error { return w.WriteFloat(v) })
	case int8:
		return w.tagged(TagShort, func() error { return w.WriteShort(int16(v)) })
	case uint8:
		return w.tagged(TagShort, func() error { return w.WriteShort(int16(v)) })
	case int16:
		return w.tagged(TagShort, func() error { return w.WriteShort(v) })
	case uint16:
		return w.tagged(TagInt, func() error { return w.WriteInt(int32(v)) })
	case int32:
		return w.tagged(TagInt, func() error { return w.WriteInt(v) })
	case uint32:
		return w.tagged(TagLong, func() error { return w.WriteLong(int64(v)) })
	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return w.tagged(TagInt, func() error { return w.WriteInt(int32(v)) })
		}
		return w.tagged(TagLong, func() error { return w.WriteLong(int64(v)) })
	case int64:
		return w.tagged(TagLong, func() error { return w.WriteLong(v) })
	case string:
		if len(v) > math.MaxUint16 {
			return w.tagged(TagText, func() error { return w.WriteText(v) })
		}
		return w.tagged(TagString, func() error { return w.WriteUTF(v) })
	case bool:
		return w.tagged(TagBool, func() error { return w.WriteBoolean(v) })
	case time.Time:
		return w.tagged(TagTime, func() error { return w.WriteLong(v.UnixNano()) })
	}
	return errors.Wrapf(errs.IllegalArgument("value", errs.ParameterValueNotValid), "writeValue: unsupported type %T", v)
}

func (w *Writer) tagged(tag Tag, write func() error) error {
	if err := w.WriteByte(byte(tag)); err != nil {
		return err
	}
	return write()
}

// ReadValue reads a value written by WriteValue. Int, Long and Short come
// back as int32, int64 and int16.
func (r *Reader) ReadValue() (any, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch Tag(tag) {
	case TagNull:
		return nil, nil
	case TagBytes:
		return r.ReadBytes()
	case TagDecimal:
		s, err := r.ReadUTF()
		if err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, errors.Wrap(err, "readValue")
		}
		return d, nil
	case TagDouble:
		return r.ReadDouble()
	case TagFloat:
		return r.ReadFloat()
	case TagInt:
		return r.ReadInt()
	case TagLong:
		return r.ReadLong()
	case TagShort:
		return r.ReadShort()
	case TagString:
		return r.ReadUTF()
	case TagText:
		return r.ReadText()
	case TagBool:
		return r.ReadBoolean()
	case TagTime:
		n, err := r.ReadLong()
		if err != nil {
			return nil, err
		}
		return time.Unix(0, n).UTC(), nil
	}
	return nil, errors.Wrapf(errs.IllegalArgument("tag", errs.ParameterValueNotValid), "readValue: unknown tag %d", tag)
}
