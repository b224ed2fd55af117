package record

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/hostdata/errs"
)

const ebcdicBlank = 0x40

// decodeField converts the bytes of one field into its Go value:
// string, int16/int32/int64, float32/float64, decimal.Decimal or []byte.
func decodeField(f *FieldDescription, b []byte) (any, error) {
	if len(b) != f.ByteLength() {
		return nil, errs.IllegalArgument(f.Name, errs.LengthNotValid)
	}
	switch f.Type {
	case Character:
		if f.CCSID == HexCCSID {
			return append([]byte(nil), b...), nil
		}
		cp, err := CodepageFor(f.CCSID)
		if err != nil {
			return nil, err
		}
		s, err := cp.Decode(b)
		if err != nil {
			return nil, err
		}
		return strings.TrimRight(s, " "), nil
	case Hex:
		return append([]byte(nil), b...), nil
	case Binary:
		switch f.Length {
		case 2:
			return int16(binary.BigEndian.Uint16(b)), nil
		case 4:
			return int32(binary.BigEndian.Uint32(b)), nil
		default:
			return int64(binary.BigEndian.Uint64(b)), nil
		}
	case Float:
		if f.Length == 4 {
			return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
		}
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	case PackedDecimal:
		return decodePacked(f, b)
	case ZonedDecimal:
		return decodeZoned(f, b)
	}
	return nil, errs.IllegalArgument(f.Name+".type", errs.ParameterValueNotValid)
}

func negativeSign(nibble byte) (bool, bool) {
	switch nibble {
	case 0xB, 0xD:
		return true, true
	case 0xA, 0xC, 0xE, 0xF:
		return false, true
	}
	return false, false
}

func digitsToDecimal(f *FieldDescription, digits []byte, negative bool) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(string(digits))
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "field %s", f.Name)
	}
	d = d.Shift(-int32(f.Decimals))
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// decodePacked reads two digits per byte; the low nibble of the last byte
// is the sign.
func decodePacked(f *FieldDescription, b []byte) (any, error) {
	digits := make([]byte, 0, 2*len(b))
	for i, c := range b {
		hi, lo := c>>4, c&0x0F
		if hi > 9 {
			return nil, errs.IllegalArgument(f.Name, errs.ParameterValueNotValid)
		}
		digits = append(digits, '0'+hi)
		if i == len(b)-1 {
			negative, ok := negativeSign(lo)
			if !ok {
				return nil, errs.IllegalArgument(f.Name, errs.ParameterValueNotValid)
			}
			return digitsToDecimal(f, digits, negative)
		}
		if lo > 9 {
			return nil, errs.IllegalArgument(f.Name, errs.ParameterValueNotValid)
		}
		digits = append(digits, '0'+lo)
	}
	return nil, errs.IllegalArgument(f.Name, errs.LengthNotValid)
}

// decodeZoned reads one digit per byte; the zone of the last byte is the
// sign.
func decodeZoned(f *FieldDescription, b []byte) (any, error) {
	digits := make([]byte, len(b))
	for i, c := range b {
		if c&0x0F > 9 {
			return nil, errs.IllegalArgument(f.Name, errs.ParameterValueNotValid)
		}
		digits[i] = '0' + c&0x0F
	}
	negative, ok := negativeSign(b[len(b)-1] >> 4)
	if !ok {
		return nil, errs.IllegalArgument(f.Name, errs.ParameterValueNotValid)
	}
	return digitsToDecimal(f, digits, negative)
}

// encodeField writes v into b, which has the field's byte length.
func encodeField(f *FieldDescription, v any, b []byte) error {
	switch f.Type {
	case Character:
		var src []byte
		if f.CCSID == HexCCSID {
			raw, ok := v.([]byte)
			if !ok {
				return errs.IllegalArgument(f.Name, errs.ParameterValueNotValid)
			}
			src = raw
		} else {
			s, ok := v.(string)
			if !ok {
				return errs.IllegalArgument(f.Name, errs.ParameterValueNotValid)
			}
			cp, err := CodepageFor(f.CCSID)
			if err != nil {
				return err
			}
			if src, err = cp.Encode(s); err != nil {
				return err
			}
		}
		if len(src) > len(b) {
			return errs.IllegalArgument(f.Name, errs.LengthNotValid)
		}
		n := copy(b, src)
		for i := n; i < len(b); i++ {
			b[i] = ebcdicBlank
		}
		return nil
	case Hex:
		raw, ok := v.([]byte)
		if !ok || len(raw) > len(b) {
			return errs.IllegalArgument(f.Name, errs.ParameterValueNotValid)
		}
		n := copy(b, raw)
		clear(b[n:])
		return nil
	case Binary:
		n, ok := toInt64(v)
		if !ok {
			return errs.IllegalArgument(f.Name, errs.ParameterValueNotValid)
		}
		switch f.Length {
		case 2:
			if n < math.MinInt16 || n > math.MaxInt16 {
				return errs.IllegalArgument(f.Name, errs.RangeNotValid)
			}
			binary.BigEndian.PutUint16(b, uint16(int16(n)))
		case 4:
			if n < math.MinInt32 || n > math.MaxInt32 {
				return errs.IllegalArgument(f.Name, errs.RangeNotValid)
			}
			binary.BigEndian.PutUint32(b, uint32(int32(n)))
		default:
			binary.BigEndian.PutUint64(b, uint64(n))
		}
		return nil
	case Float:
		var x float64
		switch v := v.(type) {
		case float32:
			x = float64(v)
		case float64:
			x = v
		default:
			return errs.IllegalArgument(f.Name, errs.ParameterValueNotValid)
		}
		if f.Length == 4 {
			binary.BigEndian.PutUint32(b, math.Float32bits(float32(x)))
		} else {
			binary.BigEndian.PutUint64(b, math.Float64bits(x))
		}
		return nil
	case PackedDecimal, ZonedDecimal:
		d, ok := toDecimal(v)
		if !ok {
			return errs.IllegalArgument(f.Name, errs.ParameterValueNotValid)
		}
		return encodeDecimal(f, d, b)
	}
	return errs.IllegalArgument(f.Name+".type", errs.ParameterValueNotValid)
}

// encodeDecimal rounds d to the field's decimals and writes the digits with
// sign F (positive) or D (negative).
func encodeDecimal(f *FieldDescription, d decimal.Decimal, b []byte) error {
	scaled := d.Shift(int32(f.Decimals)).Round(0)
	negative := scaled.Sign() < 0
	digits := scaled.Abs().BigInt().String()
	if len(digits) > f.Length {
		return errs.IllegalArgument(f.Name, errs.RangeNotValid)
	}
	sign := byte(0xF)
	if negative {
		sign = 0xD
	}
	if f.Type == ZonedDecimal {
		digits = strings.Repeat("0", f.Length-len(digits)) + digits
		for i := range digits {
			b[i] = 0xF0 | (digits[i] - '0')
		}
		b[len(b)-1] = sign<<4 | (digits[len(digits)-1] - '0')
		return nil
	}
	// Packed: 2*len(b)-1 digit nibbles followed by the sign nibble.
	nibbles := make([]byte, 2*len(b)-1-len(digits), 2*len(b))
	for i := range digits {
		nibbles = append(nibbles, digits[i]-'0')
	}
	nibbles = append(nibbles, sign)
	for i := range b {
		b[i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	}
	return 0, false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	}
	if n, ok := toInt64(v); ok {
		return decimal.NewFromInt(n), true
	}
	return decimal.Zero, false
}
