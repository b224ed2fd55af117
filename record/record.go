package record

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/errs"
)

// Record holds the field values of one record of a format.
type Record struct {
	format *Format
	values []any
}

// New builds a record from Go values. The values are encoded and decoded
// again, so the record holds the same Go types Decode produces.
func New(format *Format, values ...any) (*Record, error) {
	if format == nil {
		return nil, errs.IllegalState("recordFormat", errs.PropertyNotSet)
	}
	if len(values) != len(format.Fields) {
		return nil, errs.IllegalArgument("values", errs.LengthNotValid)
	}
	r := &Record{format: format, values: values}
	buf, err := r.Encode()
	if err != nil {
		return nil, err
	}
	return Decode(format, buf)
}

// Decode converts the host bytes of one record.
func Decode(format *Format, buf []byte) (*Record, error) {
	if format == nil {
		return nil, errs.IllegalState("recordFormat", errs.PropertyNotSet)
	}
	if len(buf) < format.RecordLength() {
		return nil, errs.IllegalArgument("recordBuffer", errs.LengthNotValid)
	}
	r := &Record{format: format, values: make([]any, len(format.Fields))}
	for i := range format.Fields {
		f := &format.Fields[i]
		off := format.offsets[i]
		v, err := decodeField(f, buf[off:off+f.ByteLength()])
		if err != nil {
			return nil, errors.Wrapf(err, "format %s field %s", format.Name, f.Name)
		}
		r.values[i] = v
	}
	return r, nil
}

// Encode converts the record back into host bytes.
func (r *Record) Encode() ([]byte, error) {
	buf := make([]byte, r.format.RecordLength())
	for i := range r.format.Fields {
		f := &r.format.Fields[i]
		off := r.format.offsets[i]
		if err := encodeField(f, r.values[i], buf[off:off+f.ByteLength()]); err != nil {
			return nil, errors.Wrapf(err, "format %s field %s", r.format.Name, f.Name)
		}
	}
	return buf, nil
}

func (r *Record) Format() *Format {
	return r.format
}

// Values returns a copy of the field values.
func (r *Record) Values() []any {
	return append([]any(nil), r.values...)
}

func (r *Record) Field(i int) (any, error) {
	if i < 0 || i >= len(r.values) {
		return nil, errs.IllegalArgument("fieldIndex", errs.RangeNotValid)
	}
	return r.values[i], nil
}

func (r *Record) FieldByName(name string) (any, error) {
	i := r.format.FieldIndex(name)
	if i < 0 {
		return nil, errs.IllegalArgument(name, errs.FieldNotFound)
	}
	return r.values[i], nil
}

// Source yields records one at a time; Next returns io.EOF after the last.
type Source interface {
	Next(ctx context.Context) (*Record, error)
}

// SliceSource yields records from memory.
type SliceSource struct {
	records []*Record
	pos     int
}

func NewSliceSource(records ...*Record) *SliceSource {
	return &SliceSource{records: records}
}

func (s *SliceSource) Next(ctx context.Context) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	r := s.records[s.pos]
	s.pos++
	return r, nil
}

// ReaderSource decodes consecutive fixed-length records from a stream,
// such as a saved physical file member.
type ReaderSource struct {
	r      io.Reader
	format *Format
	buf    []byte
}

func NewReaderSource(r io.Reader, format *Format) *ReaderSource {
	return &ReaderSource{r: r, format: format, buf: make([]byte, format.RecordLength())}
}

// Next returns io.EOF at a clean record boundary and io.ErrUnexpectedEOF
// for a trailing partial record.
func (s *ReaderSource) Next(ctx context.Context) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(s.r, s.buf); err != nil {
		return nil, err
	}
	return Decode(s.format, s.buf)
}
