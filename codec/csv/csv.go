// Package csvcodec writes rows as comma separated values.
package csvcodec

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/scanner"
	"github.com/go-data-exporter/hostdata/tostring"
)

type csvCodec struct {
	customMapper     tostring.Mappers
	preProcessorFunc func(row []string) ([]string, bool)
	delimiter        rune
	useCRLF          bool
	writeHeader      bool
	customHeader     []string
	nullValue        string
	bytes            tostring.Bytes
	limit            int
}

type Option func(*csvCodec)

func New(opts ...Option) *csvCodec {
	cw := &csvCodec{
		customMapper: tostring.Mappers{},
		delimiter:    ',',
		writeHeader:  true,
		limit:        -1,
	}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

func WithCustomType[T any](fn func(v T, metadata scanner.Metadata) string) Option {
	return func(cw *csvCodec) {
		if cw.customMapper == nil {
			cw.customMapper = tostring.Mappers{}
		}
		tostring.Register(cw.customMapper, func(v T, metadata scanner.Metadata) tostring.String {
			return tostring.String{String: fn(v, metadata)}
		})
	}
}

func (cs *csvCodec) Write(rows scanner.Rows, writer io.Writer) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Name()
	}
	if cs.customHeader != nil {
		if len(cs.customHeader) != len(header) {
			return errors.Errorf("invalid header length: %d columns, %d header names", len(header), len(cs.customHeader))
		}
		header = cs.customHeader
	}
	w := csv.NewWriter(writer)
	if cs.delimiter != 0 {
		w.Comma = cs.delimiter
	}
	w.UseCRLF = cs.useCRLF

	if cs.writeHeader {
		if err = w.Write(header); err != nil {
			return errors.Wrap(err, "failed to write headers")
		}
	}
	written := 0
	for (cs.limit < 0 || written < cs.limit) && rows.Next() {
		values, err := rows.ScanRow()
		if err != nil {
			return err
		}
		row := make([]string, len(cols))
		for i := range cols {
			meta := scanner.Metadata{RowID: written + 1, Driver: rows.Driver(), Column: cols[i]}
			s := cs.customMapper.Convert(values[i], meta, cs.bytes)
			if s.IsNULL {
				s.String = cs.nullValue
			}
			row[i] = s.String
		}
		writeRow := true
		if cs.preProcessorFunc != nil {
			row, writeRow = cs.preProcessorFunc(row)
		}
		if !writeRow {
			continue
		}
		if err = w.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write row %d", written+1)
		}
		written++
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return err
	}
	return rows.Err()
}

func WithPreProcessorFunc(fn func(row []string) ([]string, bool)) Option {
	return func(cw *csvCodec) {
		cw.preProcessorFunc = fn
	}
}

func WithCustomDelimiter(delimiter rune) Option {
	return func(cw *csvCodec) {
		cw.delimiter = delimiter
	}
}

func WithCRLF(useCRLF bool) Option {
	return func(cw *csvCodec) {
		cw.useCRLF = useCRLF
	}
}

func WithHeader(writeHeader bool) Option {
	return func(cw *csvCodec) {
		cw.writeHeader = writeHeader
	}
}

func WithCustomHeader(customHeader []string) Option {
	return func(cw *csvCodec) {
		cw.customHeader = customHeader
	}
}

func WithCustomNULL(nullValue string) Option {
	return func(cw *csvCodec) {
		cw.nullValue = nullValue
	}
}

// WithHexBytes renders byte array values as upper-case hex.
func WithHexBytes(hex bool) Option {
	return func(cw *csvCodec) {
		if hex {
			cw.bytes = tostring.BytesHex
		} else {
			cw.bytes = tostring.BytesRaw
		}
	}
}

// WithLimit caps the number of data rows written. Negative means unlimited.
func WithLimit(limit int) Option {
	return func(cw *csvCodec) {
		cw.limit = limit
	}
}
