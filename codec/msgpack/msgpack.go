// Package msgpackcodec writes rows as a MessagePack stream: a header array
// of column names followed by one array (or map) per row.
package msgpackcodec

import (
	"io"
	"reflect"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/go-data-exporter/hostdata/scanner"
)

type Option func(*msgpackCodec)

type msgpackCodec struct {
	customMapper     map[reflect.Type]func(any, scanner.Metadata) any
	preProcessorFunc func(rowID int, row []any) ([]any, bool)
	writeHeader      bool
	mapRows          bool
	limit            int
}

func New(opts ...Option) *msgpackCodec {
	c := &msgpackCodec{
		customMapper: make(map[reflect.Type]func(any, scanner.Metadata) any),
		writeHeader:  true,
		limit:        -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithCustomType[T any](fn func(v T, metadata scanner.Metadata) any) Option {
	return func(c *msgpackCodec) {
		var zero T
		if c.customMapper == nil {
			c.customMapper = make(map[reflect.Type]func(any, scanner.Metadata) any)
		}
		c.customMapper[reflect.TypeOf(zero)] = func(v any, metadata scanner.Metadata) any {
			return fn(v.(T), metadata)
		}
	}
}

func WithPreProcessorFunc(fn func(rowID int, row []any) ([]any, bool)) Option {
	return func(c *msgpackCodec) {
		c.preProcessorFunc = fn
	}
}

// WithHeader controls the leading array of column names. Map rows carry
// their names and never get a header.
func WithHeader(writeHeader bool) Option {
	return func(c *msgpackCodec) {
		c.writeHeader = writeHeader
	}
}

// WithMapRows encodes each row as a map keyed by column name.
func WithMapRows(mapRows bool) Option {
	return func(c *msgpackCodec) {
		c.mapRows = mapRows
	}
}

func WithLimit(limit int) Option {
	return func(c *msgpackCodec) {
		c.limit = limit
	}
}

func (c *msgpackCodec) value(v any, meta scanner.Metadata) any {
	if v == nil {
		return nil
	}
	if fn, ok := c.customMapper[reflect.TypeOf(v)]; ok {
		return fn(v, meta)
	}
	// decimal.Decimal is a BinaryMarshaler; its binary form is not portable.
	if d, ok := v.(decimal.Decimal); ok {
		return d.String()
	}
	return v
}

func (c *msgpackCodec) Write(rows scanner.Rows, writer io.Writer) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name()
	}
	enc := msgpack.NewEncoder(writer)
	enc.SetSortMapKeys(true)
	if c.writeHeader && !c.mapRows {
		if err = enc.Encode(names); err != nil {
			return errors.Wrap(err, "failed to write header")
		}
	}
	rowID := 1
	for c.limit < 0 || rowID <= c.limit {
		if !rows.Next() {
			break
		}
		values, err := rows.ScanRow()
		if err != nil {
			return err
		}
		row := make([]any, len(cols))
		for i := range cols {
			row[i] = c.value(values[i], scanner.Metadata{RowID: rowID, Driver: rows.Driver(), Column: cols[i]})
		}
		writeRow := true
		if c.preProcessorFunc != nil {
			row, writeRow = c.preProcessorFunc(rowID, row)
		}
		if !writeRow {
			continue
		}
		if c.mapRows {
			m := make(map[string]any, len(names))
			for i, name := range names {
				if i < len(row) {
					m[name] = row[i]
				}
			}
			err = enc.Encode(m)
		} else {
			err = enc.Encode(row)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to write row %d", rowID)
		}
		rowID++
	}
	return rows.Err()
}
