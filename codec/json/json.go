// Package jsoncodec writes rows as a JSON array of objects or as newline
// delimited JSON.
package jsoncodec

import (
	"io"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/hostdata/scanner"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Option func(*jsonCodec)

type jsonCodec struct {
	customMapper     map[reflect.Type]func(any, scanner.Metadata) any
	preProcessorFunc func(rowID int, row map[string]any) (map[string]any, bool)
	newlineDelimited bool
	decimalAsString  bool
	limit            int
}

func New(opts ...Option) *jsonCodec {
	c := &jsonCodec{
		customMapper: make(map[reflect.Type]func(any, scanner.Metadata) any),
		limit:        -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithPreProcessorFunc(fn func(rowID int, row map[string]any) (map[string]any, bool)) Option {
	return func(c *jsonCodec) {
		c.preProcessorFunc = fn
	}
}

func WithNewlineDelimited(isNewlineDelimited bool) Option {
	return func(c *jsonCodec) {
		c.newlineDelimited = isNewlineDelimited
	}
}

func WithCustomType[T any](fn func(v T, metadata scanner.Metadata) any) Option {
	return func(c *jsonCodec) {
		var zero T
		typ := reflect.TypeOf(zero)
		if c.customMapper == nil {
			c.customMapper = make(map[reflect.Type]func(any, scanner.Metadata) any)
		}
		c.customMapper[typ] = func(v any, metadata scanner.Metadata) any {
			return fn(v.(T), metadata)
		}
	}
}

// WithDecimalAsString writes BigDecimal values as JSON strings instead of
// numbers, for consumers that would lose precision parsing them as floats.
func WithDecimalAsString(asString bool) Option {
	return func(c *jsonCodec) {
		c.decimalAsString = asString
	}
}

func WithLimit(limit int) Option {
	return func(c *jsonCodec) {
		c.limit = limit
	}
}

// errWriter keeps the first write error so the output code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) write(p []byte) {
	if ew.err == nil {
		_, ew.err = ew.w.Write(p)
	}
}

func (c *jsonCodec) value(v any, meta scanner.Metadata) any {
	if fn, ok := c.customMapper[reflect.TypeOf(v)]; ok {
		return fn(v, meta)
	}
	if d, ok := v.(decimal.Decimal); ok && !c.decimalAsString {
		return jsoniter.Number(d.String())
	}
	return v
}

func (c *jsonCodec) Write(rows scanner.Rows, writer io.Writer) (err error) {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	w := &errWriter{w: writer}
	rowID := 1
	defer func() {
		if !c.newlineDelimited && rowID != 1 {
			w.write([]byte("\n]\n"))
			if err == nil {
				err = w.err
			}
		}
	}()
	if c.limit == 0 {
		return nil
	}
	for rows.Next() {
		values, err := rows.ScanRow()
		if err != nil {
			return err
		}
		row := make(map[string]any, len(values))
		for i, col := range cols {
			row[col.Name()] = c.value(values[i], scanner.Metadata{
				RowID:  rowID,
				Driver: rows.Driver(),
				Column: col,
			})
		}

		writeRow := true
		if c.preProcessorFunc != nil {
			row, writeRow = c.preProcessorFunc(rowID, row)
		}
		if !writeRow {
			continue
		}

		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if !c.newlineDelimited {
			if rowID == 1 {
				w.write([]byte("["))
			} else {
				w.write([]byte(","))
			}
			w.write([]byte("\n"))
			w.write(data)
		} else {
			w.write(data)
			w.write([]byte("\n"))
		}
		if w.err != nil {
			return w.err
		}
		if c.limit >= 0 && rowID >= c.limit {
			rowID++
			return nil
		}
		rowID++
	}
	return rows.Err()
}
