// Package xmlcodec writes rows as an XML document with one element per row
// and one child element per non-NULL column.
package xmlcodec

import (
	"encoding/xml"
	"io"
	"strings"
	"unicode"

	"github.com/go-data-exporter/hostdata/scanner"
	"github.com/go-data-exporter/hostdata/tostring"
)

// xmlCodec implements the Codec interface to export tabular data as XML.
type xmlCodec struct {
	customMapper     tostring.Mappers
	preProcessorFunc func(rowID int, row []string) ([]string, bool)
	limit            int
	rootElement      string
	rowElement       string
	bytes            tostring.Bytes
}

// Option defines a functional configuration option for xmlCodec.
type Option func(*xmlCodec)

// New creates a new XML codec with the provided configuration options.
func New(opts ...Option) *xmlCodec {
	c := &xmlCodec{
		customMapper: tostring.Mappers{},
		limit:        -1,
		rootElement:  "data",
		rowElement:   "row",
		bytes:        tostring.BytesHex,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCustomType registers a custom string conversion function for a specific Go type.
func WithCustomType[T any](fn func(v T, metadata scanner.Metadata) tostring.String) Option {
	return func(c *xmlCodec) {
		if c.customMapper == nil {
			c.customMapper = tostring.Mappers{}
		}
		tostring.Register(c.customMapper, fn)
	}
}

// WithPreProcessorFunc sets a function to preprocess or filter each row before writing.
func WithPreProcessorFunc(fn func(rowID int, row []string) ([]string, bool)) Option {
	return func(c *xmlCodec) {
		c.preProcessorFunc = fn
	}
}

// WithLimit sets a limit on the number of rows to write. Negative means unlimited.
func WithLimit(limit int) Option {
	return func(c *xmlCodec) {
		c.limit = limit
	}
}

// WithElements renames the document and row elements.
func WithElements(root, row string) Option {
	return func(c *xmlCodec) {
		c.rootElement = ElementName(root)
		c.rowElement = ElementName(row)
	}
}

// WithRawBytes writes byte array values unchanged instead of as hex.
func WithRawBytes() Option {
	return func(c *xmlCodec) {
		c.bytes = tostring.BytesRaw
	}
}

// ElementName turns a column name into a valid XML element name.
// Host column names may contain blanks, '#', '@' or '$'.
func ElementName(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		case i == 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
			b.WriteByte('_')
		default:
			r = '_'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Write writes the scanned rows as an XML document to the provided writer.
// Nothing is written when no row passes the limit and preprocessor.
func (c *xmlCodec) Write(rows scanner.Rows, writer io.Writer) (err error) {
	if c.limit == 0 {
		return nil
	}
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = ElementName(col.Name())
	}
	w := &errWriter{w: writer}
	rowID := 0
	defer func() {
		if rowID > 0 {
			w.writeString("</" + c.rootElement + ">\n")
			if err == nil {
				err = w.err
			}
		}
	}()
	for rows.Next() {
		values, err := rows.ScanRow()
		if err != nil {
			return err
		}
		row := make([]string, len(values))
		null := make([]bool, len(values))
		for i := range values {
			meta := scanner.Metadata{
				RowID:  rowID + 1,
				Driver: rows.Driver(),
				Column: cols[i],
			}
			s := c.customMapper.Convert(values[i], meta, c.bytes)
			null[i] = s.IsNULL
			row[i] = s.String
		}

		writeRow := true
		if c.preProcessorFunc != nil {
			row, writeRow = c.preProcessorFunc(rowID+1, row)
		}
		if !writeRow {
			continue
		}
		if rowID == 0 {
			w.writeString(xml.Header)
			w.writeString("<" + c.rootElement + ">\n")
		}
		w.writeString("<" + c.rowElement + ">")
		for i := range row {
			if null[i] {
				continue
			}
			w.writeString("<" + names[i] + ">")
			w.escape(row[i])
			w.writeString("</" + names[i] + ">")
		}
		w.writeString("</" + c.rowElement + ">\n")
		rowID++
		if w.err != nil {
			return w.err
		}
		if c.limit >= 0 && rowID >= c.limit {
			return nil
		}
	}

	return rows.Err()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) writeString(s string) {
	if ew.err == nil {
		_, ew.err = io.WriteString(ew.w, s)
	}
}

func (ew *errWriter) escape(s string) {
	if ew.err == nil {
		ew.err = xml.EscapeText(ew.w, []byte(s))
	}
}
