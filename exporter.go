// Package hostdata exports cursor-addressed row data (host records,
// resource lists, SQL result sets) through pluggable codecs, optionally
// split into pages of a maximum table size.
package hostdata

import (
	"bytes"
	"io"
	"os"

	"github.com/jrivets/log4g"
	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/codec"
	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/rowdata"
)

var logger = log4g.GetLogger("hostdata")

type Exporter struct {
	data         rowdata.RowData
	codec        codec.Codec
	maxTableSize int
}

type Option func(*Exporter)

// WithMaximumTableSize splits the output into pages of at most n rows.
// Zero, the default, writes everything as one page; negative sizes count as zero.
func WithMaximumTableSize(n int) Option {
	return func(e *Exporter) {
		e.maxTableSize = max(n, 0)
	}
}

func New(data rowdata.RowData, codec codec.Codec, opts ...Option) *Exporter {
	e := &Exporter{
		data:  data,
		codec: codec,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetMaximumTableSize changes the page size; n must not be negative.
func (e *Exporter) SetMaximumTableSize(n int) error {
	if n < 0 {
		return errs.IllegalArgument("maximumTableSize", errs.RangeNotValid)
	}
	e.maxTableSize = n
	return nil
}

func (e *Exporter) MaximumTableSize() int {
	return e.maxTableSize
}

// NumberOfPages is the number of pages WritePage accepts. An empty list
// still has one page so that codecs with headers render them.
func (e *Exporter) NumberOfPages() int {
	n := e.data.Length()
	if e.maxTableSize == 0 || n == 0 {
		return 1
	}
	return (n + e.maxTableSize - 1) / e.maxTableSize
}

// Write writes all rows, ignoring the page size. The cursor position of the
// row data is restored afterwards.
func (e *Exporter) Write(writer io.Writer) error {
	defer e.keepPosition()()
	return e.codec.Write(rowdata.Scanner(e.data), writer)
}

// WritePage writes the rows of page, counted from zero.
func (e *Exporter) WritePage(page int, writer io.Writer) error {
	if page < 0 || page >= e.NumberOfPages() {
		return errs.IllegalArgument("page", errs.RangeNotValid)
	}
	defer e.keepPosition()()
	if e.maxTableSize == 0 {
		return e.codec.Write(rowdata.Scanner(e.data), writer)
	}
	logger.Trace("writing page ", page+1, " of ", e.NumberOfPages())
	return e.codec.Write(rowdata.Window(e.data, page*e.maxTableSize, e.maxTableSize), writer)
}

// Pages renders every page in memory.
func (e *Exporter) Pages() ([][]byte, error) {
	pages := make([][]byte, e.NumberOfPages())
	for i := range pages {
		var buf bytes.Buffer
		if err := e.WritePage(i, &buf); err != nil {
			return nil, errors.Wrapf(err, "page %d", i)
		}
		pages[i] = buf.Bytes()
	}
	return pages, nil
}

func (e *Exporter) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := e.Write(f); err != nil {
		return err
	}
	return f.Close()
}

func (e *Exporter) keepPosition() func() {
	pos := e.data.CurrentPosition()
	return func() {
		e.data.Absolute(pos)
	}
}
