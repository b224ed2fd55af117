package rowdata

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/meta"
	"github.com/go-data-exporter/hostdata/record"
)

// RecordListRowData is a row list of host records sharing one record
// format; each field is a column.
type RecordListRowData struct {
	list
	format *record.Format
}

func NewRecordListRowData(format *record.Format) (*RecordListRowData, error) {
	md, err := meta.NewRecordFormatMetaData(format)
	if err != nil {
		return nil, err
	}
	return &RecordListRowData{list: newList(md), format: format}, nil
}

func (d *RecordListRowData) RecordFormat() *record.Format {
	return d.format
}

// AddRecord appends a record. Its format must have the list's format name
// and field count.
func (d *RecordListRowData) AddRecord(rec *record.Record) error {
	if rec == nil {
		return errs.IllegalArgument("record", errs.ParameterValueNotValid)
	}
	f := rec.Format()
	if f.Name != d.format.Name || f.NumberOfFields() != d.format.NumberOfFields() {
		return errors.Wrapf(errs.IllegalArgument("record", errs.ParameterValueNotValid),
			"record format %s does not match %s", f.Name, d.format.Name)
	}
	d.appendRow(rec.Values())
	d.fire(d, rowAdded, len(d.rows)-1)
	return nil
}

// Load appends every record src yields. A failing source is reported as a
// RowDataError; the records read before the failure stay in the list.
func (d *RecordListRowData) Load(ctx context.Context, src record.Source) error {
	n := 0
	for {
		rec, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("loading records of ", d.format.Name, " stopped after ", n, " records: ", err)
			return errs.NewRowDataError("record "+d.format.Name, err)
		}
		if err := d.AddRecord(rec); err != nil {
			return err
		}
		n++
	}
	logger.Debug("loaded ", n, " records of format ", d.format.Name)
	return nil
}
