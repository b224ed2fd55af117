package micro

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/meta"
	"github.com/go-data-exporter/hostdata/rowdata"
)

// Functions of RowDataService.
const (
	FnRowCount int32 = 0x0101 + iota
	FnMetaData
	FnFetch
)

// DefaultFetchSize is the number of rows FetchRowData asks for per call.
const DefaultFetchSize = 256

// RowDataService publishes a RowData read-only. The RowData cursor is
// moved while fetching; concurrent calls are serialized.
type RowDataService struct {
	mu   sync.Mutex
	data rowdata.RowData
}

func NewRowDataService(data rowdata.RowData) *RowDataService {
	return &RowDataService{data: data}
}

func (s *RowDataService) Accepts(fn int32) bool {
	return fn >= FnRowCount && fn <= FnFetch
}

func (s *RowDataService) Handle(ctx context.Context, fn int32, in *Reader, out *Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch fn {
	case FnRowCount:
		return out.WriteInt(int32(s.data.Length()))
	case FnMetaData:
		return writeMetaData(out, s.data.MetaData())
	case FnFetch:
		start, err := in.ReadInt()
		if err != nil {
			return err
		}
		count, err := in.ReadInt()
		if err != nil {
			return err
		}
		return s.fetch(ctx, int(start), int(count), out)
	}
	return errors.Wrapf(ErrUnknownFunction, "function %d", fn)
}

// fetch writes the number of rows that follow and then every value of
// every row.
func (s *RowDataService) fetch(ctx context.Context, start, count int, out *Writer) error {
	if start < 0 {
		return errs.IllegalArgument("start", errs.RangeNotValid)
	}
	if count < 0 {
		return errs.IllegalArgument("count", errs.RangeNotValid)
	}
	n := min(count, max(s.data.Length()-start, 0))
	if err := out.WriteInt(int32(n)); err != nil {
		return err
	}
	rows := rowdata.Window(s.data, start, n)
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		values, err := rows.ScanRow()
		if err != nil {
			return err
		}
		for _, v := range values {
			if err = out.WriteValue(v); err != nil {
				return err
			}
		}
	}
	return rows.Err()
}

func writeMetaData(out *Writer, md meta.RowMetaData) error {
	n := md.ColumnCount()
	if err := out.WriteInt(int32(n)); err != nil {
		return err
	}
	for i := range n {
		name, _ := md.ColumnName(i)
		label, _ := md.ColumnLabel(i)
		typ, _ := md.ColumnType(i)
		align, _ := md.ColumnAlignment(i)
		dir, _ := md.ColumnDirection(i)
		size, _ := md.ColumnDisplaySize(i)
		for _, err := range []error{
			out.WriteUTF(name),
			out.WriteUTF(label),
			out.WriteInt(int32(typ)),
			out.WriteByte(byte(align)),
			out.WriteByte(byte(dir)),
			out.WriteInt(int32(size)),
		} {
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func readMetaData(in *Reader) (*meta.ListMetaData, error) {
	n, err := in.ReadInt()
	if err != nil {
		return nil, err
	}
	md, err := meta.NewListMetaData(int(n))
	if err != nil {
		return nil, err
	}
	for i := range int(n) {
		name, err := in.ReadUTF()
		if err != nil {
			return nil, err
		}
		label, err := in.ReadUTF()
		if err != nil {
			return nil, err
		}
		typ, err := in.ReadInt()
		if err != nil {
			return nil, err
		}
		align, err := in.ReadByte()
		if err != nil {
			return nil, err
		}
		dir, err := in.ReadByte()
		if err != nil {
			return nil, err
		}
		size, err := in.ReadInt()
		if err != nil {
			return nil, err
		}
		for _, err := range []error{
			md.SetColumnName(i, name),
			md.SetColumnLabel(i, label),
			md.SetColumnType(i, meta.Type(typ)),
			md.SetColumnAlignment(i, meta.Alignment(align)),
			md.SetColumnDirection(i, meta.Direction(dir)),
			md.SetColumnDisplaySize(i, int(size)),
		} {
			if err != nil {
				return nil, errors.Wrapf(err, "column %d", i)
			}
		}
	}
	return md, nil
}

// RowCount asks a RowDataService for the number of rows.
func RowCount(ctx context.Context, c *Client) (int, error) {
	var n int32
	err := c.Call(ctx, FnRowCount, nil, func(in *Reader) (err error) {
		n, err = in.ReadInt()
		return err
	})
	return int(n), err
}

// FetchRowData copies the rows published by a RowDataService into a new
// ListRowData, fetchSize rows per call. Row properties are not transferred.
func FetchRowData(ctx context.Context, c *Client, fetchSize int) (*rowdata.ListRowData, error) {
	if fetchSize <= 0 {
		fetchSize = DefaultFetchSize
	}
	var md *meta.ListMetaData
	err := c.Call(ctx, FnMetaData, nil, func(in *Reader) (err error) {
		md, err = readMetaData(in)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch metadata")
	}
	d := rowdata.NewListRowData(md)
	width := md.ColumnCount()
	for start := 0; ; start += fetchSize {
		got := 0
		err = c.Call(ctx, FnFetch,
			func(out *Writer) error {
				if err := out.WriteInt(int32(start)); err != nil {
					return err
				}
				return out.WriteInt(int32(fetchSize))
			},
			func(in *Reader) error {
				n, err := in.ReadInt()
				if err != nil {
					return err
				}
				for range n {
					row := make([]any, width)
					for i := range row {
						if row[i], err = in.ReadValue(); err != nil {
							return err
						}
					}
					if err = d.AddRow(row); err != nil {
						return err
					}
				}
				got = int(n)
				return nil
			})
		if err != nil {
			return nil, errors.Wrapf(err, "fetch rows from %d", start)
		}
		if got < fetchSize {
			logger.Debug("fetched ", d.Length(), " rows")
			return d, nil
		}
	}
}
