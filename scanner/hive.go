package scanner

import (
	"context"
	"reflect"
	"strings"

	"github.com/beltran/gohive"
)

type hiveRowsScanner struct {
	cursor         *gohive.Cursor
	ctx            context.Context
	columns        []Column
	currentRow     []any
	currentRowPtrs []any
}

// FromHiveCursor creates a Rows stream over an executed gohive cursor.
func FromHiveCursor(ctx context.Context, cursor *gohive.Cursor) Rows {
	return &hiveRowsScanner{cursor: cursor, ctx: ctx}
}

func (h *hiveRowsScanner) Next() bool {
	if h.ctx.Err() != nil {
		return false
	}
	return h.cursor.HasMore(h.ctx)
}

func (h *hiveRowsScanner) ScanRow() ([]any, error) {
	if h.columns == nil {
		if _, err := h.Columns(); err != nil {
			return nil, err
		}
	}
	if h.currentRow == nil {
		h.currentRow = make([]any, len(h.columns))
		h.currentRowPtrs = make([]any, len(h.columns))
	}
	for i := range len(h.columns) {
		h.currentRowPtrs[i] = &h.currentRow[i]
	}
	h.cursor.FetchOne(h.ctx, h.currentRowPtrs...)
	if h.cursor.Err != nil {
		return nil, h.cursor.Err
	}
	return h.currentRow, nil
}

// Columns reads the cursor description. Hive qualifies names with the table
// ("t.id") and suffixes types with "_TYPE"; both are stripped.
func (h *hiveRowsScanner) Columns() ([]Column, error) {
	if h.columns != nil {
		return h.columns, nil
	}
	for _, c := range h.cursor.Description() {
		if len(c) == 0 {
			continue
		}
		col := hiveColumn{name: c[0]}
		if len(c) > 1 {
			col.hiveType = c[1]
		}
		if _, colName, ok := strings.Cut(col.name, "."); ok {
			col.name = colName
		}
		col.hiveType = NormalizeTypeName(col.hiveType)
		h.columns = append(h.columns, &col)
	}
	if h.cursor.Err != nil {
		return nil, h.cursor.Err
	}
	return h.columns, nil
}

func (h *hiveRowsScanner) Driver() string {
	return "hive"
}

func (h *hiveRowsScanner) Err() error {
	if err := h.ctx.Err(); err != nil {
		return err
	}
	return h.cursor.Error()
}

type hiveColumn struct {
	name     string
	hiveType string
}

func (c *hiveColumn) Name() string {
	return c.name
}

func (c *hiveColumn) Length() (length int64, ok bool) {
	return 0, false
}

func (c *hiveColumn) DecimalSize() (precision, scale int64, ok bool) {
	return 0, 0, false
}

func (c *hiveColumn) ScanType() reflect.Type {
	return nil
}

func (c *hiveColumn) Nullable() (nullable, ok bool) {
	return false, false
}

func (c *hiveColumn) DatabaseTypeName() string {
	return c.hiveType
}
