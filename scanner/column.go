package scanner

import (
	"reflect"
	"strings"
)

// Column describes one column of a Rows stream. It is the subset of
// *sql.ColumnType the codecs and metadata adapters rely on.
type Column interface {
	Name() string
	Length() (length int64, ok bool)
	DecimalSize() (precision, scale int64, ok bool)
	ScanType() reflect.Type
	Nullable() (nullable, ok bool)
	DatabaseTypeName() string
}

// NormalizeTypeName upper-cases a driver type name and strips the decorations
// some drivers add ("INT_TYPE", "decimal(10,2)", "VARCHAR(32)").
func NormalizeTypeName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSuffix(name, "_TYPE")
}

// sliceColumn is the column of an in-memory slice; its type name is the Go
// type of the value found in the first row.
type sliceColumn struct {
	index  int
	name   string
	goType string
}

func (c *sliceColumn) Index() int {
	return c.index
}

func (c *sliceColumn) Name() string {
	return c.name
}

func (c *sliceColumn) Length() (length int64, ok bool) {
	return 0, false
}

func (c *sliceColumn) DecimalSize() (precision, scale int64, ok bool) {
	return 0, 0, false
}

func (c *sliceColumn) ScanType() reflect.Type {
	return nil
}

func (c *sliceColumn) Nullable() (nullable, ok bool) {
	return false, false
}

func (c *sliceColumn) DatabaseTypeName() string {
	return c.goType
}
