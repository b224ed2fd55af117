// Package scanner defines the forward-only row stream consumed by the codecs
// and the adapters that produce it from SQL result sets, Hive cursors and
// in-memory slices.
package scanner

// Rows is a forward-only stream of rows. Next must be called before each
// ScanRow; the slice returned by ScanRow may be reused by the next call.
type Rows interface {
	Next() bool
	ScanRow() ([]any, error)
	Columns() ([]Column, error)
	Driver() string
	Err() error
}

// Metadata is handed to custom type mappers together with the value.
type Metadata struct {
	RowID  int
	Driver string
	Column Column
}
