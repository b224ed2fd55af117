package rowdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/meta"
)

func newCustomers(t *testing.T, n int) *ListRowData {
	md, err := meta.DefineColumns(
		meta.Column{Name: "ID", Type: meta.Integer},
		meta.Column{Name: "NAME", Type: meta.String},
	)
	require.NoError(t, err)
	d := NewListRowData(md)
	for i := range n {
		require.NoError(t, d.AddRow([]any{i, string(rune('a' + i))}))
	}
	return d
}

func TestEmptyListCursor(t *testing.T) {
	d := newCustomers(t, 0)

	assert.True(t, d.IsBeforeFirst())
	assert.False(t, d.First())
	assert.False(t, d.Last())
	assert.False(t, d.Next())
	assert.False(t, d.Previous())
	assert.Equal(t, -1, d.CurrentPosition())

	for _, n := range []int{-5, -1, 0, 1, 100} {
		assert.False(t, d.Absolute(n), "absolute(%d)", n)
		assert.Equal(t, -1, d.CurrentPosition(), "absolute(%d)", n)
		assert.False(t, d.Relative(n), "relative(%d)", n)
		assert.Equal(t, -1, d.CurrentPosition(), "relative(%d)", n)
	}

	_, err := d.Object(0)
	assert.True(t, errs.IsIllegalState(err))
	_, err = d.RowProperties()
	assert.True(t, errs.IsIllegalState(err))
}

func TestNextWalksToAfterLast(t *testing.T) {
	d := newCustomers(t, 3)
	d.BeforeFirst()
	for i := range d.Length() {
		assert.True(t, d.Next(), "next #%d", i+1)
		assert.Equal(t, i, d.CurrentPosition())
	}
	assert.True(t, d.IsLast())
	assert.False(t, d.Next(), "one more next moves after the last row")
	assert.True(t, d.IsAfterLast())
	assert.Equal(t, 3, d.CurrentPosition())
	assert.False(t, d.Next(), "next at after-last stays there")
	assert.Equal(t, 3, d.CurrentPosition())
}

func TestPreviousWalksToBeforeFirst(t *testing.T) {
	d := newCustomers(t, 2)
	d.AfterLast()
	assert.True(t, d.Previous())
	assert.True(t, d.IsLast())
	assert.True(t, d.Previous())
	assert.True(t, d.IsFirst())
	assert.False(t, d.Previous())
	assert.True(t, d.IsBeforeFirst())
	assert.False(t, d.Previous())
	assert.Equal(t, -1, d.CurrentPosition())
}

func TestAbsoluteAndRelativeClamp(t *testing.T) {
	d := newCustomers(t, 4)
	cases := []struct {
		index int
		ok    bool
		pos   int
	}{
		{-3, false, -1},
		{0, true, 0},
		{3, true, 3},
		{4, false, 4},
		{99, false, 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, d.Absolute(c.index), "absolute(%d)", c.index)
		assert.Equal(t, c.pos, d.CurrentPosition(), "absolute(%d)", c.index)
	}

	d.Absolute(1)
	assert.True(t, d.Relative(2))
	assert.Equal(t, 3, d.CurrentPosition())
	assert.False(t, d.Relative(5))
	assert.Equal(t, 4, d.CurrentPosition())
	assert.False(t, d.Relative(-10))
	assert.Equal(t, -1, d.CurrentPosition())
}

func TestCursorNeverLeavesBounds(t *testing.T) {
	d := newCustomers(t, 3)
	moves := []func() bool{d.Next, d.Previous, d.First, d.Last,
		func() bool { return d.Relative(2) }, func() bool { return d.Relative(-2) },
		func() bool { return d.Absolute(7) }, func() bool { return d.Absolute(-7) }}
	for i := range 200 {
		moves[(i*7+i/3)%len(moves)]()
		pos := d.CurrentPosition()
		assert.True(t, pos >= -1 && pos <= d.Length(), "position %d out of bounds", pos)
	}
}

func TestObjectAccess(t *testing.T) {
	d := newCustomers(t, 2)
	require.True(t, d.Last())
	v, err := d.Object(1)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	_, err = d.Object(2)
	assert.True(t, errs.IsIllegalArgument(err))

	d.AfterLast()
	_, err = d.Object(0)
	assert.True(t, errs.IsIllegalState(err))
	_, err = d.ObjectProperties(0)
	assert.True(t, errs.IsIllegalState(err))
}

func TestAddRowValidation(t *testing.T) {
	d := newCustomers(t, 0)
	assert.True(t, errs.IsIllegalArgument(d.AddRow([]any{1})))
	assert.True(t, errs.IsIllegalArgument(d.AddRow([]any{"x", "y"})), "string in an Integer column")
	assert.True(t, errs.IsIllegalArgument(d.AddRowWithProperties([]any{1, "x"}, []PropertyList{{"link"}})))
	assert.NoError(t, d.AddRow([]any{nil, nil}))

	noMeta := NewListRowData(nil)
	assert.True(t, errs.IsIllegalState(noMeta.AddRow([]any{})))
}

func TestPropertyListsTrackColumns(t *testing.T) {
	d := newCustomers(t, 0)
	require.NoError(t, d.AddRowWithProperties([]any{1, "x"}, []PropertyList{nil, {"https://example.com/1"}}))
	require.NoError(t, d.AddRow([]any{2, "y"}))

	require.True(t, d.First())
	p, err := d.ObjectProperties(1)
	require.NoError(t, err)
	assert.Equal(t, PropertyList{"https://example.com/1"}, p)

	require.True(t, d.Next())
	props, err := d.RowProperties()
	require.NoError(t, err)
	assert.Len(t, props, d.MetaData().ColumnCount())
	require.NoError(t, d.SetObjectProperties(PropertyList{"tag"}, 0))
	p, _ = d.ObjectProperties(0)
	assert.Equal(t, PropertyList{"tag"}, p)

	assert.True(t, errs.IsIllegalArgument(d.SetRowProperties([]PropertyList{nil}, 0)))
	require.NoError(t, d.SetRowProperties([]PropertyList{{"a"}, {"b"}}, 0))
	d.First()
	p, _ = d.ObjectProperties(1)
	assert.Equal(t, PropertyList{"b"}, p)
}

func TestInsertSetRemove(t *testing.T) {
	d := newCustomers(t, 3)
	require.True(t, d.Absolute(1))

	require.NoError(t, d.InsertRow([]any{9, "z"}, nil, 0))
	v, _ := d.Object(1)
	assert.Equal(t, "b", v, "cursor follows its row across an insert")
	assert.Equal(t, 2, d.CurrentPosition())

	require.NoError(t, d.SetRow([]any{8, "y"}, nil, 0))
	d.First()
	v, _ = d.Object(0)
	assert.Equal(t, 8, v)

	assert.True(t, errs.IsIllegalArgument(d.InsertRow([]any{1, "a"}, nil, 9)))
	assert.True(t, errs.IsIllegalArgument(d.SetRow([]any{1, "a"}, nil, 4)))
	assert.True(t, errs.IsIllegalArgument(d.RemoveRow(-1)))

	d.AfterLast()
	require.NoError(t, d.RemoveRow(3))
	assert.Equal(t, 3, d.Length())
	assert.True(t, d.IsAfterLast(), "cursor after last stays after last")

	d.Last()
	require.NoError(t, d.RemoveRow(2))
	assert.Equal(t, 2, d.CurrentPosition())
	assert.True(t, d.IsAfterLast())

	for d.Length() > 0 {
		require.NoError(t, d.RemoveRow(0))
	}
	pos := d.CurrentPosition()
	assert.True(t, pos >= -1 && pos <= 0)
}

func TestSetMetaDataClearsRows(t *testing.T) {
	d := newCustomers(t, 2)
	d.Last()
	md, err := meta.NewListMetaData(1)
	require.NoError(t, err)
	d.SetMetaData(md)
	assert.Equal(t, 0, d.Length())
	assert.True(t, d.IsBeforeFirst())
	assert.Equal(t, 1, d.ListMetaData().ColumnCount())
	assert.NotSame(t, md, d.ListMetaData())
}

func TestMetaDataChangesAfterRowsAreIsolated(t *testing.T) {
	md, err := meta.NewListMetaData(1)
	require.NoError(t, err)
	d := NewListRowData(md)
	require.NoError(t, d.AddRow([]any{"a"}))

	require.NoError(t, md.SetColumnCount(2))
	require.NoError(t, md.SetColumnType(0, meta.Integer))
	assert.Equal(t, 1, d.MetaData().ColumnCount())

	require.True(t, d.First())
	v, err := d.Object(0)
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	_, err = d.Object(1)
	assert.True(t, errs.IsIllegalArgument(err))
	props, err := d.RowProperties()
	require.NoError(t, err)
	assert.Len(t, props, d.MetaData().ColumnCount())
	assert.NoError(t, d.AddRow([]any{"b"}), "rows still validate against the copied columns")

	copied := d.ListMetaData()
	require.NoError(t, copied.SetColumnCount(3))
	assert.Equal(t, 1, d.MetaData().ColumnCount())

	d.SetMetaData(md)
	assert.Equal(t, 0, d.Length())
	assert.Equal(t, 2, d.MetaData().ColumnCount())
	assert.True(t, errs.IsIllegalArgument(d.AddRow([]any{"x", 1})), "string in the Integer column")
	assert.NoError(t, d.AddRow([]any{1, "x"}))
}

func TestListeners(t *testing.T) {
	d := newCustomers(t, 0)
	var added, changed, removed []int
	remove := d.AddRowDataListener(ListenerFuncs{
		Added:   func(e Event) { added = append(added, e.Row) },
		Changed: func(e Event) { changed = append(changed, e.Row) },
		Removed: func(e Event) { removed = append(removed, e.Row) },
	})

	require.NoError(t, d.AddRow([]any{1, "a"}))
	require.NoError(t, d.InsertRow([]any{0, "z"}, nil, 0))
	require.NoError(t, d.SetRow([]any{2, "b"}, nil, 1))
	require.NoError(t, d.RemoveRow(0))
	assert.Equal(t, []int{0, 0}, added)
	assert.Equal(t, []int{1}, changed)
	assert.Equal(t, []int{0}, removed)

	remove()
	require.NoError(t, d.AddRow([]any{3, "c"}))
	assert.Len(t, added, 2)
}
