package msgpackcodec

import (
	"bytes"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/go-data-exporter/hostdata/scanner"
)

func decodeAll(t *testing.T, data []byte) [][]any {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	var out [][]any
	for {
		var row []any
		err := dec.Decode(&row)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, row)
	}
}

func TestWriteArrays(t *testing.T) {
	s := scanner.FromDataWithColumns([]string{"ID", "NAME", "PRICE", "KEY"}, [][]any{
		{1, "Widget", decimal.RequireFromString("9.99"), []byte{0xc8}},
		{2, nil, decimal.RequireFromString("-1.5"), nil},
	})
	var buf bytes.Buffer
	require.NoError(t, New().Write(s, &buf))

	got := decodeAll(t, buf.Bytes())
	require.Len(t, got, 3)
	assert.Equal(t, []any{"ID", "NAME", "PRICE", "KEY"}, got[0])
	assert.EqualValues(t, 1, got[1][0])
	assert.Equal(t, "Widget", got[1][1])
	assert.Equal(t, "9.99", got[1][2])
	assert.Equal(t, []byte{0xc8}, got[1][3])
	assert.Nil(t, got[2][1])
	assert.Equal(t, "-1.5", got[2][2])
}

func TestWriteMaps(t *testing.T) {
	s := scanner.FromDataWithColumns([]string{"ID", "NAME"}, [][]any{{1, "a"}, {2, "b"}, {3, "c"}})
	var buf bytes.Buffer
	c := New(
		WithMapRows(true),
		WithLimit(2),
		WithCustomType(func(v string, md scanner.Metadata) any {
			return v + v
		}),
	)
	require.NoError(t, c.Write(s, &buf))

	dec := msgpack.NewDecoder(&buf)
	var first map[string]any
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "aa", first["NAME"])
	var second map[string]any
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "bb", second["NAME"])
	var rest map[string]any
	assert.Equal(t, io.EOF, dec.Decode(&rest))
}

func TestPreProcessorAndNoHeader(t *testing.T) {
	s := scanner.FromData([][]any{{1}, {2}, {3}})
	var buf bytes.Buffer
	c := New(WithHeader(false), WithPreProcessorFunc(func(rowID int, row []any) ([]any, bool) {
		return row, row[0] != 2
	}))
	require.NoError(t, c.Write(s, &buf))
	got := decodeAll(t, buf.Bytes())
	require.Len(t, got, 2)
	assert.EqualValues(t, 3, got[1][0])
}
