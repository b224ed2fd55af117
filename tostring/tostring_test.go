package tostring

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/hostdata/scanner"
)

func TestConvert(t *testing.T) {
	cases := []struct {
		in    any
		bytes Bytes
		want  String
	}{
		{nil, BytesRaw, Null},
		{"abc", BytesRaw, String{"abc", false}},
		{[]byte{0xc8, 0x85}, BytesHex, String{"C885", false}},
		{[]byte("raw"), BytesRaw, String{"raw", false}},
		{int16(-7), BytesRaw, String{"-7", false}},
		{float32(1.5), BytesRaw, String{"1.5", false}},
		{decimal.RequireFromString("-37.50"), BytesRaw, String{"-37.5", false}},
		{decimal.NullDecimal{}, BytesRaw, Null},
		{time.Time{}, BytesRaw, Null},
		{[]int{}, BytesRaw, Null},
		{map[string]int{"a": 1}, BytesRaw, String{`{"a":1}`, false}},
	}
	for _, c := range cases {
		if got := Convert(c.in, c.bytes); got != c.want {
			t.Errorf("Convert(%#v) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestMappers(t *testing.T) {
	m := Mappers{}
	Register(m, func(v int, md scanner.Metadata) String {
		return String{String: "row" + ToString(md.RowID).String + ":" + ToString(v).String}
	})

	if got := m.Convert(5, scanner.Metadata{RowID: 2}, BytesRaw); got.String != "row2:5" {
		t.Errorf("mapper not applied, got %q", got.String)
	}
	if got := m.Convert(int64(5), scanner.Metadata{}, BytesRaw); got.String != "5" {
		t.Errorf("int64 should use the default rules, got %q", got.String)
	}
	if got := m.Convert(nil, scanner.Metadata{}, BytesRaw); !got.IsNULL {
		t.Error("nil must stay NULL")
	}
}
