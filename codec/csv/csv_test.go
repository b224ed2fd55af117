package csvcodec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/hostdata/scanner"
)

func TestWrite(t *testing.T) {
	data := [][]any{
		{1, "Henning", decimal.RequireFromString("-37.50")},
		{2, "a,b", nil},
	}
	s := scanner.FromDataWithColumns([]string{"ID", "NAME", "BALANCE"}, data)
	var buf bytes.Buffer
	if err := New(WithCustomNULL("NULL")).Write(s, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "ID,NAME,BALANCE\n1,Henning,-37.5\n2,\"a,b\",NULL\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestHeaderOnlyForEmptyData(t *testing.T) {
	s := scanner.FromDataWithColumns([]string{"A", "B"}, nil)
	var buf bytes.Buffer
	if err := New().Write(s, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.String() != "A,B\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestOptions(t *testing.T) {
	data := [][]any{{[]byte{0xc8, 0x85}, 1}, {[]byte{0x00}, 2}, {[]byte{0xff}, 3}}
	s := scanner.FromDataWithColumns([]string{"HEX", "N"}, data)
	var buf bytes.Buffer
	c := New(
		WithHexBytes(true),
		WithCustomDelimiter(';'),
		WithCRLF(true),
		WithCustomHeader([]string{"Raw", "Number"}),
		WithCustomType(func(v int, md scanner.Metadata) string {
			return strings.Repeat("#", v)
		}),
		WithPreProcessorFunc(func(row []string) ([]string, bool) {
			return row, row[0] != "00"
		}),
		WithLimit(1),
	)
	if err := c.Write(s, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "Raw;Number\r\nC885;#\r\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	s = scanner.FromDataWithColumns([]string{"HEX", "N"}, data)
	if err := New(WithHeader(false), WithLimit(2), WithPreProcessorFunc(func(row []string) ([]string, bool) {
		return row, row[1] != "1"
	})).Write(s, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("filtered rows must not count against the limit, got %q", buf.String())
	}
}

func TestCustomHeaderLength(t *testing.T) {
	s := scanner.FromDataWithColumns([]string{"A", "B"}, [][]any{{1, 2}})
	if err := New(WithCustomHeader([]string{"only"})).Write(s, &bytes.Buffer{}); err == nil {
		t.Error("expected an error for a short custom header")
	}
}
