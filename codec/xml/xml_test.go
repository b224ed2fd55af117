package xmlcodec

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/hostdata/meta"
	"github.com/go-data-exporter/hostdata/record"
	"github.com/go-data-exporter/hostdata/rowdata"
	"github.com/go-data-exporter/hostdata/scanner"
	"github.com/go-data-exporter/hostdata/tostring"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

func jobs(t *testing.T, names ...string) *rowdata.ListRowData {
	md, err := meta.DefineColumns(
		meta.Column{Name: "JOB", Type: meta.String},
		meta.Column{Name: "NUMBER", Type: meta.Integer},
		meta.Column{Name: "CPU", Type: meta.BigDecimal},
		meta.Column{Name: "STARTED", Type: meta.String},
	)
	if err != nil {
		t.Fatal(err)
	}
	d := rowdata.NewListRowData(md)
	started := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, name := range names {
		var cpu any = decimal.New(int64(i*15), -1)
		if i == 1 {
			cpu = nil
		}
		if err := d.AddRow([]any{name, int32(100 + i), cpu, started}); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func TestWriteRowData(t *testing.T) {
	d := jobs(t, "QZDASOINIT", "<QPADEV0001>", "QSYSARB")
	d.Absolute(1)
	var buf bytes.Buffer
	if err := New().Write(rowdata.Scanner(d), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	output := buf.String()

	if !strings.HasPrefix(output, xmlHeader+"<data>") {
		t.Error("missing XML declaration or root element")
	}
	if n := strings.Count(output, "<row>"); n != 3 {
		t.Errorf("expected 3 rows, got %d", n)
	}
	if !strings.Contains(output, "<JOB>&lt;QPADEV0001&gt;</JOB><NUMBER>101</NUMBER><STARTED>") {
		t.Errorf("NULL CPU should be omitted and markup escaped, got %s", output)
	}
	if !strings.Contains(output, "<CPU>3</CPU>") {
		t.Errorf("decimal not written, got %s", output)
	}
	if !strings.Contains(output, "2024-03-01T08:00:00Z") {
		t.Error("time not formatted as RFC 3339")
	}
	if d.Length() != 3 {
		t.Error("rows changed by the converter")
	}
}

func TestWriteRecords(t *testing.T) {
	f, err := record.NewFormat("MSGREC",
		record.FieldDescription{Name: "MSGID", Type: record.Character, Length: 7},
		record.FieldDescription{Name: "SEV", Type: record.Binary, Length: 2},
		record.FieldDescription{Name: "KEY", Type: record.Hex, Length: 2},
	)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := record.New(f, "CPF1124", int16(0), []byte{0xc8, 0x85})
	if err != nil {
		t.Fatal(err)
	}
	d, err := rowdata.NewRecordListRowData(f)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Load(context.Background(), record.NewSliceSource(rec)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := New(WithElements("messages", "message")).Write(rowdata.Scanner(d), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := xmlHeader + "<messages>\n<message><MSGID>CPF1124</MSGID><SEV>0</SEV><KEY>C885</KEY></message>\n</messages>\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWithCustomType(t *testing.T) {
	c := New(WithCustomType(func(v decimal.Decimal, md scanner.Metadata) tostring.String {
		return tostring.String{String: md.Column.Name() + "=" + v.StringFixed(2)}
	}))
	var buf bytes.Buffer
	if err := c.Write(rowdata.Scanner(jobs(t, "QZDASOINIT")), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<CPU>CPU=0.00</CPU>") {
		t.Errorf("custom function not applied, got: %s", buf.String())
	}
}

func TestWithPreProcessorFuncAndLimit(t *testing.T) {
	skipSecond := func(rowID int, row []string) ([]string, bool) {
		return row, row[0] != "QSYSARB"
	}
	d := jobs(t, "QZDASOINIT", "QSYSARB", "QPADEV0001", "QTCPWRK")
	var buf bytes.Buffer
	if err := New(WithPreProcessorFunc(skipSecond), WithLimit(2)).Write(rowdata.Scanner(d), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	output := buf.String()
	if strings.Contains(output, "QSYSARB") {
		t.Error("preprocessor did not filter the row")
	}
	if !strings.Contains(output, "QPADEV0001") || strings.Contains(output, "QTCPWRK") {
		t.Errorf("filtered rows must not count toward the limit, got %s", output)
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(scanner.FromData(nil), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Error("empty data should produce no output")
	}

	if err := New(WithLimit(0)).Write(rowdata.Scanner(jobs(t, "QZDASOINIT")), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Error("limit 0 should produce no output")
	}

	if err := New().Write(rowdata.Scanner(jobs(t)), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("a row list without rows should produce no output, got %q", buf.String())
	}
}

func TestElementName(t *testing.T) {
	cases := map[string]string{
		"CUSTNAME":     "CUSTNAME",
		"MAX STORAGE":  "MAX_STORAGE",
		"ADDR#1":       "ADDR_1",
		"1ST":          "_1ST",
		"":             "_",
		"first.second": "first.second",
	}
	for in, want := range cases {
		if got := ElementName(in); got != want {
			t.Errorf("ElementName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRawBytes(t *testing.T) {
	var buf bytes.Buffer
	s := scanner.FromDataWithColumns([]string{"KEY"}, [][]any{{[]byte("ab")}})
	if err := New(WithRawBytes()).Write(s, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<KEY>ab</KEY>") {
		t.Errorf("raw bytes not kept, got %q", buf.String())
	}
}
