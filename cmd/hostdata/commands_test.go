package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-data-exporter/hostdata/config"
	"github.com/go-data-exporter/hostdata/meta"
	"github.com/go-data-exporter/hostdata/rowdata"
)

func jobs(t *testing.T) *rowdata.ListRowData {
	md, err := meta.DefineColumns(
		meta.Column{Name: "JOB", Type: meta.String},
		meta.Column{Name: "KEY", Type: meta.ByteArray},
	)
	require.NoError(t, err)
	d := rowdata.NewListRowData(md)
	for _, job := range []string{"QZDASOINIT", "QPADEV0001", "QSYSARB"} {
		require.NoError(t, d.AddRow([]any{job, []byte{0xc1}}))
	}
	return d
}

func TestPageFileName(t *testing.T) {
	assert.Equal(t, "out-1.csv", pageFileName("out.csv", 0))
	assert.Equal(t, "/tmp/x/jobs-3", pageFileName("/tmp/x/jobs", 2))
}

func TestExportToStdout(t *testing.T) {
	var buf bytes.Buffer
	ec := config.ExportConfig{Format: "csv", Delimiter: ";", HexBytes: true}
	require.NoError(t, export(jobs(t), ec, &buf))
	assert.Equal(t, "JOB;KEY\nQZDASOINIT;C1\nQPADEV0001;C1\nQSYSARB;C1\n", buf.String())
}

func TestExportPagesToFiles(t *testing.T) {
	dir := t.TempDir()
	ec := config.ExportConfig{Format: "csv", Output: filepath.Join(dir, "jobs.csv"), MaxTableSize: 2}
	require.NoError(t, export(jobs(t), ec, nil))

	first, err := os.ReadFile(filepath.Join(dir, "jobs-1.csv"))
	require.NoError(t, err)
	assert.Equal(t, "JOB,KEY\nQZDASOINIT,\xc1\nQPADEV0001,\xc1\n", string(first))
	second, err := os.ReadFile(filepath.Join(dir, "jobs-2.csv"))
	require.NoError(t, err)
	assert.Equal(t, "JOB,KEY\nQSYSARB,\xc1\n", string(second))
}

func TestNewCodec(t *testing.T) {
	for _, f := range []string{"csv", "json", "ndjson", "xml", "msgpack"} {
		cd, err := newCodec(config.ExportConfig{Format: f})
		require.NoError(t, err, f)
		assert.NotNil(t, cd, f)
	}
	_, err := newCodec(config.ExportConfig{Format: "html"})
	assert.Error(t, err)
}
