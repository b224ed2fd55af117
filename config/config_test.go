package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrivets/log4g"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
source:
  dsn: file:orders.db
  query: SELECT * FROM orders
`))
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.Source.Driver)
	assert.Equal(t, 4, cfg.Source.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.Source.ConnMaxLifetime)
	assert.Equal(t, "csv", cfg.Export.Format)
	assert.Equal(t, "127.0.0.1:8471", cfg.Serve.Address)
	assert.Equal(t, log4g.INFO, cfg.Log.LogLevel())
}

func TestParseFullFile(t *testing.T) {
	cfg, err := Parse([]byte(`
log:
  level: trace
source:
  driver: mysql
  host: db.example.com
  database: qgpl
  username: qsecofr
  query: SELECT 1
  maxOpenConns: 10
  connMaxLifetime: 90s
  timeout: 5s
export:
  format: msgpack
  output: out.bin
  maxTableSize: 500
serve:
  address: ":9000"
  maxFrameSize: 1048576
`))
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Source.Driver)
	assert.Equal(t, 90*time.Second, cfg.Source.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 2, cfg.Source.MaxIdleConns, "defaults survive a partial section")
	assert.Equal(t, 500, cfg.Export.MaxTableSize)
	assert.Equal(t, ":9000", cfg.Serve.Address)
	assert.Equal(t, log4g.TRACE, cfg.Log.LogLevel())
}

func TestValidation(t *testing.T) {
	cases := map[string]string{
		"unknown driver": "source: {driver: db2, dsn: x, query: q}",
		"missing query":  "source: {dsn: x}",
		"sqlite no dsn":  "source: {host: h, query: q}",
		"hive no host":   "source: {driver: hive, dsn: x, query: q}",
		"bad format":     "source: {dsn: x, query: q}\nexport: {format: html}",
		"negative size":  "source: {dsn: x, query: q}\nexport: {maxTableSize: -1}",
		"long delimiter": "source: {dsn: x, query: q}\nexport: {delimiter: ';;'}",
		"bad level":      "log: {level: verbose}\nsource: {dsn: x, query: q}",
		"bad address":    "source: {dsn: x, query: q}\nserve: {address: nowhere}",
		"bad yaml":       "source: [",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "hostdata.yaml")
	require.NoError(t, os.WriteFile(name, []byte("source: {driver: hive, host: hs2, query: SELECT 1}\n"), 0o600))
	cfg, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, "hive", cfg.Source.Driver)
	assert.Equal(t, "NONE", cfg.Source.Auth)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
