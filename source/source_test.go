package source

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-data-exporter/hostdata/config"
	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/meta"
)

func sqliteConfig(t *testing.T) config.SourceConfig {
	cfg := config.Default().Source
	cfg.DSN = filepath.Join(t.TempDir(), "jobs.db")
	cfg.Query = "SELECT name, cpu FROM jobs ORDER BY name"
	return cfg
}

func TestSQLiteQuery(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, sqliteConfig(t))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`CREATE TABLE jobs (name TEXT, cpu REAL); INSERT INTO jobs VALUES ('QZDASOINIT', 1.5), ('QPADEV0001', 0.25)`)
	require.NoError(t, err)

	d, err := s.Query(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Length())
	typ, _ := d.MetaData().ColumnType(1)
	assert.Equal(t, meta.Double, typ)
	require.True(t, d.First())
	v, _ := d.Object(0)
	assert.Equal(t, "QPADEV0001", v)

	_, err = s.QueryString(ctx, "SELECT * FROM missing")
	var rde *errs.RowDataError
	assert.True(t, errors.As(err, &rde))

	require.NoError(t, s.Close())
	_, err = s.Query(ctx)
	assert.True(t, errs.IsIllegalState(err))
}

func TestOpenFailureIsPoolError(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DSN = filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")
	_, err := Open(context.Background(), cfg)
	var pe *errs.PoolError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "sqlite3", pe.Driver)

	cfg.Driver = "db2"
	_, err = Open(context.Background(), cfg)
	assert.True(t, errs.IsIllegalArgument(err))
}

func TestMySQLDSN(t *testing.T) {
	cfg := config.SourceConfig{Host: "db.example.com", Username: "qsecofr", Password: "secret", Database: "qgpl"}
	assert.Equal(t, "qsecofr:secret@tcp(db.example.com:3306)/qgpl?parseTime=true", MySQLDSN(cfg))
	cfg.Port = 3307
	assert.Contains(t, MySQLDSN(cfg), "tcp(db.example.com:3307)")
}

func TestHiveConfiguration(t *testing.T) {
	hc := hiveConfiguration(config.SourceConfig{Username: "hive", Database: "sales", FetchSize: 50})
	assert.Equal(t, "hive", hc.Username)
	assert.Equal(t, "sales", hc.Database)
	assert.EqualValues(t, 50, hc.FetchSize)
	assert.Equal(t, "NONE", hiveAuth(""))
	assert.Equal(t, defaultHivePort, portOr(0, defaultHivePort))
}
