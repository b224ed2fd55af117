// Package source opens the databases hostdata exports from and loads the
// configured query into row data.
package source

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/beltran/gohive"
	"github.com/go-sql-driver/mysql"
	"github.com/jrivets/log4g"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/config"
	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/rowdata"
	"github.com/go-data-exporter/hostdata/scanner"
)

var logger = log4g.GetLogger("hostdata.source")

const (
	defaultMySQLPort = 3306
	defaultHivePort  = 10000
)

// Source is an open connection pool for one configured database.
type Source struct {
	cfg  config.SourceConfig
	db   *sql.DB
	hive *gohive.Connection
}

// Open connects to the configured database and checks it is reachable.
// Connection failures are returned as *errs.PoolError.
func Open(ctx context.Context, cfg config.SourceConfig) (*Source, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	s := &Source{cfg: cfg}
	switch cfg.Driver {
	case "sqlite3", "mysql":
		dsn := cfg.DSN
		if dsn == "" && cfg.Driver == "mysql" {
			dsn = MySQLDSN(cfg)
		}
		db, err := sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, errs.NewPoolError(cfg.Driver, err)
		}
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		if err = db.PingContext(ctx); err != nil {
			db.Close()
			return nil, errs.NewPoolError(cfg.Driver, err)
		}
		s.db = db
	case "hive":
		conn, err := gohive.Connect(cfg.Host, portOr(cfg.Port, defaultHivePort), hiveAuth(cfg.Auth), hiveConfiguration(cfg))
		if err != nil {
			return nil, errs.NewPoolError(cfg.Driver, err)
		}
		s.hive = conn
	default:
		return nil, errors.Wrapf(errs.IllegalArgument("driver", errs.ParameterValueNotValid), "driver %q", cfg.Driver)
	}
	logger.Info("opened ", cfg.Driver, " source")
	return s, nil
}

// FromDB wraps an already open database handle.
func FromDB(db *sql.DB, driver string) *Source {
	return &Source{cfg: config.SourceConfig{Driver: driver}, db: db}
}

// MySQLDSN builds a DSN from the connection fields.
func MySQLDSN(cfg config.SourceConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Host + ":" + strconv.Itoa(portOr(cfg.Port, defaultMySQLPort))
	mc.DBName = cfg.Database
	mc.ParseTime = true
	return mc.FormatDSN()
}

func portOr(port, def int) int {
	if port == 0 {
		return def
	}
	return port
}

func hiveAuth(auth string) string {
	if auth == "" {
		return "NONE"
	}
	return auth
}

func hiveConfiguration(cfg config.SourceConfig) *gohive.ConnectConfiguration {
	hc := gohive.NewConnectConfiguration()
	hc.Username = cfg.Username
	hc.Password = cfg.Password
	hc.Database = cfg.Database
	if cfg.FetchSize > 0 {
		hc.FetchSize = cfg.FetchSize
	}
	return hc
}

func (s *Source) Driver() string {
	return s.cfg.Driver
}

// Query runs the configured query.
func (s *Source) Query(ctx context.Context) (rowdata.RowData, error) {
	return s.QueryString(ctx, s.cfg.Query)
}

// QueryString runs query and loads the whole result. Load failures are
// returned as *errs.RowDataError.
func (s *Source) QueryString(ctx context.Context, query string) (rowdata.RowData, error) {
	if s.hive != nil {
		return s.queryHive(ctx, query)
	}
	if s.db == nil {
		return nil, errs.IllegalState("source", errs.ObjectMustBeOpen)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errs.NewRowDataError(s.cfg.Driver, err)
	}
	d, err := rowdata.LoadSQLResultSet(rows, s.cfg.Driver)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Source) queryHive(ctx context.Context, query string) (rowdata.RowData, error) {
	cursor := s.hive.Cursor()
	defer cursor.Close()
	cursor.Exec(ctx, query)
	if cursor.Err != nil {
		return nil, errs.NewRowDataError("hive", cursor.Err)
	}
	d, err := rowdata.LoadRows(scanner.FromHiveCursor(ctx, cursor))
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Source) Close() error {
	var err error
	if s.db != nil {
		err = s.db.Close()
		s.db = nil
	}
	if s.hive != nil {
		err = s.hive.Close()
		s.hive = nil
	}
	return err
}
