// Package config reads the YAML configuration of the hostdata command.
// Defaults are applied first, then the file, then validation.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jrivets/log4g"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Source SourceConfig `yaml:"source"`
	Export ExportConfig `yaml:"export"`
	Serve  ServeConfig  `yaml:"serve"`
}

type LogConfig struct {
	// Level overrides the root logger level: fatal, error, warn, info, debug or trace.
	Level string `yaml:"level" validate:"omitempty,oneof=fatal error warn info debug trace"`
	// File is a log4g properties file.
	File string `yaml:"file"`
}

type SourceConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=sqlite3 mysql hive"`
	// DSN is used as is for sqlite3 and mysql. Without it a mysql DSN is
	// built from the connection fields below.
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host" validate:"required_without=DSN"`
	// Port 0 selects the driver default (3306 for mysql, 10000 for hive).
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// Auth is the hive authentication mode (NONE, NOSASL, KERBEROS, LDAP, CUSTOM).
	Auth  string `yaml:"auth" validate:"omitempty,oneof=NONE NOSASL KERBEROS LDAP CUSTOM"`
	Query string `yaml:"query" validate:"required"`

	MaxOpenConns    int           `yaml:"maxOpenConns" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"maxIdleConns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime" validate:"gte=0"`
	FetchSize       int64         `yaml:"fetchSize" validate:"gte=0"`
	Timeout         time.Duration `yaml:"timeout" validate:"gte=0"`
}

type ExportConfig struct {
	Format string `yaml:"format" validate:"oneof=csv json ndjson xml msgpack"`
	// Output is a file name; empty or "-" writes to stdout.
	Output string `yaml:"output"`
	// MaxTableSize splits the output into one file per page of this many
	// rows. Zero writes a single table.
	MaxTableSize int    `yaml:"maxTableSize" validate:"gte=0"`
	NullValue    string `yaml:"nullValue"`
	Delimiter    string `yaml:"delimiter" validate:"omitempty,len=1"`
	HexBytes     bool   `yaml:"hexBytes"`
}

type ServeConfig struct {
	Address      string `yaml:"address" validate:"required,hostname_port"`
	MaxFrameSize int    `yaml:"maxFrameSize" validate:"gte=0"`
}

// Default returns the configuration used for everything the file omits.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Source: SourceConfig{
			Driver:          "sqlite3",
			Auth:            "NONE",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
			FetchSize:       1000,
		},
		Export: ExportConfig{Format: "csv"},
		Serve:  ServeConfig{Address: "127.0.0.1:8471"},
	}
}

// Load reads and validates a configuration file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", filename)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", filename)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(sourceRules, SourceConfig{})
	return v
}

// sourceRules checks the fields each driver needs to connect.
func sourceRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(SourceConfig)
	switch s.Driver {
	case "sqlite3":
		if s.DSN == "" {
			sl.ReportError(s.DSN, "DSN", "DSN", "required_for_sqlite3", "")
		}
	case "hive":
		if s.Host == "" {
			sl.ReportError(s.Host, "Host", "Host", "required_for_hive", "")
		}
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

var levels = map[string]log4g.Level{
	"fatal": log4g.FATAL,
	"error": log4g.ERROR,
	"warn":  log4g.WARN,
	"info":  log4g.INFO,
	"debug": log4g.DEBUG,
	"trace": log4g.TRACE,
}

// LogLevel maps the configured level name to log4g; unknown names give INFO.
func (l LogConfig) LogLevel() log4g.Level {
	if lvl, ok := levels[strings.ToLower(l.Level)]; ok {
		return lvl
	}
	return log4g.INFO
}

// Apply loads the log4g properties file, if any, and sets the root level.
func (l LogConfig) Apply() error {
	if l.File != "" {
		if err := log4g.ConfigF(l.File); err != nil {
			return errors.Wrapf(err, "could not parse %s as a log4g configuration", l.File)
		}
	}
	if l.Level != "" {
		log4g.SetLogLevel("", l.LogLevel())
	}
	return nil
}
