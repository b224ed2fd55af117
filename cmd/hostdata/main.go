package main

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jrivets/log4g"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v2"

	"github.com/go-data-exporter/hostdata/config"
)

const Version = "0.1.0"

const (
	argLogCfgFile = "log-config-file"
	argCfgFile    = "config-file"

	argFormat       = "format"
	argOutput       = "output"
	argMaxTableSize = "max-table-size"
	argAddress      = "address"
	argFetchSize    = "fetch-size"
)

var log = log4g.GetLogger("hostdata")
var cfg = config.Default()

func main() {
	defer log4g.Shutdown()

	exportFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  argFormat,
			Usage: "Output format: csv, json, ndjson, xml or msgpack",
		},
		&cli.StringFlag{
			Name:  argOutput,
			Usage: "Output file, stdout if empty or -",
		},
		&cli.IntFlag{
			Name:  argMaxTableSize,
			Usage: "Rows per page; every page goes to its own file. 0 writes one table",
			Value: -1,
		},
	}

	app := &cli.App{
		Name:    "hostdata",
		Version: Version,
		Usage:   "Export and serve row data from host databases",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  argLogCfgFile,
				Usage: "The log4g configuration file name",
			},
			&cli.StringFlag{
				Name:  argCfgFile,
				Usage: "The hostdata YAML configuration file name",
				Value: "hostdata.yaml",
			},
		},
		Before: before,
		Commands: []*cli.Command{
			{
				Name:   "export",
				Usage:  "Run the configured query and write the result",
				Action: runExport,
				Flags:  exportFlags,
			},
			{
				Name:   "serve",
				Usage:  "Run the configured query and publish the result over the micro protocol",
				Action: runServe,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  argAddress,
						Usage: "Listen address, overrides serve.address",
					},
				},
			},
			{
				Name:   "fetch",
				Usage:  "Fetch rows published by a serve command and write them like export",
				Action: runFetch,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  argAddress,
						Usage: "Server address, overrides serve.address",
					},
					&cli.IntFlag{
						Name:  argFetchSize,
						Usage: "Rows requested per call",
						Value: 256,
					},
				}, exportFlags...),
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		log4g.Shutdown()
		os.Exit(1)
	}
}

func before(c *cli.Context) error {
	if logCfgFile := c.String(argLogCfgFile); logCfgFile != "" {
		log.Info("Loading log4g config from ", logCfgFile)
		if err := log4g.ConfigF(logCfgFile); err != nil {
			return errors.Wrapf(err, "could not parse %s as a log4g configuration", logCfgFile)
		}
	}

	cfgFile := c.String(argCfgFile)
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		log.Warn("No file ", cfgFile, ", using the default configuration")
		return cfg.Log.Apply()
	}
	fc, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = fc
	return cfg.Log.Apply()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case s := <-sigChan:
			log.Info("Got signal \"", s, "\", cancelling context ")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
