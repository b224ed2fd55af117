package main

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v2"

	"github.com/go-data-exporter/hostdata"
	"github.com/go-data-exporter/hostdata/codec"
	csvcodec "github.com/go-data-exporter/hostdata/codec/csv"
	xmlcodec "github.com/go-data-exporter/hostdata/codec/xml"
	"github.com/go-data-exporter/hostdata/config"
	"github.com/go-data-exporter/hostdata/micro"
	"github.com/go-data-exporter/hostdata/rowdata"
	"github.com/go-data-exporter/hostdata/source"
)

func runExport(c *cli.Context) error {
	applyExportFlags(c)
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	src, err := source.Open(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer src.Close()
	data, err := src.Query(ctx)
	if err != nil {
		return err
	}
	return export(data, cfg.Export, os.Stdout)
}

func runServe(c *cli.Context) error {
	if addr := c.String(argAddress); addr != "" {
		cfg.Serve.Address = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	src, err := source.Open(ctx, cfg.Source)
	if err != nil {
		return err
	}
	data, err := src.Query(ctx)
	src.Close()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Serve.Address)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", cfg.Serve.Address)
	}
	srv := micro.NewServer(micro.WithMaxFrameSize(cfg.Serve.MaxFrameSize))
	srv.Register(micro.NewRowDataService(data))
	log.Info("publishing ", humanize.Comma(int64(data.Length())), " rows on ", ln.Addr())
	return srv.Serve(ctx, ln)
}

func runFetch(c *cli.Context) error {
	applyExportFlags(c)
	if addr := c.String(argAddress); addr != "" {
		cfg.Serve.Address = addr
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, err := micro.Dial(ctx, "tcp", cfg.Serve.Address)
	if err != nil {
		return err
	}
	defer client.Close()
	data, err := micro.FetchRowData(ctx, client, c.Int(argFetchSize))
	if err != nil {
		return err
	}
	return export(data, cfg.Export, os.Stdout)
}

func applyExportFlags(c *cli.Context) {
	if f := c.String(argFormat); f != "" {
		cfg.Export.Format = f
	}
	if o := c.String(argOutput); o != "" {
		cfg.Export.Output = o
	}
	if n := c.Int(argMaxTableSize); n >= 0 {
		cfg.Export.MaxTableSize = n
	}
}

// newCodec builds the configured codec. CSV and XML take their options
// from the export section; the other formats use their defaults.
func newCodec(ec config.ExportConfig) (codec.Codec, error) {
	switch ec.Format {
	case "csv":
		opts := []csvcodec.Option{csvcodec.WithCustomNULL(ec.NullValue), csvcodec.WithHexBytes(ec.HexBytes)}
		if ec.Delimiter != "" {
			opts = append(opts, csvcodec.WithCustomDelimiter([]rune(ec.Delimiter)[0]))
		}
		return codec.CSV(opts...), nil
	case "xml":
		if !ec.HexBytes {
			return codec.XML(xmlcodec.WithRawBytes()), nil
		}
		return codec.XML(), nil
	}
	cd, ok := codec.ByName(ec.Format)
	if !ok {
		return nil, errors.Errorf("unknown format %q", ec.Format)
	}
	return cd, nil
}

// export writes data to the configured output. With a maximum table size
// every page goes to its own file, numbered from 1.
func export(data rowdata.RowData, ec config.ExportConfig, stdout io.Writer) error {
	cd, err := newCodec(ec)
	if err != nil {
		return err
	}
	e := hostdata.New(data, cd, hostdata.WithMaximumTableSize(ec.MaxTableSize))

	if ec.Output == "" || ec.Output == "-" {
		cw := &countingWriter{w: stdout}
		if err = e.Write(cw); err != nil {
			return err
		}
		log.Info("wrote ", humanize.Comma(int64(data.Length())), " rows, ", humanize.Bytes(uint64(cw.n)))
		return nil
	}

	pages := e.NumberOfPages()
	var total int64
	for page := range pages {
		name := ec.Output
		if ec.MaxTableSize > 0 {
			name = pageFileName(ec.Output, page)
		}
		n, err := writePage(e, page, name)
		if err != nil {
			return err
		}
		total += n
	}
	log.Info("wrote ", humanize.Comma(int64(data.Length())), " rows in ", pages, " file(s), ", humanize.Bytes(uint64(total)))
	return nil
}

func writePage(e *hostdata.Exporter, page int, name string) (int64, error) {
	f, err := os.Create(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	cw := &countingWriter{w: f}
	if err = e.WritePage(page, cw); err != nil {
		return 0, errors.Wrapf(err, "write %s", name)
	}
	return cw.n, f.Close()
}

// pageFileName turns out.csv into out-1.csv, out-2.csv and so on.
func pageFileName(output string, page int) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "-" + strconv.Itoa(page+1) + ext
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
