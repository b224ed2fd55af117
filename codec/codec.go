// Package codec names the row encoders an Exporter can drive.
package codec

import (
	"io"

	csvcodec "github.com/go-data-exporter/hostdata/codec/csv"
	jsoncodec "github.com/go-data-exporter/hostdata/codec/json"
	msgpackcodec "github.com/go-data-exporter/hostdata/codec/msgpack"
	xmlcodec "github.com/go-data-exporter/hostdata/codec/xml"
	"github.com/go-data-exporter/hostdata/scanner"
)

// Codec encodes a row stream. Codecs only read rows; they never modify the
// data behind the stream.
type Codec interface {
	Write(rows scanner.Rows, writer io.Writer) error
}

func JSON(opts ...jsoncodec.Option) Codec {
	return jsoncodec.New(opts...)
}

func CSV(opts ...csvcodec.Option) Codec {
	return csvcodec.New(opts...)
}

func XML(opts ...xmlcodec.Option) Codec {
	return xmlcodec.New(opts...)
}

func MsgPack(opts ...msgpackcodec.Option) Codec {
	return msgpackcodec.New(opts...)
}

// ByName returns the codec with default options for a format name as used
// in configuration files: csv, json, ndjson, xml or msgpack.
func ByName(name string) (Codec, bool) {
	switch name {
	case "csv":
		return CSV(), true
	case "json":
		return JSON(), true
	case "ndjson":
		return JSON(jsoncodec.WithNewlineDelimited(true)), true
	case "xml":
		return XML(), true
	case "msgpack":
		return MsgPack(), true
	}
	return nil, false
}
