package micro

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/jrivets/log4g"
	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/errs"
)

// Reader decodes the micro data stream. Every value read is traced.
type Reader struct {
	r      io.Reader
	buf    [8]byte
	logger log4g.Logger
}

func NewReader(r io.Reader) *Reader {
	return newReader(r, logger)
}

func newReader(r io.Reader, l log4g.Logger) *Reader {
	return &Reader{r: r, logger: l}
}

func (r *Reader) fill(n int) ([]byte, error) {
	b := r.buf[:n]
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.fill(1)
	if err != nil {
		return 0, err
	}
	r.logger.Trace("readByte: ", b[0])
	return b[0], nil
}

func (r *Reader) ReadBoolean() (bool, error) {
	b, err := r.fill(1)
	if err != nil {
		return false, err
	}
	r.logger.Trace("readBoolean: ", b[0] != 0)
	return b[0] != 0, nil
}

func (r *Reader) ReadShort() (int16, error) {
	b, err := r.fill(2)
	if err != nil {
		return 0, err
	}
	v := int16(binary.BigEndian.Uint16(b))
	r.logger.Trace("readShort: ", v)
	return v, nil
}

func (r *Reader) ReadInt() (int32, error) {
	b, err := r.fill(4)
	if err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(b))
	r.logger.Trace("readInt: ", v)
	return v, nil
}

func (r *Reader) ReadLong() (int64, error) {
	b, err := r.fill(8)
	if err != nil {
		return 0, err
	}
	v := int64(binary.BigEndian.Uint64(b))
	r.logger.Trace("readLong: ", v)
	return v, nil
}

func (r *Reader) ReadFloat() (float32, error) {
	b, err := r.fill(4)
	if err != nil {
		return 0, err
	}
	v := math.Float32frombits(binary.BigEndian.Uint32(b))
	r.logger.Trace("readFloat: ", v)
	return v, nil
}

func (r *Reader) ReadDouble() (float64, error) {
	b, err := r.fill(8)
	if err != nil {
		return 0, err
	}
	v := math.Float64frombits(binary.BigEndian.Uint64(b))
	r.logger.Trace("readDouble: ", v)
	return v, nil
}

// ReadUTF reads a string prefixed by its unsigned 16 bit byte length.
func (r *Reader) ReadUTF() (string, error) {
	b, err := r.fill(2)
	if err != nil {
		return "", err
	}
	data, err := r.readN(int(binary.BigEndian.Uint16(b)))
	if err != nil {
		return "", errors.Wrap(err, "readUTF")
	}
	if !utf8.Valid(data) {
		return "", errors.Wrap(errs.IllegalArgument("utf", errs.ParameterValueNotValid), "readUTF")
	}
	s := string(data)
	r.logger.Trace("readUTF: ", s)
	return s, nil
}

// ReadBytes reads a byte array prefixed by its int32 length; length -1
// stands for a nil array.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	if n < 0 {
		return nil, errors.Wrap(errs.IllegalArgument("length", errs.LengthNotValid), "readBytes")
	}
	data, err := r.readN(int(n))
	if err != nil {
		return nil, errors.Wrap(err, "readBytes")
	}
	r.logger.Trace("readBytes: ", n, " bytes")
	return data, nil
}

// ReadText reads a string prefixed by its int32 byte length, the form
// WriteValue uses for strings too long for ReadUTF.
func (r *Reader) ReadText() (string, error) {
	n, err := r.ReadInt()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", errors.Wrap(errs.IllegalArgument("length", errs.LengthNotValid), "readText")
	}
	data, err := r.readN(int(n))
	if err != nil {
		return "", errors.Wrap(err, "readText")
	}
	if !utf8.Valid(data) {
		return "", errors.Wrap(errs.IllegalArgument("text", errs.ParameterValueNotValid), "readText")
	}
	r.logger.Trace("readText: ", n, " bytes")
	return string(data), nil
}

// readChunk is the largest buffer allocated before the data arrives.
const readChunk = 64 << 10

// readN reads exactly n bytes. n comes from the peer, so it is checked
// against what an in-memory source holds, and longer reads grow their
// buffer as the bytes arrive.
func (r *Reader) readN(n int) ([]byte, error) {
	if src, ok := r.r.(interface{ Len() int }); ok && n > src.Len() {
		return nil, errors.Wrapf(io.ErrUnexpectedEOF, "%d bytes announced, %d left", n, src.Len())
	}
	if n <= readChunk {
		data := make([]byte, n)
		if _, err := io.ReadFull(r.r, data); err != nil {
			return nil, err
		}
		return data, nil
	}
	var buf bytes.Buffer
	buf.Grow(readChunk)
	if _, err := io.CopyN(&buf, r.r, int64(n)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}
