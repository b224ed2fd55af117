package micro

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/jrivets/log4g"
	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/errs"
)

// Writer encodes the micro data stream into a buffer; nothing reaches the
// underlying writer before Flush.
type Writer struct {
	w      *bufio.Writer
	buf    [8]byte
	logger log4g.Logger
}

func NewWriter(w io.Writer) *Writer {
	return newWriter(w, logger)
}

func newWriter(w io.Writer, l log4g.Logger) *Writer {
	return &Writer{w: bufio.NewWriter(w), logger: l}
}

func (w *Writer) put(n int) error {
	_, err := w.w.Write(w.buf[:n])
	return err
}

func (w *Writer) WriteByte(v byte) error {
	w.logger.Trace("writeByte: ", v)
	return w.w.WriteByte(v)
}

func (w *Writer) WriteBoolean(v bool) error {
	w.logger.Trace("writeBoolean: ", v)
	if v {
		return w.w.WriteByte(1)
	}
	return w.w.WriteByte(0)
}

func (w *Writer) WriteShort(v int16) error {
	w.logger.Trace("writeShort: ", v)
	binary.BigEndian.PutUint16(w.buf[:], uint16(v))
	return w.put(2)
}

func (w *Writer) WriteInt(v int32) error {
	w.logger.Trace("writeInt: ", v)
	binary.BigEndian.PutUint32(w.buf[:], uint32(v))
	return w.put(4)
}

func (w *Writer) WriteLong(v int64) error {
	w.logger.Trace("writeLong: ", v)
	binary.BigEndian.PutUint64(w.buf[:], uint64(v))
	return w.put(8)
}

func (w *Writer) WriteFloat(v float32) error {
	w.logger.Trace("writeFloat: ", v)
	binary.BigEndian.PutUint32(w.buf[:], math.Float32bits(v))
	return w.put(4)
}

func (w *Writer) WriteDouble(v float64) error {
	w.logger.Trace("writeDouble: ", v)
	binary.BigEndian.PutUint64(w.buf[:], math.Float64bits(v))
	return w.put(8)
}

// WriteUTF writes s with an unsigned 16 bit length prefix; longer strings
// are rejected.
func (w *Writer) WriteUTF(s string) error {
	if len(s) > math.MaxUint16 {
		return errors.Wrap(errs.IllegalArgument("utf", errs.LengthNotValid), "writeUTF")
	}
	w.logger.Trace("writeUTF: ", s)
	binary.BigEndian.PutUint16(w.buf[:], uint16(len(s)))
	if err := w.put(2); err != nil {
		return err
	}
	_, err := w.w.WriteString(s)
	return err
}

// WriteText writes s with an int32 length prefix.
func (w *Writer) WriteText(s string) error {
	if len(s) > math.MaxInt32 {
		return errors.Wrap(errs.IllegalArgument("text", errs.LengthNotValid), "writeText")
	}
	w.logger.Trace("writeText: ", len(s), " bytes")
	if err := w.WriteInt(int32(len(s))); err != nil {
		return err
	}
	_, err := w.w.WriteString(s)
	return err
}

// WriteBytes writes b with an int32 length prefix, -1 for nil.
func (w *Writer) WriteBytes(b []byte) error {
	if b == nil {
		return w.WriteInt(-1)
	}
	if len(b) > math.MaxInt32 {
		return errors.Wrap(errs.IllegalArgument("bytes", errs.LengthNotValid), "writeBytes")
	}
	if err := w.WriteInt(int32(len(b))); err != nil {
		return err
	}
	_, err := w.w.Write(b)
	return err
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}
