package micro

import (
	"bytes"
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Client issues calls over one connection. Calls are serialized.
type Client struct {
	conn         net.Conn
	mu           sync.Mutex
	in           *Reader
	out          *Writer
	maxFrameSize int
	closed       bool
}

// Dial connects to a micro server.
func Dial(ctx context.Context, network, address string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", address)
	}
	return NewClient(conn), nil
}

func NewClient(conn net.Conn) *Client {
	return &Client{
		conn:         conn,
		in:           newReader(conn, logger),
		out:          newWriter(conn, logger),
		maxFrameSize: DefaultMaxFrameSize,
	}
}

// Call sends function fn with the payload written by req and hands the
// reply payload to resp. Either callback may be nil. A failed call on the
// server comes back as *RemoteError; an unknown function as
// ErrUnknownFunction.
func (c *Client) Call(ctx context.Context, fn int32, req func(*Writer) error, resp func(*Reader) error) error {
	var payload bytes.Buffer
	if req != nil {
		w := newWriter(&payload, logger)
		if err := req(w); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("micro: client is closed")
	}
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetDeadline(time.Now())
	})
	defer func() {
		stop()
		c.conn.SetDeadline(time.Time{})
	}()

	status, reply, err := c.roundTrip(fn, payload.Bytes())
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	switch status {
	case StatusOK:
		if resp == nil {
			return nil
		}
		return resp(newReader(bytes.NewReader(reply), logger))
	case StatusUnknownFunction:
		return errors.Wrapf(ErrUnknownFunction, "function %d", fn)
	case StatusError:
		msg, err := newReader(bytes.NewReader(reply), logger).ReadUTF()
		if err != nil {
			return errors.Wrap(err, "read error message")
		}
		return &RemoteError{Fn: fn, Message: msg}
	}
	return errors.Errorf("micro: unexpected reply status %d", status)
}

func (c *Client) roundTrip(fn int32, payload []byte) (int32, []byte, error) {
	if err := writeFrame(c.out, fn, payload); err != nil {
		return 0, nil, errors.Wrap(err, "write request")
	}
	status, err := c.in.ReadInt()
	if err != nil {
		return 0, nil, errors.Wrap(err, "read reply status")
	}
	n, err := c.in.ReadInt()
	if err != nil {
		return 0, nil, errors.Wrap(err, "read reply length")
	}
	if n < 0 || int(n) > c.maxFrameSize {
		return 0, nil, errors.Wrapf(ErrFrameTooLarge, "reply of %d bytes", n)
	}
	reply, err := c.in.readN(int(n))
	if err != nil {
		return 0, nil, errors.Wrap(err, "read reply")
	}
	return status, reply, nil
}

// Close tells the server to disconnect and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.conn.SetDeadline(time.Now().Add(time.Second))
	if err := writeFrame(c.out, FnDisconnect, nil); err != nil {
		logger.Debug("disconnect request failed: ", err)
	}
	return c.conn.Close()
}
