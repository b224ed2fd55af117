package micro

import (
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/jrivets/log4g"
	"github.com/pkg/errors"
)

type Server struct {
	registry     registry
	maxFrameSize int
	connID       atomic.Int64
	logger       log4g.Logger
}

type ServerOption func(*Server)

// WithMaxFrameSize limits the request payload the server accepts.
func WithMaxFrameSize(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.maxFrameSize = n
		}
	}
}

func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		maxFrameSize: DefaultMaxFrameSize,
		logger:       log4g.GetLogger("hostdata.micro.server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a service. Services registered first win when several
// accept the same function.
func (s *Server) Register(svc Service) {
	s.registry.add(svc)
}

// Serve accepts connections until ctx is done or the listener fails. It
// closes the listener and waits for the open connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()

	s.logger.Info("serving on ", ln.Addr())
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("shutting down, ", ctx.Err())
				return nil
			}
			return errors.Wrap(err, "accept")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.ServeConn(ctx, conn); err != nil {
				s.logger.Warn("connection ", conn.RemoteAddr(), " closed with error: ", err)
			}
		}()
	}
}

// ServeConn runs the request loop of one connection and closes it when
// the peer disconnects, ctx is done or the stream breaks.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) error {
	id := s.connID.Add(1)
	l := s.logger.WithId("{" + strconv.FormatInt(id, 10) + "}").(log4g.Logger)
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()
	defer conn.Close()

	l.Debug("new connection from ", conn.RemoteAddr())
	in := newReader(conn, l)
	out := newWriter(conn, l)
	for {
		fn, err := in.ReadInt()
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "read function id")
		}
		n, err := in.ReadInt()
		if err != nil {
			return errors.Wrap(err, "read payload length")
		}
		if n < 0 || int(n) > s.maxFrameSize {
			return errors.Wrapf(ErrFrameTooLarge, "function %d announced %d bytes", fn, n)
		}
		payload, err := in.readN(int(n))
		if err != nil {
			return errors.Wrap(err, "read payload")
		}
		if fn == FnDisconnect {
			l.Debug("disconnect requested")
			return nil
		}

		status, reply := s.dispatch(ctx, l, fn, payload)
		if err = writeFrame(out, status, reply); err != nil {
			return errors.Wrap(err, "write reply")
		}
	}
}

func (s *Server) dispatch(ctx context.Context, l log4g.Logger, fn int32, payload []byte) (int32, []byte) {
	svc := s.registry.lookup(fn)
	if svc == nil {
		l.Warn("no service accepts function ", fn)
		return StatusUnknownFunction, nil
	}
	var buf bytes.Buffer
	out := newWriter(&buf, l)
	err := svc.Handle(ctx, fn, newReader(bytes.NewReader(payload), l), out)
	if err == nil {
		err = out.Flush()
	}
	if err != nil {
		l.Debug("function ", fn, " failed: ", err)
		buf.Reset()
		msg := newWriter(&buf, l)
		if werr := msg.WriteUTF(truncateUTF(err.Error())); werr == nil {
			msg.Flush()
		}
		return StatusError, buf.Bytes()
	}
	return StatusOK, buf.Bytes()
}

func writeFrame(w *Writer, head int32, payload []byte) error {
	if err := w.WriteInt(head); err != nil {
		return err
	}
	if err := w.WriteInt(int32(len(payload))); err != nil {
		return err
	}
	if _, err := w.w.Write(payload); err != nil {
		return err
	}
	return w.Flush()
}

func truncateUTF(s string) string {
	const limit = 1 << 15
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
