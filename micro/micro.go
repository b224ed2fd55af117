// Package micro implements a small request/response protocol over a
// big-endian, type-tagged data stream, and a dispatcher that routes each
// request to the registered Service accepting its function id.
//
// Every frame on the wire is
//
//	request: int32 function id, int32 payload length, payload
//	reply:   int32 status,      int32 payload length, payload
//
// A request with function id FnDisconnect and no payload ends the
// connection.
package micro

import (
	"fmt"

	"github.com/jrivets/log4g"
	"github.com/pkg/errors"
)

var logger = log4g.GetLogger("hostdata.micro")

// FnDisconnect asks the server to close the connection.
const FnDisconnect int32 = 0

// Reply status codes.
const (
	StatusOK              int32 = 0
	StatusError           int32 = 1
	StatusUnknownFunction int32 = 2
)

// DefaultMaxFrameSize bounds a single payload unless configured otherwise.
const DefaultMaxFrameSize = 16 << 20

var (
	// ErrUnknownFunction is returned by Client.Call when no service on the
	// server accepts the function id.
	ErrUnknownFunction = errors.New("micro: unknown function")

	// ErrFrameTooLarge is returned when a peer announces a payload above the
	// frame size limit. The connection cannot be used afterwards.
	ErrFrameTooLarge = errors.New("micro: frame too large")
)

// RemoteError carries the message of a failed call back to the caller.
type RemoteError struct {
	Fn      int32
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprint("micro: function ", e.Fn, " failed: ", e.Message)
}
