package errs

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestContractErrorKinds(t *testing.T) {
	err := IllegalArgument("columnIndex", RangeNotValid)
	assert.True(t, IsIllegalArgument(err))
	assert.False(t, IsIllegalState(err))
	assert.Equal(t, "illegal argument: columnIndex (range not valid)", err.Error())

	wrapped := errors.Wrap(IllegalState("metaData", PropertyNotSet), "add row")
	assert.True(t, IsIllegalState(wrapped))
	assert.Contains(t, wrapped.Error(), "property not set")
}

func TestRowDataErrorCause(t *testing.T) {
	assert.Nil(t, NewRowDataError("sql", nil))

	err := NewRowDataError("sql", io.ErrUnexpectedEOF)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, io.ErrUnexpectedEOF, errors.Cause(err))

	var rde *RowDataError
	assert.True(t, errors.As(err, &rde))
	assert.Equal(t, "sql", rde.Source)
}

func TestPoolError(t *testing.T) {
	err := NewPoolError("mysql", io.EOF)
	assert.Contains(t, err.Error(), "connection pool mysql")
	assert.True(t, errors.Is(err, io.EOF))
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "length not valid", LengthNotValid.String())
	assert.Equal(t, "reason(42)", Reason(42).String())
}
