package stream

import (
	"github.com/iov-one/rill/errors"
)

var (
	// ErrStreamNotActive is returned when an operation requires a stream
	// state that the stream is not in.
	ErrStreamNotActive = errors.Register(1100, "stream not active")

	// ErrStreamNotEnded is returned when trying to finalize a stream
	// before its end time.
	ErrStreamNotEnded = errors.Register(1101, "stream not ended")

	// ErrAlreadyFinalized is returned when trying to finalize a stream
	// twice.
	ErrAlreadyFinalized = errors.Register(1102, "stream already finalized")
)
