package pkg

import "errors"

// Driver errors.
var (
	// ErrBusy indicates a packet job is already in flight on the module.
	ErrBusy = errors.New("module busy")

	// ErrIO indicates a bus-level fault (bus error, collision, or SCL
	// low timeout) was latched during the last transfer.
	ErrIO = errors.New("bus I/O error")

	// ErrOverflow indicates the master sent more bytes than the armed
	// buffer could hold.
	ErrOverflow = errors.New("buffer overflow")

	// ErrInvalidInstance indicates a peripheral instance index outside
	// the registry bounds.
	ErrInvalidInstance = errors.New("invalid instance index")

	// ErrInstanceBound indicates the registry slot is already occupied.
	ErrInstanceBound = errors.New("instance already bound")

	// ErrInvalidCallback indicates an unknown callback kind.
	ErrInvalidCallback = errors.New("invalid callback kind")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrBufferTooSmall indicates the provided buffer is too small.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrNotSupported indicates an unsupported operation or feature.
	ErrNotSupported = errors.New("not supported")
)

// Status represents the transfer status of a slave module.
type Status int

// Transfer status values.
const (
	StatusOK          Status = iota // Idle, last transaction completed cleanly
	StatusBusy                      // A packet job is armed or in progress
	StatusErrIO                     // Bus error, collision, or low timeout
	StatusErrOverflow               // Master overran the armed buffer
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBusy:
		return "busy"
	case StatusErrIO:
		return "io error"
	case StatusErrOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Err returns the corresponding error for the status.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusBusy:
		return ErrBusy
	case StatusErrIO:
		return ErrIO
	case StatusErrOverflow:
		return ErrOverflow
	default:
		return ErrNotSupported
	}
}
