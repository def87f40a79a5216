// Package cerr defines the error taxonomy used throughout the emulation
// core. Errors are distinguished by kind, not by concrete type, so that
// callers can test for a kind with errors.Is regardless of which component
// raised it.
package cerr

import (
	"errors"
	"fmt"
)

// Errno identifies a class of error. See spec §7 for the taxonomy this
// mirrors.
type Errno int

const (
	// FileError covers not-found, unreadable, wrong-capacity or corrupt
	// disk/snapshot files.
	FileError Errno = iota

	// FormatError covers unsupported cartridge or snapshot format versions.
	FormatError

	// InvalidConfiguration covers an unknown VIC/CIA revision or other
	// rejected configure() call. The caller must not have mutated state.
	InvalidConfiguration

	// InvariantViolation covers a broken internal invariant (out-of-range
	// bit offset, delay pipeline overflow). In release builds the caller
	// recovers by clamping; this error is emitted as a diagnostic.
	InvariantViolation

	// UnreachableAddress covers a bus address with no mapped register.
	UnreachableAddress
)

func (e Errno) String() string {
	switch e {
	case FileError:
		return "file error"
	case FormatError:
		return "format error"
	case InvalidConfiguration:
		return "invalid configuration"
	case InvariantViolation:
		return "invariant violation"
	case UnreachableAddress:
		return "unreachable address"
	default:
		return "unknown error"
	}
}

// sentinel is the comparable value wrapped errors carry. Because it has no
// Is() method, errors.Is falls back to == comparison, which works since
// sentinel's underlying type is a plain int.
type sentinel Errno

func (s sentinel) Error() string { return Errno(s).String() }

// New creates an error of the given kind with a formatted message, wrapping
// the kind so Is(err, kind) succeeds.
func New(kind Errno, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel(kind), fmt.Sprintf(format, args...))
}

// Wrap attaches a kind to an existing error.
func Wrap(kind Errno, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", sentinel(kind), err)
}

// Is reports whether err was created (directly or by wrapping) with the
// given kind.
func Is(err error, kind Errno) bool {
	return errors.Is(err, sentinel(kind))
}
