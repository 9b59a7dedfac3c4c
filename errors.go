// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a negative count, an out-of-range index, or
	// any other caller-supplied value that violates an operation's contract.
	// It is an argument-kind error: callers must not retry without changing
	// the argument.
	ErrInvalidArgument = errors.New("octet: invalid argument")

	// ErrClosed reports an operation attempted on a Source or Sink after
	// Close returned. It is returned without touching the underlying raw
	// stream.
	ErrClosed = errors.New("octet: stream closed")

	// ErrOutOfRange reports a Segment index operation (pos/limit/count) that
	// would violate 0 <= pos <= limit <= capacity, a Buffer.Get offset
	// outside [0, Size), or an unsafe-access callback count outside its
	// window.
	ErrOutOfRange = errors.New("octet: segment index out of range")
)

// FormatError reports malformed textual input: a bad decimal or hexadecimal
// digit, numeric overflow, invalid UTF-8 encountered by a strict reader, or a
// line that exceeded its search limit before a terminator was found.
//
// The buffer's read position after a FormatError is unspecified but
// consistent: no bytes are silently dropped, and a caller that closes the
// stream sees a coherent error, not a panic.
type FormatError struct {
	Op      string // operation that failed, e.g. "readDecimalLong"
	Reason  string // human-readable reason
	Context string // optional excerpt of the offending bytes, if available
}

func (e *FormatError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("octet: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("octet: %s: %s (near %q)", e.Op, e.Reason, e.Context)
}

func newFormatError(op, reason string) error {
	return &FormatError{Op: op, Reason: reason}
}

func newFormatErrorWithContext(op, reason, context string) error {
	return &FormatError{Op: op, Reason: reason, Context: context}
}
