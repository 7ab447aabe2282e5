package record

import (
	"errors"
	"fmt"

	"github.com/roach88/mvsync/internal/ir"
)

// ErrStaleHandle is the recoverable "not found" condition: the handle does
// not name a live record of the expected kind. Match with errors.Is.
var ErrStaleHandle = errors.New("stale handle")

// StaleHandleError reports which handle failed to resolve and what the
// caller expected it to be.
type StaleHandleError struct {
	Handle ir.Handle
	Want   string // "model", "view" or "record"
}

func (e *StaleHandleError) Error() string {
	return fmt.Sprintf("stale handle %s: no live %s", e.Handle, e.Want)
}

// Is makes errors.Is(err, ErrStaleHandle) succeed.
func (e *StaleHandleError) Is(target error) bool {
	return target == ErrStaleHandle
}

// FaultError is a programming-logic fault: code dereferenced a handle it
// had already proven live, or linked records in an impossible way. Faults
// are raised with panic by the Must* accessors and never returned.
type FaultError struct {
	Op  string
	Err error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("record store fault in %s: %v", e.Op, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

func stale(h ir.Handle, want string) error {
	return &StaleHandleError{Handle: h, Want: want}
}
