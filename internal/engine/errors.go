package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/mvsync/internal/ir"
)

// RuntimeError represents a condition detected while running a tick.
//
// Runtime errors include:
//   - Stale handle: an action or notification names a record that is gone
//   - Missing singleton: a required container slot was not provided
//   - Dangling back-reference: a view outlived its model past the cascade
//   - Budget exceeded: more actions queued than one tick may apply
//
// Recoverable codes are logged and the affected item is skipped. Only
// MISSING_SINGLETON and DANGLING_BACK_REFERENCE are returned to callers.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Handle identifies the affected record, when there is one.
	Handle ir.Handle

	// Tick is the tick during which the error was detected (0 at startup).
	Tick int64

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeStaleHandle indicates a handle no longer names a live record.
	ErrCodeStaleHandle RuntimeErrorCode = "STALE_HANDLE"

	// ErrCodeMissingSingleton indicates a required container is absent or duplicated.
	ErrCodeMissingSingleton RuntimeErrorCode = "MISSING_SINGLETON"

	// ErrCodeDuplicateSingleton indicates a second input model was requested.
	ErrCodeDuplicateSingleton RuntimeErrorCode = "DUPLICATE_SINGLETON"

	// ErrCodeDanglingBackReference indicates a view survived its model's removal.
	ErrCodeDanglingBackReference RuntimeErrorCode = "DANGLING_BACK_REFERENCE"

	// ErrCodeUnsupportedAction indicates an action the target model kind cannot take.
	ErrCodeUnsupportedAction RuntimeErrorCode = "UNSUPPORTED_ACTION"

	// ErrCodeBudgetExceeded indicates actions were deferred to the next tick.
	ErrCodeBudgetExceeded RuntimeErrorCode = "BUDGET_EXCEEDED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	switch {
	case !e.Handle.IsNil() && e.Tick > 0:
		return fmt.Sprintf("%s: %s (handle=%s, tick=%d)", e.Code, e.Message, e.Handle, e.Tick)
	case e.Tick > 0:
		return fmt.Sprintf("%s: %s (tick=%d)", e.Code, e.Message, e.Tick)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsStaleHandle returns true if err is a STALE_HANDLE runtime error.
func IsStaleHandle(err error) bool { return hasCode(err, ErrCodeStaleHandle) }

// IsMissingSingleton returns true if err is a MISSING_SINGLETON runtime error.
func IsMissingSingleton(err error) bool { return hasCode(err, ErrCodeMissingSingleton) }

// IsDanglingBackReference returns true if err is a DANGLING_BACK_REFERENCE runtime error.
func IsDanglingBackReference(err error) bool { return hasCode(err, ErrCodeDanglingBackReference) }

// IsBudgetExceeded returns true if err is a BUDGET_EXCEEDED runtime error.
func IsBudgetExceeded(err error) bool { return hasCode(err, ErrCodeBudgetExceeded) }

// NewStaleHandleError wraps a failed record lookup.
func NewStaleHandleError(tick int64, h ir.Handle, cause error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeStaleHandle,
		Message: "handle does not name a live record",
		Handle:  h,
		Tick:    tick,
		Err:     cause,
	}
}

// NewMissingSingletonError reports a container slot seen count times instead of once.
func NewMissingSingletonError(slot ir.Slot, count int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeMissingSingleton,
		Message: fmt.Sprintf("expected exactly one %q container, found %d", slot, count),
		Details: map[string]string{
			"slot":  string(slot),
			"count": fmt.Sprintf("%d", count),
		},
	}
}

// NewDanglingError reports views whose model no longer exists.
func NewDanglingError(tick int64, views []ir.Handle) *RuntimeError {
	details := make(map[string]string, len(views))
	for i, v := range views {
		details[fmt.Sprintf("view_%d", i)] = v.String()
	}
	var first ir.Handle
	if len(views) > 0 {
		first = views[0]
	}
	return &RuntimeError{
		Code:    ErrCodeDanglingBackReference,
		Message: fmt.Sprintf("%d view(s) outlived their model", len(views)),
		Handle:  first,
		Tick:    tick,
		Details: details,
	}
}

// NewUnsupportedError reports an action the target cannot take.
func NewUnsupportedError(tick int64, a ir.Action, reason string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnsupportedAction,
		Message: fmt.Sprintf("%s: %s", a.Kind(), reason),
		Handle:  a.Target(),
		Tick:    tick,
	}
}

// NewDuplicateSingletonError reports a second Create of the input model.
func NewDuplicateSingletonError(tick int64, existing ir.Handle) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeDuplicateSingleton,
		Message: "input model already exists",
		Handle:  existing,
		Tick:    tick,
	}
}

// NewBudgetError reports how many actions were carried to the next tick.
func NewBudgetError(tick int64, limit, deferred int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeBudgetExceeded,
		Message: fmt.Sprintf("applied %d actions, deferred %d", limit, deferred),
		Tick:    tick,
		Details: map[string]string{
			"limit":    fmt.Sprintf("%d", limit),
			"deferred": fmt.Sprintf("%d", deferred),
		},
	}
}
