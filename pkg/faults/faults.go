// Package faults carries the error taxonomy shared by every workflow:
// validation problems, missing records, rejected or unavailable
// dependencies, and partial completion of a multi-step workflow whose
// earlier side effects are not rolled back.
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindRejected
	KindUnavailable
	// KindPartial marks a workflow that failed after one or more side
	// effects already took effect. Nothing is rolled back.
	KindPartial
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRejected:
		return "rejected"
	case KindUnavailable:
		return "unavailable"
	case KindPartial:
		return "partial_completion"
	default:
		return "unknown"
	}
}

// Error wraps a single failure with its kind and, for workflow failures,
// the name of the step that produced it.
type Error struct {
	Kind Kind
	Step string
	Err  error
}

func (e *Error) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s: step %s: %v", e.Kind, e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Err: fmt.Errorf(format, args...)}
}

func Rejected(err error) error {
	return &Error{Kind: KindRejected, Err: err}
}

func Unavailable(err error) error {
	return &Error{Kind: KindUnavailable, Err: err}
}

// Partial marks err as partial completion. The step name may be filled in
// later by the workflow runner.
func Partial(err error) error {
	return &Error{Kind: KindPartial, Err: err}
}

// AtStep attributes err to a named workflow step, preserving its kind.
// Errors with no kind of their own are treated as dependency failures.
func AtStep(step string, err error) error {
	return &Error{Kind: kindOrUnavailable(err), Step: step, Err: err}
}

// PartialAtStep attributes err to a named step and escalates it to partial
// completion regardless of its original kind.
func PartialAtStep(step string, err error) error {
	return &Error{Kind: KindPartial, Step: step, Err: err}
}

func kindOrUnavailable(err error) Kind {
	if k := KindOf(err); k != KindUnknown {
		return k
	}
	return KindUnavailable
}

// KindOf reports the kind of the outermost typed error in err's chain,
// or KindUnknown when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StepOf reports the workflow step attributed to err, if any.
func StepOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Step
	}
	return ""
}

// HTTPStatus maps an error to the response status the handlers use.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRejected:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
