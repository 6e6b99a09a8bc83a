package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindConflict Kind = iota + 1
	KindNotFound
	KindValidation
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Error carries a Kind and a human readable reason. Two errors match under
// errors.Is when kinds match and the target reason is empty or equal.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

var (
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrValidation = &Error{Kind: KindValidation}
	ErrDependency = &Error{Kind: KindDependency}
)

func Conflict(reason string) *Error {
	return &Error{Kind: KindConflict, Reason: reason}
}

// NotFound builds "<entity> not found".
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Reason: entity + " not found"}
}

func Validation(reason string) *Error {
	return &Error{Kind: KindValidation, Reason: reason}
}

func Dependency(op string, err error) *Error {
	return &Error{Kind: KindDependency, Reason: op, Err: err}
}

// Wrap passes classified errors through and turns anything else into a
// dependency failure of op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return Dependency(op, err)
}

// KindOf reports the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// Reason returns the reason of the first *Error in err's chain.
func Reason(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Reason
	}
	return err.Error()
}
