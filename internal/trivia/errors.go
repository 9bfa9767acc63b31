package trivia

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned by stores when a lookup matches no row.
var ErrRecordNotFound = errors.New("record not found")

// Kind classifies service failures. The HTTP layer maps each kind to
// exactly one status code.
type Kind uint8

const (
	KindInternal Kind = iota
	KindBadRequest
	KindNotFound
	KindUnprocessable
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindUnprocessable:
		return "unprocessable"
	default:
		return "internal"
	}
}

// Error is the error type returned by Service operations.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf reports the Kind carried by err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
