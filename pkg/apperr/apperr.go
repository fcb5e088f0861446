// Package apperr carries the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindStore
	KindGateway
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindStore:
		return "store"
	case KindGateway:
		return "gateway"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op
	}
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

func InvalidState(op, msg string) error {
	return &Error{Kind: KindInvalidState, Op: op, Msg: msg}
}

func Store(op string, err error) error {
	return &Error{Kind: KindStore, Op: op, Err: err}
}

func Storef(op, format string, args ...any) error {
	return &Error{Kind: KindStore, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Gateway(op string, err error) error {
	return &Error{Kind: KindGateway, Op: op, Err: err}
}

func Gatewayf(op, format string, args ...any) error {
	return &Error{Kind: KindGateway, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
