package dbc

import "errors"

var (
	// ErrMessageNotFound indicates that a message is not defined in the document.
	ErrMessageNotFound = errors.New("message not found")
	// ErrSignalNotFound indicates that a signal is not defined in its message.
	ErrSignalNotFound = errors.New("signal not found")
	// ErrDuplicateSignal indicates a signal name is already used in the message.
	ErrDuplicateSignal = errors.New("signal already exists")
	// ErrInvalidRange indicates a start bit / size pair outside the payload.
	ErrInvalidRange = errors.New("invalid bit range")
)
