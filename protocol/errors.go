package protocol

import "errors"

var (
	ErrInvalidPayload   = errors.New("invalid payload size")
	ErrTimeout          = errors.New("operation timed out")
	ErrInvalidChannel   = errors.New("invalid channel (valid range: 0-125)")
	ErrVersionMismatch  = errors.New("protocol version mismatch")
	ErrSignatureInvalid = errors.New("signature verification failed")
	ErrNoRoute          = errors.New("no route to destination")
	ErrNotRepeater      = errors.New("relay requested on non-repeater node")
	ErrNotReady         = errors.New("transport is not in the Ready state")
	ErrInvalidNodeID    = errors.New("invalid node id assignment")
)
