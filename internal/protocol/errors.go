package protocol

import "errors"

var (
	ErrEmptyLine   = errors.New("protocol: empty line")
	ErrUnknownKind = errors.New("protocol: unknown line kind")
	ErrMalformed   = errors.New("protocol: malformed line")
	ErrValueRange  = errors.New("protocol: block value out of range")
)
