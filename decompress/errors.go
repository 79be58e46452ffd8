package decompress

import "errors"

// Package errors. Use errors.New for static messages, fmt.Errorf when values are needed.
var (
	ErrMalformedHeader      = errors.New("header inconsistent with payload size")
	ErrUnexpectedEOF        = errors.New("unexpected end of compressed bitstream")
	ErrInvalidCodeLengths   = errors.New("code lengths do not form a valid prefix code")
	ErrInvalidBackReference = errors.New("back reference before start of output")
	ErrOutputOverrun        = errors.New("stream yields more than the declared output size")
	ErrSizeMismatch         = errors.New("destination length does not match declared output size")
)
