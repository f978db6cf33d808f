package codec

import "errors"

var (
	// ErrOutOfRange represents logic accessing data in out of range.
	ErrOutOfRange = errors.New("out of range")
	// ErrTooLong represents a value exceeding the width of its field.
	ErrTooLong = errors.New("value exceeds field width")
	// ErrInvalidUTF8 represents a string which is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8 string")
)
