package base

import "errors"

var (
	ErrExhausted        = errors.New("no free physical page")
	ErrOutOfMemory      = errors.New("out of memory")
	ErrUnknownProcess   = errors.New("unknown process")
	ErrUnmappedPage     = errors.New("unmapped virtual page")
	ErrOutOfBounds      = errors.New("address out of bounds")
	ErrInvalidProcess   = errors.New("invalid process number")
	ErrInvalidPageCount = errors.New("invalid page count")
	ErrProcessExists    = errors.New("process already exists")
	ErrReservedPage     = errors.New("page is reserved")
	ErrClosed           = errors.New("memory is closed")
)
