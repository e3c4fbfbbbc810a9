package ptsim

import (
	"github.com/alexhholmes/ptsim/internal/base"
)

//goland:noinspection GoUnusedGlobalVariable
var (
	ErrExhausted      = base.ErrExhausted
	ErrOutOfMemory    = base.ErrOutOfMemory
	ErrUnknownProcess = base.ErrUnknownProcess
	ErrUnmappedPage   = base.ErrUnmappedPage
	ErrOutOfBounds    = base.ErrOutOfBounds

	ErrInvalidProcess   = base.ErrInvalidProcess
	ErrInvalidPageCount = base.ErrInvalidPageCount
	ErrProcessExists    = base.ErrProcessExists
	ErrReservedPage     = base.ErrReservedPage
	ErrClosed           = base.ErrClosed
)
