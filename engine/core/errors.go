package core

import (
	"errors"
)

var (
	// ErrOutOfRange is returned when an attachment id, subpass id or
	// dependency index is not known to the registry it was looked up in.
	ErrOutOfRange = errors.New("out of range")
	// ErrSlotOccupied is returned when a subpass location (or the depth/stencil
	// slot) already holds a usage.
	ErrSlotOccupied = errors.New("slot already occupied")
	// ErrInvalidArgument covers requests that can never be satisfied, such as
	// asking for the layout of a preserved attachment.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnreachable signals a corrupted internal state or an unknown enum value.
	ErrUnreachable = errors.New("unreachable")
)
