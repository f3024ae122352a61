package bplus

import "errors"

var (
	ErrCorrupt         = errors.New("corrupt tree")
	ErrBadInput        = errors.New("bad input")
	ErrInvalidOrder    = errors.New("invalid order")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
)
