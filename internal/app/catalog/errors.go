package catalog

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEventProcessing = errors.New("event processing error")
	ErrTimeout         = errors.New("timeout")
)
