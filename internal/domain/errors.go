package domain

import "errors"

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrSessionNotFound = errors.New("booking session not found")
)

var (
	// ErrNotPersisted marks a write that did not reach the durable store.
	ErrNotPersisted     = errors.New("not saved")
	ErrUnknownMediaType = errors.New("unknown media type")
)
