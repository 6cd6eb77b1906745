package post

import "errors"

var (
	ErrNotFound          = errors.New("post not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrPersistence       = errors.New("post store failure")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ErrInvalidContent marks a post that cannot be stored as given, e.g. empty text.
var ErrInvalidContent = errors.New("invalid post content")
