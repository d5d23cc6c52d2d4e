package domain

import "errors"

var (
	ErrInvalidClockTime    = errors.New("invalid clock time")
	ErrTaskStateNotFound   = errors.New("task state not found")
	ErrPreferencesNotFound = errors.New("preferences not found")
)
