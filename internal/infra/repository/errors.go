package repository

import "errors"

var (
	ErrRedisConnection      = errors.New("redis connection error")
	ErrInvalidTaskStateData = errors.New("invalid task state data")
)
