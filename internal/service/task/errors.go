package task

import "errors"

var (
	ErrUnknownTask = errors.New("unknown task code")
	ErrInvalidRole = errors.New("invalid role")
)
