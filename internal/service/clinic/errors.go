package clinic

import "errors"

var (
	ErrClinicNotFound   = errors.New("clinic not found")
	ErrOverrideNotFound = errors.New("no override for this date")
	ErrInvalidHours     = errors.New("invalid working hours")
	ErrInvalidOverride  = errors.New("invalid date override")
)
