package appointment

import "errors"

var (
	ErrNotFound         = errors.New("appointment not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrInvalidDoctor    = errors.New("doctor must be an active DOCTOR of this clinic")
	ErrInvalidTimeRange = errors.New("appointment must end after it starts")
	ErrInvalidStatus    = errors.New("invalid appointment status")
	ErrInvalidChannel   = errors.New("invalid booking channel")
)
