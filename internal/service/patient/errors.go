package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("a patient with this national id already exists in this clinic")
	ErrNameRequired         = errors.New("full_name is required")
	ErrInvalidPhone         = errors.New("invalid phone number for the clinic region")
	ErrEncryptionDisabled   = errors.New("national ids cannot be stored without an encryption key")
)
