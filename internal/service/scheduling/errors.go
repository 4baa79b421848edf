package scheduling

import (
	"errors"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
)

var (
	ErrMalformedSchedule = repo.ErrMalformedSchedule
	ErrInvalidTimeRange  = errors.New("end time must be after start time")
	ErrClinicNotFound    = errors.New("clinic not found")
	ErrDoctorRequired    = errors.New("doctor_id is required")
)
