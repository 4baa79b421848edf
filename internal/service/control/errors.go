package control

import "errors"

var ErrClinicNotFound = errors.New("clinic not found")
