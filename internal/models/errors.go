package models

import (
	"errors"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrClassification = errors.New("classification failed")
	ErrUnknownLabel   = errors.New("unknown label")
	ErrBusy           = errors.New("classifier busy")
)
