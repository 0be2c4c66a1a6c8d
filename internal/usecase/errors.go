package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrNoSeasons             = errors.New("no seasons survived the refresh")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
