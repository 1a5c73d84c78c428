package service

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConfiguration    = errors.New("report range is not configured")
	ErrInvalidRange     = errors.New("invalid report range")
	ErrScopeResolution  = errors.New("organization could not be resolved")
)
