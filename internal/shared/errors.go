package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Invocation errors, reported before any migration stage runs
	ErrInvalidSiteFilter = fmt.Errorf("invalid site filter")
	ErrMissingArgument   = fmt.Errorf("missing required argument")
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrInvalidFlag       = fmt.Errorf("invalid flag value")

	// Storage errors
	ErrNotFound        = fmt.Errorf("record not found")
	ErrTagNotFound     = fmt.Errorf("tag not found")
	ErrContactNotFound = fmt.Errorf("contact not found")
)
