package services

import "fmt"

// ValidationError reports caller-supplied data violating a business rule.
// It is raised before any persistence attempt; the store is never touched.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation: %v", e.Err)
	}
	return "validation: " + e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ServiceError wraps an unexpected lower-layer failure that is not one of
// the recognized kinds, so callers never observe an unclassified failure.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
