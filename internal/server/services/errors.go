package services

import "github.com/dmitrijs2005/residentportal/internal/common"

// FieldError is a validation failure tied to one request field. It
// matches common.ErrorValidation under errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return common.ErrorValidation
}
