// errors/norm_errors.go
package errors

import "errors"

var (
	ErrNormNotFound      = errors.New("norm not found")
	ErrInvalidNormType   = errors.New("invalid norm type")
	ErrInvalidNormData   = errors.New("invalid norm data")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrInternalServer    = errors.New("internal server error")
	ErrUnauthorized      = errors.New("unauthorized")
)
