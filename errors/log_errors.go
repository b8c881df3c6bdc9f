// errors/log_errors.go
package errors

import "errors"

var (
	ErrInvalidLogEntry       = errors.New("invalid log entry")
	ErrTemporalInconsistency = errors.New("temporal strategy inconsistent with entries")
	ErrNoLogEntries          = errors.New("log file contains no parseable entries")
)
