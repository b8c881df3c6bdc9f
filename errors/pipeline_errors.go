// errors/pipeline_errors.go
package errors

import "errors"

var (
	ErrArtifactsMissing  = errors.New("artifacts not found, run the pipeline first")
	ErrPipelineBusy      = errors.New("another pipeline run is in progress")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrEmptyQuery        = errors.New("query cannot be empty")
)
