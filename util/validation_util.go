// util/validation_util.go
package util

import (
	"fmt"

	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

// ValidateNorm enforces the canonical-record invariants at the ingestion
// boundary. A norm is meaningful only when it carries role+mission or an
// action; the reasoning engine trusts this and never re-validates.
func (v *ValidationUtil) ValidateNorm(norm model.Norm) error {
	return ValidateNorm(norm)
}

// ValidateLogEntry checks the structural minimum for a log entry.
func (v *ValidationUtil) ValidateLogEntry(entry model.LogEntry) error {
	return ValidateLogEntry(entry)
}

func ValidateNorm(norm model.Norm) error {
	if norm.NormID == "" {
		return fmt.Errorf("%w: missing norm_id", apperrors.ErrInvalidNormData)
	}
	if !norm.NormType.Valid() {
		return fmt.Errorf("%w: '%s' in norm %s", apperrors.ErrInvalidNormType, norm.NormType, norm.NormID)
	}
	hasRoleMission := norm.Role != "" && norm.Mission != ""
	if !hasRoleMission && norm.Action == "" {
		return fmt.Errorf("%w: norm %s needs role+mission or an action", apperrors.ErrInvalidNormData, norm.NormID)
	}
	return nil
}

func ValidateLogEntry(entry model.LogEntry) error {
	if entry.EntryID == "" {
		return fmt.Errorf("%w: missing entry_id", apperrors.ErrInvalidLogEntry)
	}
	if entry.AgentID == "" {
		return fmt.Errorf("%w: entry %s missing agent_id", apperrors.ErrInvalidLogEntry, entry.EntryID)
	}
	if entry.Action == "" {
		return fmt.Errorf("%w: entry %s missing action", apperrors.ErrInvalidLogEntry, entry.EntryID)
	}
	return nil
}
