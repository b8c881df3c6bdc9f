// artifact/store.go
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

const (
	NormsFile    = "parsed_norms.json"
	LogsFile     = "parsed_logs.json"
	ResultsFile  = "compliance_results.json"
	ProfileFile  = "system_profile.json"
	dirPermBits  = 0o755
	filePermBits = 0o644
)

// Store persists the pipeline artifacts as self-describing JSON documents.
// Each artifact is written once per run and reloadable independently, so
// downstream consumers never need to re-run the engine.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirPermBits); err != nil {
		return nil, fmt.Errorf("creating artifacts directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Exists reports whether all four artifacts of a prior run are present.
func (s *Store) Exists() bool {
	for _, name := range []string{NormsFile, LogsFile, ResultsFile, ProfileFile} {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			return false
		}
	}
	return true
}

func (s *Store) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifact %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, filePermBits); err != nil {
		return fmt.Errorf("writing artifact %s: %w", name, err)
	}
	logger.Debug("Saved artifact", zap.String("path", path))
	return nil
}

func (s *Store) load(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrArtifactsMissing, name)
		}
		return fmt.Errorf("reading artifact %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding artifact %s: %w", name, err)
	}
	return nil
}

func (s *Store) SaveNorms(norms model.ParsedNorms) error {
	return s.save(NormsFile, norms)
}

func (s *Store) LoadNorms() (model.ParsedNorms, error) {
	var norms model.ParsedNorms
	err := s.load(NormsFile, &norms)
	return norms, err
}

func (s *Store) SaveLogs(logs model.ParsedLogs) error {
	return s.save(LogsFile, logs)
}

func (s *Store) LoadLogs() (model.ParsedLogs, error) {
	var logs model.ParsedLogs
	err := s.load(LogsFile, &logs)
	return logs, err
}

func (s *Store) SaveResults(results *model.ComplianceResults) error {
	return s.save(ResultsFile, results)
}

func (s *Store) LoadResults() (*model.ComplianceResults, error) {
	var results model.ComplianceResults
	if err := s.load(ResultsFile, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

func (s *Store) SaveProfile(profile *model.SystemProfile) error {
	return s.save(ProfileFile, profile)
}

func (s *Store) LoadProfile() (*model.SystemProfile, error) {
	var profile model.SystemProfile
	if err := s.load(ProfileFile, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
