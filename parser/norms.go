// parser/norms.go
package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
	"github.com/MZain-ul-Abideen/MAS-Explainability/util"
)

// Source files name fields inconsistently; every alias on the right resolves
// to the canonical field on the left. First alias present wins.
var normFieldAliases = map[string][]string{
	"norm_id":   {"norm_id", "id", "norm_identifier", "normId"},
	"norm_type": {"norm_type", "type", "normType", "kind"},
	"role":      {"role", "agent_role", "agentRole"},
	"mission":   {"mission", "goal", "objective"},
	"condition": {"condition", "when", "if", "precondition"},
	"action":    {"action", "what", "behavior", "prescribed_action"},
}

// Keys consumed into canonical fields; everything else lands in metadata.
var normConsumedKeys = map[string]struct{}{
	"norm_id": {}, "id": {}, "norm_identifier": {}, "normId": {},
	"norm_type": {}, "type": {}, "normType": {}, "kind": {},
	"role": {}, "agent_role": {}, "agentRole": {},
	"mission": {}, "goal": {}, "objective": {},
	"condition": {}, "when": {}, "if": {}, "precondition": {},
	"action": {}, "what": {}, "behavior": {}, "prescribed_action": {},
}

func aliasString(raw map[string]any, field string) string {
	for _, name := range normFieldAliases[field] {
		if v, ok := raw[name]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// ParseNorms reads a norm specification file and returns canonical records.
// The format is chosen by extension: .json, .yaml/.yml or .xml. Entries that
// fail validation are skipped with a warning, matching the tolerant posture
// of the rest of ingestion.
func ParseNorms(path string) (model.ParsedNorms, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseNormsData(path, json.Unmarshal)
	case ".yaml", ".yml":
		return parseNormsData(path, yaml.Unmarshal)
	case ".xml":
		return ParseNormsXML(path)
	}
	return model.ParsedNorms{}, fmt.Errorf("%w: %s (supported: .json, .yaml, .xml)", apperrors.ErrUnsupportedFormat, filepath.Ext(path))
}

func parseNormsData(path string, unmarshal func([]byte, any) error) (model.ParsedNorms, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ParsedNorms{}, fmt.Errorf("reading norm file: %w", err)
	}

	var raw any
	if err := unmarshal(data, &raw); err != nil {
		return model.ParsedNorms{}, fmt.Errorf("decoding norm file %s: %w", path, err)
	}

	rawNorms, err := extractRawNorms(raw)
	if err != nil {
		return model.ParsedNorms{}, err
	}

	norms := make([]model.Norm, 0, len(rawNorms))
	for idx, rawNorm := range rawNorms {
		norm, err := parseSingleNorm(rawNorm, idx)
		if err == nil {
			err = util.ValidateNorm(norm)
		}
		if err != nil {
			logger.Warn("Skipping unparseable norm",
				zap.Int("index", idx),
				zap.Error(err))
			continue
		}
		norms = append(norms, norm)
	}

	return model.NewParsedNorms(norms), nil
}

// extractRawNorms accepts a wrapper object with a "norms" key, a bare list,
// or a single norm object.
func extractRawNorms(raw any) ([]map[string]any, error) {
	switch v := raw.(type) {
	case map[string]any:
		if wrapped, ok := v["norms"]; ok {
			return toRawMaps(wrapped)
		}
		return []map[string]any{v}, nil
	case []any:
		return toRawMaps(v)
	}
	return nil, fmt.Errorf("%w: norm file must contain an object or a list", apperrors.ErrInvalidNormData)
}

func toRawMaps(raw any) ([]map[string]any, error) {
	items, ok := raw.([]any)
	if !ok {
		if m, ok := raw.(map[string]any); ok {
			return []map[string]any{m}, nil
		}
		return nil, fmt.Errorf("%w: expected a list of norms", apperrors.ErrInvalidNormData)
	}
	maps := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		maps = append(maps, m)
	}
	return maps, nil
}

func parseSingleNorm(raw map[string]any, index int) (model.Norm, error) {
	normID := aliasString(raw, "norm_id")
	if normID == "" {
		normID = fmt.Sprintf("norm_%d", index)
	}

	normType := strings.ToLower(aliasString(raw, "norm_type"))
	if normType != "" && !model.NormType(normType).Valid() {
		return model.Norm{}, fmt.Errorf("%w: '%s' in norm %s", apperrors.ErrInvalidNormType, normType, normID)
	}

	metadata := make(map[string]any)
	for k, v := range raw {
		if _, consumed := normConsumedKeys[k]; consumed {
			continue
		}
		metadata[k] = v
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	return model.Norm{
		NormID:    normID,
		NormType:  model.NormType(normType),
		Role:      aliasString(raw, "role"),
		Mission:   aliasString(raw, "mission"),
		Condition: aliasString(raw, "condition"),
		Action:    aliasString(raw, "action"),
		Metadata:  metadata,
	}, nil
}
