// engine/roles.go
package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

// confidenceRank is the explicit tie-break table for role inference. A later
// candidate replaces the current best only when its rank is strictly higher;
// equal ranks keep the first-encountered candidate.
var confidenceRank = map[model.Confidence]int{
	model.ConfidenceExact:            3,
	model.ConfidenceSubstring:        2,
	model.ConfidenceSubstringReverse: 2,
	model.ConfidencePartial:          1,
	model.ConfidenceUnknown:          0,
}

var identifierPunct = regexp.MustCompile(`[^\w\s]`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// RoleInferenceEngine binds agent identifiers to role names using a layered
// string-matching cascade. It holds no state between calls.
type RoleInferenceEngine struct{}

func NewRoleInferenceEngine() *RoleInferenceEngine {
	return &RoleInferenceEngine{}
}

// normalizeIdentifier lowercases, strips punctuation other than underscores
// and collapses whitespace runs. Underscores survive normalization so that
// "assembler_1" keeps its role prefix intact as a substring.
func normalizeIdentifier(s string) string {
	if s == "" {
		return ""
	}
	normalized := identifierPunct.ReplaceAllString(strings.ToLower(s), "")
	normalized = whitespaceRun.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// matchRole tests one candidate role against one agent identifier and
// reports the confidence tier of the first strategy that hits. The tiers
// are tried strongest first; matchRole never reorders them.
func matchRole(agentNorm, roleNorm string) (model.Confidence, bool) {
	if roleNorm == "" {
		return model.ConfidenceUnknown, false
	}
	if agentNorm == roleNorm {
		return model.ConfidenceExact, true
	}
	if strings.Contains(agentNorm, roleNorm) {
		return model.ConfidenceSubstring, true
	}
	if strings.Contains(roleNorm, agentNorm) {
		return model.ConfidenceSubstringReverse, true
	}
	for _, part := range strings.Fields(roleNorm) {
		if strings.Contains(agentNorm, part) {
			return model.ConfidencePartial, true
		}
	}
	return model.ConfidenceUnknown, false
}

// InferRole infers the most likely role binding for agentID out of the
// candidate roles. Candidates must be supplied in norm ingestion order; the
// result is deterministic for a fixed input and order. InferRole never
// fails: no match yields confidence unknown and an empty role.
func (e *RoleInferenceEngine) InferRole(agentID string, candidateRoles []string) model.RoleMapping {
	agentNorm := normalizeIdentifier(agentID)

	bestRole := ""
	bestConfidence := model.ConfidenceUnknown

	for _, role := range candidateRoles {
		confidence, ok := matchRole(agentNorm, normalizeIdentifier(role))
		if !ok {
			continue
		}
		if confidenceRank[confidence] > confidenceRank[bestConfidence] {
			bestRole = role
			bestConfidence = confidence
		}
	}

	if bestRole == "" {
		return model.RoleMapping{
			AgentID:    agentID,
			Confidence: model.ConfidenceUnknown,
			Evidence:   fmt.Sprintf("No role match found for '%s'", agentID),
		}
	}

	return model.RoleMapping{
		AgentID:      agentID,
		InferredRole: bestRole,
		Confidence:   bestConfidence,
		Evidence:     fmt.Sprintf("Matched '%s' to role '%s' via %s", agentID, bestRole, bestConfidence),
	}
}
