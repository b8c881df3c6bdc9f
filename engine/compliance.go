// engine/compliance.go
package engine

import (
	"fmt"
	"strings"

	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

// actionMatcher is one tier of the action-target similarity cascade. The
// cascade is an ordered list tried first to last, short-circuiting on the
// first hit; collapsing it into a single score would lose the determinism
// the tie-break rules depend on.
type actionMatcher struct {
	matchType model.MatchType
	test      func(action, target string) bool
}

// ComplianceEvaluator judges one (norm, agent) pair against the agent's
// recorded action history. Purely evidence based: only what the log records
// counts, and every verdict cites the entries that produced it.
type ComplianceEvaluator struct {
	matchers []actionMatcher
}

// NewComplianceEvaluator builds an evaluator with the given keyword-overlap
// threshold. The threshold is the fraction of the target's word set that must
// appear in the action for the weakest tier to fire; 0.5 is the inherited
// default.
func NewComplianceEvaluator(keywordOverlapThreshold float64) *ComplianceEvaluator {
	return &ComplianceEvaluator{
		matchers: []actionMatcher{
			{model.MatchExact, func(action, target string) bool {
				return action == target
			}},
			{model.MatchContainsMission, func(action, target string) bool {
				return strings.Contains(action, target)
			}},
			{model.MatchMissionContainsAction, func(action, target string) bool {
				return strings.Contains(target, action)
			}},
			{model.MatchKeywordOverlap, func(action, target string) bool {
				targetWords := wordSet(target)
				if len(targetWords) == 0 {
					return false
				}
				overlap := 0
				for w := range wordSet(action) {
					if _, ok := targetWords[w]; ok {
						overlap++
					}
				}
				return float64(overlap) >= float64(len(targetWords))*keywordOverlapThreshold
			}},
		},
	}
}

// normalizeAction lowercases and maps underscores and hyphens to spaces so
// "assemble_skateboard" and "assemble skateboard" compare equal.
func normalizeAction(s string) string {
	if s == "" {
		return ""
	}
	normalized := strings.ToLower(s)
	normalized = strings.ReplaceAll(normalized, "_", " ")
	normalized = strings.ReplaceAll(normalized, "-", " ")
	return strings.TrimSpace(normalized)
}

func wordSet(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		words[w] = struct{}{}
	}
	return words
}

// Match tests whether an observed action satisfies a target mission or
// action, reporting the tier that matched.
func (e *ComplianceEvaluator) Match(action, target string) (bool, model.MatchType) {
	if target == "" {
		return false, model.MatchNone
	}
	actionNorm := normalizeAction(action)
	targetNorm := normalizeAction(target)
	for _, m := range e.matchers {
		if m.test(actionNorm, targetNorm) {
			return true, m.matchType
		}
	}
	return false, model.MatchNone
}

// Evaluate produces the compliance verdict for the pair named by the
// applicability record. It is total: every input resolves to a definite
// status, ambiguity becomes unknown or not_applicable, never an error.
func (e *ComplianceEvaluator) Evaluate(norm *model.Norm, app model.ApplicabilityRecord, actions []model.LogEntry, strategy model.TemporalStrategy) model.ComplianceVerdict {
	if norm == nil {
		return model.ComplianceVerdict{
			NormID:    app.NormID,
			AgentID:   app.AgentID,
			Status:    model.StatusUnknown,
			Evidence:  []model.EvidenceItem{},
			Reasoning: fmt.Sprintf("Norm %s not found", app.NormID),
		}
	}

	if !app.Applies {
		return model.ComplianceVerdict{
			NormID:    norm.NormID,
			AgentID:   app.AgentID,
			Status:    model.StatusNotApplicable,
			Evidence:  []model.EvidenceItem{},
			Reasoning: fmt.Sprintf("Norm does not apply to agent %s", app.AgentID),
		}
	}

	// An empty history only condemns obligations. Prohibitions and
	// permissions fall through to their normal loops, which over zero
	// actions yield fulfilled with empty evidence.
	if len(actions) == 0 && norm.NormType == model.NormObligation {
		return model.ComplianceVerdict{
			NormID:    norm.NormID,
			AgentID:   app.AgentID,
			Status:    model.StatusViolated,
			Evidence:  []model.EvidenceItem{},
			Reasoning: "Agent performed no actions (norm requires action)",
		}
	}

	switch norm.NormType {
	case model.NormObligation:
		return e.evaluateObligation(norm, app.AgentID, actions, strategy)
	case model.NormProhibition:
		return e.evaluateProhibition(norm, app.AgentID, actions, strategy)
	case model.NormPermission:
		return e.evaluatePermission(norm, app.AgentID, actions, strategy)
	}

	return model.ComplianceVerdict{
		NormID:    norm.NormID,
		AgentID:   app.AgentID,
		Status:    model.StatusUnknown,
		Evidence:  []model.EvidenceItem{},
		Reasoning: fmt.Sprintf("Unknown norm type: %s", norm.NormType),
	}
}

// evaluateObligation looks for any action satisfying the norm's mission or
// required action. Every matching entry is accumulated as evidence; one match
// is enough to fulfill.
func (e *ComplianceEvaluator) evaluateObligation(norm *model.Norm, agentID string, actions []model.LogEntry, strategy model.TemporalStrategy) model.ComplianceVerdict {
	evidence := []model.EvidenceItem{}

	for _, entry := range actions {
		for _, target := range []string{norm.Mission, norm.Action} {
			if target == "" {
				continue
			}
			if ok, matchType := e.Match(entry.Action, target); ok {
				evidence = append(evidence, evidenceFor(entry, matchType, target, strategy))
			}
		}
	}

	target := norm.Mission
	if target == "" {
		target = norm.Action
	}

	if len(evidence) > 0 {
		return model.ComplianceVerdict{
			NormID:    norm.NormID,
			AgentID:   agentID,
			Status:    model.StatusFulfilled,
			Evidence:  evidence,
			Reasoning: fmt.Sprintf("Found %d action(s) fulfilling obligation '%s'", len(evidence), target),
		}
	}
	return model.ComplianceVerdict{
		NormID:    norm.NormID,
		AgentID:   agentID,
		Status:    model.StatusViolated,
		Evidence:  evidence,
		Reasoning: fmt.Sprintf("No actions found fulfilling obligation '%s'", target),
	}
}

// evaluateProhibition collects every action matching the forbidden one.
// Prohibitions accumulate all violations, not just the first.
func (e *ComplianceEvaluator) evaluateProhibition(norm *model.Norm, agentID string, actions []model.LogEntry, strategy model.TemporalStrategy) model.ComplianceVerdict {
	evidence := []model.EvidenceItem{}

	for _, entry := range actions {
		if norm.Action == "" {
			continue
		}
		if ok, matchType := e.Match(entry.Action, norm.Action); ok {
			evidence = append(evidence, evidenceFor(entry, matchType, norm.Action, strategy))
		}
	}

	if len(evidence) > 0 {
		return model.ComplianceVerdict{
			NormID:    norm.NormID,
			AgentID:   agentID,
			Status:    model.StatusViolated,
			Evidence:  evidence,
			Reasoning: fmt.Sprintf("Agent performed prohibited action '%s' %d time(s)", norm.Action, len(evidence)),
		}
	}
	return model.ComplianceVerdict{
		NormID:    norm.NormID,
		AgentID:   agentID,
		Status:    model.StatusFulfilled,
		Evidence:  evidence,
		Reasoning: fmt.Sprintf("Agent did not perform prohibited action '%s'", norm.Action),
	}
}

// evaluatePermission records whether the agent exercised the permission.
// Permissions are informational and never produce violations.
func (e *ComplianceEvaluator) evaluatePermission(norm *model.Norm, agentID string, actions []model.LogEntry, strategy model.TemporalStrategy) model.ComplianceVerdict {
	evidence := []model.EvidenceItem{}

	target := norm.Action
	if target == "" {
		target = norm.Mission
	}

	for _, entry := range actions {
		if target == "" {
			continue
		}
		if ok, matchType := e.Match(entry.Action, target); ok {
			evidence = append(evidence, evidenceFor(entry, matchType, target, strategy))
		}
	}

	used := "not used"
	if len(evidence) > 0 {
		used = "used"
	}
	return model.ComplianceVerdict{
		NormID:    norm.NormID,
		AgentID:   agentID,
		Status:    model.StatusFulfilled,
		Evidence:  evidence,
		Reasoning: fmt.Sprintf("Permission %s (%d occurrences)", used, len(evidence)),
	}
}

func evidenceFor(entry model.LogEntry, matchType model.MatchType, target string, strategy model.TemporalStrategy) model.EvidenceItem {
	return model.EvidenceItem{
		EntryID:        entry.EntryID,
		Action:         entry.Action,
		MatchType:      matchType,
		MatchedTo:      target,
		TemporalMarker: entry.TemporalMarker(strategy),
	}
}
