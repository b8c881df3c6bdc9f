// model/verdict.go
package model

// Confidence grades how a role was bound to an agent identifier.
type Confidence string

const (
	ConfidenceExact            Confidence = "exact"
	ConfidenceSubstring        Confidence = "substring"
	ConfidenceSubstringReverse Confidence = "substring_reverse"
	ConfidencePartial          Confidence = "partial"
	ConfidenceUnknown          Confidence = "unknown"
)

// RoleMapping binds an agent identifier to its inferred role. It is a
// derived fact, not authoritative truth: Evidence always records why the
// binding was made. Produced once per agent and never mutated.
type RoleMapping struct {
	AgentID      string     `json:"agent_id"`
	InferredRole string     `json:"inferred_role,omitempty"`
	Confidence   Confidence `json:"confidence"`
	Evidence     string     `json:"evidence"`
}

// ApplicabilityRecord states whether one norm binds one agent. The full set
// over all norm×agent pairs forms a dense matrix and is the authoritative
// gate for compliance evaluation.
type ApplicabilityRecord struct {
	NormID  string `json:"norm_id"`
	AgentID string `json:"agent_id"`
	Applies bool   `json:"applies"`
	Reason  string `json:"reason"`
}

// ComplianceStatus is the final judgment for a norm×agent pair.
type ComplianceStatus string

const (
	StatusFulfilled     ComplianceStatus = "fulfilled"
	StatusViolated      ComplianceStatus = "violated"
	StatusNotApplicable ComplianceStatus = "not_applicable"
	StatusUnknown       ComplianceStatus = "unknown"
)

// MatchType names the similarity tier that linked an action to a target.
type MatchType string

const (
	MatchExact                 MatchType = "exact"
	MatchContainsMission       MatchType = "contains_mission"
	MatchMissionContainsAction MatchType = "mission_contains_action"
	MatchKeywordOverlap        MatchType = "keyword_overlap"
	MatchNone                  MatchType = "no_match"
)

// EvidenceItem cites one log entry as justification for a verdict, together
// with the literal target it matched and the similarity tier that matched it.
type EvidenceItem struct {
	EntryID        string    `json:"entry_id"`
	Action         string    `json:"action"`
	MatchType      MatchType `json:"match_type"`
	MatchedTo      string    `json:"matched_to"`
	TemporalMarker any       `json:"temporal_marker,omitempty"`
}

// ComplianceVerdict is the permanent audit record for one norm×agent pair.
// Produced exactly once by the compliance evaluator and never mutated.
type ComplianceVerdict struct {
	NormID    string           `json:"norm_id"`
	AgentID   string           `json:"agent_id"`
	Status    ComplianceStatus `json:"status"`
	Evidence  []EvidenceItem   `json:"evidence"`
	Reasoning string           `json:"reasoning"`
}

// ComplianceResults bundles the three artifacts a full reasoning run
// produces. Each is append-only once written; downstream consumers (the
// profiler, the evidence retriever, the explanation generator) reload them
// independently without re-running the engine.
type ComplianceResults struct {
	RoleMapping         map[string]RoleMapping `json:"role_mapping"`
	ApplicabilityMatrix []ApplicabilityRecord  `json:"applicability_matrix"`
	ComplianceResults   []ComplianceVerdict    `json:"compliance_results"`
}

// StatusCounts rolls the verdict set up by status.
func (r *ComplianceResults) StatusCounts() map[ComplianceStatus]int {
	counts := make(map[ComplianceStatus]int)
	for _, v := range r.ComplianceResults {
		counts[v.Status]++
	}
	return counts
}
