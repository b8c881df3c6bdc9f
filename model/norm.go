// model/norm.go
package model

// NormType classifies what a norm demands of the agents it binds.
type NormType string

const (
	NormObligation  NormType = "obligation"
	NormProhibition NormType = "prohibition"
	NormPermission  NormType = "permission"
)

// Valid reports whether t is one of the three recognized norm types.
func (t NormType) Valid() bool {
	switch t {
	case NormObligation, NormProhibition, NormPermission:
		return true
	}
	return false
}

// Norm is a single normative rule. A norm specifies what agents holding a
// role must do, must not do, or are permitted to do. Role, mission, condition
// and action are free-form strings taken verbatim from the norms input
// file; there is no shared vocabulary with the execution log.
type Norm struct {
	NormID    string         `json:"norm_id"`
	NormType  NormType       `json:"norm_type"`
	Role      string         `json:"role,omitempty"`
	Mission   string         `json:"mission,omitempty"`
	Condition string         `json:"condition,omitempty"`
	Action    string         `json:"action,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ParsedNorms is the validated norm set handed to the reasoning engine.
// Norms keep their ingestion order; role inference and the orchestrator
// depend on that order for deterministic output.
type ParsedNorms struct {
	Norms      []Norm `json:"norms"`
	TotalCount int    `json:"total_count"`
}

func NewParsedNorms(norms []Norm) ParsedNorms {
	return ParsedNorms{Norms: norms, TotalCount: len(norms)}
}

// FindNorm returns the norm with the given ID, or nil if absent.
func (p *ParsedNorms) FindNorm(normID string) *Norm {
	for i := range p.Norms {
		if p.Norms[i].NormID == normID {
			return &p.Norms[i]
		}
	}
	return nil
}

// CandidateRoles returns every role name referenced by the norm set, in
// ingestion order, deduplicated. This is the candidate set for role
// inference; its order is part of the engine's deterministic contract.
func (p *ParsedNorms) CandidateRoles() []string {
	seen := make(map[string]struct{}, len(p.Norms))
	roles := make([]string, 0, len(p.Norms))
	for _, n := range p.Norms {
		if n.Role == "" {
			continue
		}
		if _, ok := seen[n.Role]; ok {
			continue
		}
		seen[n.Role] = struct{}{}
		roles = append(roles, n.Role)
	}
	return roles
}
