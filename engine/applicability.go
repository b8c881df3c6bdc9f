// engine/applicability.go
package engine

import (
	"fmt"

	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

// ApplicabilityResolver decides whether a norm binds an agent. Role inference
// happens once per agent elsewhere; the resolver only compares the already
// inferred role against the norm's requirement.
type ApplicabilityResolver struct{}

func NewApplicabilityResolver() *ApplicabilityResolver {
	return &ApplicabilityResolver{}
}

// Resolve produces the applicability record for one norm and one agent.
// Norms without a role requirement apply to every agent.
func (r *ApplicabilityResolver) Resolve(norm *model.Norm, agentID string, mapping model.RoleMapping) model.ApplicabilityRecord {
	if norm == nil {
		return model.ApplicabilityRecord{
			AgentID: agentID,
			Applies: false,
			Reason:  "Norm not found",
		}
	}

	if norm.Role == "" {
		return model.ApplicabilityRecord{
			NormID:  norm.NormID,
			AgentID: agentID,
			Applies: true,
			Reason:  "Norm has no role requirement (applies to all)",
		}
	}

	if mapping.InferredRole == norm.Role {
		return model.ApplicabilityRecord{
			NormID:  norm.NormID,
			AgentID: agentID,
			Applies: true,
			Reason:  fmt.Sprintf("Agent role '%s' matches norm requirement '%s' (%s)", mapping.InferredRole, norm.Role, mapping.Confidence),
		}
	}

	return model.ApplicabilityRecord{
		NormID:  norm.NormID,
		AgentID: agentID,
		Applies: false,
		Reason:  fmt.Sprintf("Agent role '%s' does not match norm requirement '%s'", mapping.InferredRole, norm.Role),
	}
}

// BuildMatrix resolves the full norms × agents cross product. Outer loop in
// norm ingestion order, inner loop in agent first-observed order; the dense
// result gates all compliance evaluation downstream.
func (r *ApplicabilityResolver) BuildMatrix(norms []model.Norm, agents []string, mappings map[string]model.RoleMapping) []model.ApplicabilityRecord {
	matrix := make([]model.ApplicabilityRecord, 0, len(norms)*len(agents))
	for i := range norms {
		for _, agentID := range agents {
			matrix = append(matrix, r.Resolve(&norms[i], agentID, mappings[agentID]))
		}
	}
	return matrix
}
