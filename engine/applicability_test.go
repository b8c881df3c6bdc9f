// engine/applicability_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

func TestResolve(t *testing.T) {
	resolver := NewApplicabilityResolver()

	t.Run("NormWithoutRoleAppliesToAll", func(t *testing.T) {
		norm := &model.Norm{NormID: "n1", NormType: model.NormProhibition, Action: "overstock"}
		mapping := model.RoleMapping{AgentID: "warehouse_7", Confidence: model.ConfidenceUnknown}

		record := resolver.Resolve(norm, "warehouse_7", mapping)
		assert.True(t, record.Applies)
		assert.Equal(t, "Norm has no role requirement (applies to all)", record.Reason)
	})

	t.Run("MatchingRoleApplies", func(t *testing.T) {
		norm := &model.Norm{NormID: "n2", NormType: model.NormObligation, Role: "assembler", Mission: "assemble skateboard"}
		mapping := model.RoleMapping{AgentID: "assembler_1", InferredRole: "assembler", Confidence: model.ConfidenceSubstring}

		record := resolver.Resolve(norm, "assembler_1", mapping)
		assert.True(t, record.Applies)
		assert.Equal(t, "Agent role 'assembler' matches norm requirement 'assembler' (substring)", record.Reason)
	})

	t.Run("MismatchedRoleDoesNotApply", func(t *testing.T) {
		norm := &model.Norm{NormID: "n2", NormType: model.NormObligation, Role: "assembler", Mission: "assemble skateboard"}
		mapping := model.RoleMapping{AgentID: "painter_1", InferredRole: "painter", Confidence: model.ConfidenceSubstring}

		record := resolver.Resolve(norm, "painter_1", mapping)
		assert.False(t, record.Applies)
		assert.Equal(t, "Agent role 'painter' does not match norm requirement 'assembler'", record.Reason)
	})

	t.Run("UnknownRoleDoesNotApply", func(t *testing.T) {
		norm := &model.Norm{NormID: "n2", NormType: model.NormObligation, Role: "assembler", Mission: "assemble skateboard"}
		mapping := model.RoleMapping{AgentID: "mystery", Confidence: model.ConfidenceUnknown}

		record := resolver.Resolve(norm, "mystery", mapping)
		assert.False(t, record.Applies)
	})

	t.Run("NilNorm", func(t *testing.T) {
		record := resolver.Resolve(nil, "assembler_1", model.RoleMapping{})
		assert.False(t, record.Applies)
	})
}

func TestBuildMatrix(t *testing.T) {
	resolver := NewApplicabilityResolver()

	norms := []model.Norm{
		{NormID: "n1", NormType: model.NormObligation, Role: "assembler", Mission: "assemble skateboard"},
		{NormID: "n2", NormType: model.NormProhibition, Action: "overstock"},
	}
	agents := []string{"assembler_1", "painter_1"}
	mappings := map[string]model.RoleMapping{
		"assembler_1": {AgentID: "assembler_1", InferredRole: "assembler", Confidence: model.ConfidenceSubstring},
		"painter_1":   {AgentID: "painter_1", InferredRole: "painter", Confidence: model.ConfidenceSubstring},
	}

	matrix := resolver.BuildMatrix(norms, agents, mappings)

	assert.Len(t, matrix, 4)

	// Dense cross product in norm order then agent order.
	assert.Equal(t, "n1", matrix[0].NormID)
	assert.Equal(t, "assembler_1", matrix[0].AgentID)
	assert.Equal(t, "n1", matrix[1].NormID)
	assert.Equal(t, "painter_1", matrix[1].AgentID)
	assert.Equal(t, "n2", matrix[2].NormID)
	assert.Equal(t, "assembler_1", matrix[2].AgentID)
	assert.Equal(t, "n2", matrix[3].NormID)
	assert.Equal(t, "painter_1", matrix[3].AgentID)

	assert.True(t, matrix[0].Applies)
	assert.False(t, matrix[1].Applies)
	assert.True(t, matrix[2].Applies)
	assert.True(t, matrix[3].Applies)
}
