// engine/compliance_test.go
package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

func seqEntries(agentID string, actions ...string) []model.LogEntry {
	entries := make([]model.LogEntry, 0, len(actions))
	for i, action := range actions {
		seq := i
		entries = append(entries, model.LogEntry{
			EntryID:        fmt.Sprintf("entry_%d", i),
			AgentID:        agentID,
			Action:         action,
			SequenceNumber: &seq,
		})
	}
	return entries
}

func applies(normID, agentID string) model.ApplicabilityRecord {
	return model.ApplicabilityRecord{NormID: normID, AgentID: agentID, Applies: true}
}

func TestMatch(t *testing.T) {
	evaluator := NewComplianceEvaluator(0.5)

	t.Run("ExactAfterNormalization", func(t *testing.T) {
		ok, matchType := evaluator.Match("assemble_skateboard", "assemble skateboard")
		assert.True(t, ok)
		assert.Equal(t, model.MatchExact, matchType)
	})

	t.Run("ActionContainsTarget", func(t *testing.T) {
		ok, matchType := evaluator.Match("overstock warehouse", "overstock")
		assert.True(t, ok)
		assert.Equal(t, model.MatchContainsMission, matchType)
	})

	t.Run("TargetContainsAction", func(t *testing.T) {
		ok, matchType := evaluator.Match("assemble", "assemble skateboard")
		assert.True(t, ok)
		assert.Equal(t, model.MatchMissionContainsAction, matchType)
	})

	t.Run("KeywordOverlap", func(t *testing.T) {
		// 2 of 3 target words present, above the 0.5 threshold, and
		// neither side contains the other.
		ok, matchType := evaluator.Match("deliver skateboard quickly today", "paint deliver skateboard")
		assert.True(t, ok)
		assert.Equal(t, model.MatchKeywordOverlap, matchType)
	})

	t.Run("BelowOverlapThreshold", func(t *testing.T) {
		// 1 of 3 target words, below 0.5.
		ok, matchType := evaluator.Match("paint ramp", "paint deliver wheels")
		assert.False(t, ok)
		assert.Equal(t, model.MatchNone, matchType)
	})

	t.Run("ThresholdBoundaryIsInclusive", func(t *testing.T) {
		// Exactly half the target words overlap and neither string
		// contains the other.
		ok, matchType := evaluator.Match("inspect frame carefully", "inspect wheels")
		assert.True(t, ok)
		assert.Equal(t, model.MatchKeywordOverlap, matchType)
	})

	t.Run("EmptyTarget", func(t *testing.T) {
		ok, matchType := evaluator.Match("assemble", "")
		assert.False(t, ok)
		assert.Equal(t, model.MatchNone, matchType)
	})
}

func TestEvaluateGating(t *testing.T) {
	evaluator := NewComplianceEvaluator(0.5)

	t.Run("NilNormIsUnknown", func(t *testing.T) {
		app := model.ApplicabilityRecord{NormID: "n9", AgentID: "assembler_1", Applies: true}
		verdict := evaluator.Evaluate(nil, app, seqEntries("assembler_1", "assemble skateboard"), model.TemporalSequence)

		assert.Equal(t, model.StatusUnknown, verdict.Status)
		assert.Equal(t, "Norm n9 not found", verdict.Reasoning)
		assert.NotNil(t, verdict.Evidence)
		assert.Empty(t, verdict.Evidence)
	})

	t.Run("NonApplicableShortCircuits", func(t *testing.T) {
		norm := &model.Norm{NormID: "n1", NormType: model.NormObligation, Role: "assembler", Mission: "assemble skateboard"}
		app := model.ApplicabilityRecord{NormID: "n1", AgentID: "painter_1", Applies: false}

		// The action history would fulfill the obligation, but the gate
		// must win.
		verdict := evaluator.Evaluate(norm, app, seqEntries("painter_1", "assemble skateboard"), model.TemporalSequence)
		assert.Equal(t, model.StatusNotApplicable, verdict.Status)
		assert.Equal(t, "Norm does not apply to agent painter_1", verdict.Reasoning)
		assert.Empty(t, verdict.Evidence)
	})

	t.Run("UnknownNormType", func(t *testing.T) {
		norm := &model.Norm{NormID: "n1", NormType: "mandate", Action: "assemble"}
		verdict := evaluator.Evaluate(norm, applies("n1", "assembler_1"), seqEntries("assembler_1", "assemble"), model.TemporalSequence)
		assert.Equal(t, model.StatusUnknown, verdict.Status)
		assert.Equal(t, "Unknown norm type: mandate", verdict.Reasoning)
	})
}

func TestEvaluateObligation(t *testing.T) {
	evaluator := NewComplianceEvaluator(0.5)
	norm := &model.Norm{NormID: "n1", NormType: model.NormObligation, Role: "assembler", Mission: "assemble skateboard"}

	t.Run("FulfilledAccumulatesAllMatches", func(t *testing.T) {
		entries := seqEntries("assembler_1", "assemble skateboard", "take break", "assemble_skateboard")
		verdict := evaluator.Evaluate(norm, applies("n1", "assembler_1"), entries, model.TemporalSequence)

		assert.Equal(t, model.StatusFulfilled, verdict.Status)
		assert.Len(t, verdict.Evidence, 2)
		assert.Equal(t, "Found 2 action(s) fulfilling obligation 'assemble skateboard'", verdict.Reasoning)
		assert.Equal(t, "entry_0", verdict.Evidence[0].EntryID)
		assert.Equal(t, model.MatchExact, verdict.Evidence[0].MatchType)
		assert.Equal(t, "assemble skateboard", verdict.Evidence[0].MatchedTo)
		assert.Equal(t, 0, verdict.Evidence[0].TemporalMarker)
	})

	t.Run("ViolatedWhenNothingMatches", func(t *testing.T) {
		entries := seqEntries("assembler_1", "take break", "eat lunch")
		verdict := evaluator.Evaluate(norm, applies("n1", "assembler_1"), entries, model.TemporalSequence)

		assert.Equal(t, model.StatusViolated, verdict.Status)
		assert.Empty(t, verdict.Evidence)
		assert.Equal(t, "No actions found fulfilling obligation 'assemble skateboard'", verdict.Reasoning)
	})

	t.Run("EmptyHistoryIsViolated", func(t *testing.T) {
		verdict := evaluator.Evaluate(norm, applies("n1", "assembler_1"), nil, model.TemporalSequence)

		assert.Equal(t, model.StatusViolated, verdict.Status)
		assert.NotNil(t, verdict.Evidence)
		assert.Empty(t, verdict.Evidence)
		assert.Equal(t, "Agent performed no actions (norm requires action)", verdict.Reasoning)
	})

	t.Run("ActionTargetUsedWhenMissionEmpty", func(t *testing.T) {
		actionNorm := &model.Norm{NormID: "n2", NormType: model.NormObligation, Action: "report status"}
		entries := seqEntries("assembler_1", "report status")
		verdict := evaluator.Evaluate(actionNorm, applies("n2", "assembler_1"), entries, model.TemporalSequence)

		assert.Equal(t, model.StatusFulfilled, verdict.Status)
		assert.Equal(t, "Found 1 action(s) fulfilling obligation 'report status'", verdict.Reasoning)
	})
}

func TestEvaluateProhibition(t *testing.T) {
	evaluator := NewComplianceEvaluator(0.5)
	norm := &model.Norm{NormID: "n3", NormType: model.NormProhibition, Action: "overstock"}

	t.Run("ViolatedCountsEveryOccurrence", func(t *testing.T) {
		entries := seqEntries("warehouse_7", "overstock warehouse", "restock", "overstock warehouse")
		verdict := evaluator.Evaluate(norm, applies("n3", "warehouse_7"), entries, model.TemporalSequence)

		assert.Equal(t, model.StatusViolated, verdict.Status)
		assert.Len(t, verdict.Evidence, 2)
		assert.Equal(t, "Agent performed prohibited action 'overstock' 2 time(s)", verdict.Reasoning)
		assert.Equal(t, model.MatchContainsMission, verdict.Evidence[0].MatchType)
	})

	t.Run("FulfilledWhenNeverPerformed", func(t *testing.T) {
		entries := seqEntries("warehouse_7", "restock", "count inventory")
		verdict := evaluator.Evaluate(norm, applies("n3", "warehouse_7"), entries, model.TemporalSequence)

		assert.Equal(t, model.StatusFulfilled, verdict.Status)
		assert.Empty(t, verdict.Evidence)
		assert.Equal(t, "Agent did not perform prohibited action 'overstock'", verdict.Reasoning)
	})

	t.Run("EmptyHistoryIsFulfilled", func(t *testing.T) {
		verdict := evaluator.Evaluate(norm, applies("n3", "warehouse_7"), nil, model.TemporalSequence)

		assert.Equal(t, model.StatusFulfilled, verdict.Status)
		assert.NotNil(t, verdict.Evidence)
		assert.Empty(t, verdict.Evidence)
	})
}

func TestEvaluatePermission(t *testing.T) {
	evaluator := NewComplianceEvaluator(0.5)
	norm := &model.Norm{NormID: "n4", NormType: model.NormPermission, Action: "take break"}

	t.Run("UsedPermissionIsFulfilled", func(t *testing.T) {
		entries := seqEntries("assembler_1", "take break", "assemble skateboard")
		verdict := evaluator.Evaluate(norm, applies("n4", "assembler_1"), entries, model.TemporalSequence)

		assert.Equal(t, model.StatusFulfilled, verdict.Status)
		assert.Len(t, verdict.Evidence, 1)
		assert.Equal(t, "Permission used (1 occurrences)", verdict.Reasoning)
	})

	t.Run("UnusedPermissionIsStillFulfilled", func(t *testing.T) {
		entries := seqEntries("assembler_1", "assemble skateboard")
		verdict := evaluator.Evaluate(norm, applies("n4", "assembler_1"), entries, model.TemporalSequence)

		assert.Equal(t, model.StatusFulfilled, verdict.Status)
		assert.Empty(t, verdict.Evidence)
		assert.Equal(t, "Permission not used (0 occurrences)", verdict.Reasoning)
	})

	t.Run("EmptyHistoryIsFulfilled", func(t *testing.T) {
		verdict := evaluator.Evaluate(norm, applies("n4", "assembler_1"), nil, model.TemporalSequence)

		assert.Equal(t, model.StatusFulfilled, verdict.Status)
		assert.Equal(t, "Permission not used (0 occurrences)", verdict.Reasoning)
	})

	t.Run("MissionTargetUsedWhenActionEmpty", func(t *testing.T) {
		missionNorm := &model.Norm{NormID: "n5", NormType: model.NormPermission, Mission: "paint skateboard"}
		entries := seqEntries("painter_1", "paint skateboard")
		verdict := evaluator.Evaluate(missionNorm, applies("n5", "painter_1"), entries, model.TemporalSequence)

		assert.Equal(t, model.StatusFulfilled, verdict.Status)
		assert.Len(t, verdict.Evidence, 1)
	})
}
