// engine/orchestrator_test.go
package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

func newTestOrchestrator(workers int) *Orchestrator {
	return NewOrchestrator(
		NewRoleInferenceEngine(),
		NewApplicabilityResolver(),
		NewComplianceEvaluator(0.5),
		workers,
	)
}

func testNorms() model.ParsedNorms {
	return model.NewParsedNorms([]model.Norm{
		{NormID: "n1", NormType: model.NormObligation, Role: "assembler", Mission: "assemble skateboard"},
		{NormID: "n2", NormType: model.NormProhibition, Action: "overstock"},
		{NormID: "n3", NormType: model.NormPermission, Action: "take break"},
	})
}

func testLogs(t *testing.T) model.ParsedLogs {
	t.Helper()
	entries := []model.LogEntry{}
	seq := func(i int) *int { return &i }
	add := func(id, agent, action string, i int) {
		entries = append(entries, model.LogEntry{EntryID: id, AgentID: agent, Action: action, SequenceNumber: seq(i)})
	}
	add("e1", "assembler_1", "assemble skateboard", 0)
	add("e2", "painter_1", "paint skateboard", 1)
	add("e3", "assembler_1", "take break", 2)
	add("e4", "painter_1", "overstock warehouse", 3)

	logs, err := model.NewParsedLogs(entries, model.TemporalSequence)
	assert.NoError(t, err)
	return logs
}

func TestOrchestratorRun(t *testing.T) {
	orchestrator := newTestOrchestrator(4)
	norms := testNorms()
	logs := testLogs(t)

	results, err := orchestrator.Run(context.Background(), norms, logs)
	assert.NoError(t, err)

	t.Run("EveryAgentGetsRoleMapping", func(t *testing.T) {
		assert.Len(t, results.RoleMapping, 2)
		assert.Equal(t, "assembler", results.RoleMapping["assembler_1"].InferredRole)
		assert.Equal(t, model.ConfidenceUnknown, results.RoleMapping["painter_1"].Confidence)
	})

	t.Run("MatrixIsDense", func(t *testing.T) {
		assert.Len(t, results.ApplicabilityMatrix, 6)
	})

	t.Run("VerdictsCoverEveryPairInOrder", func(t *testing.T) {
		assert.Len(t, results.ComplianceResults, 6)

		// Norm ingestion order × agent first-observed order.
		expected := [][2]string{
			{"n1", "assembler_1"}, {"n1", "painter_1"},
			{"n2", "assembler_1"}, {"n2", "painter_1"},
			{"n3", "assembler_1"}, {"n3", "painter_1"},
		}
		for i, pair := range expected {
			assert.Equal(t, pair[0], results.ComplianceResults[i].NormID)
			assert.Equal(t, pair[1], results.ComplianceResults[i].AgentID)
		}
	})

	t.Run("ExpectedStatuses", func(t *testing.T) {
		statuses := make(map[string]model.ComplianceStatus)
		for _, v := range results.ComplianceResults {
			statuses[v.NormID+"/"+v.AgentID] = v.Status
		}

		assert.Equal(t, model.StatusFulfilled, statuses["n1/assembler_1"])
		assert.Equal(t, model.StatusNotApplicable, statuses["n1/painter_1"])
		assert.Equal(t, model.StatusFulfilled, statuses["n2/assembler_1"])
		assert.Equal(t, model.StatusViolated, statuses["n2/painter_1"])
		assert.Equal(t, model.StatusFulfilled, statuses["n3/assembler_1"])
		assert.Equal(t, model.StatusFulfilled, statuses["n3/painter_1"])
	})

	t.Run("DeterministicAcrossRuns", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			again, err := orchestrator.Run(context.Background(), norms, logs)
			assert.NoError(t, err)
			assert.Equal(t, results.ComplianceResults, again.ComplianceResults)
		}
	})
}

func TestOrchestratorRunSingleWorker(t *testing.T) {
	parallel, err := newTestOrchestrator(8).Run(context.Background(), testNorms(), testLogs(t))
	assert.NoError(t, err)
	serial, err := newTestOrchestrator(1).Run(context.Background(), testNorms(), testLogs(t))
	assert.NoError(t, err)

	assert.Equal(t, serial.ComplianceResults, parallel.ComplianceResults)
}

func TestOrchestratorRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context may still let small runs finish; only assert that
	// a returned error mentions cancellation.
	results, err := newTestOrchestrator(1).Run(ctx, testNorms(), testLogs(t))
	if err != nil {
		assert.Nil(t, results)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestOrchestratorRunEmptyLogs(t *testing.T) {
	logs, err := model.NewParsedLogs(nil, model.TemporalSequence)
	assert.NoError(t, err)

	results, runErr := newTestOrchestrator(2).Run(context.Background(), testNorms(), logs)
	assert.NoError(t, runErr)
	assert.Empty(t, results.RoleMapping)
	assert.Empty(t, results.ComplianceResults)
}
