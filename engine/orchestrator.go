// engine/orchestrator.go
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

// Orchestrator drives the full norms × agents cross product through role
// inference, applicability resolution and compliance evaluation. Evaluations
// share no mutable state, so the matrix is computed in parallel; each worker
// writes into its preassigned slot of a preallocated verdict table, which
// restores the deterministic output order without any sorting.
type Orchestrator struct {
	roles     *RoleInferenceEngine
	resolver  *ApplicabilityResolver
	evaluator *ComplianceEvaluator
	workers   int
}

func NewOrchestrator(roles *RoleInferenceEngine, resolver *ApplicabilityResolver, evaluator *ComplianceEvaluator, workers int) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		roles:     roles,
		resolver:  resolver,
		evaluator: evaluator,
		workers:   workers,
	}
}

// Run executes the full reasoning pass. Norms iterate in ingestion order,
// agents in first-observed order; agents that only appear in norms but never
// act are not evaluated.
func (o *Orchestrator) Run(ctx context.Context, norms model.ParsedNorms, logs model.ParsedLogs) (*model.ComplianceResults, error) {
	agents := logs.Agents()
	candidateRoles := norms.CandidateRoles()
	actionsByAgent := logs.ActionsByAgent()

	logger.Info("Starting reasoning run",
		zap.Int("norms", norms.TotalCount),
		zap.Int("agents", len(agents)),
		zap.Int("workers", o.workers))

	roleMapping := make(map[string]model.RoleMapping, len(agents))
	for _, agentID := range agents {
		roleMapping[agentID] = o.roles.InferRole(agentID, candidateRoles)
	}

	matrix := o.resolver.BuildMatrix(norms.Norms, agents, roleMapping)

	verdicts := make([]model.ComplianceVerdict, len(matrix))

	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, o.workers)

	for ni := range norms.Norms {
		for ai := range agents {
			idx := ni*len(agents) + ai
			norm := &norms.Norms[ni]
			agentID := agents[ai]

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return nil, fmt.Errorf("reasoning run cancelled: %w", ctx.Err())
			}

			g.Go(func() error {
				defer func() { <-sem }()
				verdicts[idx] = o.evaluator.Evaluate(norm, matrix[idx], actionsByAgent[agentID], logs.TemporalStrategy)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := &model.ComplianceResults{
		RoleMapping:         roleMapping,
		ApplicabilityMatrix: matrix,
		ComplianceResults:   verdicts,
	}

	logger.Info("Reasoning run complete",
		zap.Int("verdicts", len(verdicts)),
		zap.Any("statusCounts", results.StatusCounts()))

	return results, nil
}
