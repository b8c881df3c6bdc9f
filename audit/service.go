// audit/service.go
package audit

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

type Service interface {
	IndexVerdict(ctx context.Context, log VerdictLog) error
	IndexRun(ctx context.Context, runID string, results *model.ComplianceResults) error
	QueryVerdicts(ctx context.Context, runID, agentID, status string) ([]VerdictLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) IndexVerdict(ctx context.Context, log VerdictLog) error {
	return s.repo.IndexVerdict(ctx, log)
}

// IndexRun bulk-indexes every verdict of a run with bounded concurrency.
func (s *service) IndexRun(ctx context.Context, runID string, results *model.ComplianceResults) error {
	recordedAt := time.Now().UTC()

	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, 8)

	for _, verdict := range results.ComplianceResults {
		verdict := verdict
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}

		g.Go(func() error {
			defer func() { <-sem }()

			evidence, err := json.Marshal(verdict.Evidence)
			if err != nil {
				return err
			}
			return s.repo.IndexVerdict(ctx, VerdictLog{
				RunID:      runID,
				RecordedAt: recordedAt,
				NormID:     verdict.NormID,
				AgentID:    verdict.AgentID,
				Status:     string(verdict.Status),
				Reasoning:  verdict.Reasoning,
				Evidence:   evidence,
			})
		})
	}

	return g.Wait()
}

func (s *service) QueryVerdicts(ctx context.Context, runID, agentID, status string) ([]VerdictLog, error) {
	return s.repo.QueryVerdicts(ctx, runID, agentID, status)
}
