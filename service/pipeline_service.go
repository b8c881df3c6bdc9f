// service/pipeline_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MZain-ul-Abideen/MAS-Explainability/artifact"
	"github.com/MZain-ul-Abideen/MAS-Explainability/audit"
	"github.com/MZain-ul-Abideen/MAS-Explainability/dao"
	"github.com/MZain-ul-Abideen/MAS-Explainability/db"
	"github.com/MZain-ul-Abideen/MAS-Explainability/engine"
	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
	"github.com/MZain-ul-Abideen/MAS-Explainability/parser"
	"github.com/MZain-ul-Abideen/MAS-Explainability/profiler"
	"github.com/MZain-ul-Abideen/MAS-Explainability/util"
)

const pipelineLockTTL = 10 * time.Minute

// IPipelineService runs the full analysis pipeline: ingestion, reasoning,
// profiling, artifact persistence and downstream fan-out.
type IPipelineService interface {
	Run(ctx context.Context, normsPath, logsPath string) (*model.PipelineSummary, error)
}

// PipelineService handles business logic for pipeline runs
type PipelineService struct {
	orchestrator    *engine.Orchestrator
	store           *artifact.Store
	auditService    audit.Service
	interactionDAO  *dao.InteractionDAO
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

// NewPipelineService creates a new instance of PipelineService. The audit
// service and interaction DAO are optional; nil disables that fan-out.
func NewPipelineService(
	orchestrator *engine.Orchestrator,
	store *artifact.Store,
	auditService audit.Service,
	interactionDAO *dao.InteractionDAO,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *PipelineService {
	service := &PipelineService{
		orchestrator:    orchestrator,
		store:           store,
		auditService:    auditService,
		interactionDAO:  interactionDAO,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	// Set up event subscriptions
	eventBus.Subscribe(util.EventVerdictsReady, service.handleVerdictsReady)
	eventBus.Subscribe(util.EventPipelineCompleted, service.handlePipelineCompleted)

	return service
}

// Run executes one complete analysis pass. Only one run may be active at a
// time; concurrent attempts fail fast with ErrPipelineBusy.
func (s *PipelineService) Run(ctx context.Context, normsPath, logsPath string) (*model.PipelineSummary, error) {
	if db.RedisClient != nil {
		locked, err := db.LockResource(ctx, "pipeline-run", pipelineLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, apperrors.ErrPipelineBusy
		}
		defer func() {
			if err := db.UnlockResource(ctx, "pipeline-run"); err != nil {
				logger.Error("Failed to release pipeline lock", zap.Error(err))
			}
		}()
	}

	runID := uuid.New().String()
	logger.Info("Starting pipeline run",
		zap.String("runID", runID),
		zap.String("normsPath", normsPath),
		zap.String("logsPath", logsPath))

	norms, err := parser.ParseNorms(normsPath)
	if err != nil {
		return nil, fmt.Errorf("parsing norms: %w", err)
	}
	logs, err := parser.ParseLogs(logsPath)
	if err != nil {
		return nil, fmt.Errorf("parsing logs: %w", err)
	}

	if err := s.store.SaveNorms(norms); err != nil {
		return nil, err
	}
	if err := s.store.SaveLogs(logs); err != nil {
		return nil, err
	}

	results, err := s.orchestrator.Run(ctx, norms, logs)
	if err != nil {
		return nil, fmt.Errorf("reasoning run: %w", err)
	}
	if err := s.store.SaveResults(results); err != nil {
		return nil, err
	}

	profile := profiler.NewSystemProfiler(norms, logs, results).BuildProfile()
	if err := s.store.SaveProfile(profile); err != nil {
		return nil, err
	}

	// A new run makes previously cached answers stale.
	if err := s.cacheService.InvalidateQueries(ctx); err != nil {
		logger.Warn("Failed to invalidate query caches", zap.Error(err))
	}

	if s.auditService != nil {
		if err := s.auditService.IndexRun(ctx, runID, results); err != nil {
			logger.Error("Failed to index verdict audit records",
				zap.String("runID", runID),
				zap.Error(err))
		}
	}

	if s.interactionDAO != nil {
		if err := s.interactionDAO.SyncInteractions(runID, results.RoleMapping, profile.Interactions); err != nil {
			logger.Error("Failed to sync interaction graph",
				zap.String("runID", runID),
				zap.Error(err))
		}
	}

	statusCounts := make(map[string]int)
	for status, count := range results.StatusCounts() {
		statusCounts[string(status)] = count
	}

	summary := &model.PipelineSummary{
		RunID:            runID,
		NormCount:        norms.TotalCount,
		LogEntryCount:    logs.TotalCount,
		AgentCount:       len(logs.Agents()),
		TemporalStrategy: logs.TemporalStrategy,
		StatusCounts:     statusCounts,
		ArtifactsDir:     s.store.Dir(),
	}

	s.eventBus.Publish(ctx, util.EventVerdictsReady, results)
	s.eventBus.Publish(ctx, util.EventPipelineCompleted, summary)

	return summary, nil
}

func (s *PipelineService) handleVerdictsReady(ctx context.Context, event util.Event) error {
	results, ok := event.Payload.(*model.ComplianceResults)
	if !ok {
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}
	return s.notificationSvc.NotifyViolations(ctx, results)
}

func (s *PipelineService) handlePipelineCompleted(ctx context.Context, event util.Event) error {
	summary, ok := event.Payload.(*model.PipelineSummary)
	if !ok {
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}
	return s.notificationSvc.NotifyPipelineComplete(ctx, summary)
}
