// service/query_service.go
package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/MZain-ul-Abideen/MAS-Explainability/artifact"
	"github.com/MZain-ul-Abideen/MAS-Explainability/explainer"
	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
	"github.com/MZain-ul-Abideen/MAS-Explainability/retrieval"
	"github.com/MZain-ul-Abideen/MAS-Explainability/util"
)

// IQueryService answers ad-hoc questions over the persisted artifacts.
type IQueryService interface {
	Evidence(ctx context.Context, query string) (*model.EvidencePacket, error)
	Answer(ctx context.Context, query string) (*model.Explanation, error)
	Invalidate()
}

// QueryService handles business logic for query operations. Artifacts are
// loaded lazily on first use and held until the next pipeline run
// invalidates them.
type QueryService struct {
	store        *artifact.Store
	explainer    *explainer.Explainer
	cacheService *util.CacheService
	eventBus     *util.EventBus

	mu        sync.Mutex
	retriever *retrieval.EvidenceRetriever
}

// NewQueryService creates a new instance of QueryService
func NewQueryService(
	store *artifact.Store,
	exp *explainer.Explainer,
	cacheService *util.CacheService,
	eventBus *util.EventBus,
) *QueryService {
	service := &QueryService{
		store:        store,
		explainer:    exp,
		cacheService: cacheService,
		eventBus:     eventBus,
	}

	eventBus.Subscribe(util.EventPipelineCompleted, func(ctx context.Context, event util.Event) error {
		service.Invalidate()
		return nil
	})

	return service
}

// Invalidate drops the loaded retriever so the next query reloads fresh
// artifacts.
func (s *QueryService) Invalidate() {
	s.mu.Lock()
	s.retriever = nil
	s.mu.Unlock()
}

func (s *QueryService) loadRetriever() (*retrieval.EvidenceRetriever, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.retriever != nil {
		return s.retriever, nil
	}
	if !s.store.Exists() {
		return nil, apperrors.ErrArtifactsMissing
	}

	norms, err := s.store.LoadNorms()
	if err != nil {
		return nil, err
	}
	logs, err := s.store.LoadLogs()
	if err != nil {
		return nil, err
	}
	results, err := s.store.LoadResults()
	if err != nil {
		return nil, err
	}
	profile, err := s.store.LoadProfile()
	if err != nil {
		return nil, err
	}

	s.retriever = retrieval.NewEvidenceRetriever(norms, logs, results, profile)
	return s.retriever, nil
}

// Evidence retrieves the evidence packet for a query, consulting the cache
// first.
func (s *QueryService) Evidence(ctx context.Context, query string) (*model.EvidencePacket, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.ErrEmptyQuery
	}

	if cached, err := s.cacheService.GetEvidencePacket(ctx, query); err != nil {
		logger.Warn("Evidence cache lookup failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	retriever, err := s.loadRetriever()
	if err != nil {
		return nil, err
	}

	packet := retriever.Retrieve(query)
	if err := s.cacheService.SetEvidencePacket(ctx, packet); err != nil {
		logger.Warn("Evidence cache store failed", zap.Error(err))
	}
	return packet, nil
}

// Answer retrieves evidence and asks the external model for a grounded
// natural-language explanation.
func (s *QueryService) Answer(ctx context.Context, query string) (*model.Explanation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.ErrEmptyQuery
	}

	if cached, err := s.cacheService.GetExplanation(ctx, query); err != nil {
		logger.Warn("Explanation cache lookup failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	packet, err := s.Evidence(ctx, query)
	if err != nil {
		return nil, err
	}

	explanation, err := s.explainer.GenerateExplanation(ctx, packet)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.SetExplanation(ctx, explanation); err != nil {
		logger.Warn("Explanation cache store failed", zap.Error(err))
	}
	return explanation, nil
}
