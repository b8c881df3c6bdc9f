// service/services.go
package service

import (
	"github.com/MZain-ul-Abideen/MAS-Explainability/artifact"
	"github.com/MZain-ul-Abideen/MAS-Explainability/audit"
	"github.com/MZain-ul-Abideen/MAS-Explainability/config"
	"github.com/MZain-ul-Abideen/MAS-Explainability/dao"
	"github.com/MZain-ul-Abideen/MAS-Explainability/engine"
	"github.com/MZain-ul-Abideen/MAS-Explainability/explainer"
	"github.com/MZain-ul-Abideen/MAS-Explainability/util"
)

type Services struct {
	Pipeline IPipelineService
	Query    IQueryService
}

func InitializeServices(
	store *artifact.Store,
	auditService audit.Service,
	interactionDAO *dao.InteractionDAO,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, error) {
	orchestrator := engine.NewOrchestrator(
		engine.NewRoleInferenceEngine(),
		engine.NewApplicabilityResolver(),
		engine.NewComplianceEvaluator(config.GetFloat64("engine.keywordOverlapThreshold")),
		config.GetInt("engine.workers"),
	)

	exp := explainer.NewExplainer(
		config.GetString("huggingface.url"),
		config.GetString("huggingface.model"),
		config.GetString("huggingface.apiToken"),
	)

	services := &Services{
		Pipeline: NewPipelineService(orchestrator, store, auditService, interactionDAO, cacheService, notificationSvc, eventBus),
		Query:    NewQueryService(store, exp, cacheService, eventBus),
	}

	return services, nil
}
