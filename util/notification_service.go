// util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

type NotificationService struct {
	// You might want to add dependencies here, such as a message queue client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyViolations surfaces violated verdicts after a run. In a real
// deployment this would feed an alerting channel; here it logs.
func (n *NotificationService) NotifyViolations(ctx context.Context, results *model.ComplianceResults) error {
	for _, verdict := range results.ComplianceResults {
		if verdict.Status != model.StatusViolated {
			continue
		}
		logger.Warn("NOTIFICATION: Norm violated",
			zap.String("normID", verdict.NormID),
			zap.String("agentID", verdict.AgentID),
			zap.String("reasoning", verdict.Reasoning),
			zap.Int("evidenceCount", len(verdict.Evidence)))
	}
	return nil
}

func (n *NotificationService) NotifyPipelineComplete(ctx context.Context, summary *model.PipelineSummary) error {
	logger.Info("NOTIFICATION: Pipeline run complete",
		zap.String("runID", summary.RunID),
		zap.Int("norms", summary.NormCount),
		zap.Int("agents", summary.AgentCount),
		zap.Any("statusCounts", summary.StatusCounts))
	return nil
}
