// test/mock/audit.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MZain-ul-Abideen/MAS-Explainability/audit"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) IndexVerdict(ctx context.Context, verdict audit.VerdictLog) error {
	args := m.Called(ctx, verdict)
	return args.Error(0)
}

func (m *MockAuditService) IndexRun(ctx context.Context, runID string, results *model.ComplianceResults) error {
	args := m.Called(ctx, runID, results)
	return args.Error(0)
}

func (m *MockAuditService) QueryVerdicts(ctx context.Context, runID, agentID, status string) ([]audit.VerdictLog, error) {
	args := m.Called(ctx, runID, agentID, status)
	return args.Get(0).([]audit.VerdictLog), args.Error(1)
}

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) IndexVerdict(ctx context.Context, verdict audit.VerdictLog) error {
	args := m.Called(ctx, verdict)
	return args.Error(0)
}

func (m *MockAuditRepository) QueryVerdicts(ctx context.Context, runID, agentID, status string) ([]audit.VerdictLog, error) {
	args := m.Called(ctx, runID, agentID, status)
	return args.Get(0).([]audit.VerdictLog), args.Error(1)
}
