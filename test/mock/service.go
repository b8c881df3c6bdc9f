// test/mock/service.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

// MockPipelineService is a mock implementation of service.IPipelineService
type MockPipelineService struct {
	mock.Mock
}

func (m *MockPipelineService) Run(ctx context.Context, normsPath, logsPath string) (*model.PipelineSummary, error) {
	args := m.Called(ctx, normsPath, logsPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PipelineSummary), args.Error(1)
}

// MockQueryService is a mock implementation of service.IQueryService
type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) Evidence(ctx context.Context, query string) (*model.EvidencePacket, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidencePacket), args.Error(1)
}

func (m *MockQueryService) Answer(ctx context.Context, query string) (*model.Explanation, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Explanation), args.Error(1)
}

func (m *MockQueryService) Invalidate() {
	m.Called()
}
