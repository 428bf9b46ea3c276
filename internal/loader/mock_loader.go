package loader

import (
	"context"

	"inbox-triage/internal/model"
)

// MockLoader is a mock implementation of ModelLoader for testing
type MockLoader struct {
	LoadDashboardModelFunc func(ctx context.Context) (*model.DashboardModel, error)
	Calls                  int
}

func NewMockLoader() *MockLoader {
	return &MockLoader{}
}

func (m *MockLoader) LoadDashboardModel(ctx context.Context) (*model.DashboardModel, error) {
	m.Calls++
	if m.LoadDashboardModelFunc != nil {
		return m.LoadDashboardModelFunc(ctx)
	}

	// Default mock behavior: an empty model
	return &model.DashboardModel{}, nil
}
