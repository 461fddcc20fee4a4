package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/harvestlink/market/api/model"
)

// MockDataService is a mock implementation of dao.DataService
type MockDataService struct {
	mock.Mock
}

func (m *MockDataService) List(ctx context.Context, resource string) ([]model.Record, error) {
	args := m.Called(ctx, resource)
	records, _ := args.Get(0).([]model.Record)
	return records, args.Error(1)
}

func (m *MockDataService) GetByID(ctx context.Context, resource, id string) (model.Record, error) {
	args := m.Called(ctx, resource, id)
	record, _ := args.Get(0).(model.Record)
	return record, args.Error(1)
}

func (m *MockDataService) Insert(ctx context.Context, resource string, record model.Record) (model.Record, error) {
	args := m.Called(ctx, resource, record)
	created, _ := args.Get(0).(model.Record)
	return created, args.Error(1)
}

func (m *MockDataService) Update(ctx context.Context, resource, id string, record model.Record) (model.Record, error) {
	args := m.Called(ctx, resource, id, record)
	updated, _ := args.Get(0).(model.Record)
	return updated, args.Error(1)
}

func (m *MockDataService) Delete(ctx context.Context, resource, id string) error {
	args := m.Called(ctx, resource, id)
	return args.Error(0)
}
