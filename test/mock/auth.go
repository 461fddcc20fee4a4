package mock

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/harvestlink/market/api/model"
)

// MockSessionProvider is a mock implementation of auth.SessionProvider
type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) CurrentIdentity(r *http.Request) (*model.UserIdentity, error) {
	args := m.Called(r)
	identity, _ := args.Get(0).(*model.UserIdentity)
	return identity, args.Error(1)
}

// MockRoleStore is a mock implementation of auth.RoleStore
type MockRoleStore struct {
	mock.Mock
}

func (m *MockRoleStore) RolesOf(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	roles, _ := args.Get(0).([]string)
	return roles, args.Error(1)
}

// MockRoleAssigner is a mock implementation of service.RoleAssigner
type MockRoleAssigner struct {
	MockRoleStore
}

func (m *MockRoleAssigner) AssignRole(ctx context.Context, userID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockRoleAssigner) RevokeRole(ctx context.Context, userID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}
