// api/service/user_service.go

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/harvestlink/market/api/audit"
	logger "github.com/harvestlink/market/api/logging"
	"github.com/harvestlink/market/api/model"
	"github.com/harvestlink/market/api/util"
)

// RoleAssigner writes role assignments.
type RoleAssigner interface {
	AssignRole(ctx context.Context, userID, role string) error
	RevokeRole(ctx context.Context, userID, role string) error
}

// RoleResolver reads role assignments, possibly from a cache, and can drop
// one identity's cached roles.
type RoleResolver interface {
	RolesOf(ctx context.Context, userID string) ([]string, error)
	InvalidateIdentity(userID string)
}

type IUserService interface {
	ListUsers(ctx context.Context, forceRefresh bool) ([]model.Profile, error)
	Me(ctx context.Context, identity model.UserIdentity) (*model.Me, error)
	AssignRole(ctx context.Context, userID, role, actorID string) error
	RevokeRole(ctx context.Context, userID, role, actorID string) error
}

// UserService handles profiles and role assignments.
type UserService struct {
	profiles       ICatalogService[model.Profile]
	assigner       RoleAssigner
	resolver       RoleResolver
	validationUtil *util.ValidationUtil
	eventBus       *util.EventBus
}

var _ IUserService = &UserService{}

func NewUserService(profiles ICatalogService[model.Profile], assigner RoleAssigner, resolver RoleResolver, validationUtil *util.ValidationUtil, eventBus *util.EventBus) *UserService {
	return &UserService{
		profiles:       profiles,
		assigner:       assigner,
		resolver:       resolver,
		validationUtil: validationUtil,
		eventBus:       eventBus,
	}
}

func (s *UserService) ListUsers(ctx context.Context, forceRefresh bool) ([]model.Profile, error) {
	return s.profiles.List(ctx, forceRefresh)
}

// Me returns the caller with its current roles.
func (s *UserService) Me(ctx context.Context, identity model.UserIdentity) (*model.Me, error) {
	roles, err := s.resolver.RolesOf(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []string{}
	}
	return &model.Me{UserIdentity: identity, Roles: roles}, nil
}

func (s *UserService) AssignRole(ctx context.Context, userID, role, actorID string) error {
	if err := s.validationUtil.ValidateRole(role); err != nil {
		return err
	}
	if err := s.assigner.AssignRole(ctx, userID, role); err != nil {
		return fmt.Errorf("failed to assign role %s to %s: %w", role, userID, err)
	}
	s.roleChanged(ctx, userID, role, actorID, audit.ActionAssignRole)
	return nil
}

func (s *UserService) RevokeRole(ctx context.Context, userID, role, actorID string) error {
	if err := s.validationUtil.ValidateRole(role); err != nil {
		return err
	}
	if err := s.assigner.RevokeRole(ctx, userID, role); err != nil {
		return fmt.Errorf("failed to revoke role %s from %s: %w", role, userID, err)
	}
	s.roleChanged(ctx, userID, role, actorID, audit.ActionRevokeRole)
	return nil
}

func (s *UserService) roleChanged(ctx context.Context, userID, role, actorID, action string) {
	s.resolver.InvalidateIdentity(userID)
	logger.Info("Role assignment changed",
		zap.String("userID", userID),
		zap.String("role", role),
		zap.String("action", action),
		zap.String("actorID", actorID))
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, model.EventRoleChanged, model.ChangeEvent{
			Resource:   "roles",
			ResourceID: userID,
			Action:     action,
			ActorID:    actorID,
			After:      role,
		})
	}
}
