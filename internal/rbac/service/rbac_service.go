package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/circle-social/circle-backend/internal/rbac/domain"
)

// RoleStore is the graph-side surface of the service.
type RoleStore interface {
	CreateRole(ctx context.Context, name, description string) error
	DeleteRole(ctx context.Context, name string) error
	GrantPermission(ctx context.Context, role, permission string) error
	RevokePermission(ctx context.Context, role, permission string) error
	AssignRole(ctx context.Context, username, role string) error
	RevokeRole(ctx context.Context, username, role string) error
	ListRoles(ctx context.Context) ([]domain.Role, error)
	PermissionsForUser(ctx context.Context, userID string) ([]string, error)
	UserIDsWithRole(ctx context.Context, role string) ([]string, error)
	UserIDByUsername(ctx context.Context, username string) (string, error)
	Seed(ctx context.Context, roles []domain.Role) error
}

// Cache is the Redis-side surface. A nil-safe no-op implementation is fine
// in tests that only care about graph behavior.
type Cache interface {
	Get(ctx context.Context, userID string) ([]string, bool, error)
	Set(ctx context.Context, userID string, permissions []string) error
	Invalidate(ctx context.Context, userIDs ...string) error
}

type RBACService struct {
	roles RoleStore
	cache Cache
	log   *zap.Logger
}

func NewRBACService(roles RoleStore, cache Cache, log *zap.Logger) *RBACService {
	return &RBACService{roles: roles, cache: cache, log: log}
}

// Seed ensures the built-in roles exist.
func (s *RBACService) Seed(ctx context.Context) error {
	return s.roles.Seed(ctx, domain.BuiltinRoles)
}

// PermissionsForUser returns the user's effective permission set,
// cache-first. Cache failures degrade to a graph read.
func (s *RBACService) PermissionsForUser(ctx context.Context, userID string) ([]string, error) {
	if perms, hit, err := s.cache.Get(ctx, userID); err == nil && hit {
		return perms, nil
	} else if err != nil {
		s.log.Warn("permission cache read failed", zap.Error(err))
	}

	perms, err := s.roles.PermissionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, userID, perms); err != nil {
		s.log.Warn("permission cache write failed", zap.Error(err))
	}
	return perms, nil
}

// HasPermission is the single set-membership test behind RequirePermission.
func (s *RBACService) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	perms, err := s.PermissionsForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

// HasAnyPermission reports whether the user holds at least one of the given
// permissions.
func (s *RBACService) HasAnyPermission(ctx context.Context, userID string, permissions ...string) (bool, error) {
	held, err := s.permissionSet(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range permissions {
		if held[p] {
			return true, nil
		}
	}
	return false, nil
}

// HasAllPermissions reports whether the user holds every one of the given
// permissions.
func (s *RBACService) HasAllPermissions(ctx context.Context, userID string, permissions ...string) (bool, error) {
	held, err := s.permissionSet(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range permissions {
		if !held[p] {
			return false, nil
		}
	}
	return true, nil
}

func (s *RBACService) permissionSet(ctx context.Context, userID string) (map[string]bool, error) {
	perms, err := s.PermissionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	return set, nil
}

func (s *RBACService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.roles.ListRoles(ctx)
}

func (s *RBACService) CreateRole(ctx context.Context, name, description string) error {
	return s.roles.CreateRole(ctx, name, description)
}

// DeleteRole refuses to drop built-ins, then invalidates every member's
// cached permissions.
func (s *RBACService) DeleteRole(ctx context.Context, name string) error {
	if domain.IsBuiltin(name) {
		return domain.ErrRoleProtected
	}

	members, err := s.roles.UserIDsWithRole(ctx, name)
	if err != nil {
		return err
	}

	if err := s.roles.DeleteRole(ctx, name); err != nil {
		return err
	}
	s.invalidate(ctx, members...)
	return nil
}

func (s *RBACService) GrantPermission(ctx context.Context, role, permission string) error {
	if err := s.roles.GrantPermission(ctx, role, permission); err != nil {
		return err
	}
	s.invalidateRoleMembers(ctx, role)
	return nil
}

func (s *RBACService) RevokePermission(ctx context.Context, role, permission string) error {
	if err := s.roles.RevokePermission(ctx, role, permission); err != nil {
		return err
	}
	s.invalidateRoleMembers(ctx, role)
	return nil
}

func (s *RBACService) AssignRole(ctx context.Context, username, role string) error {
	if err := s.roles.AssignRole(ctx, username, role); err != nil {
		return err
	}
	s.invalidateUser(ctx, username)
	return nil
}

func (s *RBACService) RevokeRole(ctx context.Context, username, role string) error {
	if err := s.roles.RevokeRole(ctx, username, role); err != nil {
		return err
	}
	s.invalidateUser(ctx, username)
	return nil
}

func (s *RBACService) invalidateUser(ctx context.Context, username string) {
	userID, err := s.roles.UserIDByUsername(ctx, username)
	if err != nil {
		s.log.Warn("cache invalidation lookup failed", zap.String("username", username), zap.Error(err))
		return
	}
	s.invalidate(ctx, userID)
}

func (s *RBACService) invalidateRoleMembers(ctx context.Context, role string) {
	members, err := s.roles.UserIDsWithRole(ctx, role)
	if err != nil {
		s.log.Warn("cache invalidation lookup failed", zap.String("role", role), zap.Error(err))
		return
	}
	s.invalidate(ctx, members...)
}

func (s *RBACService) invalidate(ctx context.Context, userIDs ...string) {
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		s.log.Warn("permission cache invalidation failed", zap.Error(err))
	}
}
