package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/circle-social/circle-backend/internal/rbac/domain"
	"github.com/circle-social/circle-backend/internal/rbac/repository"
)

// fakeRoleStore keeps roles and memberships in memory and counts graph reads
// so tests can tell a cache hit from a miss.
type fakeRoleStore struct {
	perms     map[string][]string // user id -> effective permissions
	members   map[string][]string // role -> user ids
	usernames map[string]string   // username -> user id
	roles     []domain.Role
	permReads int
	deleted   []string
	seeded    []domain.Role
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{
		perms:     make(map[string][]string),
		members:   make(map[string][]string),
		usernames: make(map[string]string),
	}
}

func (f *fakeRoleStore) CreateRole(_ context.Context, name, description string) error {
	f.roles = append(f.roles, domain.Role{Name: name, Description: description})
	return nil
}

func (f *fakeRoleStore) DeleteRole(_ context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeRoleStore) GrantPermission(_ context.Context, role, permission string) error {
	for _, id := range f.members[role] {
		f.perms[id] = append(f.perms[id], permission)
	}
	return nil
}

func (f *fakeRoleStore) RevokePermission(_ context.Context, role, permission string) error {
	for _, id := range f.members[role] {
		kept := f.perms[id][:0]
		for _, p := range f.perms[id] {
			if p != permission {
				kept = append(kept, p)
			}
		}
		f.perms[id] = kept
	}
	return nil
}

func (f *fakeRoleStore) AssignRole(_ context.Context, username, role string) error {
	f.members[role] = append(f.members[role], f.usernames[username])
	return nil
}

func (f *fakeRoleStore) RevokeRole(_ context.Context, username, role string) error {
	return nil
}

func (f *fakeRoleStore) ListRoles(_ context.Context) ([]domain.Role, error) {
	return f.roles, nil
}

func (f *fakeRoleStore) PermissionsForUser(_ context.Context, userID string) ([]string, error) {
	f.permReads++
	return f.perms[userID], nil
}

func (f *fakeRoleStore) UserIDsWithRole(_ context.Context, role string) ([]string, error) {
	return f.members[role], nil
}

func (f *fakeRoleStore) UserIDByUsername(_ context.Context, username string) (string, error) {
	id, ok := f.usernames[username]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return id, nil
}

func (f *fakeRoleStore) Seed(_ context.Context, roles []domain.Role) error {
	f.seeded = roles
	return nil
}

func newTestRBACService(t *testing.T) (*RBACService, *fakeRoleStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := newFakeRoleStore()
	return NewRBACService(store, repository.NewPermissionCache(client), zap.NewNop()), store
}

func TestPermissionsForUser_CachesGraphReads(t *testing.T) {
	svc, store := newTestRBACService(t)
	ctx := context.Background()
	store.perms["u1"] = []string{"social:read", "social:write"}

	perms, err := svc.PermissionsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"social:read", "social:write"}, perms)
	assert.Equal(t, 1, store.permReads)

	// Second read is served from the cache.
	perms, err = svc.PermissionsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"social:read", "social:write"}, perms)
	assert.Equal(t, 1, store.permReads)
}

func TestPermissionsForUser_EmptySetIsStillACacheHit(t *testing.T) {
	svc, store := newTestRBACService(t)
	ctx := context.Background()

	perms, err := svc.PermissionsForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, perms)
	assert.Equal(t, 1, store.permReads)

	_, err = svc.PermissionsForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 1, store.permReads)
}

func TestHasPermission(t *testing.T) {
	svc, store := newTestRBACService(t)
	ctx := context.Background()
	store.perms["u1"] = []string{"content:moderate"}

	ok, err := svc.HasPermission(ctx, "u1", "content:moderate")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasPermission(ctx, "u1", "roles:manage")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	svc, store := newTestRBACService(t)
	ctx := context.Background()
	store.perms["u1"] = []string{"social:read", "social:write"}

	t.Run("any", func(t *testing.T) {
		ok, err := svc.HasAnyPermission(ctx, "u1", "roles:manage", "social:read")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = svc.HasAnyPermission(ctx, "u1", "roles:manage", "stats:read")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("all", func(t *testing.T) {
		ok, err := svc.HasAllPermissions(ctx, "u1", "social:read", "social:write")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = svc.HasAllPermissions(ctx, "u1", "social:read", "roles:manage")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestGrantPermission_InvalidatesMemberCaches(t *testing.T) {
	svc, store := newTestRBACService(t)
	ctx := context.Background()
	store.perms["u1"] = []string{"social:read"}
	store.members["member"] = []string{"u1"}

	// Warm the cache.
	_, err := svc.PermissionsForUser(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, svc.GrantPermission(ctx, "member", "social:write"))

	perms, err := svc.PermissionsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, perms, "social:write")
	assert.Equal(t, 2, store.permReads, "grant should force a graph re-read")
}

func TestAssignRole_InvalidatesUserCache(t *testing.T) {
	svc, store := newTestRBACService(t)
	ctx := context.Background()
	store.usernames["alice"] = "u1"
	store.perms["u1"] = nil

	_, err := svc.PermissionsForUser(ctx, "u1")
	require.NoError(t, err)

	store.perms["u1"] = []string{"content:moderate"}
	require.NoError(t, svc.AssignRole(ctx, "alice", "moderator"))

	perms, err := svc.PermissionsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, perms, "content:moderate")
}

func TestDeleteRole_RefusesBuiltins(t *testing.T) {
	svc, store := newTestRBACService(t)

	for _, role := range []string{"admin", "moderator", "member"} {
		err := svc.DeleteRole(context.Background(), role)
		assert.ErrorIs(t, err, domain.ErrRoleProtected)
	}
	assert.Empty(t, store.deleted)
}

func TestDeleteRole_InvalidatesFormerMembers(t *testing.T) {
	svc, store := newTestRBACService(t)
	ctx := context.Background()
	store.perms["u1"] = []string{"beta:access"}
	store.members["beta-tester"] = []string{"u1"}

	_, err := svc.PermissionsForUser(ctx, "u1")
	require.NoError(t, err)

	store.perms["u1"] = nil
	require.NoError(t, svc.DeleteRole(ctx, "beta-tester"))
	assert.Equal(t, []string{"beta-tester"}, store.deleted)

	perms, err := svc.PermissionsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestSeed_PassesBuiltinRoles(t *testing.T) {
	svc, store := newTestRBACService(t)

	require.NoError(t, svc.Seed(context.Background()))
	assert.Equal(t, domain.BuiltinRoles, store.seeded)
}
