package repository

import (
	"context"
	"fmt"

	"github.com/circle-social/circle-backend/internal/graphdb"
	"github.com/circle-social/circle-backend/internal/rbac/domain"
)

type RoleRepository struct {
	db *graphdb.DB
}

func NewRoleRepository(db *graphdb.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// CreateRole MERGEs the role so re-creating is a no-op apart from the
// description update.
func (r *RoleRepository) CreateRole(ctx context.Context, name, description string) error {
	query := `
		MERGE (r:Role {name: $name})
		SET r.description = $description
	`
	err := r.db.Write(ctx, query, map[string]any{"name": name, "description": description})
	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

// DeleteRole removes the role and all its edges.
func (r *RoleRepository) DeleteRole(ctx context.Context, name string) error {
	query := `
		MATCH (r:Role {name: $name})
		DETACH DELETE r
		RETURN count(*) AS deleted
	`
	record, err := r.db.WriteRow(ctx, query, map[string]any{"name": name})
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	if record == nil || graphdb.Int64Value(record, "deleted") == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

// GrantPermission MERGEs both the permission node and the GRANTS edge.
func (r *RoleRepository) GrantPermission(ctx context.Context, role, permission string) error {
	query := `
		MATCH (r:Role {name: $role})
		MERGE (p:Permission {name: $permission})
		MERGE (r)-[:GRANTS]->(p)
		RETURN r.name AS name
	`
	record, err := r.db.WriteRow(ctx, query, map[string]any{"role": role, "permission": permission})
	if err != nil {
		return fmt.Errorf("failed to grant permission: %w", err)
	}
	if record == nil {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) RevokePermission(ctx context.Context, role, permission string) error {
	query := `
		MATCH (r:Role {name: $role})-[g:GRANTS]->(p:Permission {name: $permission})
		DELETE g
	`
	err := r.db.Write(ctx, query, map[string]any{"role": role, "permission": permission})
	if err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}
	return nil
}

// AssignRole links a user to a role. Both ends must already exist.
func (r *RoleRepository) AssignRole(ctx context.Context, username, role string) error {
	query := `
		MATCH (u:User {username: $username})
		MATCH (r:Role {name: $role})
		MERGE (u)-[:HAS_ROLE]->(r)
		RETURN u.id AS id
	`
	record, err := r.db.WriteRow(ctx, query, map[string]any{"username": username, "role": role})
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	if record == nil {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) RevokeRole(ctx context.Context, username, role string) error {
	query := `
		MATCH (u:User {username: $username})-[h:HAS_ROLE]->(r:Role {name: $role})
		DELETE h
	`
	err := r.db.Write(ctx, query, map[string]any{"username": username, "role": role})
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	return nil
}

// ListRoles returns every role with its granted permission names.
func (r *RoleRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	query := `
		MATCH (r:Role)
		RETURN r.name AS name, r.description AS description,
		       [(r)-[:GRANTS]->(p:Permission) | p.name] AS permissions
		ORDER BY r.name
	`
	records, err := r.db.ReadRows(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	roles := make([]domain.Role, 0, len(records))
	for _, record := range records {
		perms := graphdb.StringSliceValue(record, "permissions")
		if perms == nil {
			perms = []string{}
		}
		roles = append(roles, domain.Role{
			Name:        graphdb.StringValue(record, "name"),
			Description: graphdb.StringValue(record, "description"),
			Permissions: perms,
		})
	}
	return roles, nil
}

// PermissionsForUser resolves the effective permission set in one traversal.
func (r *RoleRepository) PermissionsForUser(ctx context.Context, userID string) ([]string, error) {
	query := `
		MATCH (u:User {id: $userID})-[:HAS_ROLE]->(:Role)-[:GRANTS]->(p:Permission)
		RETURN collect(DISTINCT p.name) AS permissions
	`
	record, err := r.db.ReadRow(ctx, query, map[string]any{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if record == nil {
		return []string{}, nil
	}
	perms := graphdb.StringSliceValue(record, "permissions")
	if perms == nil {
		perms = []string{}
	}
	return perms, nil
}

// UserIDsWithRole lists the ids of users holding a role, for cache invalidation
// after role-level mutations.
func (r *RoleRepository) UserIDsWithRole(ctx context.Context, role string) ([]string, error) {
	query := `
		MATCH (u:User)-[:HAS_ROLE]->(:Role {name: $role})
		RETURN collect(u.id) AS ids
	`
	record, err := r.db.ReadRow(ctx, query, map[string]any{"role": role})
	if err != nil {
		return nil, fmt.Errorf("failed to list role members: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return graphdb.StringSliceValue(record, "ids"), nil
}

// UserIDByUsername maps a username to the id used in cache keys.
func (r *RoleRepository) UserIDByUsername(ctx context.Context, username string) (string, error) {
	query := `MATCH (u:User {username: $username}) RETURN u.id AS id`
	record, err := r.db.ReadRow(ctx, query, map[string]any{"username": username})
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if record == nil {
		return "", domain.ErrUserNotFound
	}
	return graphdb.StringValue(record, "id"), nil
}

// Seed MERGEs the built-in roles and their grants. Safe to run on every start.
func (r *RoleRepository) Seed(ctx context.Context, roles []domain.Role) error {
	for _, role := range roles {
		if err := r.CreateRole(ctx, role.Name, role.Description); err != nil {
			return err
		}
		for _, perm := range role.Permissions {
			if err := r.GrantPermission(ctx, role.Name, perm); err != nil {
				return err
			}
		}
	}
	return nil
}
