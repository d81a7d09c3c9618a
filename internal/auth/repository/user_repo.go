package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/circle-social/circle-backend/internal/auth/domain"
	"github.com/circle-social/circle-backend/internal/graphdb"
)

type UserRepository struct {
	db *graphdb.DB
}

func NewUserRepository(db *graphdb.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userReturnClause = `
	RETURN u.id AS id, u.username AS username, u.email AS email,
	       u.display_name AS display_name, u.password_hash AS password_hash,
	       u.created_at AS created_at, u.last_login_at AS last_login_at,
	       [(u)-[:HAS_ROLE]->(r:Role) | r.name] AS roles
`

// Create inserts the user node and attaches the default role in one write.
// The uniqueness constraints on username and email turn duplicates into a
// constraint violation, which we map to ErrUserAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User, defaultRole string) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
		CREATE (u:User {
			id: $id,
			username: $username,
			email: $email,
			display_name: $displayName,
			password_hash: $passwordHash,
			created_at: datetime($createdAt)
		})
		WITH u
		OPTIONAL MATCH (dr:Role {name: $defaultRole})
		FOREACH (_ IN CASE WHEN dr IS NULL THEN [] ELSE [1] END |
			MERGE (u)-[:HAS_ROLE]->(dr)
		)
	` + userReturnClause

	record, err := r.db.WriteRow(ctx, query, map[string]any{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"displayName":  user.DisplayName,
		"passwordHash": user.PasswordHash,
		"createdAt":    user.CreatedAt.Format(time.RFC3339),
		"defaultRole":  defaultRole,
	})
	if err != nil {
		if neo4jErr, ok := err.(*neo4j.Neo4jError); ok && neo4jErr.Title() == "ConstraintValidationFailed" {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	if record == nil {
		return fmt.Errorf("failed to create user: no record returned")
	}

	user.Roles = graphdb.StringSliceValue(record, "roles")
	return nil
}

// GetByUsername retrieves a user with their role names.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `MATCH (u:User {username: $username})` + userReturnClause

	record, err := r.db.ReadRow(ctx, query, map[string]any{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if record == nil {
		return nil, domain.ErrUserNotFound
	}
	return userFromRecord(record), nil
}

// GetByID retrieves a user by the id carried in token claims.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `MATCH (u:User {id: $id})` + userReturnClause

	record, err := r.db.ReadRow(ctx, query, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if record == nil {
		return nil, domain.ErrUserNotFound
	}
	return userFromRecord(record), nil
}

// UpdateLastLogin stamps the login time.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `
		MATCH (u:User {id: $id})
		SET u.last_login_at = datetime($now)
	`
	err := r.db.Write(ctx, query, map[string]any{
		"id":  id,
		"now": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func userFromRecord(record *neo4j.Record) *domain.User {
	user := &domain.User{
		ID:           graphdb.StringValue(record, "id"),
		Username:     graphdb.StringValue(record, "username"),
		Email:        graphdb.StringValue(record, "email"),
		DisplayName:  graphdb.StringValue(record, "display_name"),
		PasswordHash: graphdb.StringValue(record, "password_hash"),
		Roles:        graphdb.StringSliceValue(record, "roles"),
		CreatedAt:    graphdb.TimeValue(record, "created_at"),
	}
	if t := graphdb.TimeValue(record, "last_login_at"); !t.IsZero() {
		user.LastLoginAt = &t
	}
	return user
}
