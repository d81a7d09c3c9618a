package graphdb

import (
	"context"
	"fmt"
)

// Uniqueness constraints the rest of the code relies on. MERGE-based
// repositories assume these exist, so EnsureSchema runs before the server
// accepts traffic. All statements are idempotent.
var schemaStatements = []string{
	`CREATE CONSTRAINT user_id_unique IF NOT EXISTS
	 FOR (u:User) REQUIRE u.id IS UNIQUE`,
	`CREATE CONSTRAINT user_username_unique IF NOT EXISTS
	 FOR (u:User) REQUIRE u.username IS UNIQUE`,
	`CREATE CONSTRAINT user_email_unique IF NOT EXISTS
	 FOR (u:User) REQUIRE u.email IS UNIQUE`,
	`CREATE CONSTRAINT role_name_unique IF NOT EXISTS
	 FOR (r:Role) REQUIRE r.name IS UNIQUE`,
	`CREATE CONSTRAINT permission_name_unique IF NOT EXISTS
	 FOR (p:Permission) REQUIRE p.name IS UNIQUE`,
}

func (d *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if err := d.Write(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to apply schema constraint: %w", err)
		}
	}
	d.log.Info("neo4j schema constraints ensured")
	return nil
}
