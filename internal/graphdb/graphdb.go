package graphdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/circle-social/circle-backend/config"
)

// DB wraps the Neo4j driver with the session plumbing every repository needs.
type DB struct {
	driver   neo4j.DriverWithContext
	database string
	log      *zap.Logger
}

func Connect(ctx context.Context, cfg config.Neo4jConfig, log *zap.Logger) (*DB, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.User, cfg.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	log.Info("connected to neo4j", zap.String("uri", cfg.URI), zap.String("database", cfg.Database))

	return &DB{driver: driver, database: cfg.Database, log: log}, nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

// Ping verifies the server is still reachable. Used by the health endpoint.
func (d *DB) Ping(ctx context.Context) error {
	return d.driver.VerifyConnectivity(ctx)
}

func (d *DB) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return d.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: d.database,
	})
}

// ReadRows runs a read query and collects all records.
func (d *DB) ReadRows(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := d.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return result.Collect(ctx)
}

// ReadRow runs a read query expected to yield at most one record.
// Returns (nil, nil) when the query matches nothing.
func (d *DB) ReadRow(ctx context.Context, cypher string, params map[string]any) (*neo4j.Record, error) {
	rows, err := d.ReadRows(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Write runs a write query and discards any records.
func (d *DB) Write(ctx context.Context, cypher string, params map[string]any) error {
	_, err := d.WriteRow(ctx, cypher, params)
	return err
}

// WriteRow runs a write query and returns its first record, if any.
func (d *DB) WriteRow(ctx context.Context, cypher string, params map[string]any) (*neo4j.Record, error) {
	session := d.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}
