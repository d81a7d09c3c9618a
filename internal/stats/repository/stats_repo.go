package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"

	"github.com/circle-social/circle-backend/internal/graphdb"
	"github.com/circle-social/circle-backend/internal/stats/domain"
)

const (
	statsKey = "stats:graph"
	statsTTL = 24 * time.Hour
	topLimit = 5
)

// StatsRepository computes the aggregate queries and caches the snapshot in
// Redis. Reads are always served from the cache; the cron job and the admin
// refresh endpoint repopulate it.
type StatsRepository struct {
	db    *graphdb.DB
	cache *redis.Client
}

func NewStatsRepository(db *graphdb.DB, cache *redis.Client) *StatsRepository {
	return &StatsRepository{db: db, cache: cache}
}

// Compute runs the aggregate queries against the graph.
func (r *StatsRepository) Compute(ctx context.Context) (*domain.GraphStats, error) {
	stats := &domain.GraphStats{RefreshedAt: time.Now().UTC()}

	totals, err := r.db.ReadRow(ctx, `
		MATCH (u:User)
		WITH count(u) AS users
		OPTIONAL MATCH ()-[f:FRIENDS_WITH]->()
		WITH users, count(f) AS friendships
		OPTIONAL MATCH ()-[req:FRIEND_REQUESTED]->()
		RETURN users, friendships, count(req) AS pending
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}
	if totals != nil {
		stats.TotalUsers = graphdb.Int64Value(totals, "users")
		stats.TotalFriendships = graphdb.Int64Value(totals, "friendships")
		stats.PendingRequests = graphdb.Int64Value(totals, "pending")
	}

	topConnected, err := r.db.ReadRows(ctx, `
		MATCH (u:User)-[:FRIENDS_WITH]-(f:User)
		RETURN u.username AS username, count(DISTINCT f) AS count
		ORDER BY count DESC, username
		LIMIT $limit
	`, map[string]any{"limit": topLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to compute top connected: %w", err)
	}
	stats.TopConnected = userCounts(topConnected)

	mostRequested, err := r.db.ReadRows(ctx, `
		MATCH (:User)-[:FRIEND_REQUESTED]->(u:User)
		RETURN u.username AS username, count(*) AS count
		ORDER BY count DESC, username
		LIMIT $limit
	`, map[string]any{"limit": topLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to compute most requested: %w", err)
	}
	stats.MostRequested = userCounts(mostRequested)

	return stats, nil
}

// Store writes the snapshot to Redis.
func (r *StatsRepository) Store(ctx context.Context, stats *domain.GraphStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	if err := r.cache.Set(ctx, statsKey, data, statsTTL).Err(); err != nil {
		return fmt.Errorf("failed to store stats: %w", err)
	}
	return nil
}

// Load returns the cached snapshot, or (nil, nil) when the cache is cold.
func (r *StatsRepository) Load(ctx context.Context) (*domain.GraphStats, error) {
	data, err := r.cache.Get(ctx, statsKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	var stats domain.GraphStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return &stats, nil
}

func userCounts(records []*neo4j.Record) []domain.UserCount {
	counts := make([]domain.UserCount, 0, len(records))
	for _, record := range records {
		counts = append(counts, domain.UserCount{
			Username: graphdb.StringValue(record, "username"),
			Count:    graphdb.Int64Value(record, "count"),
		})
	}
	return counts
}
