package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/circle-social/circle-backend/internal/graphdb"
	"github.com/circle-social/circle-backend/internal/social/domain"
)

// FriendRepository owns every Cypher query against the friendship graph.
// All traversal work (friends-of-friends, mutual friends, shortest paths)
// is answered by the database's pattern matching, never in Go.
type FriendRepository struct {
	db *graphdb.DB
}

func NewFriendRepository(db *graphdb.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// RelationState describes how two users currently relate, used to validate
// request flows before mutating anything.
type RelationState struct {
	BothExist       bool
	Friends         bool
	RequestOutgoing bool // from -> to
	RequestIncoming bool // to -> from
}

func (r *FriendRepository) Relation(ctx context.Context, from, to string) (RelationState, error) {
	query := `
		MATCH (a:User {username: $from})
		MATCH (b:User {username: $to})
		RETURN EXISTS { (a)-[:FRIENDS_WITH]-(b) } AS friends,
		       EXISTS { (a)-[:FRIEND_REQUESTED]->(b) } AS outgoing,
		       EXISTS { (b)-[:FRIEND_REQUESTED]->(a) } AS incoming
	`
	record, err := r.db.ReadRow(ctx, query, map[string]any{"from": from, "to": to})
	if err != nil {
		return RelationState{}, fmt.Errorf("failed to read relation state: %w", err)
	}
	if record == nil {
		return RelationState{}, nil
	}

	state := RelationState{BothExist: true}
	if v, ok := record.Get("friends"); ok {
		state.Friends, _ = v.(bool)
	}
	if v, ok := record.Get("outgoing"); ok {
		state.RequestOutgoing, _ = v.(bool)
	}
	if v, ok := record.Get("incoming"); ok {
		state.RequestIncoming, _ = v.(bool)
	}
	return state, nil
}

// CreateRequest adds the pending edge. Validation happens in the service
// against Relation; this is the raw write.
func (r *FriendRepository) CreateRequest(ctx context.Context, from, to string) error {
	query := `
		MATCH (a:User {username: $from})
		MATCH (b:User {username: $to})
		MERGE (a)-[req:FRIEND_REQUESTED]->(b)
		ON CREATE SET req.requested_at = datetime($now)
	`
	err := r.db.Write(ctx, query, map[string]any{
		"from": from,
		"to":   to,
		"now":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to create friend request: %w", err)
	}
	return nil
}

// AcceptRequest deletes the pending edge and MERGEs the friendship in one
// write, so a request cannot be accepted twice.
func (r *FriendRepository) AcceptRequest(ctx context.Context, from, to string) error {
	query := `
		MATCH (a:User {username: $from})-[req:FRIEND_REQUESTED]->(b:User {username: $to})
		DELETE req
		MERGE (a)-[f:FRIENDS_WITH]->(b)
		ON CREATE SET f.since = datetime($now)
		RETURN a.username AS accepted
	`
	record, err := r.db.WriteRow(ctx, query, map[string]any{
		"from": from,
		"to":   to,
		"now":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to accept friend request: %w", err)
	}
	if record == nil {
		return domain.ErrRequestNotFound
	}
	return nil
}

// DeleteRequest removes a pending edge in the given direction (decline and
// cancel are the same write from opposite ends).
func (r *FriendRepository) DeleteRequest(ctx context.Context, from, to string) error {
	query := `
		MATCH (a:User {username: $from})-[req:FRIEND_REQUESTED]->(b:User {username: $to})
		DELETE req
		RETURN count(*) AS deleted
	`
	record, err := r.db.WriteRow(ctx, query, map[string]any{"from": from, "to": to})
	if err != nil {
		return fmt.Errorf("failed to delete friend request: %w", err)
	}
	if record == nil || graphdb.Int64Value(record, "deleted") == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// DeleteFriendship matches the edge undirected so either side can unfriend.
func (r *FriendRepository) DeleteFriendship(ctx context.Context, a, b string) error {
	query := `
		MATCH (x:User {username: $a})-[f:FRIENDS_WITH]-(y:User {username: $b})
		DELETE f
		RETURN count(*) AS deleted
	`
	record, err := r.db.WriteRow(ctx, query, map[string]any{"a": a, "b": b})
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	if record == nil || graphdb.Int64Value(record, "deleted") == 0 {
		return domain.ErrNotFriends
	}
	return nil
}

// Friends lists direct neighbors.
func (r *FriendRepository) Friends(ctx context.Context, username string) ([]domain.Friend, error) {
	query := `
		MATCH (u:User {username: $username})-[f:FRIENDS_WITH]-(friend:User)
		RETURN friend.username AS username, friend.display_name AS display_name, f.since AS since
		ORDER BY username
	`
	records, err := r.db.ReadRows(ctx, query, map[string]any{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}

	friends := make([]domain.Friend, 0, len(records))
	for _, record := range records {
		friends = append(friends, domain.Friend{
			Username:    graphdb.StringValue(record, "username"),
			DisplayName: graphdb.StringValue(record, "display_name"),
			Since:       graphdb.TimeValue(record, "since"),
		})
	}
	return friends, nil
}

// FriendsOfFriends returns users exactly two hops away, ranked by how many
// friends they share with the user. Direct friends and the user are excluded.
func (r *FriendRepository) FriendsOfFriends(ctx context.Context, username string, limit int) ([]domain.Suggestion, error) {
	query := `
		MATCH (u:User {username: $username})-[:FRIENDS_WITH]-(m:User)-[:FRIENDS_WITH]-(fof:User)
		WHERE fof <> u AND NOT (u)-[:FRIENDS_WITH]-(fof)
		RETURN fof.username AS username, fof.display_name AS display_name,
		       count(DISTINCT m) AS mutual_friends
		ORDER BY mutual_friends DESC, username
		LIMIT $limit
	`
	records, err := r.db.ReadRows(ctx, query, map[string]any{"username": username, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("failed to find friends of friends: %w", err)
	}
	return suggestionsFromRecords(records), nil
}

// MutualFriends returns the common neighbors of two users.
func (r *FriendRepository) MutualFriends(ctx context.Context, a, b string) ([]domain.Friend, error) {
	query := `
		MATCH (x:User {username: $a})-[:FRIENDS_WITH]-(m:User)-[:FRIENDS_WITH]-(y:User {username: $b})
		RETURN DISTINCT m.username AS username, m.display_name AS display_name
		ORDER BY username
	`
	records, err := r.db.ReadRows(ctx, query, map[string]any{"a": a, "b": b})
	if err != nil {
		return nil, fmt.Errorf("failed to find mutual friends: %w", err)
	}

	friends := make([]domain.Friend, 0, len(records))
	for _, record := range records {
		friends = append(friends, domain.Friend{
			Username:    graphdb.StringValue(record, "username"),
			DisplayName: graphdb.StringValue(record, "display_name"),
		})
	}
	return friends, nil
}

// ShortestPath returns the usernames along the shortest friendship path.
// maxDepth is clamped by the service; it is interpolated because Cypher does
// not allow parameters in variable-length bounds.
func (r *FriendRepository) ShortestPath(ctx context.Context, a, b string, maxDepth int) ([]string, error) {
	query := fmt.Sprintf(`
		MATCH (x:User {username: $a}), (y:User {username: $b})
		MATCH p = shortestPath((x)-[:FRIENDS_WITH*..%d]-(y))
		RETURN [n IN nodes(p) | n.username] AS path
	`, maxDepth)

	record, err := r.db.ReadRow(ctx, query, map[string]any{"a": a, "b": b})
	if err != nil {
		return nil, fmt.Errorf("failed to find path: %w", err)
	}
	if record == nil {
		return nil, domain.ErrNoPath
	}
	path := graphdb.StringSliceValue(record, "path")
	if len(path) == 0 {
		return nil, domain.ErrNoPath
	}
	return path, nil
}

// PendingRequests returns the user's open requests in both directions.
func (r *FriendRepository) PendingRequests(ctx context.Context, username string) (*domain.PendingRequests, error) {
	query := `
		MATCH (u:User {username: $username})
		OPTIONAL MATCH (other:User)-[in:FRIEND_REQUESTED]->(u)
		WITH u, collect({from: other.username, at: in.requested_at}) AS incoming
		OPTIONAL MATCH (u)-[out:FRIEND_REQUESTED]->(target:User)
		RETURN incoming, collect({to: target.username, at: out.requested_at}) AS outgoing
	`
	record, err := r.db.ReadRow(ctx, query, map[string]any{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	pending := &domain.PendingRequests{
		Incoming: []domain.FriendRequest{},
		Outgoing: []domain.FriendRequest{},
	}
	if record == nil {
		return pending, nil
	}

	for _, entry := range mapSliceValue(record, "incoming") {
		from, _ := entry["from"].(string)
		if from == "" {
			continue
		}
		pending.Incoming = append(pending.Incoming, domain.FriendRequest{
			From:        from,
			To:          username,
			RequestedAt: timeFromAny(entry["at"]),
		})
	}
	for _, entry := range mapSliceValue(record, "outgoing") {
		to, _ := entry["to"].(string)
		if to == "" {
			continue
		}
		pending.Outgoing = append(pending.Outgoing, domain.FriendRequest{
			From:        username,
			To:          to,
			RequestedAt: timeFromAny(entry["at"]),
		})
	}
	return pending, nil
}

// UserExists checks a username before traversals that would otherwise just
// return empty results for typos.
func (r *FriendRepository) UserExists(ctx context.Context, username string) (bool, error) {
	query := `MATCH (u:User {username: $username}) RETURN u.username AS username`
	record, err := r.db.ReadRow(ctx, query, map[string]any{"username": username})
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return record != nil, nil
}
