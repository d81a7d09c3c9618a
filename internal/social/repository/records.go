package repository

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/circle-social/circle-backend/internal/graphdb"
	"github.com/circle-social/circle-backend/internal/social/domain"
)

func suggestionsFromRecords(records []*neo4j.Record) []domain.Suggestion {
	suggestions := make([]domain.Suggestion, 0, len(records))
	for _, record := range records {
		suggestions = append(suggestions, domain.Suggestion{
			Username:      graphdb.StringValue(record, "username"),
			DisplayName:   graphdb.StringValue(record, "display_name"),
			MutualFriends: graphdb.Int64Value(record, "mutual_friends"),
		})
	}
	return suggestions
}

func mapSliceValue(record *neo4j.Record, key string) []map[string]any {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func timeFromAny(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}
		}
		return parsed
	}
	return time.Time{}
}
