package domain

import "time"

// GraphStats is the cached snapshot served by GET /stats.
type GraphStats struct {
	TotalUsers       int64       `json:"total_users"`
	TotalFriendships int64       `json:"total_friendships"`
	PendingRequests  int64       `json:"pending_requests"`
	TopConnected     []UserCount `json:"top_connected"`
	MostRequested    []UserCount `json:"most_requested"`
	RefreshedAt      time.Time   `json:"refreshed_at"`
}

// UserCount pairs a username with an aggregate from the graph.
type UserCount struct {
	Username string `json:"username"`
	Count    int64  `json:"count"`
}
