package domain

import "time"

// Friend is a neighbor in the friendship graph. FRIENDS_WITH is stored once
// and matched undirected, so friendship is mutual by construction.
type Friend struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	Since       time.Time `json:"since,omitempty"`
}

// FriendRequest is the pending [:FRIEND_REQUESTED] edge.
type FriendRequest struct {
	From        string    `json:"from"`
	To          string    `json:"to"`
	RequestedAt time.Time `json:"requested_at"`
}

// Suggestion is a friend-of-friend candidate ranked by mutual friends.
type Suggestion struct {
	Username      string `json:"username"`
	DisplayName   string `json:"display_name,omitempty"`
	MutualFriends int64  `json:"mutual_friends"`
}

// PendingRequests splits the user's open requests by direction.
type PendingRequests struct {
	Incoming []FriendRequest `json:"incoming"`
	Outgoing []FriendRequest `json:"outgoing"`
}
