package domain

import "time"

// User represents a user node in the graph.
// The id is generated by us; username and email are unique by constraint.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name,omitempty"`
	PasswordHash string     `json:"-"`
	Roles        []string   `json:"roles,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// RegisterRequest represents data needed to create a new user
type RegisterRequest struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

// Session is what a successful login or refresh hands back to the client.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}
