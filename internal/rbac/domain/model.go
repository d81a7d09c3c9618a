package domain

import "errors"

// Role is a named grant bundle: (:User)-[:HAS_ROLE]->(:Role)-[:GRANTS]->(:Permission).
type Role struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
}

var (
	ErrRoleNotFound  = errors.New("role not found")
	ErrRoleProtected = errors.New("built-in role cannot be deleted")
	ErrUserNotFound  = errors.New("user not found")
)

// Built-in roles seeded at startup. They can be edited but not deleted.
var BuiltinRoles = []Role{
	{
		Name:        "admin",
		Description: "Full administrative access",
		Permissions: []string{
			"roles:manage", "users:manage", "users:suspend",
			"content:moderate", "stats:read", "stats:refresh",
			"social:read", "social:write",
		},
	},
	{
		Name:        "moderator",
		Description: "Community moderation",
		Permissions: []string{"content:moderate", "users:suspend", "social:read", "social:write"},
	},
	{
		Name:        "member",
		Description: "Regular member",
		Permissions: []string{"social:read", "social:write"},
	},
}

// IsBuiltin reports whether a role name is one of the seeded defaults.
func IsBuiltin(name string) bool {
	for _, r := range BuiltinRoles {
		if r.Name == name {
			return true
		}
	}
	return false
}
