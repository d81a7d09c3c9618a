package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSelfFriendship  = errors.New("cannot befriend yourself")
	ErrAlreadyFriends  = errors.New("already friends")
	ErrRequestExists   = errors.New("friend request already pending")
	ErrRequestNotFound = errors.New("friend request not found")
	ErrNotFriends      = errors.New("users are not friends")
	ErrNoPath          = errors.New("no path between users")
)
