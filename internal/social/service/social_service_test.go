package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/circle-social/circle-backend/internal/social/domain"
	"github.com/circle-social/circle-backend/internal/social/repository"
)

type requestKey struct{ from, to string }

// fakeFriendStore models the graph as in-memory sets so service rules can be
// exercised without Neo4j.
type fakeFriendStore struct {
	users       map[string]bool
	friendships map[requestKey]bool
	requests    map[requestKey]bool
	lastLimit   int
	suggestions []domain.Suggestion
	path        []string
}

func newFakeFriendStore(users ...string) *fakeFriendStore {
	f := &fakeFriendStore{
		users:       make(map[string]bool),
		friendships: make(map[requestKey]bool),
		requests:    make(map[requestKey]bool),
	}
	for _, u := range users {
		f.users[u] = true
	}
	return f
}

func (f *fakeFriendStore) befriend(a, b string) {
	f.friendships[requestKey{a, b}] = true
	f.friendships[requestKey{b, a}] = true
}

func (f *fakeFriendStore) Relation(_ context.Context, from, to string) (repository.RelationState, error) {
	return repository.RelationState{
		BothExist:       f.users[from] && f.users[to],
		Friends:         f.friendships[requestKey{from, to}],
		RequestOutgoing: f.requests[requestKey{from, to}],
		RequestIncoming: f.requests[requestKey{to, from}],
	}, nil
}

func (f *fakeFriendStore) CreateRequest(_ context.Context, from, to string) error {
	f.requests[requestKey{from, to}] = true
	return nil
}

func (f *fakeFriendStore) AcceptRequest(_ context.Context, from, to string) error {
	if !f.requests[requestKey{from, to}] {
		return domain.ErrRequestNotFound
	}
	delete(f.requests, requestKey{from, to})
	f.befriend(from, to)
	return nil
}

func (f *fakeFriendStore) DeleteRequest(_ context.Context, from, to string) error {
	if !f.requests[requestKey{from, to}] {
		return domain.ErrRequestNotFound
	}
	delete(f.requests, requestKey{from, to})
	return nil
}

func (f *fakeFriendStore) DeleteFriendship(_ context.Context, a, b string) error {
	if !f.friendships[requestKey{a, b}] {
		return domain.ErrNotFriends
	}
	delete(f.friendships, requestKey{a, b})
	delete(f.friendships, requestKey{b, a})
	return nil
}

func (f *fakeFriendStore) Friends(_ context.Context, username string) ([]domain.Friend, error) {
	var friends []domain.Friend
	for key := range f.friendships {
		if key.from == username {
			friends = append(friends, domain.Friend{Username: key.to})
		}
	}
	return friends, nil
}

func (f *fakeFriendStore) FriendsOfFriends(_ context.Context, _ string, limit int) ([]domain.Suggestion, error) {
	f.lastLimit = limit
	return f.suggestions, nil
}

func (f *fakeFriendStore) MutualFriends(_ context.Context, a, b string) ([]domain.Friend, error) {
	var mutual []domain.Friend
	for key := range f.friendships {
		if key.from == a && f.friendships[requestKey{b, key.to}] {
			mutual = append(mutual, domain.Friend{Username: key.to})
		}
	}
	return mutual, nil
}

func (f *fakeFriendStore) ShortestPath(_ context.Context, _, _ string, _ int) ([]string, error) {
	if f.path == nil {
		return nil, domain.ErrNoPath
	}
	return f.path, nil
}

func (f *fakeFriendStore) PendingRequests(_ context.Context, username string) (*domain.PendingRequests, error) {
	pending := &domain.PendingRequests{}
	for key := range f.requests {
		switch {
		case key.to == username:
			pending.Incoming = append(pending.Incoming, domain.FriendRequest{From: key.from, To: key.to})
		case key.from == username:
			pending.Outgoing = append(pending.Outgoing, domain.FriendRequest{From: key.from, To: key.to})
		}
	}
	return pending, nil
}

func (f *fakeFriendStore) UserExists(_ context.Context, username string) (bool, error) {
	return f.users[username], nil
}

func newTestSocialService(users ...string) (*SocialService, *fakeFriendStore) {
	store := newFakeFriendStore(users...)
	return NewSocialService(store, zap.NewNop()), store
}

func TestSendFriendRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending request", func(t *testing.T) {
		svc, store := newTestSocialService("alice", "bob")

		require.NoError(t, svc.SendFriendRequest(ctx, "alice", "bob"))
		assert.True(t, store.requests[requestKey{"alice", "bob"}])
	})

	t.Run("rejects self request", func(t *testing.T) {
		svc, _ := newTestSocialService("alice")
		assert.ErrorIs(t, svc.SendFriendRequest(ctx, "alice", "alice"), domain.ErrSelfFriendship)
	})

	t.Run("rejects unknown target", func(t *testing.T) {
		svc, _ := newTestSocialService("alice")
		assert.ErrorIs(t, svc.SendFriendRequest(ctx, "alice", "ghost"), domain.ErrUserNotFound)
	})

	t.Run("rejects existing friendship", func(t *testing.T) {
		svc, store := newTestSocialService("alice", "bob")
		store.befriend("alice", "bob")

		assert.ErrorIs(t, svc.SendFriendRequest(ctx, "alice", "bob"), domain.ErrAlreadyFriends)
	})

	t.Run("rejects duplicate request", func(t *testing.T) {
		svc, _ := newTestSocialService("alice", "bob")

		require.NoError(t, svc.SendFriendRequest(ctx, "alice", "bob"))
		assert.ErrorIs(t, svc.SendFriendRequest(ctx, "alice", "bob"), domain.ErrRequestExists)
	})

	t.Run("rejects when target already asked first", func(t *testing.T) {
		svc, _ := newTestSocialService("alice", "bob")

		require.NoError(t, svc.SendFriendRequest(ctx, "bob", "alice"))
		assert.ErrorIs(t, svc.SendFriendRequest(ctx, "alice", "bob"), domain.ErrRequestExists)
	})
}

func TestAcceptFriendRequest(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestSocialService("alice", "bob")

	require.NoError(t, svc.SendFriendRequest(ctx, "alice", "bob"))
	require.NoError(t, svc.AcceptFriendRequest(ctx, "bob", "alice"))

	// Friendship is mutual and the request is consumed.
	assert.True(t, store.friendships[requestKey{"alice", "bob"}])
	assert.True(t, store.friendships[requestKey{"bob", "alice"}])
	assert.False(t, store.requests[requestKey{"alice", "bob"}])

	t.Run("no pending request", func(t *testing.T) {
		err := svc.AcceptFriendRequest(ctx, "bob", "alice")
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})
}

func TestDeclineAndCancelFriendRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("decline drops an incoming request", func(t *testing.T) {
		svc, store := newTestSocialService("alice", "bob")
		require.NoError(t, svc.SendFriendRequest(ctx, "alice", "bob"))

		require.NoError(t, svc.DeclineFriendRequest(ctx, "bob", "alice"))
		assert.Empty(t, store.requests)
	})

	t.Run("cancel drops an outgoing request", func(t *testing.T) {
		svc, store := newTestSocialService("alice", "bob")
		require.NoError(t, svc.SendFriendRequest(ctx, "alice", "bob"))

		require.NoError(t, svc.CancelFriendRequest(ctx, "alice", "bob"))
		assert.Empty(t, store.requests)
	})
}

func TestUnfriend(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestSocialService("alice", "bob")
	store.befriend("alice", "bob")

	require.NoError(t, svc.Unfriend(ctx, "alice", "bob"))
	assert.Empty(t, store.friendships)

	assert.ErrorIs(t, svc.Unfriend(ctx, "alice", "bob"), domain.ErrNotFriends)
	assert.ErrorIs(t, svc.Unfriend(ctx, "alice", "alice"), domain.ErrSelfFriendship)
}

func TestListFriends(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestSocialService("alice", "bob", "carol")
	store.befriend("alice", "bob")
	store.befriend("alice", "carol")

	friends, err := svc.ListFriends(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, friends, 2)

	_, err = svc.ListFriends(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestFriendsOfFriends_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestSocialService("alice")
	store.suggestions = []domain.Suggestion{{Username: "carol", MutualFriends: 1}}

	cases := []struct {
		name  string
		given int
		want  int
	}{
		{"zero falls back to default", 0, DefaultSuggestionLimit},
		{"negative falls back to default", -5, DefaultSuggestionLimit},
		{"in range passes through", 7, 7},
		{"oversized is capped", 500, MaxSuggestionLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.FriendsOfFriends(ctx, "alice", tc.given)
			require.NoError(t, err)
			assert.Equal(t, store.suggestions, got)
			assert.Equal(t, tc.want, store.lastLimit)
		})
	}
}

func TestMutualFriends(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestSocialService("alice", "bob", "carol")
	store.befriend("alice", "carol")
	store.befriend("bob", "carol")

	mutual, err := svc.MutualFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, mutual, 1)
	assert.Equal(t, "carol", mutual[0].Username)

	_, err = svc.MutualFriends(ctx, "alice", "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestPathBetween(t *testing.T) {
	ctx := context.Background()

	t.Run("same user is a trivial path", func(t *testing.T) {
		svc, _ := newTestSocialService("alice")
		path, err := svc.PathBetween(ctx, "alice", "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, path)
	})

	t.Run("returns chain from the graph", func(t *testing.T) {
		svc, store := newTestSocialService("alice", "carol")
		store.path = []string{"alice", "bob", "carol"}

		path, err := svc.PathBetween(ctx, "alice", "carol")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob", "carol"}, path)
	})

	t.Run("disconnected users", func(t *testing.T) {
		svc, _ := newTestSocialService("alice", "zed")
		_, err := svc.PathBetween(ctx, "alice", "zed")
		assert.ErrorIs(t, err, domain.ErrNoPath)
	})
}

func TestPendingRequests(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSocialService("alice", "bob", "carol")

	require.NoError(t, svc.SendFriendRequest(ctx, "bob", "alice"))
	require.NoError(t, svc.SendFriendRequest(ctx, "alice", "carol"))

	pending, err := svc.PendingRequests(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, pending.Incoming, 1)
	require.Len(t, pending.Outgoing, 1)
	assert.Equal(t, "bob", pending.Incoming[0].From)
	assert.Equal(t, "carol", pending.Outgoing[0].To)
}
