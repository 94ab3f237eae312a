package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social_server/models"
	"social_server/testutil"
)

func newProfileService(store Store) *UserProfileService {
	graph := newGraph(store)
	posts := NewPostService(store, nil, nil, nil)
	ups := NewUserProfileService(store, graph, posts, nil, "")
	ups.Now = fixedClock(1700000000000)
	return ups
}

func TestSignup_CreatesProfile(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	ups := newProfileService(store)

	userID, err := ups.Signup(ctx, SignupInput{Email: " ann@example.com ", Username: "ann", Password: "secret"})
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	profile, err := ups.GetUserProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, "ann@example.com", profile.Email)
	assert.Equal(t, "ann", profile.Username)
	assert.Equal(t, models.UserPK(userID), profile.PK)
	assert.Equal(t, models.ProfileSortKey, profile.SK)
	assert.NotEqual(t, "secret", profile.HashedPassword)
	assert.Equal(t, "2023-11-14T22:13:20Z", profile.CreatedAt)
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	ups := newProfileService(newMemoryStore())

	_, err := ups.Signup(ctx, SignupInput{Email: "dup@example.com", Username: "a", Password: "pw"})
	require.NoError(t, err)
	_, err = ups.Signup(ctx, SignupInput{Email: "dup@example.com", Username: "b", Password: "pw"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestSignup_RejectsTakenUserID(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	seedProfile(store, "fixed", "taken")
	ups := newProfileService(store)
	ups.NewID = func() string { return "fixed" }

	_, err := ups.Signup(ctx, SignupInput{Email: "new@example.com", Username: "n", Password: "pw"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestSignup_MissingFields(t *testing.T) {
	ups := newProfileService(newMemoryStore())
	cases := []SignupInput{
		{Username: "a", Password: "pw"},
		{Email: "a@example.com", Password: "pw"},
		{Email: "a@example.com", Username: "a"},
		{Email: "   ", Username: "a", Password: "pw"},
	}
	for _, in := range cases {
		_, err := ups.Signup(context.Background(), in)
		assert.ErrorIs(t, err, ErrMissingFields)
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	ups := newProfileService(newMemoryStore())
	userID, err := ups.Signup(ctx, SignupInput{Email: "bo@example.com", Username: "bo", Password: "hunter2"})
	require.NoError(t, err)

	profile, err := ups.Authenticate(ctx, "bo@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)

	_, err = ups.Authenticate(ctx, "bo@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = ups.Authenticate(ctx, "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserProfile_NotFound(t *testing.T) {
	_, err := newProfileService(newMemoryStore()).GetUserProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetUserProfileByEmail_IndexFailure(t *testing.T) {
	store := newMemoryStore()
	boom := errors.New("index offline")
	store.FailOn(testutil.OpQueryIndex, "", boom)

	_, err := newProfileService(store).GetUserProfileByEmail(context.Background(), "x@example.com")
	assert.ErrorIs(t, err, boom)
}

func TestOverview_OtherUser(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	ups := newProfileService(store)
	mustFollow(t, ups.Graph, "viewer", "star")
	mustFollow(t, ups.Graph, "fan", "star")
	mustFollow(t, ups.Graph, "star", "viewer")
	seedPost(store, "star", "1", "first", ts(1))
	seedPost(store, "star", "2", "second", ts(2))

	overview, err := ups.Overview(ctx, "viewer", "star")
	require.NoError(t, err)
	assert.Equal(t, "star", overview.UserID)
	assert.False(t, overview.IsSelf)
	assert.True(t, overview.IsFollowing)
	assert.Equal(t, 2, overview.FollowerCount)
	assert.Equal(t, 1, overview.FollowingCount)
	require.Len(t, overview.Posts, 2)
	assert.Equal(t, "second", overview.Posts[0].Content)
}

func TestOverview_Self(t *testing.T) {
	store := newMemoryStore()
	ups := newProfileService(store)

	overview, err := ups.Overview(context.Background(), "me", "me")
	require.NoError(t, err)
	assert.True(t, overview.IsSelf)
	assert.False(t, overview.IsFollowing)
	assert.Empty(t, overview.Posts)
	assert.Equal(t, 0, store.CountCalls(testutil.OpGet, models.FollowSK("me")))
}
