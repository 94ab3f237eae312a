package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social_server/models"
	"social_server/testutil"
)

func suggestedIDs(profiles []models.ProfileSummary) []string {
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	return ids
}

func TestSuggestProfiles_ExcludesSelfAndFollowed(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	graph := newGraph(store)
	seedProfile(store, "u1", "one")
	seedProfile(store, "u2", "two")
	seedProfile(store, "u3", "three")
	mustFollow(t, graph, "u1", "u2")

	got, err := NewSuggestionService(store, graph, nil).SuggestProfiles(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u3", got[0].UserID)
	assert.Equal(t, "three", got[0].Username)
	assert.Equal(t, "u3@example.com", got[0].Email)
}

func TestSuggestProfiles_NoFollowsReturnsEveryoneElse(t *testing.T) {
	store := newMemoryStore()
	graph := newGraph(store)
	for _, id := range []string{"a", "b", "c", "d"} {
		seedProfile(store, id, id)
	}

	got, err := NewSuggestionService(store, graph, nil).SuggestProfiles(context.Background(), "c")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "d"}, suggestedIDs(got))
}

func TestSuggestProfiles_FollowingEveryoneReturnsEmpty(t *testing.T) {
	store := newMemoryStore()
	graph := newGraph(store)
	seedProfile(store, "u1", "one")
	seedProfile(store, "u2", "two")
	mustFollow(t, graph, "u1", "u2")

	got, err := NewSuggestionService(store, graph, nil).SuggestProfiles(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggestProfiles_IgnoresNonProfileItems(t *testing.T) {
	store := newMemoryStore()
	graph := newGraph(store)
	seedProfile(store, "u2", "two")
	seedPost(store, "u2", "p1", "hello", ts(1))
	mustFollow(t, graph, "u3", "u1")
	store.Seed(map[string]types.AttributeValue{
		models.AttrPK: &types.AttributeValueMemberS{Value: models.UserPK("broken")},
		models.AttrSK: &types.AttributeValueMemberS{Value: models.ProfileSortKey},
	})

	got, err := NewSuggestionService(store, graph, nil).SuggestProfiles(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, suggestedIDs(got))
}

func TestSuggestProfiles_ScanFailure(t *testing.T) {
	store := newMemoryStore()
	boom := errors.New("scan failed")
	store.FailOn(testutil.OpScan, "", boom)

	_, err := NewSuggestionService(store, newGraph(store), nil).SuggestProfiles(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
}
