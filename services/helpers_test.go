package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"social_server/models"
	"social_server/testutil"
)

var _ Store = (*testutil.MemoryStore)(nil)
var _ Store = (*DynamoService)(nil)

func newMemoryStore() *testutil.MemoryStore {
	return testutil.NewMemoryStore(ErrItemNotFound, ErrItemExists)
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func seedProfile(store *testutil.MemoryStore, userID, username string) {
	store.Seed(map[string]types.AttributeValue{
		models.AttrPK:       &types.AttributeValueMemberS{Value: models.UserPK(userID)},
		models.AttrSK:       &types.AttributeValueMemberS{Value: models.ProfileSortKey},
		models.AttrUserID:   &types.AttributeValueMemberS{Value: userID},
		models.AttrUsername: &types.AttributeValueMemberS{Value: username},
		models.AttrEmail:    &types.AttributeValueMemberS{Value: userID + "@example.com"},
	})
}

func seedPost(store *testutil.MemoryStore, authorID, postID, content string, ts *int64) {
	item := map[string]types.AttributeValue{
		models.AttrPK:       &types.AttributeValueMemberS{Value: models.UserPK(authorID)},
		models.AttrSK:       &types.AttributeValueMemberS{Value: models.PostSK(postID)},
		models.AttrContent:  &types.AttributeValueMemberS{Value: content},
		models.AttrItemType: &types.AttributeValueMemberS{Value: models.ItemTypePost},
	}
	if ts != nil {
		item[models.AttrTimestamp] = &types.AttributeValueMemberN{Value: strconv.FormatInt(*ts, 10)}
	}
	store.Seed(item)
}

func ts(v int64) *int64 { return &v }

func mustFollow(t *testing.T, g *SocialGraphService, follower string, followees ...string) {
	t.Helper()
	for _, followee := range followees {
		require.NoError(t, g.Follow(context.Background(), follower, followee))
	}
}
