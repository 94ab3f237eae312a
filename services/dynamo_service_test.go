package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social_server/metrics"
	"social_server/models"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
)

type mockDynamo struct {
	mock.Mock
}

func (m *mockDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.DeleteItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.QueryOutput)
	return out, args.Error(1)
}

func (m *mockDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.ScanOutput)
	return out, args.Error(1)
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.TransactWriteItemsOutput)
	return out, args.Error(1)
}

func strAV(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }

func stringValue(av types.AttributeValue) string {
	if sv, ok := av.(*types.AttributeValueMemberS); ok {
		return sv.Value
	}
	return ""
}

// valuesContain reports whether the expression values hold every wanted string.
func valuesContain(values map[string]types.AttributeValue, want ...string) bool {
	have := map[string]bool{}
	for _, v := range values {
		have[stringValue(v)] = true
	}
	for _, w := range want {
		if !have[w] {
			return false
		}
	}
	return true
}

func TestDynamoGetItem(t *testing.T) {
	client := new(mockDynamo)
	store := NewDynamoService(client, "SocialApp", nil, nil)
	item := map[string]types.AttributeValue{models.AttrPK: strAV("USER#u1"), models.AttrSK: strAV("PROFILE")}

	client.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return *in.TableName == "SocialApp" &&
			stringValue(in.Key[models.AttrPK]) == "USER#u1" &&
			stringValue(in.Key[models.AttrSK]) == "PROFILE"
	})).Return(&dynamodb.GetItemOutput{Item: item}, nil)

	got, err := store.GetItem(context.Background(), models.ProfileKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, item, got)
	client.AssertExpectations(t)
}

func TestDynamoGetItem_NotFound(t *testing.T) {
	client := new(mockDynamo)
	client.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := NewDynamoService(client, "SocialApp", nil, nil).GetItem(context.Background(), models.ProfileKey("ghost"))
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDynamoPutItemIfNotExists(t *testing.T) {
	client := new(mockDynamo)
	client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return in.ConditionExpression != nil && stringValue(in.Item[models.AttrPK]) == "USER#u1"
	})).Return(nil, &types.ConditionalCheckFailedException{}).Once()

	store := NewDynamoService(client, "SocialApp", nil, nil)
	profile := models.UserProfile{PK: "USER#u1", SK: "PROFILE", UserID: "u1"}
	err := store.PutItemIfNotExists(context.Background(), profile)
	assert.ErrorIs(t, err, ErrItemExists)
	client.AssertExpectations(t)
}

func TestDynamoPutItem_WrapsErrors(t *testing.T) {
	client := new(mockDynamo)
	boom := errors.New("throttled")
	client.On("PutItem", mock.Anything, mock.Anything).Return(nil, boom)

	err := NewDynamoService(client, "SocialApp", nil, nil).PutItem(context.Background(), models.Post{PK: "USER#u1", SK: "POST#1"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "SocialApp")
}

func TestDynamoPutItems_SingleTransaction(t *testing.T) {
	client := new(mockDynamo)
	out, mirror := models.NewFollowEdges("a", "b", 1)
	client.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
		if len(in.TransactItems) != 2 {
			return false
		}
		first, second := in.TransactItems[0].Put, in.TransactItems[1].Put
		return first != nil && second != nil &&
			*first.TableName == "SocialApp" &&
			stringValue(first.Item[models.AttrSK]) == "FOLLOW#b" &&
			stringValue(second.Item[models.AttrPK]) == "USER#b" &&
			stringValue(second.Item[models.AttrSK]) == "FOLLOWER#a"
	})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

	err := NewDynamoService(client, "SocialApp", nil, nil).PutItems(context.Background(), out, mirror)
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestDynamoDeleteItems_SingleTransaction(t *testing.T) {
	client := new(mockDynamo)
	client.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
		return len(in.TransactItems) == 2 &&
			in.TransactItems[0].Delete != nil &&
			in.TransactItems[1].Delete != nil
	})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

	err := NewDynamoService(client, "SocialApp", nil, nil).
		DeleteItems(context.Background(), models.FollowKey("a", "b"), models.FollowerKey("b", "a"))
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestDynamoQueryPrefix_Paginates(t *testing.T) {
	client := new(mockDynamo)
	lastKey := map[string]types.AttributeValue{models.AttrPK: strAV("USER#u1"), models.AttrSK: strAV("FOLLOW#b")}

	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey == nil &&
			*in.TableName == "SocialApp" &&
			in.ProjectionExpression != nil &&
			valuesContain(in.ExpressionAttributeValues, "USER#u1", "FOLLOW#")
	})).Return(&dynamodb.QueryOutput{
		Items:            []map[string]types.AttributeValue{{models.AttrSK: strAV("FOLLOW#a")}, {models.AttrSK: strAV("FOLLOW#b")}},
		LastEvaluatedKey: lastKey,
	}, nil).Once()
	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey != nil
	})).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{{models.AttrSK: strAV("FOLLOW#c")}},
	}, nil).Once()

	items, err := NewDynamoService(client, "SocialApp", nil, nil).
		QueryPrefix(context.Background(), "USER#u1", models.FollowPrefix, models.AttrSK)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	client.AssertExpectations(t)
}

func TestDynamoCountPrefix(t *testing.T) {
	client := new(mockDynamo)
	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.Select == types.SelectCount && valuesContain(in.ExpressionAttributeValues, "USER#u1", "FOLLOWER#")
	})).Return(&dynamodb.QueryOutput{Count: 4}, nil).Once()

	count, err := NewDynamoService(client, "SocialApp", nil, nil).
		CountPrefix(context.Background(), "USER#u1", models.FollowerPrefix)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestDynamoScanSortKey(t *testing.T) {
	client := new(mockDynamo)
	client.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.FilterExpression != nil && valuesContain(in.ExpressionAttributeValues, "USER#", "PROFILE")
	})).Return(&dynamodb.ScanOutput{
		Items: []map[string]types.AttributeValue{{models.AttrUserID: strAV("u1")}},
	}, nil).Once()

	items, err := NewDynamoService(client, "SocialApp", nil, nil).
		ScanSortKey(context.Background(), models.ProfileSortKey, models.AttrUserID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDynamoQueryIndex(t *testing.T) {
	client := new(mockDynamo)
	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.IndexName != nil && *in.IndexName == "email-index" &&
			in.Limit != nil && *in.Limit == 1 &&
			valuesContain(in.ExpressionAttributeValues, "a@example.com")
	})).Return(&dynamodb.QueryOutput{}, nil).Once()

	items, err := NewDynamoService(client, "SocialApp", nil, nil).
		QueryIndex(context.Background(), "email-index", models.AttrEmail, "a@example.com", 1)
	require.NoError(t, err)
	assert.Empty(t, items)
	client.AssertExpectations(t)
}

func TestDynamoObservesOperations(t *testing.T) {
	client := new(mockDynamo)
	client.On("DeleteItem", mock.Anything, mock.Anything).Return(&dynamodb.DeleteItemOutput{}, nil)
	collector := metrics.NewCollector("test")

	err := NewDynamoService(client, "SocialApp", nil, collector).DeleteItem(context.Background(), models.FollowKey("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, float64(1), promtestutil.ToFloat64(collector.StoreOperations.WithLabelValues("delete_item", "success")))
}
