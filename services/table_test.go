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

	"social_server/models"
)

type mockTableAdmin struct {
	mock.Mock
}

func (m *mockTableAdmin) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.CreateTableOutput)
	return out, args.Error(1)
}

func (m *mockTableAdmin) DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.DescribeTableOutput)
	return out, args.Error(1)
}

func TestTableSpec_CreateInput(t *testing.T) {
	in := TableSpec{Name: "SocialApp", EmailIndex: "email-index", ReadCapacity: 5, WriteCapacity: 5}.CreateInput()

	assert.Equal(t, "SocialApp", *in.TableName)
	require.Len(t, in.KeySchema, 2)
	assert.Equal(t, models.AttrPK, *in.KeySchema[0].AttributeName)
	assert.Equal(t, types.KeyTypeHash, in.KeySchema[0].KeyType)
	assert.Equal(t, models.AttrSK, *in.KeySchema[1].AttributeName)
	assert.Equal(t, types.BillingModeProvisioned, in.BillingMode)
	assert.Equal(t, int64(5), *in.ProvisionedThroughput.ReadCapacityUnits)
	require.Len(t, in.GlobalSecondaryIndexes, 1)
	assert.Equal(t, "email-index", *in.GlobalSecondaryIndexes[0].IndexName)
	assert.NotNil(t, in.GlobalSecondaryIndexes[0].ProvisionedThroughput)
}

func TestTableSpec_OnDemand(t *testing.T) {
	in := TableSpec{Name: "t", EmailIndex: "i", OnDemand: true}.CreateInput()
	assert.Equal(t, types.BillingModePayPerRequest, in.BillingMode)
	assert.Nil(t, in.ProvisionedThroughput)
	assert.Nil(t, in.GlobalSecondaryIndexes[0].ProvisionedThroughput)
}

func TestCreateTable_AlreadyExists(t *testing.T) {
	admin := new(mockTableAdmin)
	admin.On("CreateTable", mock.Anything, mock.Anything).Return(nil, &types.ResourceInUseException{})

	err := CreateTable(context.Background(), admin, TableSpec{Name: "t", EmailIndex: "i"}, 0)
	assert.ErrorIs(t, err, ErrTableExists)
}

func TestCreateTable_NoWait(t *testing.T) {
	admin := new(mockTableAdmin)
	admin.On("CreateTable", mock.Anything, mock.Anything).Return(&dynamodb.CreateTableOutput{}, nil).Once()

	require.NoError(t, CreateTable(context.Background(), admin, TableSpec{Name: "t", EmailIndex: "i"}, 0))
	admin.AssertNotCalled(t, "DescribeTable", mock.Anything, mock.Anything)
}

func TestCreateTable_Failure(t *testing.T) {
	admin := new(mockTableAdmin)
	boom := errors.New("denied")
	admin.On("CreateTable", mock.Anything, mock.Anything).Return(nil, boom)

	err := CreateTable(context.Background(), admin, TableSpec{Name: "t", EmailIndex: "i"}, 0)
	assert.ErrorIs(t, err, boom)
}
