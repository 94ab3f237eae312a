package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"social_server/models"
)

// ErrTableExists is returned by CreateTable when the table is already there.
var ErrTableExists = errors.New("table already exists")

// TableAdmin is the subset of *dynamodb.Client used to bootstrap the table.
type TableAdmin interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// TableSpec describes the single table and its email index.
type TableSpec struct {
	Name          string
	EmailIndex    string
	ReadCapacity  int64
	WriteCapacity int64
	// OnDemand switches to PAY_PER_REQUEST and ignores the capacities.
	OnDemand bool
}

// CreateInput renders the definition as a CreateTable request.
func (s TableSpec) CreateInput() *dynamodb.CreateTableInput {
	in := &dynamodb.CreateTableInput{
		TableName: aws.String(s.Name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(models.AttrPK), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(models.AttrSK), KeyType: types.KeyTypeRange},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(models.AttrPK), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(models.AttrSK), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(models.AttrEmail), AttributeType: types.ScalarAttributeTypeS},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{{
			IndexName: aws.String(s.EmailIndex),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(models.AttrEmail), KeyType: types.KeyTypeHash},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}},
	}

	if s.OnDemand {
		in.BillingMode = types.BillingModePayPerRequest
		return in
	}
	throughput := &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(s.ReadCapacity),
		WriteCapacityUnits: aws.Int64(s.WriteCapacity),
	}
	in.BillingMode = types.BillingModeProvisioned
	in.ProvisionedThroughput = throughput
	in.GlobalSecondaryIndexes[0].ProvisionedThroughput = throughput
	return in
}

// CreateTable creates the table and waits up to wait for it to become active.
// A zero wait returns right after the request is accepted.
func CreateTable(ctx context.Context, admin TableAdmin, table TableSpec, wait time.Duration) error {
	_, err := admin.CreateTable(ctx, table.CreateInput())
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return ErrTableExists
		}
		return fmt.Errorf("failed to create table '%s': %w", table.Name, err)
	}
	if wait <= 0 {
		return nil
	}

	waiter := dynamodb.NewTableExistsWaiter(admin)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table.Name)}, wait); err != nil {
		return fmt.Errorf("table '%s' did not become active: %w", table.Name, err)
	}
	return nil
}
