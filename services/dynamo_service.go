package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"social_server/metrics"
	"social_server/models"
)

// DynamoAPI is the subset of *dynamodb.Client the store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// DynamoService implements Store on a single DynamoDB table
type DynamoService struct {
	client    DynamoAPI
	tableName string
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// NewDynamoService creates a store bound to tableName. logger and collector may be nil.
func NewDynamoService(client DynamoAPI, tableName string, logger *zap.Logger, collector *metrics.Collector) *DynamoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DynamoService{
		client:    client,
		tableName: tableName,
		logger:    logger,
		metrics:   collector,
	}
}

// LoadAWSConfig loads the shared AWS configuration for region.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// InitializeDynamoDBClient initializes the DynamoDB client. A non-empty
// endpoint points it at DynamoDB Local.
func InitializeDynamoDBClient(cfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// TableName reports the table the store is bound to.
func (ds *DynamoService) TableName() string {
	return ds.tableName
}

// GetItem retrieves an item by key
func (ds *DynamoService) GetItem(ctx context.Context, key models.Key) (item map[string]types.AttributeValue, err error) {
	defer ds.observe("get_item", time.Now(), &err)

	av, err := marshalKey(key)
	if err != nil {
		return nil, err
	}

	output, err := ds.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(ds.tableName),
		Key:       av,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", ds.tableName, err)
	}
	if len(output.Item) == 0 {
		return nil, ErrItemNotFound
	}
	return output.Item, nil
}

// PutItem writes an item, replacing any item with the same key
func (ds *DynamoService) PutItem(ctx context.Context, item interface{}) (err error) {
	defer ds.observe("put_item", time.Now(), &err)

	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(ds.tableName),
		Item:      marshaledItem,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", ds.tableName, err)
	}
	return nil
}

// PutItemIfNotExists writes an item only if its partition key is not taken
func (ds *DynamoService) PutItemIfNotExists(ctx context.Context, item interface{}) (err error) {
	defer ds.observe("put_item_conditional", time.Now(), &err)

	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(models.AttrPK))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	_, err = ds.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(ds.tableName),
		Item:                      marshaledItem,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrItemExists
		}
		return fmt.Errorf("failed to put item in table '%s': %w", ds.tableName, err)
	}
	return nil
}

// DeleteItem removes an item. Deleting an absent key succeeds.
func (ds *DynamoService) DeleteItem(ctx context.Context, key models.Key) (err error) {
	defer ds.observe("delete_item", time.Now(), &err)

	av, err := marshalKey(key)
	if err != nil {
		return err
	}

	_, err = ds.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(ds.tableName),
		Key:       av,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", ds.tableName, err)
	}
	return nil
}

// PutItems writes all items in one transaction
func (ds *DynamoService) PutItems(ctx context.Context, items ...interface{}) (err error) {
	defer ds.observe("transact_put", time.Now(), &err)

	writes := make([]types.TransactWriteItem, 0, len(items))
	for _, item := range items {
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("failed to marshal item: %w", err)
		}
		writes = append(writes, types.TransactWriteItem{
			Put: &types.Put{TableName: aws.String(ds.tableName), Item: av},
		})
	}
	return ds.transactWrite(ctx, writes)
}

// DeleteItems deletes all keys in one transaction
func (ds *DynamoService) DeleteItems(ctx context.Context, keys ...models.Key) (err error) {
	defer ds.observe("transact_delete", time.Now(), &err)

	writes := make([]types.TransactWriteItem, 0, len(keys))
	for _, key := range keys {
		av, err := marshalKey(key)
		if err != nil {
			return err
		}
		writes = append(writes, types.TransactWriteItem{
			Delete: &types.Delete{TableName: aws.String(ds.tableName), Key: av},
		})
	}
	return ds.transactWrite(ctx, writes)
}

func (ds *DynamoService) transactWrite(ctx context.Context, writes []types.TransactWriteItem) error {
	if len(writes) == 0 {
		return nil
	}
	_, err := ds.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	})
	if err != nil {
		return fmt.Errorf("failed to write %d items to table '%s': %w", len(writes), ds.tableName, err)
	}
	return nil
}

// QueryPrefix returns every item of partition pk whose sort key starts with skPrefix
func (ds *DynamoService) QueryPrefix(ctx context.Context, pk, skPrefix string, projection ...string) (items []map[string]types.AttributeValue, err error) {
	defer ds.observe("query", time.Now(), &err)

	builder := expression.NewBuilder().WithKeyCondition(prefixCondition(pk, skPrefix))
	if len(projection) > 0 {
		builder = builder.WithProjection(projectionOf(projection))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(ds.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if len(projection) > 0 {
		input.ProjectionExpression = expr.Projection()
	}

	paginator := dynamodb.NewQueryPaginator(ds.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query table '%s': %w", ds.tableName, err)
		}
		items = append(items, page.Items...)
	}

	ds.logger.Debug("query completed",
		zap.String("pk", pk),
		zap.String("skPrefix", skPrefix),
		zap.Int("items", len(items)),
	)
	return items, nil
}

// CountPrefix counts the items QueryPrefix would return without reading them
func (ds *DynamoService) CountPrefix(ctx context.Context, pk, skPrefix string) (count int, err error) {
	defer ds.observe("count", time.Now(), &err)

	expr, err := expression.NewBuilder().WithKeyCondition(prefixCondition(pk, skPrefix)).Build()
	if err != nil {
		return 0, fmt.Errorf("failed to build query expression: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(ds.client, &dynamodb.QueryInput{
		TableName:                 aws.String(ds.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Select:                    types.SelectCount,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count items in table '%s': %w", ds.tableName, err)
		}
		count += int(page.Count)
	}
	return count, nil
}

// ScanSortKey scans the whole table for user items whose sort key equals sk
func (ds *DynamoService) ScanSortKey(ctx context.Context, sk string, projection ...string) (items []map[string]types.AttributeValue, err error) {
	defer ds.observe("scan", time.Now(), &err)

	filter := expression.Name(models.AttrPK).BeginsWith(models.UserPrefix).
		And(expression.Name(models.AttrSK).Equal(expression.Value(sk)))
	builder := expression.NewBuilder().WithFilter(filter)
	if len(projection) > 0 {
		builder = builder.WithProjection(projectionOf(projection))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scan expression: %w", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(ds.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if len(projection) > 0 {
		input.ProjectionExpression = expr.Projection()
	}

	paginator := dynamodb.NewScanPaginator(ds.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table '%s': %w", ds.tableName, err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// QueryIndex queries a Global Secondary Index on attribute = value
func (ds *DynamoService) QueryIndex(ctx context.Context, indexName, attribute, value string, limit int32) (items []map[string]types.AttributeValue, err error) {
	defer ds.observe("query_index", time.Now(), &err)

	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(attribute).Equal(expression.Value(value))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build index expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(ds.tableName),
		IndexName:                 aws.String(indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	output, err := ds.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query GSI '%s': %w", indexName, err)
	}
	return output.Items, nil
}

func (ds *DynamoService) observe(operation string, start time.Time, errp *error) {
	elapsed := time.Since(start)
	var err error
	if errp != nil {
		err = *errp
	}
	ds.metrics.ObserveStore(operation, elapsed.Seconds(), err)
	if err != nil && !errors.Is(err, ErrItemNotFound) && !errors.Is(err, ErrItemExists) {
		ds.logger.Error("store operation failed",
			zap.String("operation", operation),
			zap.String("table", ds.tableName),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	}
}

func prefixCondition(pk, skPrefix string) expression.KeyConditionBuilder {
	return expression.Key(models.AttrPK).Equal(expression.Value(pk)).
		And(expression.Key(models.AttrSK).BeginsWith(skPrefix))
}

func projectionOf(fields []string) expression.ProjectionBuilder {
	proj := expression.NamesList(expression.Name(fields[0]))
	for _, field := range fields[1:] {
		proj = proj.AddNames(expression.Name(field))
	}
	return proj
}

func marshalKey(key models.Key) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}
	return av, nil
}
