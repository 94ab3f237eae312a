package services

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"social_server/models"
)

var (
	// ErrItemNotFound is returned by point lookups of absent keys.
	ErrItemNotFound = errors.New("item not found")
	// ErrItemExists is returned when a conditional put finds the key taken.
	ErrItemExists = errors.New("item already exists")
)

// Store is the slice of the key-value store the application consumes.
// Items are addressed by (PK, SK); raw attribute maps are decoded by the
// callers through models.DecodeItem.
type Store interface {
	GetItem(ctx context.Context, key models.Key) (map[string]types.AttributeValue, error)
	PutItem(ctx context.Context, item interface{}) error
	PutItemIfNotExists(ctx context.Context, item interface{}) error
	DeleteItem(ctx context.Context, key models.Key) error

	// PutItems and DeleteItems apply all writes or none.
	PutItems(ctx context.Context, items ...interface{}) error
	DeleteItems(ctx context.Context, keys ...models.Key) error

	QueryPrefix(ctx context.Context, pk, skPrefix string, projection ...string) ([]map[string]types.AttributeValue, error)
	CountPrefix(ctx context.Context, pk, skPrefix string) (int, error)
	ScanSortKey(ctx context.Context, sk string, projection ...string) ([]map[string]types.AttributeValue, error)
	QueryIndex(ctx context.Context, indexName, attribute, value string, limit int32) ([]map[string]types.AttributeValue, error)
}
