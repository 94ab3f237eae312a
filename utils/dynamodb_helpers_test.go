package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
)

func TestExtractString(t *testing.T) {
	item := map[string]types.AttributeValue{
		"s": &types.AttributeValueMemberS{Value: "v"},
		"n": &types.AttributeValueMemberN{Value: "1"},
	}
	v, ok := ExtractString(item, "s")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = ExtractString(item, "n")
	assert.False(t, ok)
	_, ok = ExtractString(item, "missing")
	assert.False(t, ok)
}

func TestExtractInt64(t *testing.T) {
	item := map[string]types.AttributeValue{
		"n":   &types.AttributeValueMemberN{Value: "1700000000000"},
		"bad": &types.AttributeValueMemberN{Value: "1.5"},
		"s":   &types.AttributeValueMemberS{Value: "7"},
	}
	v, ok := ExtractInt64(item, "n")
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000000), v)

	_, ok = ExtractInt64(item, "bad")
	assert.False(t, ok)
	_, ok = ExtractInt64(item, "s")
	assert.False(t, ok)
}
