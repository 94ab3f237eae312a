package utils

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string attribute from a DynamoDB item
func ExtractString(item map[string]types.AttributeValue, field string) (string, bool) {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value, true
		}
	}
	return "", false
}

// ExtractInt64 safely extracts a numeric attribute from a DynamoDB item
func ExtractInt64(item map[string]types.AttributeValue, field string) (int64, bool) {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberN); ok {
			n, err := strconv.ParseInt(v.Value, 10, 64)
			return n, err == nil
		}
	}
	return 0, false
}
