package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"social_server/utils"
)

// ErrInvalidItem is returned when a stored item lacks a required attribute
// or carries one of the wrong type.
var ErrInvalidItem = errors.New("invalid item")

// Item is any entity decoded from the table.
type Item interface {
	ItemKey() Key
}

// DecodeItem turns a raw attribute map into its typed entity. The itemType
// attribute selects the shape; profiles written without one are recognised
// by their PROFILE sort key.
func DecodeItem(av map[string]types.AttributeValue) (Item, error) {
	pk, err := requireString(av, AttrPK)
	if err != nil {
		return nil, err
	}
	sk, err := requireString(av, AttrSK)
	if err != nil {
		return nil, err
	}

	itemType, _ := utils.ExtractString(av, AttrItemType)
	switch {
	case itemType == ItemTypePost || (itemType == "" && strings.HasPrefix(sk, PostPrefix)):
		return DecodePost(av)
	case itemType == ItemTypeFollow, itemType == ItemTypeFollower:
		return decodeFollowEdge(av)
	case itemType == ItemTypeProfile || sk == ProfileSortKey:
		return decodeProfile(av)
	default:
		return nil, fmt.Errorf("%w: unknown item type %q at %s/%s", ErrInvalidItem, itemType, pk, sk)
	}
}

// DecodePost validates and decodes a post item. PK, SK and content must be
// present; a missing timestamp stays nil and sorts as 0.
func DecodePost(av map[string]types.AttributeValue) (Post, error) {
	for _, attr := range []string{AttrPK, AttrSK, AttrContent} {
		if _, err := requireString(av, attr); err != nil {
			return Post{}, err
		}
	}
	if ts, ok := av[AttrTimestamp]; ok {
		if _, isNum := ts.(*types.AttributeValueMemberN); !isNum {
			return Post{}, fmt.Errorf("%w: %s is not a number", ErrInvalidItem, AttrTimestamp)
		}
	}

	var post Post
	if err := attributevalue.UnmarshalMap(av, &post); err != nil {
		return Post{}, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	if post.ItemType == "" {
		post.ItemType = ItemTypePost
	}
	return post, nil
}

func decodeFollowEdge(av map[string]types.AttributeValue) (FollowEdge, error) {
	var edge FollowEdge
	if err := attributevalue.UnmarshalMap(av, &edge); err != nil {
		return FollowEdge{}, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	if edge.OtherUserID() == "" {
		return FollowEdge{}, fmt.Errorf("%w: malformed edge sort key %q", ErrInvalidItem, edge.SK)
	}
	return edge, nil
}

func decodeProfile(av map[string]types.AttributeValue) (UserProfile, error) {
	if _, err := requireString(av, AttrUserID); err != nil {
		return UserProfile{}, err
	}
	var profile UserProfile
	if err := attributevalue.UnmarshalMap(av, &profile); err != nil {
		return UserProfile{}, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	return profile, nil
}

func requireString(av map[string]types.AttributeValue, field string) (string, error) {
	v, ok := utils.ExtractString(av, field)
	if !ok {
		return "", fmt.Errorf("%w: missing string attribute %q", ErrInvalidItem, field)
	}
	return v, nil
}
