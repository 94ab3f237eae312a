package models

import "strings"

// Key addresses one item in the table.
type Key struct {
	PK string `dynamodbav:"PK" json:"PK"`
	SK string `dynamodbav:"SK" json:"SK"`
}

// UserPK returns the partition key shared by every item a user owns.
func UserPK(userID string) string {
	return UserPrefix + userID
}

func PostSK(postID string) string {
	return PostPrefix + postID
}

func FollowSK(followeeID string) string {
	return FollowPrefix + followeeID
}

func FollowerSK(followerID string) string {
	return FollowerPrefix + followerID
}

// ProfileKey addresses the profile item of a user.
func ProfileKey(userID string) Key {
	return Key{PK: UserPK(userID), SK: ProfileSortKey}
}

// FollowKey addresses the outgoing edge "follower follows followee".
func FollowKey(followerID, followeeID string) Key {
	return Key{PK: UserPK(followerID), SK: FollowSK(followeeID)}
}

// FollowerKey addresses the mirror edge stored in the followee's partition.
func FollowerKey(followeeID, followerID string) Key {
	return Key{PK: UserPK(followeeID), SK: FollowerSK(followerID)}
}

// TrimPrefix strips prefix from a key and reports whether it was present
// and left a non-empty id behind.
func TrimPrefix(key, prefix string) (string, bool) {
	if !strings.HasPrefix(key, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(key, prefix)
	return id, id != ""
}
