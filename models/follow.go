package models

// FollowEdge is either side of a follow relationship. The outgoing side
// (itemType FOLLOW) lives in the follower's partition, the mirror
// (itemType FOLLOWER) in the followee's.
type FollowEdge struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	ItemType  string `dynamodbav:"itemType"`
	Timestamp int64  `dynamodbav:"timestamp"`
}

// ItemKey implements Item.
func (e FollowEdge) ItemKey() Key {
	return Key{PK: e.PK, SK: e.SK}
}

// NewFollowEdges builds the outgoing edge and its mirror for one follow.
func NewFollowEdges(followerID, followeeID string, ts int64) (FollowEdge, FollowEdge) {
	out := FollowKey(followerID, followeeID)
	in := FollowerKey(followeeID, followerID)
	return FollowEdge{PK: out.PK, SK: out.SK, ItemType: ItemTypeFollow, Timestamp: ts},
		FollowEdge{PK: in.PK, SK: in.SK, ItemType: ItemTypeFollower, Timestamp: ts}
}

// OtherUserID is the id on the far side of the edge.
func (e FollowEdge) OtherUserID() string {
	if id, ok := TrimPrefix(e.SK, FollowerPrefix); ok {
		return id
	}
	id, _ := TrimPrefix(e.SK, FollowPrefix)
	return id
}
