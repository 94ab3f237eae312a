package models

import "time"

// Post is an append-only POST item in the author's partition
type Post struct {
	PK        string `dynamodbav:"PK" json:"PK"`
	SK        string `dynamodbav:"SK" json:"SK"`
	Content   string `dynamodbav:"content" json:"content"`
	Username  string `dynamodbav:"username,omitempty" json:"username"`
	Timestamp *int64 `dynamodbav:"timestamp,omitempty" json:"timestamp,omitempty"`
	ImageURL  string `dynamodbav:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ItemType  string `dynamodbav:"itemType" json:"itemType"`
}

// ItemKey implements Item.
func (p Post) ItemKey() Key {
	return Key{PK: p.PK, SK: p.SK}
}

// PostID is the id encoded in the sort key.
func (p Post) PostID() string {
	id, _ := TrimPrefix(p.SK, PostPrefix)
	return id
}

// AuthorID is the user id encoded in the partition key.
func (p Post) AuthorID() string {
	id, _ := TrimPrefix(p.PK, UserPrefix)
	return id
}

// SortTimestamp is the ordering key; a missing timestamp counts as 0.
func (p Post) SortTimestamp() int64 {
	if p.Timestamp == nil {
		return 0
	}
	return *p.Timestamp
}

// Millis converts t to epoch milliseconds, the unit of every timestamp attribute.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
