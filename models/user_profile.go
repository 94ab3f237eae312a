package models

// UserProfile is the PROFILE item written once at signup
type UserProfile struct {
	PK             string `dynamodbav:"PK" json:"-"`
	SK             string `dynamodbav:"SK" json:"-"`
	UserID         string `dynamodbav:"userId" json:"userId"`
	Email          string `dynamodbav:"email" json:"email"`
	Username       string `dynamodbav:"username" json:"username"`
	HashedPassword string `dynamodbav:"hashedPassword" json:"-"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	ItemType       string `dynamodbav:"itemType,omitempty" json:"-"`
}

// ItemKey implements Item.
func (p UserProfile) ItemKey() Key {
	return Key{PK: p.PK, SK: p.SK}
}

// Summary projects the public part of the profile.
func (p UserProfile) Summary() ProfileSummary {
	return ProfileSummary{UserID: p.UserID, Username: p.Username, Email: p.Email}
}

// ProfileSummary is what suggestion lists and profile pages expose
type ProfileSummary struct {
	UserID   string `dynamodbav:"userId" json:"userId"`
	Username string `dynamodbav:"username" json:"username"`
	Email    string `dynamodbav:"email" json:"email"`
}

// ProfileOverview is everything the profile page shows about one user
type ProfileOverview struct {
	UserID         string `json:"userId"`
	Posts          []Post `json:"posts"`
	FollowingCount int    `json:"followingCount"`
	FollowerCount  int    `json:"followerCount"`
	IsFollowing    bool   `json:"isFollowing"`
	IsSelf         bool   `json:"isSelf"`
}
