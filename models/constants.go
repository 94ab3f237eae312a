package models

// Key prefixes and fixed sort keys of the single-table layout
const (
	UserPrefix     = "USER#"
	PostPrefix     = "POST#"
	FollowPrefix   = "FOLLOW#"
	FollowerPrefix = "FOLLOWER#"
	ProfileSortKey = "PROFILE"
)

// Item types stored in the itemType attribute
const (
	ItemTypeProfile  = "PROFILE"
	ItemTypePost     = "POST"
	ItemTypeFollow   = "FOLLOW"
	ItemTypeFollower = "FOLLOWER"
)

// Attribute names
const (
	AttrPK             = "PK"
	AttrSK             = "SK"
	AttrItemType       = "itemType"
	AttrUserID         = "userId"
	AttrEmail          = "email"
	AttrUsername       = "username"
	AttrHashedPassword = "hashedPassword"
	AttrContent        = "content"
	AttrTimestamp      = "timestamp"
	AttrCreatedAt      = "createdAt"
	AttrImageURL       = "imageUrl"
)

// DefaultTableName is the single table every entity lives in
const DefaultTableName = "SocialApp"

// DefaultEmailIndex is the GSI used to look profiles up by email at login
const DefaultEmailIndex = "email-index"
