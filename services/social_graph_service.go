package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"social_server/metrics"
	"social_server/models"
	"social_server/utils"
)

// ErrSelfFollow is returned by Follow when self-follows are disabled.
var ErrSelfFollow = errors.New("cannot follow yourself")

// SocialGraphService reads and writes follow edges
type SocialGraphService struct {
	Store           Store
	Logger          *zap.Logger
	Metrics         *metrics.Collector
	AllowSelfFollow bool
	Now             func() time.Time
}

// NewSocialGraphService creates a graph accessor over store.
func NewSocialGraphService(store Store, logger *zap.Logger, collector *metrics.Collector, allowSelfFollow bool) *SocialGraphService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocialGraphService{
		Store:           store,
		Logger:          logger,
		Metrics:         collector,
		AllowSelfFollow: allowSelfFollow,
		Now:             time.Now,
	}
}

// Follow records that followerID follows followeeID. The outgoing edge and
// its mirror are written together; re-following refreshes the timestamp.
func (gs *SocialGraphService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID && !gs.AllowSelfFollow {
		return ErrSelfFollow
	}

	out, mirror := models.NewFollowEdges(followerID, followeeID, models.Millis(gs.Now()))
	if err := gs.Store.PutItems(ctx, out, mirror); err != nil {
		return fmt.Errorf("failed to follow %s: %w", followeeID, err)
	}

	gs.Metrics.FollowChanged("follow")
	gs.Logger.Info("user followed",
		zap.String("followerId", followerID),
		zap.String("followeeId", followeeID),
	)
	return nil
}

// Unfollow deletes both edges. Unfollowing someone not followed is not an error.
func (gs *SocialGraphService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	keys := []models.Key{
		models.FollowKey(followerID, followeeID),
		models.FollowerKey(followeeID, followerID),
	}
	if err := gs.Store.DeleteItems(ctx, keys...); err != nil {
		return fmt.Errorf("failed to unfollow %s: %w", followeeID, err)
	}

	gs.Metrics.FollowChanged("unfollow")
	gs.Logger.Info("user unfollowed",
		zap.String("followerId", followerID),
		zap.String("followeeId", followeeID),
	)
	return nil
}

// IsFollowing reports whether the outgoing edge exists. The mirror is not consulted.
func (gs *SocialGraphService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	_, err := gs.Store.GetItem(ctx, models.FollowKey(followerID, followeeID))
	if errors.Is(err, ErrItemNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return true, nil
}

// ListFollowedIDs returns the ids userID follows, fetching only sort keys.
func (gs *SocialGraphService) ListFollowedIDs(ctx context.Context, userID string) ([]string, error) {
	items, err := gs.Store.QueryPrefix(ctx, models.UserPK(userID), models.FollowPrefix, models.AttrSK)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		sk, _ := utils.ExtractString(item, models.AttrSK)
		id, ok := models.TrimPrefix(sk, models.FollowPrefix)
		if !ok {
			gs.Logger.Warn("skipping malformed follow edge",
				zap.String("userId", userID),
				zap.String("sk", sk),
			)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CountFollowing counts outgoing edges without materializing them.
func (gs *SocialGraphService) CountFollowing(ctx context.Context, userID string) (int, error) {
	n, err := gs.Store.CountPrefix(ctx, models.UserPK(userID), models.FollowPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to count following: %w", err)
	}
	return n, nil
}

// CountFollowers counts mirror edges without materializing them.
func (gs *SocialGraphService) CountFollowers(ctx context.Context, userID string) (int, error) {
	n, err := gs.Store.CountPrefix(ctx, models.UserPK(userID), models.FollowerPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return n, nil
}

// FollowStats holds both edge counts of one user
type FollowStats struct {
	Following int `json:"followingCount"`
	Followers int `json:"followerCount"`
}

// Stats counts following and followers concurrently.
func (gs *SocialGraphService) Stats(ctx context.Context, userID string) (FollowStats, error) {
	var stats FollowStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := gs.CountFollowing(ctx, userID)
		stats.Following = n
		return err
	})
	g.Go(func() error {
		n, err := gs.CountFollowers(ctx, userID)
		stats.Followers = n
		return err
	})
	if err := g.Wait(); err != nil {
		return FollowStats{}, err
	}
	return stats, nil
}
