package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"social_server/metrics"
	"social_server/models"
)

// FeedService assembles a user's feed by fanning out one post query per
// followed account and merging the results.
type FeedService struct {
	Store   Store
	Graph   *SocialGraphService
	Logger  *zap.Logger
	Metrics *metrics.Collector

	// MaxConcurrency bounds in-flight post queries; 0 means one per followee at once.
	MaxConcurrency int
}

// NewFeedService creates a feed assembler.
func NewFeedService(store Store, graph *SocialGraphService, logger *zap.Logger, collector *metrics.Collector, maxConcurrency int) *FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedService{
		Store:          store,
		Graph:          graph,
		Logger:         logger,
		Metrics:        collector,
		MaxConcurrency: maxConcurrency,
	}
}

// AssembleFeed returns the posts of everyone userID follows, newest first.
// Any failed post query fails the whole feed.
func (fs *FeedService) AssembleFeed(ctx context.Context, userID string) ([]models.Post, error) {
	followedIDs, err := fs.Graph.ListFollowedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	fs.Metrics.ObserveFanout(len(followedIDs))
	if len(followedIDs) == 0 {
		return []models.Post{}, nil
	}

	results := make([][]map[string]types.AttributeValue, len(followedIDs))
	g, gctx := errgroup.WithContext(ctx)
	if fs.MaxConcurrency > 0 {
		g.SetLimit(fs.MaxConcurrency)
	}
	for i, followedID := range followedIDs {
		i, followedID := i, followedID
		g.Go(func() error {
			items, err := fs.Store.QueryPrefix(gctx, models.UserPK(followedID), models.PostPrefix)
			if err != nil {
				return fmt.Errorf("failed to fetch posts of %s: %w", followedID, err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fs.Logger.Error("feed assembly failed", zap.String("userId", userID), zap.Error(err))
		return nil, err
	}

	posts := make([]models.Post, 0)
	for _, items := range results {
		posts = append(posts, fs.decodePosts(items)...)
	}
	SortPosts(posts)

	fs.Logger.Debug("feed assembled",
		zap.String("userId", userID),
		zap.Int("followees", len(followedIDs)),
		zap.Int("posts", len(posts)),
	)
	return posts, nil
}

func (fs *FeedService) decodePosts(items []map[string]types.AttributeValue) []models.Post {
	posts := make([]models.Post, 0, len(items))
	for _, item := range items {
		post, err := models.DecodePost(item)
		if err != nil {
			fs.Logger.Warn("skipping malformed post item", zap.Error(err))
			continue
		}
		posts = append(posts, post)
	}
	return posts
}

// SortPosts orders posts newest first. A missing timestamp counts as 0;
// equal timestamps fall back to partition key, then sort key, ascending.
func SortPosts(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if ta, tb := a.SortTimestamp(), b.SortTimestamp(); ta != tb {
			return ta > tb
		}
		if a.PK != b.PK {
			return a.PK < b.PK
		}
		return a.SK < b.SK
	})
}
