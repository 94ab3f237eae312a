package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"social_server/metrics"
	"social_server/models"
)

// PostNotifier is told about every post after it is stored
type PostNotifier interface {
	PostCreated(post models.Post)
}

// PostService writes and lists posts
type PostService struct {
	Store    Store
	Logger   *zap.Logger
	Metrics  *metrics.Collector
	Notifier PostNotifier
	Now      func() time.Time
	NewID    func() string
}

func NewPostService(store Store, logger *zap.Logger, collector *metrics.Collector, notifier PostNotifier) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		Store:    store,
		Logger:   logger,
		Metrics:  collector,
		Notifier: notifier,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// PostOption sets optional attributes of a new post.
type PostOption func(*models.Post)

// WithUsername stores the author's display name on the post.
func WithUsername(username string) PostOption {
	return func(p *models.Post) { p.Username = username }
}

// WithImageURL attaches an uploaded image.
func WithImageURL(url string) PostOption {
	return func(p *models.Post) { p.ImageURL = url }
}

// CreatePost appends a post to authorID's partition and returns its id.
// Content is stored as given, empty included.
func (ps *PostService) CreatePost(ctx context.Context, authorID, content string, opts ...PostOption) (string, error) {
	postID := ps.NewID()
	ts := models.Millis(ps.Now())

	post := models.Post{
		PK:        models.UserPK(authorID),
		SK:        models.PostSK(postID),
		Content:   content,
		Timestamp: &ts,
		ItemType:  models.ItemTypePost,
	}
	for _, opt := range opts {
		opt(&post)
	}

	if err := ps.Store.PutItem(ctx, post); err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}

	ps.Metrics.PostCreated()
	ps.Logger.Info("post created", zap.String("authorId", authorID), zap.String("postId", postID))
	if ps.Notifier != nil {
		ps.Notifier.PostCreated(post)
	}
	return postID, nil
}

// ListPosts returns authorID's posts newest first.
func (ps *PostService) ListPosts(ctx context.Context, authorID string) ([]models.Post, error) {
	items, err := ps.Store.QueryPrefix(ctx, models.UserPK(authorID), models.PostPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]models.Post, 0, len(items))
	for _, item := range items {
		post, err := models.DecodePost(item)
		if err != nil {
			ps.Logger.Warn("skipping malformed post item", zap.String("authorId", authorID), zap.Error(err))
			continue
		}
		posts = append(posts, post)
	}
	SortPosts(posts)
	return posts, nil
}
