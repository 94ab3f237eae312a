package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"social_server/auth"
	"social_server/models"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("all fields required")
)

// SignupInput carries the fields a new account needs
type SignupInput struct {
	Email    string
	Username string
	Password string
}

// UserProfileService manages profiles and the profile page
type UserProfileService struct {
	Store      Store
	Graph      *SocialGraphService
	Posts      *PostService
	Logger     *zap.Logger
	EmailIndex string
	Now        func() time.Time
	NewID      func() string
}

func NewUserProfileService(store Store, graph *SocialGraphService, posts *PostService, logger *zap.Logger, emailIndex string) *UserProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if emailIndex == "" {
		emailIndex = models.DefaultEmailIndex
	}
	return &UserProfileService{
		Store:      store,
		Graph:      graph,
		Posts:      posts,
		Logger:     logger,
		EmailIndex: emailIndex,
		Now:        time.Now,
		NewID:      uuid.NewString,
	}
}

// Signup creates the PROFILE item of a new user and returns its id.
func (ups *UserProfileService) Signup(ctx context.Context, in SignupInput) (string, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return "", ErrMissingFields
	}

	existing, err := ups.GetUserProfileByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrUserExists
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	userID := ups.NewID()
	key := models.ProfileKey(userID)
	profile := models.UserProfile{
		PK:             key.PK,
		SK:             key.SK,
		UserID:         userID,
		Email:          email,
		Username:       in.Username,
		HashedPassword: hashed,
		CreatedAt:      ups.Now().UTC().Format(time.RFC3339),
		ItemType:       models.ItemTypeProfile,
	}

	if err := ups.Store.PutItemIfNotExists(ctx, profile); err != nil {
		if errors.Is(err, ErrItemExists) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("failed to create profile: %w", err)
	}

	ups.Logger.Info("user signed up", zap.String("userId", userID))
	return userID, nil
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := ups.Store.GetItem(ctx, models.ProfileKey(userID))
	if err != nil {
		return nil, err
	}
	decoded, err := models.DecodeItem(item)
	if err != nil {
		return nil, err
	}
	profile, ok := decoded.(models.UserProfile)
	if !ok {
		return nil, fmt.Errorf("%w: expected profile at %s", models.ErrInvalidItem, models.UserPK(userID))
	}
	return &profile, nil
}

// GetUserProfileByEmail looks a profile up through the email index; nil if none.
func (ups *UserProfileService) GetUserProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	items, err := ups.Store.QueryIndex(ctx, ups.EmailIndex, models.AttrEmail, email, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile by email: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	decoded, err := models.DecodeItem(items[0])
	if err != nil {
		return nil, err
	}
	profile, ok := decoded.(models.UserProfile)
	if !ok {
		return nil, fmt.Errorf("%w: email index returned a non-profile item", models.ErrInvalidItem)
	}
	return &profile, nil
}

// Authenticate checks an email and password pair.
func (ups *UserProfileService) Authenticate(ctx context.Context, email, password string) (*models.UserProfile, error) {
	profile, err := ups.GetUserProfileByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil || !auth.CheckPassword(profile.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}
	return profile, nil
}

// Overview gathers what viewerID sees on profileUserID's page.
func (ups *UserProfileService) Overview(ctx context.Context, viewerID, profileUserID string) (*models.ProfileOverview, error) {
	overview := &models.ProfileOverview{
		UserID: profileUserID,
		IsSelf: viewerID == profileUserID,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		posts, err := ups.Posts.ListPosts(gctx, profileUserID)
		overview.Posts = posts
		return err
	})
	g.Go(func() error {
		stats, err := ups.Graph.Stats(gctx, profileUserID)
		overview.FollowingCount = stats.Following
		overview.FollowerCount = stats.Followers
		return err
	})
	if !overview.IsSelf {
		g.Go(func() error {
			following, err := ups.Graph.IsFollowing(gctx, viewerID, profileUserID)
			overview.IsFollowing = following
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}
