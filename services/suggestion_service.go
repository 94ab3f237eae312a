package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"social_server/models"
)

// SuggestionService proposes profiles a user does not follow yet
type SuggestionService struct {
	Store  Store
	Graph  *SocialGraphService
	Logger *zap.Logger
}

func NewSuggestionService(store Store, graph *SocialGraphService, logger *zap.Logger) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{Store: store, Graph: graph, Logger: logger}
}

// SuggestProfiles returns every profile except currentUserID and the
// accounts it already follows, in scan order. This scans the full table.
func (ss *SuggestionService) SuggestProfiles(ctx context.Context, currentUserID string) ([]models.ProfileSummary, error) {
	items, err := ss.Store.ScanSortKey(ctx, models.ProfileSortKey,
		models.AttrUserID, models.AttrUsername, models.AttrEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}

	followedIDs, err := ss.Graph.ListFollowedIDs(ctx, currentUserID)
	if err != nil {
		return nil, err
	}
	followed := make(map[string]struct{}, len(followedIDs))
	for _, id := range followedIDs {
		followed[id] = struct{}{}
	}

	suggestions := make([]models.ProfileSummary, 0, len(items))
	for _, item := range items {
		var profile models.ProfileSummary
		if err := attributevalue.UnmarshalMap(item, &profile); err != nil || profile.UserID == "" {
			ss.Logger.Warn("skipping malformed profile item", zap.Error(err))
			continue
		}
		if profile.UserID == currentUserID {
			continue
		}
		if _, ok := followed[profile.UserID]; ok {
			continue
		}
		suggestions = append(suggestions, profile)
	}
	return suggestions, nil
}
