package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"social_server/services"
)

// FeedController serves the home feed
type FeedController struct {
	Feed   *services.FeedService
	Logger *zap.Logger
}

func NewFeedController(feed *services.FeedService, logger *zap.Logger) *FeedController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedController{Feed: feed, Logger: logger}
}

// GetFeed returns posts of everyone the current user follows, newest first
func (c *FeedController) GetFeed(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	posts, err := c.Feed.AssembleFeed(r.Context(), user.UserID)
	if err != nil {
		writeInternalError(w, c.Logger, "feed failed", err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"posts": posts})
}
