package controllers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"social_server/services"
)

// FollowController handles the follow relation between the current user and ProfileID
type FollowController struct {
	Graph  *services.SocialGraphService
	Logger *zap.Logger
}

func NewFollowController(graph *services.SocialGraphService, logger *zap.Logger) *FollowController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowController{Graph: graph, Logger: logger}
}

// target resolves the current user and the ProfileID query parameter.
func (c *FollowController) target(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return "", "", false
	}
	profileID := r.URL.Query().Get("ProfileID")
	if profileID == "" {
		writeMessage(w, http.StatusBadRequest, "Missing ProfileID")
		return "", "", false
	}
	return user.UserID, profileID, true
}

// IsFollowing reports whether the current user follows ProfileID
func (c *FollowController) IsFollowing(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := c.target(w, r)
	if !ok {
		return
	}
	following, err := c.Graph.IsFollowing(r.Context(), userID, profileID)
	if err != nil {
		writeInternalError(w, c.Logger, "follow lookup failed", err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, map[string]bool{"isFollowing": following})
}

// Follow makes the current user follow ProfileID
func (c *FollowController) Follow(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := c.target(w, r)
	if !ok {
		return
	}
	err := c.Graph.Follow(r.Context(), userID, profileID)
	if errors.Is(err, services.ErrSelfFollow) {
		writeMessage(w, http.StatusBadRequest, "Cannot follow yourself")
		return
	}
	if err != nil {
		writeInternalError(w, c.Logger, "follow failed", err)
		return
	}
	writeMessage(w, http.StatusOK, "Followed successfully")
}

// Unfollow removes the follow relation, if any
func (c *FollowController) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := c.target(w, r)
	if !ok {
		return
	}
	if err := c.Graph.Unfollow(r.Context(), userID, profileID); err != nil {
		writeInternalError(w, c.Logger, "unfollow failed", err)
		return
	}
	writeMessage(w, http.StatusOK, "Unfollowed successfully")
}
