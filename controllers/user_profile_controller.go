package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"social_server/services"
)

// UserProfileController handles requests related to user profiles
type UserProfileController struct {
	Profiles *services.UserProfileService
	Logger   *zap.Logger
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(profiles *services.UserProfileService, logger *zap.Logger) *UserProfileController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserProfileController{Profiles: profiles, Logger: logger}
}

// GetUserProfileByID returns the profile page of userId as the current user sees it
func (c *UserProfileController) GetUserProfileByID(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r)
	if !ok {
		return
	}
	userID := mux.Vars(r)["userId"]

	profile, err := c.Profiles.GetUserProfile(r.Context(), userID)
	if errors.Is(err, services.ErrItemNotFound) {
		writeMessage(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		writeInternalError(w, c.Logger, "profile lookup failed", err)
		return
	}

	overview, err := c.Profiles.Overview(r.Context(), viewer.UserID, userID)
	if err != nil {
		writeInternalError(w, c.Logger, "profile overview failed", err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"profile":  profile.Summary(),
		"overview": overview,
	})
}
