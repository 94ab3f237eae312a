package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"social_server/auth"
	"social_server/services"
)

// SuggestionController serves profiles to follow
type SuggestionController struct {
	Suggestions *services.SuggestionService
	Resolver    auth.Resolver
	Logger      *zap.Logger
}

func NewSuggestionController(suggestions *services.SuggestionService, resolver auth.Resolver, logger *zap.Logger) *SuggestionController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionController{Suggestions: suggestions, Resolver: resolver, Logger: logger}
}

// GetSuggestedProfiles lists profiles userId does not follow. Without the
// query parameter it falls back to the signed-in user.
func (c *SuggestionController) GetSuggestedProfiles(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" && c.Resolver != nil {
		if user, ok := c.Resolver.ResolveUser(r); ok {
			userID = user.UserID
		}
	}
	if userID == "" {
		WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Missing userId"})
		return
	}

	profiles, err := c.Suggestions.SuggestProfiles(r.Context(), userID)
	if err != nil {
		c.Logger.Error("suggested profiles failed", zap.String("userId", userID), zap.Error(err))
		WriteJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	WriteJSONResponse(w, http.StatusOK, profiles)
}
