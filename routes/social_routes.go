package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"social_server/auth"
	"social_server/controllers"
	"social_server/middleware"
)

// SocialControllers groups the handlers behind the authenticated API
type SocialControllers struct {
	Posts       *controllers.PostController
	Follows     *controllers.FollowController
	Feed        *controllers.FeedController
	Suggestions *controllers.SuggestionController
	Profiles    *controllers.UserProfileController
	Media       *controllers.MediaController
}

// RegisterSocialRoutes registers the post, follow, feed, profile and media
// routes. Everything except suggested-profiles requires a resolved user.
func RegisterSocialRoutes(r *mux.Router, resolver auth.Resolver, c SocialControllers) {
	public := r.PathPrefix("/api").Subrouter()
	public.HandleFunc("/suggested-profiles", c.Suggestions.GetSuggestedProfiles).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireUser(resolver))

	api.HandleFunc("/post", c.Posts.GetPosts).Methods(http.MethodGet)
	api.HandleFunc("/post", c.Posts.CreatePost).Methods(http.MethodPost)

	api.HandleFunc("/follow", c.Follows.IsFollowing).Methods(http.MethodGet)
	api.HandleFunc("/follow", c.Follows.Follow).Methods(http.MethodPost)
	api.HandleFunc("/follow", c.Follows.Unfollow).Methods(http.MethodDelete)

	api.HandleFunc("/feed", c.Feed.GetFeed).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{userId}", c.Profiles.GetUserProfileByID).Methods(http.MethodGet)

	if c.Media != nil {
		api.HandleFunc("/media/upload-url", c.Media.GeneratePresignedURL).Methods(http.MethodPost)
		api.HandleFunc("/media/read-url", c.Media.GetPresignedReadURL).Methods(http.MethodPost)
	}
}
