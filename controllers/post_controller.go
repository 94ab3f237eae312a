package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"social_server/services"
)

// PostController handles post creation and listing
type PostController struct {
	Posts  *services.PostService
	Logger *zap.Logger
}

func NewPostController(posts *services.PostService, logger *zap.Logger) *PostController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostController{Posts: posts, Logger: logger}
}

type createPostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl" validate:"omitempty,max=1024"`
}

// CreatePost stores a post for the current user. Empty content is allowed.
func (c *PostController) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createPostRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := []services.PostOption{}
	if user.Username != "" {
		opts = append(opts, services.WithUsername(user.Username))
	}
	if req.ImageURL != "" {
		opts = append(opts, services.WithImageURL(req.ImageURL))
	}

	postID, err := c.Posts.CreatePost(r.Context(), user.UserID, req.Content, opts...)
	if err != nil {
		c.Logger.Error("create post failed", zap.String("userId", user.UserID), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	WriteJSONResponse(w, http.StatusCreated, map[string]string{"postId": postID, "message": "Post created"})
}

// GetPosts lists the current user's own posts, newest first
func (c *PostController) GetPosts(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	posts, err := c.Posts.ListPosts(r.Context(), user.UserID)
	if err != nil {
		writeInternalError(w, c.Logger, "list posts failed", err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"posts": posts})
}
