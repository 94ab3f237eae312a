package controllers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"social_server/services"
)

// MediaController hands out presigned URLs for post images
type MediaController struct {
	Media  *services.MediaService
	Logger *zap.Logger
}

func NewMediaController(media *services.MediaService, logger *zap.Logger) *MediaController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaController{Media: media, Logger: logger}
}

type uploadURLRequest struct {
	FileName string `json:"fileName" validate:"required"`
	FileType string `json:"fileType" validate:"required"`
}

type readURLRequest struct {
	Key string `json:"key" validate:"required"`
}

// GeneratePresignedURL generates a presigned URL for uploading a post image
func (c *MediaController) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req uploadURLRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	url, key, err := c.Media.GenerateUploadURL(r.Context(), user.UserID, req.FileName, req.FileType)
	if err != nil {
		writeInternalError(w, c.Logger, "presign upload failed", err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, map[string]string{"url": url, "fileName": key})
}

// GetPresignedReadURL generates a presigned URL for reading a post image
func (c *MediaController) GetPresignedReadURL(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	var req readURLRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	url, err := c.Media.GenerateReadURL(r.Context(), req.Key)
	if errors.Is(err, services.ErrInvalidMediaKey) {
		writeMessage(w, http.StatusBadRequest, "Invalid media key")
		return
	}
	if err != nil {
		writeInternalError(w, c.Logger, "presign read failed", err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, map[string]string{"url": url})
}
