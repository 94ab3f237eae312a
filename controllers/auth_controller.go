package controllers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"social_server/auth"
	"social_server/services"
)

// tokenCookieMaxAge is how long the browser keeps the session cookie.
const tokenCookieMaxAge = 7 * 24 * time.Hour

// AuthController handles signup, login and the session cookie
type AuthController struct {
	Profiles     *services.UserProfileService
	Tokens       *auth.JWTManager
	Logger       *zap.Logger
	SecureCookie bool
}

func NewAuthController(profiles *services.UserProfileService, tokens *auth.JWTManager, logger *zap.Logger, secureCookie bool) *AuthController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthController{Profiles: profiles, Tokens: tokens, Logger: logger, SecureCookie: secureCookie}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type setTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// Signup creates an account
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeAndValidate(r, &req); err != nil {
		WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	userID, err := c.Profiles.Signup(r.Context(), services.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, services.ErrMissingFields):
		WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "All fields required"})
		return
	case errors.Is(err, services.ErrUserExists):
		WriteJSONResponse(w, http.StatusConflict, map[string]string{"error": "User already exists"})
		return
	case err != nil:
		c.Logger.Error("signup failed", zap.Error(err))
		WriteJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}

	WriteJSONResponse(w, http.StatusCreated, map[string]string{"message": "User created", "userId": userID})
}

// Login checks credentials and returns a session token
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := c.Profiles.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeInternalError(w, c.Logger, "login failed", err)
		return
	}

	token, err := c.Tokens.Issue(auth.CurrentUser{
		UserID:   profile.UserID,
		Email:    profile.Email,
		Username: profile.Username,
	})
	if err != nil {
		writeInternalError(w, c.Logger, "token issue failed", err)
		return
	}

	c.Logger.Info("user logged in", zap.String("userId", profile.UserID))
	WriteJSONResponse(w, http.StatusOK, map[string]string{"token": token})
}

// SetToken stores a token in the httpOnly session cookie
func (c *AuthController) SetToken(w http.ResponseWriter, r *http.Request) {
	var req setTokenRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Token required")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    req.Token,
		Path:     "/",
		MaxAge:   int(tokenCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, http.StatusOK, "Token set")
}
