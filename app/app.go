// Package app wires configuration, AWS clients, services and HTTP routes
// into one container shared by the server, the Lambda handler and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"social_server/auth"
	"social_server/config"
	"social_server/controllers"
	"social_server/logging"
	"social_server/metrics"
	"social_server/middleware"
	"social_server/routes"
	"social_server/services"
	"social_server/socket"
)

// developmentSecret signs tokens when JWT_SECRET is unset outside production.
const developmentSecret = "development-secret-change-in-production"

// Container holds every long-lived dependency of the server
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Collector

	Store       services.Store
	Graph       *services.SocialGraphService
	Feed        *services.FeedService
	Suggestions *services.SuggestionService
	Posts       *services.PostService
	Profiles    *services.UserProfileService
	Media       *services.MediaService

	Tokens *auth.JWTManager
	Hub    *socket.Hub
	Router *mux.Router
}

// New builds a container backed by DynamoDB and S3.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	awsCfg, err := services.LoadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}

	var collector *metrics.Collector
	if cfg.EnableMetrics {
		collector = metrics.NewCollector("social")
	}

	client := services.InitializeDynamoDBClient(awsCfg, cfg.DynamoDBEndpoint)
	store := services.NewDynamoService(client, cfg.TableName, logger, collector)

	var presigner services.Presigner
	if cfg.S3BucketName != "" {
		presigner = services.NewS3Presigner(awsCfg)
	}

	logger.Info("AWS clients initialized",
		zap.String("region", cfg.AWSRegion),
		zap.String("table", cfg.TableName),
		zap.Bool("localEndpoint", cfg.DynamoDBEndpoint != ""),
	)
	return NewWithStore(cfg, logger, collector, store, presigner)
}

// NewWithStore builds a container around an existing store. presigner may be
// nil, which leaves the media routes unregistered.
func NewWithStore(cfg *config.Config, logger *zap.Logger, collector *metrics.Collector, store services.Store, presigner services.Presigner) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		logger.Warn("JWT_SECRET not set, using development secret")
		secret = developmentSecret
	}
	tokens, err := auth.NewJWTManager(secret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: collector,
		Store:   store,
		Tokens:  tokens,
	}

	c.Graph = services.NewSocialGraphService(store, logger, collector, cfg.AllowSelfFollow)
	c.Feed = services.NewFeedService(store, c.Graph, logger, collector, cfg.FeedMaxConcurrency)
	c.Suggestions = services.NewSuggestionService(store, c.Graph, logger)
	c.Posts = services.NewPostService(store, logger, collector, nil)
	c.Profiles = services.NewUserProfileService(store, c.Graph, c.Posts, logger, cfg.EmailIndexName)
	if presigner != nil {
		c.Media = services.NewMediaService(presigner, cfg.S3BucketName)
	}

	if cfg.EnableSocket {
		c.Hub = socket.NewHub(logger)
		// Assigned only when enabled so a nil hub never becomes a non-nil interface.
		c.Posts.Notifier = c.Hub
	}

	c.Router = c.buildRouter()
	return c, nil
}

func (c *Container) buildRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer(c.Logger), middleware.Logger(c.Logger), middleware.Metrics(c.Metrics))

	routes.RegisterRoutes(r, c.Metrics)
	routes.RegisterAuthRoutes(r, controllers.NewAuthController(c.Profiles, c.Tokens, c.Logger, c.Config.IsProduction()))

	social := routes.SocialControllers{
		Posts:       controllers.NewPostController(c.Posts, c.Logger),
		Follows:     controllers.NewFollowController(c.Graph, c.Logger),
		Feed:        controllers.NewFeedController(c.Feed, c.Logger),
		Suggestions: controllers.NewSuggestionController(c.Suggestions, c.Tokens, c.Logger),
		Profiles:    controllers.NewUserProfileController(c.Profiles, c.Logger),
	}
	if c.Media != nil {
		social.Media = controllers.NewMediaController(c.Media, c.Logger)
	}
	routes.RegisterSocialRoutes(r, c.Tokens, social)

	if c.Hub != nil {
		r.PathPrefix("/socket.io/").Handler(c.Hub)
	}
	return r
}

// Handler returns the router wrapped in CORS handling.
func (c *Container) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   c.Config.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(c.Router)
}

// Close releases the socket hub and flushes the logger.
func (c *Container) Close() {
	if c.Hub != nil {
		if err := c.Hub.Close(); err != nil {
			c.Logger.Warn("socket hub close failed", zap.Error(err))
		}
	}
	_ = c.Logger.Sync()
}
