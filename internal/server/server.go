package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"prd_planner/internal/ai"
	"prd_planner/internal/config"
	"prd_planner/internal/database"
	"prd_planner/internal/handlers"
	"prd_planner/internal/middlewares"
	"prd_planner/internal/prompts"
	"prd_planner/internal/repositories"
	"prd_planner/internal/routes"
	"prd_planner/internal/services"
)

// RevocationStore is both sides of the revoked-token list.
type RevocationStore interface {
	middlewares.RevocationChecker
	services.TokenRevoker
}

type Dependencies struct {
	Prds      services.PrdStore
	Questions services.QuestionStore
	Provider  ai.Provider
	Prompts   prompts.Set
	// Revocations is optional. Without it tokens cannot be revoked and
	// /auth/logout is not mounted.
	Revocations RevocationStore
}

// Server owns the HTTP server and the connections behind it.
type Server struct {
	HTTP  *http.Server
	pool  *pgxpool.Pool
	redis *redis.Client
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	pool, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	s := &Server{pool: pool}

	var revocations RevocationStore
	if cfg.Redis.Addr != "" {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// Fail fast with a clear message
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.redis.Ping(pingCtx).Err(); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
		}
		log.Info("Connected to Redis successfully")
		revocations = repositories.NewTokenRevocationRepository(s.redis)
	} else {
		log.Warn("REDIS_ADDR not set; token revocation disabled")
	}

	provider, err := NewProvider(cfg.AI)
	if err != nil {
		s.Close()
		return nil, err
	}

	set, err := prompts.Load(cfg.AI.PromptsFile)
	if err != nil {
		s.Close()
		return nil, err
	}

	router := NewRouter(cfg, Dependencies{
		Prds:        repositories.NewPrdRepository(pool),
		Questions:   repositories.NewPrdQuestionRepository(pool),
		Provider:    provider,
		Prompts:     set,
		Revocations: revocations,
	})

	s.HTTP = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 30*time.Second,
	}

	return s, nil
}

// NewProvider picks the AI provider named by the configuration.
func NewProvider(cfg config.AIConfig) (ai.Provider, error) {
	switch cfg.Provider {
	case "mock":
		log.Warn("Using mock AI provider")
		return ai.NewMockProvider(), nil
	case "anthropic", "":
		return ai.NewAnthropicProvider(ai.AnthropicConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// NewRouter wires services, handlers and routes onto a gin engine.
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		router.Use(cors.New(corsConfig))
	}

	// Dependency injection
	generator := services.NewGenerator(deps.Provider, deps.Prompts, cfg.AI.QuestionsPerRound)
	documentService := services.NewDocumentService(deps.Prds, generator)
	planningService := services.NewPlanningService(deps.Prds, deps.Questions, generator, documentService)
	prdService := services.NewPrdService(deps.Prds, deps.Questions, generator)

	var checker middlewares.RevocationChecker
	if deps.Revocations != nil {
		checker = deps.Revocations
	}
	authenticate := middlewares.Authenticate([]byte(cfg.AccessTokenSecret), checker)

	prdRoutes := routes.NewPrdRoutes(
		handlers.NewPrdHandler(prdService),
		handlers.NewPlanningHandler(planningService),
		handlers.NewDocumentHandler(documentService),
		authenticate,
	)

	var authRoutes *routes.AuthRoutes
	if deps.Revocations != nil {
		authRoutes = routes.NewAuthRoutes(handlers.NewAuthHandler(services.NewAuthService(deps.Revocations)), authenticate)
	}

	routes.RegisterRoutes(router, prdRoutes, authRoutes)

	log.WithField("provider", deps.Provider.Name()).Info("Router initialized")
	return router
}

// Close releases the database pool and the Redis client.
func (s *Server) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if s.pool != nil {
		s.pool.Close()
		log.Info("Database connection pool closed")
	}
}
