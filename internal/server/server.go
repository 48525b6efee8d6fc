package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/events"
	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/router"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/store"
)

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	router  *gin.Engine
	http    *http.Server
	db      *gorm.DB
	redis   *redis.Client
	log     logrus.FieldLogger
	closers []func() error

	Tracker *service.Tracker
	Profile *service.ProfileService
	Tokens  *service.TokenService
}

// New wires every component on top of an open, migrated database.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, log logrus.FieldLogger) (*Server, error) {
	s := &Server{cfg: cfg, db: db, log: log}

	st, err := s.newStore()
	if err != nil {
		return nil, err
	}

	var searcher service.RecipeSearcher
	if cfg.RecipeAPIKey != "" {
		searcher = service.NewRecipeSearchClient(cfg.RecipeAPIURL, cfg.RecipeAPIKey, &http.Client{})
	} else {
		log.Warn("No recipe API key configured, meal suggestions use the built-in catalogue")
	}
	resolver := service.NewSuggestionResolver(searcher, cfg.SuggestionTimeout, cfg.SuggestionCount, log)
	assembler := service.NewPlanAssembler(resolver, db, time.Now, log)
	repo := service.NewQuestionnaireRepository(db)

	sinks, err := s.newArchiveSinks(ctx)
	if err != nil {
		s.close()
		return nil, err
	}

	s.Tracker = service.NewTracker(st, assembler, repo, service.TrackerOptions{
		Location:   cfg.Location,
		HistoryTTL: cfg.HistoryTTL,
		Sinks:      sinks,
	}, log)
	s.Profile = service.NewProfileService(repo, s.Tracker, log)
	s.Tokens = service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	s.router = router.SetupRouter(api.Services{
		Profile: s.Profile,
		Tracker: s.Tracker,
		Audit:   assembler,
		Tokens:  s.Tokens,
		Limiter: middleware.NewRegenerateRateLimiter(s.redis, cfg.RegenerateLimit, cfg.RegenerateWindow),
		Health:  api.NewHealthHandler(db, s.redis),
		Log:     log,
	}, cfg.CORSAllowedOrigins, log)

	return s, nil
}

func (s *Server) newStore() (store.Store, error) {
	switch s.cfg.StoreBackend {
	case "sql":
		return store.NewSQLStore(s.db), nil
	case "redis", "":
		client, err := database.NewRedisClient(s.cfg, s.log)
		if err != nil {
			return nil, err
		}
		s.redis = client
		s.closers = append(s.closers, client.Close)
		return store.NewRedisStore(client, s.cfg.StorePrefix), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", s.cfg.StoreBackend)
	}
}

func (s *Server) newArchiveSinks(ctx context.Context) ([]service.ArchiveSink, error) {
	var sinks []service.ArchiveSink

	if s.cfg.S3ArchiveEnabled {
		s3cfg, err := config.NewS3Config(ctx, s.cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure s3 archive: %w", err)
		}
		sinks = append(sinks, service.NewS3ArchiveSinkFromConfig(s3cfg))
		s.log.WithField("bucket", s3cfg.BucketName).Info("S3 archive enabled")
	}

	if s.cfg.RabbitMQEnabled {
		publisher := events.NewPublisher(s.cfg.RabbitMQURL, s.cfg.RabbitMQExchange, s.log)
		sinks = append(sinks, publisher)
		s.closers = append(s.closers, publisher.Close)
		s.log.WithField("exchange", s.cfg.RabbitMQExchange).Info("RabbitMQ archive events enabled")
	}

	return sinks, nil
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              net.JoinHostPort(s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.WithField("addr", s.http.Addr).Info("Starting server")

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and releases connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Server) close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
