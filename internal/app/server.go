package app

import (
	"context"
	"fmt"
	"log"

	"skillswap/cfg"
	"skillswap/internal/service/admin"
	"skillswap/internal/service/auth"
	"skillswap/internal/service/skill"
	"skillswap/internal/service/swap"
	"skillswap/internal/service/user"
	"skillswap/pkg/cache"
	"skillswap/pkg/db"
	"skillswap/pkg/logger"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// Server holds all application dependencies
type Server struct {
	config   *cfg.Config
	router   *gin.Engine
	logger   *logger.AppLogger
	db       *db.SQLClient
	cache    cache.Cache
	node     *snowflake.Node
	shutdown func(context.Context) error

	// internal services
	authService  *auth.Service
	userService  *user.Service
	skillService *skill.Service
	swapService  *swap.Service
	adminRepo    admin.Repository
}

// NewServer creates and initializes a new server instance
func NewServer(ctx context.Context, config *cfg.Config) (*Server, error) {
	s := &Server{
		config: config,
	}

	logHandler, shutdown, err := setupObservability(ctx, &config.Observability)
	if err != nil {
		return nil, fmt.Errorf("observability setup: %w", err)
	}
	s.shutdown = shutdown

	if logHandler != nil {
		s.logger = logger.NewWithHandler(logHandler)
	} else {
		s.logger = logger.NewLogger(config.AppEnv)
	}
	s.logger.Info(ctx, "Initializing server...")

	if err := s.initDatabase(); err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	if err := s.initCache(); err != nil {
		return nil, fmt.Errorf("cache init: %w", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("snowflake init: %w", err)
	}
	s.node = node

	s.initServicesAndRoutes()

	s.logger.Info(ctx, "Server initialized successfully")
	return s, nil
}

func (s *Server) initDatabase() error {
	pg := s.config.Postgres
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		pg.User, pg.Password, pg.Host, pg.Port, pg.DBName, pg.SSLMode,
	)

	dbClient, err := db.NewSQLClient("postgres", dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.db = dbClient

	if err := runMigrations(dsn); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	return nil
}

func (s *Server) initCache() error {
	addr := s.config.Redis.Host + ":" + s.config.Redis.Port
	s.cache = cache.NewRedisCache(addr)
	return nil
}

func (s *Server) initServicesAndRoutes() {
	userRepo := user.NewRepository(s.db)
	s.userService = user.NewService(userRepo, s.logger)

	s.authService = auth.NewService(userRepo, s.config.JWT, s.node, s.logger)

	skillRepo := skill.NewRepository(s.db)
	s.skillService = skill.NewService(skillRepo, s.cache, s.node, s.logger)

	swapRepo := swap.NewRepository(s.db)
	swapGuard := swap.NewDuplicateGuard(swapRepo)
	s.swapService = swap.NewService(swapRepo, swapGuard, userRepo, s.node, s.logger)

	s.adminRepo = admin.NewRepository(s.db)

	r := gin.New()
	r.Use(gin.Recovery())
	routes := NewRoutes(r)
	routes.setupInfraRoutes()
	// Business logic endpoints
	authHandler := auth.NewHandler(s.authService)
	routes.setupAuthRoutes(authHandler)
	routes.setupUserRoutes(authHandler, s.userService)
	routes.setupSkillRoutes(authHandler, s.skillService)
	routes.setupSwapRoutes(authHandler, s.swapService)
	routes.setupAdminRoutes(authHandler, s.adminRepo, s.swapService)

	s.router = r
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	log.Printf("Server listening on %s", addr)
	return s.router.Run(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("database shutdown: %w", err)
		}
	}
	if s.shutdown != nil {
		if err := s.shutdown(ctx); err != nil {
			return fmt.Errorf("observability shutdown: %w", err)
		}
	}
	return nil
}
