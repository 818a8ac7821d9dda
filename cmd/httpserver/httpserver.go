// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-wallet/internal/catalogcache"
	"github.com/go-petr/pet-wallet/internal/catalogdelivery"
	"github.com/go-petr/pet-wallet/internal/catalogrepo"
	"github.com/go-petr/pet-wallet/internal/catalogservice"
	"github.com/go-petr/pet-wallet/internal/ledgerdelivery"
	"github.com/go-petr/pet-wallet/internal/ledgerrepo"
	"github.com/go-petr/pet-wallet/internal/ledgerservice"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/internal/userdelivery"
	"github.com/go-petr/pet-wallet/internal/userrepo"
	"github.com/go-petr/pet-wallet/internal/userservice"
	"github.com/go-petr/pet-wallet/pkg/configpkg"
	"github.com/go-petr/pet-wallet/pkg/tokenpkg"
	"github.com/go-petr/pet-wallet/pkg/web"
)

// Server holds db connection, cache client, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Cache  *redis.Client
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// Start runs the HTTP server on addr.
func (s *Server) Start(addr string) error {
	return s.Engine.Run(addr)
}

// New creates Server type with instantiated domains and routes.
//
// cache may be nil, then the catalog listings are read from the database on every request.
func New(conn *sql.DB, cache *redis.Client, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		web.RegisterJSONTagNames(v)
	}

	tokenMaker, err := tokenpkg.New(config.TokenKind, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	if err := os.MkdirAll(config.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create upload dir: %w", err)
	}

	userRepo := userrepo.NewRepoPGS(conn)
	catalogRepo := catalogrepo.NewRepoPGS(conn)
	ledgerRepo := ledgerrepo.NewRepoPGS(conn)

	userService := userservice.New(userRepo, tokenMaker, config.AccessTokenDuration)
	catalogService := catalogservice.New(catalogcache.New(catalogRepo, cache, config.CatalogCacheTTL))
	ledgerService := ledgerservice.New(ledgerRepo, catalogRepo, config.AuditTimeout)

	userHandler := userdelivery.NewHandler(userService, config.UploadDir, config.BaseURL)
	catalogHandler := catalogdelivery.NewHandler(catalogService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))

	engine.Static("/images", config.UploadDir)

	engine.POST("/register", userHandler.Register)
	engine.POST("/login", userHandler.Login)
	engine.GET("/banner", catalogHandler.ListBanners)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/profile", userHandler.GetProfile)
	authRoutes.PUT("/profile/update", userHandler.UpdateProfile)
	authRoutes.PUT("/profile/image", userHandler.UpdateProfileImage)

	authRoutes.GET("/services", catalogHandler.ListServices)

	authRoutes.GET("/balance", ledgerHandler.GetBalance)
	authRoutes.POST("/topup", ledgerHandler.TopUp)
	authRoutes.POST("/transaction", ledgerHandler.Payment)
	authRoutes.GET("/transaction/history", ledgerHandler.GetHistory)

	server := &Server{
		DB:     conn,
		Cache:  cache,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
