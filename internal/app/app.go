package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"assessment_builder/internal/config"
	"assessment_builder/internal/controller"
	"assessment_builder/internal/ident"
	"assessment_builder/internal/repository"
	"assessment_builder/internal/service"
	"assessment_builder/internal/util"
	"assessment_builder/pkg/configwatcher"
	"assessment_builder/pkg/database"
	"assessment_builder/pkg/logger"
	"assessment_builder/pkg/monitoring"
	"assessment_builder/pkg/security"
	"assessment_builder/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionSweepInterval = time.Minute

type App struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client
	Authoring *service.AuthoringService
	Images    *service.ImageService

	origins         *security.Origins
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type controllers struct {
	draft  *controller.DraftController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// NewApp connects to the database and, when enabled, Redis and the tracing
// collector, then builds the HTTP application.
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, err
		}
	}

	a, err := New(cfg, db, rdb)
	if err != nil {
		return nil, err
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("assessment-builder", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, err
		}
		a.tracer = tp
	}
	return a, nil
}

// New wires the application over already opened stores. rdb may be nil.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	provider, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Images:  service.NewImageService(provider, cfg.Storage.MaxImageSize),
		origins: security.NewOrigins(cfg.CORS.AllowedOrigins),
	}

	var cache service.DraftCache
	if rdb != nil {
		cache = repository.NewRedisDraftCache(rdb, cfg.Authoring.DraftCacheTTL)
	}
	a.Authoring = service.NewAuthoringService(repository.NewDraftRepository(db), cache, a.Images, ident.UUID)

	c := &controllers{
		draft:  controller.NewDraftController(a.Authoring),
		health: controller.NewHealthController(db, rdb),
	}

	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	a.Router = router

	a.setupMiddlewares(router, cfg)
	a.registerRoutes(router, c, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	a.RegisterConfigCallback(func(next *config.Config) {
		logger.SetMode(next.Server.Mode)
		a.Images.SetMaxSize(next.Storage.MaxImageSize)
		a.origins.Set(next.CORS.AllowedOrigins)
	})

	return a, nil
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) reloadConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
// configFile is watched for changes when non-empty.
func (a *App) Run(configFile string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go a.Authoring.Run(ctx, a.Config.Authoring.SessionIdle, sessionSweepInterval)

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			go func() {
				if err := configwatcher.WatchConfig(ctx, filepath.Clean(configFile), a.reloadConfig); err != nil {
					logger.Log.Error("Config watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	return nil
}
