package app

import (
	"codequest_backend/internal/config"
	"codequest_backend/internal/controller"
	"codequest_backend/internal/middleware"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/service"
	"codequest_backend/pkg/configwatcher"
	"codequest_backend/pkg/database"
	"codequest_backend/pkg/logger"
	"codequest_backend/pkg/monitoring"
	"codequest_backend/pkg/security"
	"codequest_backend/pkg/tracing"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	// 结束限流清理等后台协程
	stop context.CancelFunc
}

type repositories struct {
	user        *repository.UserRepository
	leaderboard repository.LeaderboardCache
}

type services struct {
	auth     *service.AuthService
	progress *service.ProgressService
	relay    *service.ChatRelay
}

type controllers struct {
	auth     *controller.AuthController
	progress *controller.ProgressController
	chat     *controller.ChatController
	catalog  *controller.CatalogController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	repos := &repositories{
		user: repository.NewUserRepository(db),
	}
	// 未启用 redis 时排行榜直接查库
	if rdb != nil {
		repos.leaderboard = repository.NewRedisLeaderboardCache(rdb)
	}
	return repos
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{
		auth:     service.NewAuthService(repos.user, cfg),
		progress: service.NewProgressService(repos.user, repos.leaderboard, cfg.Redis.LeaderboardTTL),
		relay:    service.NewChatRelay(cfg.AI),
	}

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.relay.Reload(newCfg.AI)
		s.progress.SetCacheTTL(newCfg.Redis.LeaderboardTTL)
		logger.Log.Info("Config reloaded",
			zap.String("ai_model", newCfg.AI.Model),
			zap.Duration("leaderboard_ttl", newCfg.Redis.LeaderboardTTL),
		)
	})
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) (*controllers, error) {
	if err := controller.RegisterValidators(); err != nil {
		return nil, err
	}
	catalog, err := controller.NewCatalogController()
	if err != nil {
		return nil, err
	}
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		progress: controller.NewProgressController(s.progress),
		chat:     controller.NewChatController(s.relay),
		catalog:  catalog,
		health:   controller.NewHealthController(db),
	}, nil
}

func (a *App) setupMiddlewares(ctx context.Context, router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(), middleware.AccessLog())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 {
		window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
		if window <= 0 {
			window = time.Minute
		}
		router.Use(security.RateLimiter(ctx, cfg.RateLimit.MaxRequests, window))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 用已经打开的数据库和 redis 组装应用，rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	controllers, err := app.initControllers(services, db)
	if err != nil {
		return nil, err
	}

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	app.Router = router

	ctx, cancel := context.WithCancel(context.Background())
	app.stop = cancel
	app.setupMiddlewares(ctx, router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app, nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存不可用不影响主流程
		logger.Log.Warn("Redis unavailable, leaderboard cache disabled", zap.Error(err))
		rdb = nil
	}

	app, err := New(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to build application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("codequest", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// Stop 结束应用启动的后台协程，可重复调用
func (a *App) Stop() {
	if a.stop != nil {
		a.stop()
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: a.Config.Server.RequestTimeout,
		ReadTimeout:       a.Config.Server.RequestTimeout,
		WriteTimeout:      a.Config.Server.RequestTimeout + a.Config.AI.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.Config.Path != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.Config.Path, a.ApplyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.release(shutdownCtx)
	logger.Log.Info("Server exiting")
}

// release 按依赖顺序关闭追踪、后台协程、redis 和数据库，错误只记录
func (a *App) release(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	a.Stop()
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			logger.Log.Error("Failed to close database", zap.Error(err))
		}
	}
}
