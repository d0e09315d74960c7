package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sns-system/config"
	"sns-system/internal/handler"
	"sns-system/internal/model"
	"sns-system/internal/repository"
	"sns-system/internal/service"
	"sns-system/pkg/completion"
	dbPkg "sns-system/pkg/db"
	"sns-system/pkg/flash"
	"sns-system/pkg/jwt"
	"sns-system/pkg/logger"
	"sns-system/pkg/password"
	redisPkg "sns-system/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	password.Configure(cfg.Password)

	log.Info("=== SNS系统启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("database_host", cfg.Database.Host),
		zap.String("database_name", cfg.Database.Database),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("chat_enabled", cfg.Chat.APIKey != ""),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据库连接
	db, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(model.All()...); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 3.2 Redis（可选），连接失败时降级为直接读库
	var (
		feedCache   *redisPkg.FeedCache
		chatLimiter *redisPkg.RateLimiter
		redisHealth handler.HealthCheck
	)
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := redisPkg.InitRedis(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.Warn("Redis连接失败，缓存与限流已关闭", zap.Error(err))
		} else {
			defer redisPkg.Close()
			feedCache = redisPkg.NewFeedCache(rdb, cfg.Feed.CacheTTL)
			chatLimiter = redisPkg.NewRateLimiter(rdb, redisPkg.ChatRateKeyPrefix, cfg.Chat.RateLimit, cfg.Chat.RateWindow)
			log.Info("Redis连接成功")
		}
		redisHealth = redisPkg.HealthCheck
	}

	// 4. 初始化业务服务
	jwtSvc := jwt.NewJWTService(cfg.JWT)
	flashes := flash.NewStore(cfg.Session)

	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	followRepo := repository.NewFriendShipRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	userSvc := service.NewUserService(tx, userRepo, profileRepo, jwtSvc)
	profileSvc := service.NewProfileService(tx, profileRepo, userRepo, followRepo)
	followSvc := service.NewFollowService(tx, userRepo, followRepo)
	var tweetCache service.FeedCache
	if feedCache != nil {
		tweetCache = feedCache
	}
	tweetSvc := service.NewTweetService(tx, tweetRepo, likeRepo, tweetCache, cfg.Feed.PageSize)
	var limiter service.RateLimiter
	if chatLimiter != nil {
		limiter = chatLimiter
	}
	chatSvc := service.NewChatService(completion.NewClient(cfg.Chat), limiter)

	// 5. 设置Gin模式
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 6. 创建Gin路由
	router, err := handler.NewRouter(handler.Handlers{
		JWT:     jwtSvc,
		User:    handler.NewUserHandler(userSvc, tweetSvc, jwtSvc, flashes),
		Profile: handler.NewProfileHandler(profileSvc, followSvc, tweetSvc, flashes),
		Follow:  handler.NewFollowHandler(followSvc, userSvc, flashes),
		Tweet:   handler.NewTweetHandler(tweetSvc, flashes),
		Chat:    handler.NewChatHandler(chatSvc, flashes),
		Health:  handler.NewHealthHandler(dbPkg.HealthCheck, redisHealth),
	})
	if err != nil {
		log.Fatal("加载页面模板失败", zap.Error(err))
	}

	// 7. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 8. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 9. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}
