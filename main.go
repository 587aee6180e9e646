package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kariqs/silkstitch-api/cache"
	"github.com/Kariqs/silkstitch-api/cart"
	"github.com/Kariqs/silkstitch-api/initializers"
	"github.com/Kariqs/silkstitch-api/logger"
	"github.com/Kariqs/silkstitch-api/repository"
	"github.com/Kariqs/silkstitch-api/routes"
	"github.com/Kariqs/silkstitch-api/services"
	"github.com/Kariqs/silkstitch-api/storage"
	"github.com/Kariqs/silkstitch-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	initializers.LoadEnv()
	cfg, err := initializers.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := logger.Initialize(cfg.Env); err != nil {
		panic(err)
	}
	defer logger.Log.Sync()

	ctx := context.Background()

	db, err := initializers.ConnectToDB(cfg)
	if err != nil {
		logger.Log.Fatal("database connection failed", zap.Error(err))
	}
	if err := initializers.SyncDatabase(db); err != nil {
		logger.Log.Fatal("migration failed", zap.Error(err))
	}
	redisClient, err := initializers.ConnectToRedis(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("redis connection failed", zap.Error(err))
	}

	products := repository.NewProductRepository(db)
	var productCache services.ProductCache
	if redisClient != nil {
		productCache = cache.NewProductCache(redisClient, cfg.CacheTTL)
	}
	catalog := services.NewCatalogService(products, productCache)
	auth := services.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret)

	if cfg.SeedDatabase {
		if n, err := initializers.SeedCatalog(ctx, products); err != nil {
			logger.Log.Error("catalog seed failed", zap.Int("seeded", n), zap.Error(err))
		}
	}
	if err := initializers.SeedAdmin(ctx, cfg, auth); err != nil {
		logger.Log.Error("admin bootstrap failed", zap.Error(err))
	}

	deps := routes.Dependencies{
		Catalog:      catalog,
		Auth:         auth,
		CartStore:    cartStore(cfg, db, redisClient),
		JWTSecret:    cfg.JWTSecret,
		AdminAuth:    cfg.AdminAuth,
		SecureCookie: cfg.IsProduction(),
	}
	if cfg.S3Bucket != "" {
		uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.AWSEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			logger.Log.Fatal("s3 setup failed", zap.Error(err))
		}
		deps.Uploader = uploader
	} else {
		logger.Log.Warn("AWS_S3_BUCKET not set, image uploads disabled")
	}
	smtpCfg := utils.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.ContactFrom,
		To:       cfg.ContactTo,
	}
	if smtpCfg.Enabled() {
		deps.Mailer = utils.NewSMTPMailer(smtpCfg)
	}
	if !cfg.AdminAuth {
		logger.Log.Warn("ADMIN_AUTH disabled, catalog writes are public")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := gin.New()
	server.Use(gin.Recovery(), logger.RequestLogger())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.Register(server, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func cartStore(cfg *initializers.Config, db *gorm.DB, client *redis.Client) cart.Store {
	switch cfg.ResolvedCartStore() {
	case initializers.CartStoreRedis:
		return cart.NewRedisStore(client, cfg.CartTTL)
	case initializers.CartStoreMemory:
		return cart.NewMemoryStore()
	default:
		return cart.NewDBStore(db)
	}
}
