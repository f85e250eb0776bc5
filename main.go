// File: roomm8/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"roomm8/config"
	"roomm8/database"
	recordsRepo "roomm8/database/repository/records"
	"roomm8/handlers"
	"roomm8/routes"
	"roomm8/services/backend"
	"roomm8/services/listing"
	"roomm8/services/session"
	"roomm8/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Session state lives in Redis when REDIS_ADDR is set, otherwise in memory.
	var (
		store       session.Store
		redisClient *redis.Client
	)
	if config.RedisEnabled() {
		redisClient = utils.GetSessionCacheClient()
		store = session.NewRedisStore(redisClient, config.SessionTTL())
	} else {
		logger.Warn("REDIS_ADDR not set, keeping sessions in memory")
		store = session.NewMemoryStore()
	}

	// Receipts are optional: the gateway still serves checkouts without Mongo.
	var (
		records     recordsRepo.CheckoutRecordRepository
		mongoClient *mongo.Client
	)
	if err := database.InitDB(ctx); err != nil {
		logger.Warn("main: MongoDB unavailable, receipts will not be recorded", zap.Error(err))
	} else {
		mongoClient = database.MongoClient
		coll := database.Database().Collection(recordsRepo.CollectionName)
		if err := recordsRepo.EnsureIndexes(ctx, coll); err != nil {
			logger.Warn("main: failed to ensure record indexes", zap.Error(err))
		}
		records = recordsRepo.NewMongoRecordRepo(coll)
		logger.Info("Connected to MongoDB successfully!")
	}

	client := backend.NewClient(config.AppConfig.BackendBaseURL, backend.Options{
		Timeout: config.BackendTimeout(),
	}, logger.Named("backend"))

	utils.StartHealthMonitor(ctx, 60*time.Second, redisClient, mongoClient, client.BreakerState)

	handlerBundle := &handlers.HandlerBundle{
		Sessions: session.NewManager(store, config.SessionTTL(), logger.Named("session")),
		Catalog:  listing.NewCatalog(client, 30*time.Second, logger.Named("catalog")),
		Backend:  handlers.ClientFactory(client),
		Records:  records,
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
