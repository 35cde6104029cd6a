package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"bazaarhub/internal/application/command"
	"bazaarhub/internal/application/guard"
	"bazaarhub/internal/application/query"
	"bazaarhub/internal/application/services"
	"bazaarhub/internal/infrastructure/bus"
	httpapi "bazaarhub/internal/infrastructure/http"
	"bazaarhub/internal/infrastructure/mongo"
	"bazaarhub/internal/infrastructure/notify"
	jwtutil "bazaarhub/pkg/jwt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded")
	}

	logger, err := newLogger(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	mongoConfig := &mongo.MongoConfig{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "bazaarhub"),
		Timeout:  30 * time.Second,
	}
	mongoClient, err := mongo.NewMongoClient(mongoConfig)
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Close(); err != nil {
			logger.Error("error closing mongodb connection", zap.Error(err))
		}
	}()
	if err := mongoClient.Ping(); err != nil {
		logger.Fatal("failed to ping mongodb", zap.Error(err))
	}
	logger.Info("connected to mongodb", zap.String("database", mongoConfig.Database))

	database := mongoClient.GetDatabase()
	uowFactory := mongo.NewMongoUnitOfWorkFactory(mongoClient.GetClient(), database)

	orgRepo := mongo.NewMongoOrganizationRepository(database)
	eventRepo := mongo.NewMongoEventRepository(database)
	userRepo := mongo.NewMongoUserRepository(database)
	merchantRepo := mongo.NewMongoMerchantRepository(database)
	cardRepo := mongo.NewMongoPointCardRepository(database)
	resetStore := mongo.NewMongoResetStore(database)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventBus := bus.NewAsyncEventBus(logger)
	if err := eventBus.Start(ctx); err != nil {
		logger.Fatal("failed to start event bus", zap.Error(err))
	}

	notifier := notify.NewWebhookNotifier(orgRepo, logger)
	if err := notifier.Register(eventBus); err != nil {
		logger.Fatal("failed to register webhook notifier", zap.Error(err))
	}

	runner := guard.NewRunner(uowFactory, eventBus, logger)

	jwtExpiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "24h"))
	if err != nil {
		logger.Fatal("invalid JWT_EXPIRY", zap.Error(err))
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}
	jwtManager := jwtutil.NewJWTManager(jwtSecret, jwtExpiry)

	resetHour, resetMinute, err := parseResetTime(getEnv("RESET_HOUR", "00:00"))
	if err != nil {
		logger.Fatal("invalid RESET_HOUR", zap.Error(err))
	}
	resetLocation, err := time.LoadLocation(getEnv("RESET_TIMEZONE", "Asia/Taipei"))
	if err != nil {
		logger.Fatal("invalid RESET_TIMEZONE", zap.Error(err))
	}
	resetService := services.NewDailyResetService(resetStore, eventBus, logger, resetHour, resetMinute, resetLocation)
	resetService.Start(ctx)
	defer resetService.Stop()

	controllers := httpapi.Controllers{
		Auth: httpapi.NewAuthController(
			command.NewLoginHandler(userRepo, jwtManager), logger),
		Cash: httpapi.NewCashController(
			command.NewConfirmCashSubmissionHandler(runner),
			query.NewGetCashStatsHandler(eventRepo, userRepo), logger),
		Transaction: httpapi.NewTransactionController(
			command.NewConfirmTransactionHandler(runner),
			command.NewCancelTransactionHandler(runner), logger),
		Merchant: httpapi.NewMerchantController(
			command.NewSetMerchantStatusHandler(runner),
			query.NewGetMerchantDashboardHandler(eventRepo, userRepo, merchantRepo), logger),
		PointCard: httpapi.NewPointCardController(
			command.NewReservePointCardHandler(runner),
			query.NewGetPointCardBalanceHandler(eventRepo, userRepo, cardRepo), logger),
		Admin: httpapi.NewAdminController(
			resetService, mongoClient, os.Getenv("ADMIN_TOKEN"), logger),
	}

	server := &http.Server{
		Addr:         ":" + getEnv("PORT", "8080"),
		Handler:      httpapi.NewRouter(controllers, jwtManager, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	if err := eventBus.Stop(); err != nil {
		logger.Error("event bus shutdown failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// parseResetTime accepts "HH:MM" or a bare hour
func parseResetTime(value string) (int, int, error) {
	if t, err := time.Parse("15:04", value); err == nil {
		return t.Hour(), t.Minute(), nil
	}
	hour, err := strconv.Atoi(value)
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour out of range: %d", hour)
	}
	return hour, 0, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
