package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fashun-backend/config"
	_ "fashun-backend/docs"
	"fashun-backend/internal/cart"
	"fashun-backend/internal/handlers"
	"fashun-backend/internal/producer"
	"fashun-backend/internal/recovery"
	"fashun-backend/internal/repository"
	"fashun-backend/internal/router"
	"fashun-backend/internal/service"
	"fashun-backend/pkg/database"
	"fashun-backend/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @Title Fashun Commerce API
// @Version 1.0
// @Description Inventory, cart and abandoned-cart recovery service
// @BasePath /
// @securityDefinitions.apikey CronSecret
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	store, err := cart.NewStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CartTTL, log)
	if err != nil {
		log.Fatal("redis connect failed", zap.Error(err))
	}
	defer store.Close()

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("no kafka brokers configured (KAFKA_BROKERS)")
	}
	emailProducer := producer.NewEmailProducer(cfg.KafkaBrokers, cfg.KafkaTopicEmail)
	defer emailProducer.Close()

	inventorySvc := service.NewInventoryService(repos, int32(cfg.LowStockThreshold))
	cartSvc := cart.NewService(store, cart.DefaultDiscounts(), repos.AbandonedCarts)
	recoverySvc := recovery.NewService(repos.AbandonedCarts, recovery.NewKafkaDispatcher(emailProducer), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := recovery.NewScheduler(recoverySvc, cfg.SweepInterval, cfg.CleanupInterval, log)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	r := router.Router(router.Deps{
		Products:   handlers.NewProductHandler(inventorySvc, log),
		Carts:      handlers.NewCartHandler(cartSvc, log),
		Cron:       handlers.NewCronHandler(recoverySvc, log),
		CronSecret: cfg.CronSecret,
	}, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to run http server", zap.Error(err))
		}
	}()
	log.Info("http server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down http server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	log.Info("http server stopped gracefully")
}
