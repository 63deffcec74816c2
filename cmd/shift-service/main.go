package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sidetrade/shift-service/internal/app/background"
	"github.com/sidetrade/shift-service/internal/config"
	"github.com/sidetrade/shift-service/internal/delivery/http/handlers"
	botdelivery "github.com/sidetrade/shift-service/internal/delivery/telegram"
	"github.com/sidetrade/shift-service/internal/domain"
	publisher "github.com/sidetrade/shift-service/internal/infrastructure/kafka"
	"github.com/sidetrade/shift-service/internal/infrastructure/metrics"
	"github.com/sidetrade/shift-service/internal/infrastructure/migrate"
	"github.com/sidetrade/shift-service/internal/infrastructure/postgres"
	"github.com/sidetrade/shift-service/internal/infrastructure/postgres/repository"
	"github.com/sidetrade/shift-service/internal/infrastructure/sideshift"
	"github.com/sidetrade/shift-service/internal/infrastructure/telegram"
	"github.com/sidetrade/shift-service/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)
	if err := migrate.RunMigrations(db, cfg.ShiftDB.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)
	defer pub.Close()

	shiftMetrics := metrics.NewShiftMetrics()

	// Init provider client
	provider := sideshift.NewClient(cfg.Provider.BaseURL, cfg.Provider.APISecret, cfg.Provider.Timeout)
	// Init telegram sender
	sender := telegram.NewSender(cfg.Telegram.BotToken, cfg.Telegram.DeliveryTimeout)
	// Init subscriber repo
	subscriberRepo := repository.NewDefaultSubscriberRepository(db)

	pool := make([]domain.PairKey, 0, len(cfg.Market.Pairs))
	for _, entry := range cfg.Market.Pairs {
		deposit, settle, ok := strings.Cut(entry, "/")
		if !ok {
			log.Fatalf("invalid pair in config: %q", entry)
		}
		pool = append(pool, domain.NewPairKey(deposit, settle))
	}

	// Init market usecase
	marketUsecase := usecase.NewDefaultMarketUsecase(
		provider,
		pool,
		cfg.Market.StalenessThreshold,
		pub,
		shiftMetrics,
	)
	// Init subscription usecase
	subscriptionUsecase := usecase.NewDefaultSubscriptionUsecase(
		sender,
		subscriberRepo,
		cfg.Telegram.DeliveryTimeout,
		shiftMetrics,
	)
	// Init shift usecase
	shiftUsecase := usecase.NewDefaultShiftUsecase(
		provider,
		pub,
		shiftMetrics,
	)

	marketHandler := handlers.NewMarketHandler(marketUsecase, shiftUsecase, subscriptionUsecase)
	shiftHandler := handlers.NewShiftHandler(shiftUsecase)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionUsecase)

	router := http.NewServeMux()
	handlers.SetRoutes(router, marketHandler, shiftHandler, subscriptionHandler)
	router.Handle("GET /metrics", promhttp.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background tasks
	tasks := background.NewBackgroundTasks(
		marketUsecase,
		subscriptionUsecase,
		cfg.Market.RefreshInterval,
		cfg.Market.BroadcastTop,
	)
	tasks.StartAll(ctx)

	// Bot command interface shares the registry with the HTTP layer
	bot := botdelivery.NewBot(
		sender,
		sender,
		marketUsecase,
		shiftUsecase,
		subscriptionUsecase,
		cfg.Telegram.PollInterval,
	)
	go bot.Run(ctx)

	// Warm the snapshot before serving traffic
	if _, err := marketUsecase.RefreshOnce(ctx); err != nil {
		log.Printf("initial market refresh failed: %v", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve HTTP: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
}
