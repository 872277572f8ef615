package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpillora/backoff"
	"github.com/yuzvak/fulfillment-service/internal/application/use_cases"
	"github.com/yuzvak/fulfillment-service/internal/config"
	"github.com/yuzvak/fulfillment-service/internal/domain/fulfillment"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/audit"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/http/server"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/persistence/postgres"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/persistence/redis"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/scheduler"
	"github.com/yuzvak/fulfillment-service/internal/pkg/clock"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
	"github.com/yuzvak/fulfillment-service/internal/pkg/notifier"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	log := logger.NewLogger()
	log.Info("Starting Order Fulfillment Service")

	cfg, configErr := config.LoadConfig(*configPath)
	if configErr != nil {
		log.Fatal("Failed to load configuration", "error", configErr)
	}

	db, dbErr := connectPostgres(cfg, log)
	if dbErr != nil {
		log.Fatal("Failed to connect to database", "error", dbErr)
	}
	defer db.Close()

	if migrationErr := postgres.RunMigrations(cfg.Database); migrationErr != nil {
		log.Fatal("Failed to run migrations", "error", migrationErr)
	}

	redisConn, redisErr := connectRedis(cfg, log)
	if redisErr != nil {
		log.Fatal("Failed to connect to Redis", "error", redisErr)
	}
	defer redisConn.Close()

	dbMetricsCollector := monitoring.NewDBMetricsCollector(db.GetDB())
	dbMetricsCollector.StartCollecting(context.Background(), 30*time.Second)

	cache := redis.NewCache(redisConn, log)
	stockRepo := postgres.NewStockRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	stock := redis.NewCachedStockStore(stockRepo, cache, cfg.Cache.ProductTTL(), log)

	auditWriter, auditErr := audit.NewWriter(cfg.Audit.Directory, clock.NewRealClock())
	if auditErr != nil {
		log.Fatal("Failed to prepare audit directory", "error", auditErr)
	}

	hub := notifier.NewHub()
	hub.Subscribe(func(message string) {
		if message != "" {
			log.Info("Notification", "message", message)
		}
	})

	ledger := fulfillment.NewRefundLedger()

	sessions := use_cases.NewSessionManager(stock, orderRepo, cache, auditWriter, hub, log)
	picker := use_cases.NewPicker(stock, orderRepo, ledger, hub, log)
	collector := use_cases.NewCollector(orderRepo, cache, ledger, auditWriter, hub, clock.NewRealClock(), log)

	pickScheduler := scheduler.NewPickScheduler(picker, log, cfg.Picker.PollInterval())

	httpServer := server.NewServer(cfg, db.GetDB(), redisConn, sessions, picker, collector, ledger, stock, log)

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	go pickScheduler.Start(serverCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigChan
		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		log.Info("Shutting down server...")
		pickScheduler.Stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}

		serverStopCtx()
	}()

	log.Info("Server starting", "address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed", "error", err)
	}

	<-serverCtx.Done()
	log.Info("Server stopped")
}

func connectPostgres(cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	var lastErr error
	b := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    10 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	for attempt := 0; attempt < 10; attempt++ {
		conn, err := postgres.NewConnection(cfg.Database)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		d := b.Duration()
		log.Warn("Database not ready, retrying", "attempt", attempt+1, "wait", d.String(), "error", err)
		time.Sleep(d)
	}

	return nil, lastErr
}

func connectRedis(cfg *config.Config, log *logger.Logger) (*redis.Connection, error) {
	var lastErr error
	b := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    10 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	for attempt := 0; attempt < 10; attempt++ {
		conn, err := redis.NewConnection(cfg.Redis)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		d := b.Duration()
		log.Warn("Redis not ready, retrying", "attempt", attempt+1, "wait", d.String(), "error", err)
		time.Sleep(d)
	}

	return nil, lastErr
}
