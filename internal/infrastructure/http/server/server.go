package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/yuzvak/fulfillment-service/internal/application/ports"
	"github.com/yuzvak/fulfillment-service/internal/application/use_cases"
	"github.com/yuzvak/fulfillment-service/internal/config"
	"github.com/yuzvak/fulfillment-service/internal/domain/fulfillment"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/http/handlers"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/persistence/redis"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

type Server struct {
	server         *http.Server
	logger         *logger.Logger
	healthHandler  *handlers.HealthHandler
	sessionHandler *handlers.SessionHandler
	pickHandler    *handlers.PickHandler
	collectHandler *handlers.CollectHandler
	stockHandler   *handlers.StockHandler
}

func NewServer(
	cfg *config.Config,
	db *sql.DB,
	redisConn *redis.Connection,
	sessions *use_cases.SessionManager,
	picker *use_cases.Picker,
	collector *use_cases.Collector,
	ledger *fulfillment.RefundLedger,
	stock ports.StockStore,
	log *logger.Logger,
) *Server {
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server:         server,
		logger:         log,
		healthHandler:  handlers.NewHealthHandler(db, redisConn.GetClient(), log),
		sessionHandler: handlers.NewSessionHandler(sessions, log),
		pickHandler:    handlers.NewPickHandler(picker, ledger, log),
		collectHandler: handlers.NewCollectHandler(collector, ledger, log),
		stockHandler:   handlers.NewStockHandler(stock, log),
	}
}

func (s *Server) ListenAndServe() error {
	s.server.Handler = s.setupRoutes()

	s.logger.Info("Starting HTTP server", "address", s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
