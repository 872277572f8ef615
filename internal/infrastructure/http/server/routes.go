package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/http/middleware"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/monitoring"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", s.healthHandler.HandleHealth())

	mux.HandleFunc("/sessions", s.sessionHandler.HandleCreate)
	mux.HandleFunc("/sessions/", s.handleSessionRoutes)
	mux.HandleFunc("/pick/current", s.pickHandler.HandleCurrent)
	mux.HandleFunc("/pick/missing", s.pickHandler.HandleMissing)
	mux.HandleFunc("/pick/complete", s.pickHandler.HandleComplete)
	mux.HandleFunc("/pick/abandon", s.pickHandler.HandleAbandon)
	mux.HandleFunc("/collect", s.collectHandler.HandleCollect)
	mux.HandleFunc("/stock/", s.handleStockRoutes)

	handler := middleware.NewRecoveryMiddleware(s.logger)(mux)
	handler = middleware.NewLoggingMiddleware(s.logger)(handler)
	handler = monitoring.WrapHandler(handler)
	handler = s.corsMiddleware(handler)
	handler = s.timeoutMiddleware(handler)

	return handler
}

func (s *Server) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	parts := strings.Split(path, "/")

	if len(parts) == 1 && parts[0] != "" {
		sessionID := parts[0]
		switch r.Method {
		case http.MethodDelete:
			s.sessionHandler.HandleClose(w, r, sessionID)
			return
		case http.MethodGet:
			s.sessionHandler.HandleGetBasket(w, r, sessionID)
			return
		}
	} else if len(parts) == 2 {
		sessionID := parts[0]
		switch {
		case r.Method == http.MethodGet && parts[1] == "basket":
			s.sessionHandler.HandleGetBasket(w, r, sessionID)
			return
		case r.Method == http.MethodPost && parts[1] == "check":
			s.sessionHandler.HandleCheck(w, r, sessionID)
			return
		case r.Method == http.MethodPost && parts[1] == "buy":
			s.sessionHandler.HandleBuy(w, r, sessionID)
			return
		case r.Method == http.MethodPost && parts[1] == "undo":
			s.sessionHandler.HandleUndo(w, r, sessionID)
			return
		case r.Method == http.MethodPost && parts[1] == "remove":
			s.sessionHandler.HandleRemove(w, r, sessionID)
			return
		case r.Method == http.MethodPost && parts[1] == "finalize":
			s.sessionHandler.HandleFinalize(w, r, sessionID)
			return
		}
	}

	http.NotFound(w, r)
}

func (s *Server) handleStockRoutes(w http.ResponseWriter, r *http.Request) {
	productNum := strings.TrimPrefix(r.URL.Path, "/stock/")

	if productNum != "" && !strings.Contains(productNum, "/") && r.Method == http.MethodGet {
		s.stockHandler.HandleGetProduct(w, r, productNum)
		return
	}

	http.NotFound(w, r)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Expose-Headers", "Link")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "300")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, 90*time.Second, "Request timeout")
}
