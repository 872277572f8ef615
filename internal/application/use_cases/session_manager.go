package use_cases

import (
	"sync"

	"github.com/google/uuid"
	"github.com/yuzvak/fulfillment-service/internal/application/ports"
	"github.com/yuzvak/fulfillment-service/internal/domain/errors"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

// SessionManager tracks the live checkout sessions for the HTTP surface.
// Each session is one cashier lane.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*CheckoutSession

	stock    ports.StockStore
	orders   ports.OrderStore
	cache    ports.Cache
	audit    ports.AuditLog
	notifier ports.Notifier
	log      *logger.Logger
}

func NewSessionManager(
	stock ports.StockStore,
	orders ports.OrderStore,
	cache ports.Cache,
	audit ports.AuditLog,
	notifier ports.Notifier,
	log *logger.Logger,
) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*CheckoutSession),
		stock:    stock,
		orders:   orders,
		cache:    cache,
		audit:    audit,
		notifier: notifier,
		log:      log,
	}
}

func (m *SessionManager) Create() *CheckoutSession {
	id := uuid.NewString()
	session := NewCheckoutSession(id, m.stock, m.orders, m.cache, m.audit, m.notifier, m.log)

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	m.log.Info("Checkout session created", "session_id", id)
	return session
}

func (m *SessionManager) Get(id string) (*CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	return session, nil
}

func (m *SessionManager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return errors.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
