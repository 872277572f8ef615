package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	CheckAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_check_attempts_total",
			Help: "Total number of product check attempts",
		},
	)

	CheckFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_check_failure_total",
			Help: "Total number of failed product checks",
		},
		[]string{"reason"},
	)

	PurchasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_purchases_total",
			Help: "Total number of successful purchases",
		},
	)

	PurchaseFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_purchase_failure_total",
			Help: "Total number of failed purchases",
		},
		[]string{"reason"},
	)

	OrdersSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Total number of orders submitted at checkout",
		},
	)

	OrdersPickedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_picked_total",
			Help: "Total number of orders picked in the warehouse",
		},
	)

	OrdersCollectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_collected_total",
			Help: "Total number of orders collected by customers",
		},
	)

	PickPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pick_polls_total",
			Help: "Total number of pick queue polls",
		},
		[]string{"outcome"},
	)

	PickClaimContentionTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pick_claim_contention_total",
			Help: "Total number of polls skipped because the claim was held",
		},
	)

	RefundsIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refunds_issued_total",
			Help: "Total number of refund entries recorded by the picker",
		},
	)

	RefundAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refund_amount_total",
			Help: "Total refund amount recorded by the picker",
		},
	)

	RefundsPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refunds_pending",
			Help: "Number of unconsumed refund ledger entries",
		},
	)
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var (
	RedisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Duration of Redis commands in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"command"},
	)

	ProductCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_cache_requests_total",
			Help: "Product detail cache lookups by result",
		},
		[]string{"result"},
	)
)

func TimeDBQuery(queryType, table string) func() {
	start := time.Now()
	return func() {
		duration := time.Since(start).Seconds()
		DBQueryDuration.WithLabelValues(queryType, table).Observe(duration)
	}
}

func RecordCheckAttempt() {
	CheckAttemptsTotal.Inc()
}

func RecordCheckFailure(reason string) {
	CheckFailureTotal.WithLabelValues(reason).Inc()
}

func RecordPurchase() {
	PurchasesTotal.Inc()
}

func RecordPurchaseFailure(reason string) {
	PurchaseFailureTotal.WithLabelValues(reason).Inc()
}

func RecordOrderSubmitted() {
	OrdersSubmittedTotal.Inc()
}

func RecordOrderPicked() {
	OrdersPickedTotal.Inc()
}

func RecordOrderCollected() {
	OrdersCollectedTotal.Inc()
}

func RecordPickPoll(outcome string) {
	PickPollsTotal.WithLabelValues(outcome).Inc()
}

func RecordRefundIssued(amount float64) {
	RefundsIssuedTotal.Inc()
	RefundAmountTotal.Add(amount)
}

func UpdateRefundsPending(count int) {
	RefundsPending.Set(float64(count))
}

func RecordProductCacheResult(result string) {
	ProductCacheHitsTotal.WithLabelValues(result).Inc()
}
