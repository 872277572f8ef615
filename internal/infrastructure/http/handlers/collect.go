package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yuzvak/fulfillment-service/internal/application/use_cases"
	"github.com/yuzvak/fulfillment-service/internal/domain/fulfillment"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/http/response"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

type CollectHandler struct {
	collector *use_cases.Collector
	ledger    *fulfillment.RefundLedger
	log       *logger.Logger
}

func NewCollectHandler(collector *use_cases.Collector, ledger *fulfillment.RefundLedger, log *logger.Logger) *CollectHandler {
	return &CollectHandler{
		collector: collector,
		ledger:    ledger,
		log:       log,
	}
}

type collectRequest struct {
	OrderNum int  `json:"order_num"`
	Verified bool `json:"verified"`
}

func (h *CollectHandler) HandleCollect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderNum <= 0 {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"order_num": "order number must be positive",
		})
		return
	}

	result, err := h.collector.Collect(r.Context(), req.OrderNum, req.Verified)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	if result.Collected {
		monitoring.RecordOrderCollected()
		if result.RefundDue > 0 {
			monitoring.RecordRefundIssued(result.RefundDue)
		}
		monitoring.UpdateRefundsPending(h.ledger.Pending())
	}

	response.WriteSuccess(w, result)
}
