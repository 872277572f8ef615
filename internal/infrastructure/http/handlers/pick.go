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

type PickHandler struct {
	picker *use_cases.Picker
	ledger *fulfillment.RefundLedger
	log    *logger.Logger
}

func NewPickHandler(picker *use_cases.Picker, ledger *fulfillment.RefundLedger, log *logger.Logger) *PickHandler {
	return &PickHandler{
		picker: picker,
		ledger: ledger,
		log:    log,
	}
}

type PickStatusData struct {
	Busy    bool        `json:"busy"`
	Basket  *BasketData `json:"basket,omitempty"`
	Message string      `json:"message,omitempty"`
}

type missingRequest struct {
	ProductNum string `json:"product_num"`
	MissingQty int    `json:"missing_qty"`
}

func (h *PickHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	basket := h.picker.Current()
	if basket == nil {
		response.WriteSuccess(w, PickStatusData{Busy: h.picker.Busy(), Message: "No order to pick"})
		return
	}

	data := basketData(basket)
	response.WriteSuccess(w, PickStatusData{Busy: true, Basket: &data})
}

func (h *PickHandler) HandleMissing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req missingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"product_num": "product number is required",
		})
		return
	}
	if req.MissingQty <= 0 {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"missing_qty": "missing quantity must be positive",
		})
		return
	}

	found, err := h.picker.ReportMissing(r.Context(), req.ProductNum, req.MissingQty)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	if !found {
		response.WriteError(w, http.StatusNotFound, response.StatusNotFound, "Product not on order")
		return
	}

	response.WriteSuccess(w, OperationData{Message: "Refund issued"})
}

func (h *PickHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	msg, err := h.picker.Complete(r.Context())
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	monitoring.RecordOrderPicked()
	monitoring.UpdateRefundsPending(h.ledger.Pending())
	response.WriteSuccess(w, OperationData{Message: msg})
}

func (h *PickHandler) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	msg, err := h.picker.Abandon(r.Context())
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, OperationData{Message: msg})
}
