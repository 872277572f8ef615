package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yuzvak/fulfillment-service/internal/application/use_cases"
	"github.com/yuzvak/fulfillment-service/internal/domain/order"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/http/response"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

type SessionHandler struct {
	sessions *use_cases.SessionManager
	log      *logger.Logger
}

func NewSessionHandler(sessions *use_cases.SessionManager, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		log:      log,
	}
}

type SessionData struct {
	SessionID string `json:"session_id"`
}

type OperationData struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type BasketItem struct {
	ProductNum  string  `json:"product_num"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

type BasketData struct {
	OrderNum int          `json:"order_num,omitempty"`
	Items    []BasketItem `json:"items"`
	Total    float64      `json:"total"`
}

type FinalizeData struct {
	SessionID string  `json:"session_id"`
	Message   string  `json:"message"`
	OrderNum  int     `json:"order_num,omitempty"`
	Total     float64 `json:"total"`
	Change    float64 `json:"change,omitempty"`
}

type checkRequest struct {
	ProductNum string `json:"product_num"`
}

type removeRequest struct {
	ProductNum string `json:"product_num"`
}

type finalizeRequest struct {
	Tendered float64 `json:"tendered"`
}

func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session := h.sessions.Create()
	response.WriteJSON(w, http.StatusCreated, response.Success(SessionData{SessionID: session.ID()}))
}

func (h *SessionHandler) HandleClose(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.sessions.Close(sessionID); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Checkout session closed", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) HandleCheck(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"product_num": "product number is required",
		})
		return
	}

	monitoring.RecordCheckAttempt()

	msg, err := session.Check(r.Context(), req.ProductNum)
	if err != nil {
		monitoring.RecordCheckFailure(err.Error())
		h.writeOutcome(w, sessionID, msg, err)
		return
	}

	response.WriteSuccess(w, OperationData{SessionID: sessionID, Message: msg})
}

func (h *SessionHandler) HandleBuy(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	msg, err := session.Buy(r.Context())
	if err != nil {
		monitoring.RecordPurchaseFailure(err.Error())
		h.writeOutcome(w, sessionID, msg, err)
		return
	}

	monitoring.RecordPurchase()
	response.WriteSuccess(w, OperationData{SessionID: sessionID, Message: msg})
}

func (h *SessionHandler) HandleUndo(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	msg, err := session.UndoLast(r.Context())
	if err != nil {
		h.writeOutcome(w, sessionID, msg, err)
		return
	}

	response.WriteSuccess(w, OperationData{SessionID: sessionID, Message: msg})
}

func (h *SessionHandler) HandleRemove(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"product_num": "product number is required",
		})
		return
	}

	msg, err := session.RemoveItem(r.Context(), req.ProductNum)
	if err != nil {
		h.writeOutcome(w, sessionID, msg, err)
		return
	}

	response.WriteSuccess(w, OperationData{SessionID: sessionID, Message: msg})
}

func (h *SessionHandler) HandleFinalize(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	// Body is optional; without a tendered amount no change is reported.
	var req finalizeRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	data := FinalizeData{
		SessionID: sessionID,
		Total:     session.Total(),
	}
	if basket := session.Basket(); basket != nil {
		data.OrderNum = basket.OrderNum
	}
	if req.Tendered > 0 {
		data.Change = session.Change(req.Tendered)
	}

	msg, err := session.Finalize(r.Context())
	if err != nil {
		h.writeOutcome(w, sessionID, msg, err)
		return
	}

	if data.OrderNum != 0 {
		monitoring.RecordOrderSubmitted()
	}

	data.Message = msg
	response.WriteSuccess(w, data)
}

func (h *SessionHandler) HandleGetBasket(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, basketData(session.Basket()))
}

// writeOutcome maps soft domain outcomes to their HTTP status while
// keeping the human-readable message the operation produced.
func (h *SessionHandler) writeOutcome(w http.ResponseWriter, sessionID, msg string, err error) {
	statusCode, errorResponse := response.MapDomainError(err)
	if msg != "" {
		errorResponse.Message = msg
	}
	response.WriteJSON(w, statusCode, errorResponse)
}

func basketData(basket *order.Basket) BasketData {
	data := BasketData{Items: []BasketItem{}}
	if basket == nil {
		return data
	}

	data.OrderNum = basket.OrderNum
	data.Total = basket.Total()
	for _, item := range basket.Items() {
		data.Items = append(data.Items, BasketItem{
			ProductNum:  item.ProductNum,
			Description: item.Description,
			Price:       item.Price,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal(),
		})
	}

	return data
}
