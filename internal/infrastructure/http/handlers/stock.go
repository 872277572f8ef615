package handlers

import (
	"net/http"

	"github.com/yuzvak/fulfillment-service/internal/application/ports"
	"github.com/yuzvak/fulfillment-service/internal/domain/order"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/http/response"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

type StockHandler struct {
	stock ports.StockStore
	log   *logger.Logger
}

func NewStockHandler(stock ports.StockStore, log *logger.Logger) *StockHandler {
	return &StockHandler{
		stock: stock,
		log:   log,
	}
}

type ProductData struct {
	ProductNum  string  `json:"product_num"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	StockLevel  int     `json:"stock_level"`
}

func (h *StockHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request, productNum string) {
	if !order.ValidProductNum(productNum) {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"product_num": "product number must be numeric",
		})
		return
	}

	pr, err := h.stock.GetDetails(r.Context(), productNum)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, ProductData{
		ProductNum:  pr.ProductNum,
		Description: pr.Description,
		Price:       pr.Price,
		StockLevel:  pr.Quantity,
	})
}
