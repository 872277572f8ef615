package response

import (
	"errors"
	"net/http"

	domainErrors "github.com/yuzvak/fulfillment-service/internal/domain/errors"
)

type ErrorMapping struct {
	HTTPStatus int
	Status     Status
	Message    string
}

var errorMappings = map[error]ErrorMapping{
	domainErrors.ErrInvalidProductNum: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusValidationError,
		Message:    "Invalid product number",
	},
	domainErrors.ErrProductNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Unknown product number",
	},
	domainErrors.ErrProductNotInStock: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Product not in stock",
	},
	domainErrors.ErrNoLongerInStock: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Product no longer in stock",
	},
	domainErrors.ErrCheckFirst: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Check if OK with customer first",
	},
	domainErrors.ErrProductNotInBasket: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Product not in basket",
	},
	domainErrors.ErrNothingToUndo: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "No previous purchase to undo",
	},
	domainErrors.ErrSessionNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Checkout session not found",
	},
	domainErrors.ErrNoOrderToPick: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "No order to pick",
	},
	domainErrors.ErrPickInProgress: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "A pick is already in progress",
	},
	domainErrors.ErrOrderNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Order not found",
	},
	domainErrors.ErrCollectionBusy: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Order is being collected at another desk",
	},
	domainErrors.ErrOrderFailure: {
		HTTPStatus: http.StatusInternalServerError,
		Status:     StatusInternalError,
		Message:    "Order processing failed",
	},
}

func MapDomainError(err error) (int, *ErrorResponse) {
	for domainErr, mapping := range errorMappings {
		if errors.Is(err, domainErr) {
			return mapping.HTTPStatus, Error(mapping.Status, mapping.Message, err.Error())
		}
	}

	return http.StatusInternalServerError, Error(StatusInternalError, "Internal server error", err.Error())
}

func WriteDomainError(w http.ResponseWriter, err error) {
	statusCode, errorResponse := MapDomainError(err)
	WriteJSON(w, statusCode, errorResponse)
}
