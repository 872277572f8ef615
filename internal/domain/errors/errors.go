package errors

import (
	"errors"
)

var (
	ErrProductNotFound   = errors.New("unknown product number")
	ErrProductNotInStock = errors.New("product not in stock")
	ErrNoLongerInStock   = errors.New("product no longer in stock")
	ErrInvalidProductNum = errors.New("invalid product number")

	ErrCheckFirst         = errors.New("no checked product to buy")
	ErrProductNotInBasket = errors.New("product not in basket")
	ErrNothingToUndo      = errors.New("no previous purchase to undo")
	ErrSessionNotFound    = errors.New("checkout session not found")

	ErrNoOrderToPick  = errors.New("no order to pick")
	ErrPickInProgress = errors.New("pick already in progress")

	ErrOrderNotFound  = errors.New("order not found")
	ErrOrderFailure   = errors.New("order processing failed")
	ErrCollectionBusy = errors.New("order is being collected")
)
