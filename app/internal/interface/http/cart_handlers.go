package http

import (
	"net/http"
	"time"

	domorder "example.com/storefront/app/internal/domain/order"
)

type addCartItemRequest struct {
	ProductID  int64 `json:"product_id" validate:"required,gt=0"`
	Quantity   int64 `json:"quantity" validate:"required,gt=0"`
	TTLSeconds int64 `json:"ttl_seconds" validate:"gte=0,lte=31536000"`
}

type updateCartItemRequest struct {
	Quantity   int64 `json:"quantity" validate:"required,gt=0"`
	TTLSeconds int64 `json:"ttl_seconds" validate:"gte=0,lte=31536000"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := getOwner(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	if err := a.reservationSvc.Reserve(r.Context(), req.ProductID, owner, req.Quantity, ttl); err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":     "reserved",
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})
}

// Quantity changes replace the held amount, they never add to it.
func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := getOwner(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	if err := a.reservationSvc.Reserve(r.Context(), productID, owner, req.Quantity, ttl); err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "reserved",
		"product_id": productID,
		"quantity":   req.Quantity,
	})
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := getOwner(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if err := a.reservationSvc.Release(r.Context(), productID, owner); err != nil {
		handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := getOwner(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	if err := a.reservationSvc.ClearAll(r.Context(), owner); err != nil {
		handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := getOwner(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	cart, err := a.cartSvc.GetCart(r.Context(), owner)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(cart))
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	method := domorder.PaymentMethod(req.PaymentMethod)
	order, err := a.checkoutSvc.Checkout(r.Context(), user.UserID, method)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrder(order))
}
