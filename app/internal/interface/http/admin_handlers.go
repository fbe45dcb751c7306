package http

import (
	"net/http"

	domorder "example.com/storefront/app/internal/domain/order"
	domproduct "example.com/storefront/app/internal/domain/product"
	productuc "example.com/storefront/app/internal/usecase/product"
)

type productRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int64   `json:"stock" validate:"gte=0"`
	CategoryID  int64   `json:"category_id" validate:"gte=0"`
	IsActive    bool    `json:"is_active"`
}

// updateProductRequest leaves out what the admin did not send.
type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Stock       *int64   `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *int64   `json:"category_id" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active"`
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	product, err := a.productSvc.Create(r.Context(), &domproduct.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(product))
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateProductRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	product, err := a.productSvc.Update(r.Context(), id, productuc.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(product))
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.productSvc.Delete(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orderSvc.List(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	order, err := a.orderSvc.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}

func (a *API) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateOrderStatusRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	status := domorder.Status(req.Status)
	order, err := a.orderSvc.UpdateStatus(r.Context(), id, status)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}

// POST /api/v1/admin/reservations/sweep
func (a *API) handleSweepReservations(w http.ResponseWriter, r *http.Request) {
	removed, err := a.reservationSvc.Sweep(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}
