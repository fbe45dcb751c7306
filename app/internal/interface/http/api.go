package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domcart "example.com/storefront/app/internal/domain/cart"
	domorder "example.com/storefront/app/internal/domain/order"
	domproduct "example.com/storefront/app/internal/domain/product"
	domres "example.com/storefront/app/internal/domain/reservation"
	domuser "example.com/storefront/app/internal/domain/user"
	authuc "example.com/storefront/app/internal/usecase/auth"
	cartuc "example.com/storefront/app/internal/usecase/cart"
	checkoutuc "example.com/storefront/app/internal/usecase/checkout"
	inventoryuc "example.com/storefront/app/internal/usecase/inventory"
	orderuc "example.com/storefront/app/internal/usecase/order"
	productuc "example.com/storefront/app/internal/usecase/product"
	reservationuc "example.com/storefront/app/internal/usecase/reservation"
)

// Pinger reports whether a backing store answers.
type Pinger func(ctx context.Context) error

type API struct {
	authSvc        *authuc.Service
	productSvc     *productuc.Service
	inventorySvc   *inventoryuc.Service
	reservationSvc *reservationuc.Service
	cartSvc        *cartuc.Service
	checkoutSvc    *checkoutuc.Service
	orderSvc       *orderuc.Service
	tokenSvc       authuc.TokenService
	health         map[string]Pinger
	validator      *validator.Validate
	logger         *zap.Logger
}

type Dependencies struct {
	AuthService        *authuc.Service
	ProductService     *productuc.Service
	InventoryService   *inventoryuc.Service
	ReservationService *reservationuc.Service
	CartService        *cartuc.Service
	CheckoutService    *checkoutuc.Service
	OrderService       *orderuc.Service
	TokenService       authuc.TokenService
	HealthChecks       map[string]Pinger
	Logger             *zap.Logger
}

func NewAPI(deps Dependencies) *API {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		authSvc:        deps.AuthService,
		productSvc:     deps.ProductService,
		inventorySvc:   deps.InventoryService,
		reservationSvc: deps.ReservationService,
		cartSvc:        deps.CartService,
		checkoutSvc:    deps.CheckoutService,
		orderSvc:       deps.OrderService,
		tokenSvc:       deps.TokenService,
		health:         deps.HealthChecks,
		validator:      validator.New(),
		logger:         logger,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.accessLog)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/{store}", a.handleStoreHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", a.handleLogin)
		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)
		r.Get("/products/{id}/availability", a.handleGetAvailability)

		r.Group(func(cr chi.Router) {
			cr.Use(a.ownerMiddleware)
			cr.Get("/cart", a.handleGetCart)
			cr.Delete("/cart", a.handleClearCart)
			cr.Post("/cart/items", a.handleAddCartItem)
			cr.Put("/cart/items/{productID}", a.handleUpdateCartItem)
			cr.Delete("/cart/items/{productID}", a.handleRemoveCartItem)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)
			pr.Post("/me/checkout", a.handleCheckout)
		})

		r.Group(func(ar chi.Router) {
			ar.Use(a.authMiddleware)
			ar.Use(a.requireRoles(domuser.RoleCodeAdmin, domuser.RoleCodeSuperAdmin))

			ar.Route("/admin", func(admin chi.Router) {
				admin.Route("/products", func(rr chi.Router) {
					rr.Get("/", a.handleListProductsAdmin)
					rr.Post("/", a.handleCreateProduct)
					rr.Put("/{id}", a.handleUpdateProduct)
					rr.Delete("/{id}", a.handleDeleteProduct)
				})

				admin.Route("/orders", func(rr chi.Router) {
					rr.Get("/", a.handleListOrders)
					rr.Get("/{id}", a.handleGetOrder)
					rr.Patch("/{id}", a.handleUpdateOrderStatus)
				})

				admin.Post("/reservations/sweep", a.handleSweepReservations)
			})
		})
	})

	return r
}

func (a *API) handleStoreHealth(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "store")
	ping, ok := a.health[name]
	if !ok {
		respondError(w, http.StatusNotFound, errors.New("unknown store"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := ping(ctx); err != nil {
		a.logger.Warn("health check failed", zap.String("store", name), zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, errors.New(name+" unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "store": name})
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

func mapUser(u *domuser.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role_code": u.RoleCode,
	}
}

func mapProduct(p *domproduct.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"category_id": p.CategoryID,
		"is_active":   p.IsActive,
	}
}

func mapCart(cart *domcart.Cart) map[string]any {
	items := make([]map[string]any, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"name":       item.ProductName,
			"price":      item.ProductPrice,
			"expires_at": item.ExpiresAt,
		})
	}
	resp := map[string]any{
		"items": items,
		"total": cart.Total(),
	}
	if cart.UserID > 0 {
		resp["user_id"] = cart.UserID
	} else {
		resp["session_id"] = cart.SessionID
	}
	return resp
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"price":      item.Price,
			"quantity":   item.Quantity,
		})
	}

	return map[string]any{
		"id":             o.ID,
		"user_id":        o.UserID,
		"status":         o.Status,
		"payment_method": o.PaymentMethod,
		"total_amount":   o.TotalAmount,
		"created_at":     o.CreatedAt,
		"items":          items,
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domuser.ErrInvalidCredential),
		errors.Is(err, domuser.ErrInvalidRoleCode),
		errors.Is(err, domproduct.ErrInvalidProduct):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domuser.ErrUserNotFound),
		errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domorder.ErrOrderNotFound),
		errors.Is(err, domres.ErrReservationNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domuser.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domres.ErrInvalidOwner):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, domres.ErrInsufficientInventory),
		errors.Is(err, domres.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrEmptyOrderItems),
		errors.Is(err, domorder.ErrInvalidPayment),
		errors.Is(err, domorder.ErrCheckoutValidation),
		errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, domproduct.ErrOutOfStock):
		respondError(w, http.StatusUnprocessableEntity, err)
	default:
		// storage and connectivity failures stay opaque to clients
		respondError(w, http.StatusInternalServerError, errInternal)
	}
}
