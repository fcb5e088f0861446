package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/webshop-go/storefront/internal/cart/domain"
	"github.com/webshop-go/storefront/internal/cart/infrastructure/redisstore"
	"github.com/webshop-go/storefront/internal/web"
)

type Handler struct {
	log    *slog.Logger
	store  *redisstore.Store
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, store *redisstore.Store) *Handler {
	return &Handler{
		log:    log,
		store:  store,
		tracer: otel.Tracer("cart-http"),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/cart/{id}", h.getCart)
	r.Post("/cart", h.setCart)
	r.Delete("/cart/{id}", h.deleteCart)
}

// getCart returns the stored cart, or a fresh empty one when the id is
// unknown. First access creates the cart client-side; nothing persists until
// the first set.
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCart")
	defer span.End()

	id := chi.URLParam(r, "id")
	c, err := h.store.Get(ctx, id)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	if c == nil {
		c = domain.New(id)
	}
	web.JSON(w, http.StatusOK, c)
}

func (h *Handler) setCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SetCart")
	defer span.End()

	var c domain.ShoppingCart
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if c.ID == "" {
		http.Error(w, "cart id required", http.StatusBadRequest)
		return
	}

	saved, err := h.store.Set(ctx, &c)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, saved)
}

func (h *Handler) deleteCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteCart")
	defer span.End()

	if err := h.store.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		web.Error(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
