package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/webshop-go/storefront/internal/order/application"
	"github.com/webshop-go/storefront/internal/order/domain"
	paymentapp "github.com/webshop-go/storefront/internal/payment/application"
	"github.com/webshop-go/storefront/internal/web"
)

// BuyerHeader identifies the caller. Authentication proper sits in front of
// this service.
const BuyerHeader = "X-Buyer-Email"

type Handler struct {
	log      *slog.Logger
	service  *application.Service
	payments *paymentapp.Service
	tracer   trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service, payments *paymentapp.Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		payments: payments,
		tracer:   otel.Tracer("order-http"),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)

	r.Get("/admin/orders", h.adminListOrders)
	r.Get("/admin/orders/{id}", h.adminGetOrder)
	r.Post("/admin/orders/refund/{id}", h.refundOrder)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	buyer := r.Header.Get(BuyerHeader)
	if buyer == "" {
		http.Error(w, "buyer email required", http.StatusBadRequest)
		return
	}

	var in application.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	in.BuyerEmail = buyer

	o, err := h.service.Create(ctx, in)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusCreated, application.ToDto(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	buyer := r.Header.Get(BuyerHeader)
	if buyer == "" {
		http.Error(w, "buyer email required", http.StatusBadRequest)
		return
	}

	orders, err := h.service.ListForBuyer(ctx, buyer)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	buyer := r.Header.Get(BuyerHeader)
	id, ok := web.IntParam(r, "id")
	if buyer == "" || !ok {
		http.Error(w, "buyer email and order id required", http.StatusBadRequest)
		return
	}

	dto, err := h.service.GetForBuyer(ctx, id, buyer)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, dto)
}

func (h *Handler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AdminListOrders")
	defer span.End()

	q := r.URL.Query()
	params := application.AdminParams{
		Status:    domain.Status(q.Get("status")),
		PageIndex: intQuery(q.Get("pageIndex"), 1),
		PageSize:  intQuery(q.Get("pageSize"), 10),
	}

	result, err := h.service.ListAdmin(ctx, params)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, result)
}

func (h *Handler) adminGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AdminGetOrder")
	defer span.End()

	id, ok := web.IntParam(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	o, err := h.service.Get(ctx, id)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, application.ToDto(o))
}

func (h *Handler) refundOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RefundOrder")
	defer span.End()

	id, ok := web.IntParam(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	o, err := h.payments.Refund(ctx, id)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, application.ToDto(o))
}

func intQuery(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}
