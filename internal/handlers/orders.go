package handlers

import (
	"net/http"

	"github.com/diewo77/orderdesk/auth"
	"github.com/diewo77/orderdesk/httpx"
	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/services"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	orders *services.OrderService
	log    logrus.FieldLogger
}

func NewOrderHandler(orders *services.OrderService, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

// List handles GET /api/orders with an optional ?status= filter.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status := models.OrderStatus(r.URL.Query().Get("status"))
	orders, err := h.orders.List(r.Context(), status)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	o, err := h.orders.CreateOrder(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	o, err := h.orders.UpdateOrder(r.Context(), r.PathValue("id"), in)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// Advance handles POST /api/orders/{id}/status. The acting role comes
// from the session.
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var in statusRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	tr, err := h.orders.AdvanceStatus(r.Context(), r.PathValue("id"), in.Status, auth.RoleFromContext(r.Context()))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tr)
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *OrderHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var in paymentRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	o, err := h.orders.RecordPayment(r.Context(), r.PathValue("id"), in.Amount)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Progression(w http.ResponseWriter, r *http.Request) {
	rec, err := h.orders.Progression(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}
