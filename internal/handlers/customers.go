package handlers

import (
	"net/http"

	"github.com/diewo77/orderdesk/httpx"
	"github.com/diewo77/orderdesk/internal/services"
	"github.com/sirupsen/logrus"
)

type CustomerHandler struct {
	customers *services.CustomerService
	log       logrus.FieldLogger
}

func NewCustomerHandler(customers *services.CustomerService, log logrus.FieldLogger) *CustomerHandler {
	return &CustomerHandler{customers: customers, log: log}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CustomerInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	c, err := h.customers.Create(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}
