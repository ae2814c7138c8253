package handlers

import (
	"net/http"

	"github.com/diewo77/orderdesk/auth"
	"github.com/diewo77/orderdesk/httpx"
	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/services"
	"github.com/sirupsen/logrus"
)

type ShipmentHandler struct {
	shipping *services.ShippingService
	invoices *services.InvoiceService
	log      logrus.FieldLogger
}

func NewShipmentHandler(shipping *services.ShippingService, invoices *services.InvoiceService, log logrus.FieldLogger) *ShipmentHandler {
	return &ShipmentHandler{shipping: shipping, invoices: invoices, log: log}
}

func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.shipping.List(r.Context(), models.ShipmentStatus(r.URL.Query().Get("status")))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shipments)
}

func (h *ShipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.DispatchInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	sh, err := h.shipping.UpdateDetails(r.Context(), r.PathValue("id"), in)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sh)
}

type shipmentStatusResponse struct {
	Shipment   *models.Shipment     `json:"shipment"`
	Transition *services.Transition `json:"transition"`
}

func (h *ShipmentHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var in services.DispatchInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	sh, tr, err := h.shipping.Dispatch(r.Context(), r.PathValue("id"), in, auth.RoleFromContext(r.Context()))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shipmentStatusResponse{Shipment: sh, Transition: tr})
}

func (h *ShipmentHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	var in services.DeliveryDetails
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	sh, tr, err := h.shipping.Deliver(r.Context(), r.PathValue("id"), in, auth.RoleFromContext(r.Context()))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shipmentStatusResponse{Shipment: sh, Transition: tr})
}

func (h *ShipmentHandler) Slip(w http.ResponseWriter, r *http.Request) {
	slip, err := h.invoices.Slip(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, slip)
}
