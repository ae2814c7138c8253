package handlers

import (
	"net/http"

	"github.com/diewo77/orderdesk/httpx"
	"github.com/diewo77/orderdesk/internal/services"
	"github.com/sirupsen/logrus"
)

// ReportHandler serves the read-only invoice and dashboard projections.
type ReportHandler struct {
	invoices *services.InvoiceService
	log      logrus.FieldLogger
}

func NewReportHandler(invoices *services.InvoiceService, log logrus.FieldLogger) *ReportHandler {
	return &ReportHandler{invoices: invoices, log: log}
}

func (h *ReportHandler) Invoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoices.Invoices(r.Context())
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.invoices.Dashboard(r.Context())
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}
