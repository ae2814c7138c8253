package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/orderdesk/httpx"
	"github.com/diewo77/orderdesk/internal/services"
	"github.com/sirupsen/logrus"
)

type InventoryHandler struct {
	inventory *services.InventoryService
	log       logrus.FieldLogger
}

func NewInventoryHandler(inventory *services.InventoryService, log logrus.FieldLogger) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, log: log}
}

// List handles GET /api/inventory. ?lowStock=N returns only items at or below N.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("lowStock"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "bad_request", "lowStock must be a non-negative integer", nil)
			return
		}
		items, err := h.inventory.LowStock(r.Context(), n)
		if err != nil {
			httpx.WriteError(w, h.log, err)
			return
		}
		httpx.JSON(w, http.StatusOK, items)
		return
	}
	items, err := h.inventory.List(r.Context())
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in services.InventoryItemInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	item, err := h.inventory.Upsert(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

type adjustRequest struct {
	Delta int `json:"delta"`
}

func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var in adjustRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	item, err := h.inventory.Adjust(r.Context(), r.PathValue("id"), in.Delta)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}
