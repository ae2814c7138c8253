package handlers

import (
	"net/http"

	"github.com/diewo77/orderdesk/auth"
	"github.com/diewo77/orderdesk/httpx"
	"github.com/diewo77/orderdesk/internal/repository"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	repo *repository.Repository
	log  logrus.FieldLogger
}

func NewAdminHandler(repo *repository.Repository, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{repo: repo, log: log}
}

// Reset replaces every collection with the demo data set.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Reset(r.Context()); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	a, _ := auth.ActorFromContext(r.Context())
	h.log.WithField("actor", a.Name).Warn("store reset to demo data")
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
