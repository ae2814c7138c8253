package handlers

import (
	"net/http"

	"github.com/diewo77/orderdesk/auth"
	"github.com/diewo77/orderdesk/httpx"
	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/services"
	"github.com/sirupsen/logrus"
)

type DesignTaskHandler struct {
	design *services.DesignService
	log    logrus.FieldLogger
}

func NewDesignTaskHandler(design *services.DesignService, log logrus.FieldLogger) *DesignTaskHandler {
	return &DesignTaskHandler{design: design, log: log}
}

func (h *DesignTaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.design.List(r.Context(), models.DesignTaskStatus(r.URL.Query().Get("status")))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tasks)
}

type assignRequest struct {
	Designer string `json:"designer"`
}

// Assign handles POST /api/design-tasks/{id}/assign. Without a body the
// acting user assigns the task to themselves.
func (h *DesignTaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var in assignRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.BadRequest(w, err)
			return
		}
	}
	if in.Designer == "" {
		if a, ok := auth.ActorFromContext(r.Context()); ok {
			in.Designer = a.Name
		}
	}
	t, err := h.design.AssignDesigner(r.Context(), r.PathValue("id"), in.Designer)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

type designStatusResponse struct {
	Task       *models.DesignTask   `json:"task"`
	Transition *services.Transition `json:"transition,omitempty"`
}

func (h *DesignTaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in services.DesignStatusInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	t, tr, err := h.design.UpdateStatus(r.Context(), r.PathValue("id"), in, auth.RoleFromContext(r.Context()))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, designStatusResponse{Task: t, Transition: tr})
}
