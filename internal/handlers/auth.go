package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/orderdesk/auth"
	"github.com/diewo77/orderdesk/gate"
	"github.com/diewo77/orderdesk/httpx"
	"github.com/diewo77/orderdesk/validation"
	"github.com/sirupsen/logrus"
)

// AuthHandler issues development sessions. There is no credential store;
// any known role can be assumed while dev mode is on.
type AuthHandler struct {
	sessions *auth.Sessions
	roles    gate.ProfileResolver
	dev      bool
	log      logrus.FieldLogger
}

func NewAuthHandler(sessions *auth.Sessions, roles gate.ProfileResolver, dev bool, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{sessions: sessions, roles: roles, dev: dev, log: log}
}

type loginRequest struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.dev {
		httpx.JSONError(w, http.StatusNotFound, "not_found", "login is only available in development mode", nil)
		return
	}
	var in loginRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))

	v := validation.Violations{}
	validation.Struct(in, v)
	if in.Role != "" {
		if _, err := h.roles.Resolve(r.Context(), in.Role); err != nil {
			v.Add("role", "invalid_value")
		}
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", "name and a known role are required", v)
		return
	}

	a := auth.Actor{Name: in.Name, Role: in.Role}
	h.sessions.CreateSession(w, a)
	h.log.WithFields(logrus.Fields{"actor": a.Name, "role": a.Role}).Info("dev session created")
	httpx.JSON(w, http.StatusOK, a)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the actor attached to the request.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	a, ok := auth.ActorFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}
