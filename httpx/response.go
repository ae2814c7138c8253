// Package httpx holds the JSON response helpers shared by the handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/diewo77/orderdesk/internal/logging"
	"github.com/diewo77/orderdesk/internal/services"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes caps request bodies read by DecodeJSON.
const maxBodyBytes = 1 << 20

// ErrorResponse carries a machine code, a message for people and optional
// structured details.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

// JSONError writes an ErrorResponse. code is the stable machine-readable
// value; msg is shown to people.
func JSONError(w http.ResponseWriter, status int, code, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: code, Message: msg, Details: details})
}

// WriteError maps a service error to its HTTP status and JSON body.
// Anything that is not a known domain error is logged and reported as 500.
func WriteError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var (
		verr    *services.ValidationError
		illegal *services.IllegalTransitionError
		stock   *services.InsufficientStockError
		authz   *services.AuthorizationError
	)
	switch {
	case errors.As(err, &verr):
		JSONError(w, http.StatusUnprocessableEntity, "validation_failed", verr.Error(), verr.Fields)
	case errors.As(err, &illegal):
		JSONError(w, http.StatusConflict, "illegal_transition", illegal.Error(),
			map[string]string{"from": illegal.From, "to": illegal.To})
	case errors.As(err, &stock):
		JSONError(w, http.StatusConflict, "insufficient_stock", stock.Error(), map[string]any{
			"productId": stock.ProductID,
			"name":      stock.Name,
			"requested": stock.Requested,
			"available": stock.Available,
		})
	case errors.As(err, &authz):
		JSONError(w, http.StatusForbidden, "forbidden", authz.Error(),
			map[string]string{"role": authz.Role, "action": authz.Action})
	case errors.Is(err, services.ErrNotFound):
		JSONError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	default:
		logging.LogError(log, "httpx", "WriteError", "unhandled error", nil, err)
		JSONError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

// DecodeJSON reads a JSON body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// BadRequest reports a body that could not be decoded.
func BadRequest(w http.ResponseWriter, err error) {
	JSONError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
}
