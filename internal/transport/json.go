package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/narrative"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errBadRequest = errors.New("malformed request body")

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// writeError maps a service error onto an HTTP status and stable code.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeErrorCode(w, status, code, message)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, project.ErrProjectNotFound):
		return http.StatusNotFound, "PROJECT_NOT_FOUND"
	case errors.Is(err, cost.ErrCostNotFound):
		return http.StatusNotFound, "COST_NOT_FOUND"
	case errors.Is(err, changeorder.ErrChangeOrderNotFound):
		return http.StatusNotFound, "CHANGE_ORDER_NOT_FOUND"
	case errors.Is(err, project.ErrInviteNotFound):
		return http.StatusNotFound, "INVITE_NOT_FOUND"
	case errors.Is(err, project.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, changeorder.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, project.ErrArchived):
		return http.StatusConflict, "ARCHIVED"
	case errors.Is(err, forecast.ErrVersionConflict):
		return http.StatusConflict, "VERSION_CONFLICT"
	case errors.Is(err, forecast.ErrNarratorDisabled):
		return http.StatusServiceUnavailable, "AI_DISABLED"
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, cost.ErrInvalidInput),
		errors.Is(err, changeorder.ErrInvalidInput),
		errors.Is(err, forecast.ErrInvalidInput),
		errors.Is(err, narrative.ErrInvalidKind):
		return http.StatusUnprocessableEntity, "INVALID_INPUT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
