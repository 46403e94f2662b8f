package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/narrative"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors return nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects to find a valid ID"}
	case errors.Is(err, project.ErrForbidden):
		return &APIError{Code: "FORBIDDEN", Message: "not a member of this project", RecoveryHint: "Ask the owner for an invitation"}
	case errors.Is(err, project.ErrArchived):
		return &APIError{Code: "ARCHIVED", Message: "project is archived and read-only"}
	case errors.Is(err, project.ErrInviteNotFound):
		return &APIError{Code: "INVITE_NOT_FOUND", Message: "no pending invitation for this email"}
	case errors.Is(err, changeorder.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: "change order already decided", RecoveryHint: "Only pending change orders can be approved or rejected"}
	case errors.Is(err, changeorder.ErrChangeOrderNotFound):
		return &APIError{Code: "CHANGE_ORDER_NOT_FOUND", Message: "change order not found"}
	case errors.Is(err, cost.ErrCostNotFound):
		return &APIError{Code: "COST_NOT_FOUND", Message: "cost not found"}
	case errors.Is(err, forecast.ErrVersionConflict):
		return &APIError{Code: "VERSION_CONFLICT", Message: "snapshot version taken by a concurrent save", RecoveryHint: "Retry the save"}
	case errors.Is(err, forecast.ErrNarratorDisabled):
		return &APIError{Code: "AI_DISABLED", Message: "AI narrative is not configured"}
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, cost.ErrInvalidInput),
		errors.Is(err, changeorder.ErrInvalidInput),
		errors.Is(err, forecast.ErrInvalidInput),
		errors.Is(err, narrative.ErrInvalidKind):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check the tool's input schema"}
	default:
		return nil
	}
}

// toolError converts a service error into the error returned from a tool
// handler. Mapped errors keep their stable code in the message text.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
