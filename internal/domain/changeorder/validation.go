package changeorder

import (
	"math"
	"strings"
)

// ValidateCreateInput validates fields required to create a change order.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.ProjectID) == "" {
		return ErrInvalidInput
	}
	if req.Type != TypePositive && req.Type != TypeNegative {
		return ErrInvalidInput
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		return ErrInvalidInput
	}
	if strings.TrimSpace(req.Description) == "" {
		return ErrInvalidInput
	}
	return nil
}
