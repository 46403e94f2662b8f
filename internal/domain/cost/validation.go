package cost

import (
	"math"
	"strings"
	"time"
)

// ParseDate parses a YYYY-MM-DD economic date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

func validAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount > 0
}

func validDeduction(d DeductionType) bool {
	return d == "" || d == DeductionManual || d == DeductionAutomatic
}

// ValidateAddInput validates fields required to record a cost.
func ValidateAddInput(req AddRequest) error {
	if strings.TrimSpace(req.ProjectID) == "" {
		return ErrInvalidInput
	}
	if !validAmount(req.Amount) {
		return ErrInvalidInput
	}
	if strings.TrimSpace(req.Category) == "" {
		return ErrInvalidInput
	}
	if _, err := ParseDate(req.Date); err != nil {
		return ErrInvalidInput
	}
	if !validDeduction(req.DeductionType) {
		return ErrInvalidInput
	}
	return nil
}

// ValidateEditInput validates the fields present in an edit.
func ValidateEditInput(req EditRequest) error {
	if strings.TrimSpace(req.ID) == "" {
		return ErrInvalidInput
	}
	if req.Amount != nil && !validAmount(*req.Amount) {
		return ErrInvalidInput
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		return ErrInvalidInput
	}
	if req.Date != nil {
		if _, err := ParseDate(*req.Date); err != nil {
			return ErrInvalidInput
		}
	}
	if req.DeductionType != nil && !validDeduction(*req.DeductionType) {
		return ErrInvalidInput
	}
	return nil
}
