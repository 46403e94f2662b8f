package project

import (
	"strings"
	"time"
)

// NormalizeEmail lower-cases and trims an invitation address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// ValidateCreateInput validates fields required to create a project.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrInvalidInput
	}
	if err := validateBaseline(req.BaselineBudget, req.OverheadPercent); err != nil {
		return err
	}
	start, err := ParseDate(req.StartDate)
	if err != nil {
		return ErrInvalidInput
	}
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		end, err := ParseDate(*req.EndDate)
		if err != nil || end.Before(start) {
			return ErrInvalidInput
		}
	}
	return nil
}

func validateBaseline(baseline, overheadPercent float64) error {
	if baseline < 0 {
		return ErrInvalidInput
	}
	if overheadPercent < 0 || overheadPercent > 100 {
		return ErrInvalidInput
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
