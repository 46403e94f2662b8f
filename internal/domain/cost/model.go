package cost

import "time"

// DeductionType is a descriptive tag; it never changes the arithmetic.
type DeductionType string

const (
	DeductionManual    DeductionType = "manual"
	DeductionAutomatic DeductionType = "automatic"
)

// DateLayout is the format of a cost's economic date.
const DateLayout = "2006-01-02"

// Cost is a single spend entry against a project.
type Cost struct {
	ID            string        `json:"id"`
	ProjectID     string        `json:"project_id"`
	Amount        float64       `json:"amount"`
	Category      string        `json:"category"`
	Vendor        string        `json:"vendor"`
	Description   string        `json:"description"`
	Date          time.Time     `json:"date"`
	DeductionType DeductionType `json:"deduction_type"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CreatedBy     string        `json:"created_by"`
}

// SearchResult is a full-text search hit over vendor, category and description.
type SearchResult struct {
	Cost    Cost    `json:"cost"`
	Rank    float64 `json:"rank"`
	Snippet string  `json:"snippet,omitempty"`
}
