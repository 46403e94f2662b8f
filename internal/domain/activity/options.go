package activity

// DefaultListLimit caps audit listings when no limit is given.
const DefaultListLimit = 50

// ListOptions provides filtering options for listing audit entries.
type ListOptions struct {
	ProjectID string
	Action    *Action
	UserID    *string
	Limit     int
	Offset    int
}
