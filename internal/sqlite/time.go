package sqlite

import "time"

// Timestamps are stored as fixed-width UTC text so lexical order is time order.
const (
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
	dateLayout      = "2006-01-02"
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(timestampLayout, value)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func nullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

func scanOptionalTimestamp(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseTimestamp(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
