package sqlite

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp_LexicalOrderIsTimeOrder(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{
		base.Add(time.Second),
		base,
		base.Add(time.Nanosecond),
		base.Add(10 * time.Millisecond),
		base.In(time.FixedZone("east", 3*3600)).Add(-time.Hour),
	}

	encoded := make([]string, 0, len(times))
	for _, ts := range times {
		encoded = append(encoded, formatTimestamp(ts))
	}
	sort.Strings(encoded)

	require.Equal(t, []string{
		"2024-05-01T11:00:00.000000000Z",
		"2024-05-01T12:00:00.000000000Z",
		"2024-05-01T12:00:00.000000001Z",
		"2024-05-01T12:00:00.010000000Z",
		"2024-05-01T12:00:01.000000000Z",
	}, encoded)

	parsed, err := parseTimestamp(encoded[2])
	require.NoError(t, err)
	require.True(t, base.Add(time.Nanosecond).Equal(parsed))
}
