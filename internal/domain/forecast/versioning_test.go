package forecast_test

import (
	"testing"

	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/stretchr/testify/require"
)

func TestNextVersion(t *testing.T) {
	require.Equal(t, 1, forecast.NextVersion(nil))
	require.Equal(t, 4, forecast.NextVersion([]forecast.Snapshot{{Version: 1}, {Version: 3}}))
	require.Equal(t, 4, forecast.NextVersion([]forecast.Snapshot{{Version: 3}, {Version: 1}}))
}

func TestLatest(t *testing.T) {
	require.Nil(t, forecast.Latest(nil))

	snapshots := []forecast.Snapshot{
		{Version: 2, CreatedAt: day(2)},
		{Version: 3, CreatedAt: day(5)},
		{Version: 1, CreatedAt: day(1)},
	}
	latest := forecast.Latest(snapshots)
	require.Equal(t, 3, latest.Version)

	latest.Version = 99
	require.Equal(t, 3, snapshots[1].Version)
}

func TestLatest_TieBreaksOnVersion(t *testing.T) {
	snapshots := []forecast.Snapshot{{Version: 4, CreatedAt: day(1)}, {Version: 5, CreatedAt: day(1)}}
	require.Equal(t, 5, forecast.Latest(snapshots).Version)
}
