package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestForecastRepository_CreateAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewForecastRepository(db)
	ctx := context.Background()
	seedProject(t, db, "p1")

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	override := 15000.0
	summary := "Spending is steady."
	for v := 1; v <= 3; v++ {
		s := &forecast.Snapshot{
			ID:              "s" + string(rune('0'+v)),
			ProjectID:       "p1",
			Version:         v,
			CostToDate:      float64(v * 100),
			BurnRate:        10,
			RemainingBudget: 1000,
			ProjectedTotal:  1100,
			Insight:         "On track.",
			CreatedAt:       base.Add(time.Duration(v) * time.Hour),
			CreatedBy:       "owner",
		}
		if v == 3 {
			s.ManualOverride = &override
			s.AISummary = &summary
		}
		require.NoError(t, repo.Create(ctx, s))
	}

	all, err := repo.List(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, 3, all[0].Version)
	require.Equal(t, 15000.0, *all[0].ManualOverride)
	require.Equal(t, summary, *all[0].AISummary)
	require.Nil(t, all[1].ManualOverride)
	require.Equal(t, 4, forecast.NextVersion(all))

	limited, err := repo.List(ctx, "p1", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, 3, forecast.Latest(limited).Version)
}

func TestForecastRepository_DuplicateVersionConflicts(t *testing.T) {
	db := NewTestDB(t)
	repo := NewForecastRepository(db)
	ctx := context.Background()
	seedProject(t, db, "p1")

	s := &forecast.Snapshot{ID: "s1", ProjectID: "p1", Version: 1, CreatedAt: time.Now(), CreatedBy: "owner"}
	require.NoError(t, repo.Create(ctx, s))

	dup := *s
	dup.ID = "s2"
	require.ErrorIs(t, repo.Create(ctx, &dup), repository.ErrConflict)
}
