package cost_test

import (
	"testing"
	"time"

	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestToDate_SumsAllCategoriesAndTags(t *testing.T) {
	costs := []cost.Cost{
		{Amount: 1000, Category: "labor", DeductionType: cost.DeductionManual},
		{Amount: 1500.5, Category: "materials", DeductionType: cost.DeductionAutomatic},
		{Amount: 499.5, Category: "permits"},
	}
	require.InDelta(t, 3000, cost.ToDate(costs), 1e-9)
	require.Zero(t, cost.ToDate(nil))
}

func TestToDate_OrderAndGroupingIndependent(t *testing.T) {
	a := []cost.Cost{{Amount: 10}, {Amount: 20}, {Amount: 30}}
	b := []cost.Cost{{Amount: 30}, {Amount: 10}, {Amount: 20}}
	require.InDelta(t, cost.ToDate(a), cost.ToDate(b), 1e-9)
	require.InDelta(t, cost.ToDate(a), cost.ToDate(a[:1])+cost.ToDate(a[1:]), 1e-9)
}

func TestSortByDate_DoesNotMutateInput(t *testing.T) {
	costs := []cost.Cost{
		{ID: "c", Date: day(5)},
		{ID: "a", Date: day(0)},
		{ID: "b", Date: day(2)},
	}
	sorted := cost.SortByDate(costs)

	require.Equal(t, []string{"a", "b", "c"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	require.Equal(t, "c", costs[0].ID)
}

func TestDateSpan(t *testing.T) {
	_, _, ok := cost.DateSpan(nil)
	require.False(t, ok)

	earliest, latest, ok := cost.DateSpan([]cost.Cost{{Date: day(4)}, {Date: day(1)}, {Date: day(9)}})
	require.True(t, ok)
	require.Equal(t, day(1), earliest)
	require.Equal(t, day(9), latest)
}
