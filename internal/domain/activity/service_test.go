package activity_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type denyAll struct{}

func (denyAll) Authorize(context.Context, string, string) error { return errors.New("denied") }

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.AuditLogEntry{
		ProjectID: "proj1",
		Action:    activity.ActionCostAdded,
		UserID:    "user1",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListOptions{ProjectID: "proj1", Limit: activity.DefaultListLimit}).Return([]activity.AuditLogEntry{*entry}, nil)

	svc := activity.NewService(repo, nil, 0, nil)
	require.NoError(t, svc.Log(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())
	require.NotNil(t, entry.Metadata)

	entries, err := svc.List(ctx, "user1", activity.ListOptions{ProjectID: "proj1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestActivityService_LogRejectsUnknownAction(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	svc := activity.NewService(repo, nil, 0, nil)

	err := svc.Log(context.Background(), &activity.AuditLogEntry{ProjectID: "proj1", Action: "cost_renamed"})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
	repo.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
}

func TestActivityService_ListChecksAccess(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	svc := activity.NewService(repo, denyAll{}, 0, nil)

	_, err := svc.List(context.Background(), "stranger", activity.ListOptions{ProjectID: "proj1"})
	require.Error(t, err)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := activity.WriteCSV(&buf, []activity.AuditLogEntry{{
		ID:        1,
		Action:    activity.ActionCostAdded,
		UserID:    "user1",
		Metadata:  map[string]any{"note": `say "hi"`},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "Date,Action,User,Metadata", lines[0])
	require.Equal(t, `"2024-03-01T12:00:00Z","cost_added","user1","{""note"":""say \""hi\""""}"`, lines[1])
}
