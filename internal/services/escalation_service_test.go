package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iAmmar7/api-audit-rail/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSweepEscalatesAgedUnresolvedIssues(t *testing.T) {
	env := newTestEnv(t)
	// Monday. The three-business-day cutoff lands on the prior
	// Wednesday.
	monday := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	svc := NewEscalationService(env.issues).WithClock(fixedClock(monday))

	aged := env.addIssue(t, func(i *models.Issue) {
		i.CreatedAt = time.Date(2024, 6, 4, 15, 0, 0, 0, time.UTC)
	})
	fresh := env.addIssue(t, func(i *models.Issue) {
		i.CreatedAt = time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)
	})
	resolvedOld := env.addIssue(t, func(i *models.Issue) {
		i.CreatedAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		i.Status = models.StatusResolved
	})

	n, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := env.issues.GetByID(context.Background(), aged.ID)
	require.NoError(t, err)
	require.True(t, got.IsPrioritized)

	got, err = env.issues.GetByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	require.False(t, got.IsPrioritized, "issue created on the cutoff day must not escalate")

	got, err = env.issues.GetByID(context.Background(), resolvedOld.ID)
	require.NoError(t, err)
	require.False(t, got.IsPrioritized, "resolved issues never escalate")
}

func TestSweepIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	monday := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	svc := NewEscalationService(env.issues).WithClock(fixedClock(monday))

	env.addIssue(t, func(i *models.Issue) {
		i.CreatedAt = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	})

	n, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = svc.Sweep(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 0, n, "second sweep must find nothing new")
}

func TestSweepCountsOnlyNewlyEscalated(t *testing.T) {
	env := newTestEnv(t)
	monday := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	svc := NewEscalationService(env.issues).WithClock(fixedClock(monday))

	env.addIssue(t, func(i *models.Issue) {
		i.CreatedAt = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
		i.IsPrioritized = true
	})
	env.addIssue(t, func(i *models.Issue) {
		i.CreatedAt = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	})

	n, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
