package recurring_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/recurring"
	"github.com/MrJamesThe3rd/tally/internal/split"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rent(id int64) *recurring.Template {
	return &recurring.Template{
		ID:           id,
		GroupID:      1,
		CreatedBy:    1,
		Amount:       dec("900.00"),
		Description:  "Rent",
		Frequency:    recurring.Monthly,
		Participants: []ledger.User{{ID: 2, Name: "Bob"}, {ID: 3, Name: "Carol"}},
		Active:       true,
		StartDate:    day("2024-01-01"),
	}
}

func TestScheduler_Tick_Idempotent(t *testing.T) {
	repo := newMemRepo(rent(1))
	s := recurring.NewScheduler(repo, nil)
	ctx := context.Background()

	first, err := s.Tick(ctx, day("2024-01-01"))
	require.NoError(t, err)
	require.Len(t, first.Generated, 1)
	assert.True(t, day("2024-01-01").Equal(first.Generated[0].DueDate))

	second, err := s.Tick(ctx, day("2024-01-01"))
	require.NoError(t, err)
	assert.Empty(t, second.Generated)
	assert.Empty(t, second.Failed)

	debts := repo.generatedDebts()
	require.Len(t, debts, 1)
	require.NotNil(t, debts[0].TemplateID)
	assert.Equal(t, int64(1), *debts[0].TemplateID)
	assert.Equal(t, debts[0].ID, first.Generated[0].SharedDebtID)
}

func TestScheduler_Tick_Concurrent(t *testing.T) {
	repo := newMemRepo(rent(1), rent(2))
	s := recurring.NewScheduler(repo, nil)

	const workers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		generated int
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			res, err := s.Tick(context.Background(), day("2024-02-10"))
			assert.NoError(t, err)

			mu.Lock()
			generated += len(res.Generated)
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Equal(t, 2, generated)
	assert.Len(t, repo.generatedDebts(), 2)
}

func TestScheduler_Tick_MonthByMonth(t *testing.T) {
	tmpl := rent(1)
	tmpl.StartDate = day("2023-01-31")

	repo := newMemRepo(tmpl)
	s := recurring.NewScheduler(repo, nil)

	var dues []string

	for _, asOf := range []string{"2023-01-31", "2023-02-28", "2023-03-30", "2023-03-31", "2023-04-30"} {
		res, err := s.Tick(context.Background(), day(asOf))
		require.NoError(t, err)

		for _, inst := range res.Generated {
			dues = append(dues, inst.DueDate.Format(time.DateOnly))
		}
	}

	assert.Equal(t, []string{"2023-01-31", "2023-02-28", "2023-03-31", "2023-04-30"}, dues)
}

func TestScheduler_Tick_InactiveNeverGenerates(t *testing.T) {
	tmpl := rent(1)
	tmpl.Active = false

	repo := newMemRepo(tmpl)
	s := recurring.NewScheduler(repo, nil)

	res, err := s.Tick(context.Background(), day("2024-06-01"))
	require.NoError(t, err)
	assert.Empty(t, res.Generated)
	assert.Empty(t, repo.generatedDebts())

	should, err := s.ShouldGenerate(context.Background(), tmpl, day("2024-06-01"))
	require.NoError(t, err)
	assert.False(t, should)
}

func TestScheduler_Tick_FailureIsIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := recurring.NewMockRepository(ctrl)
	tx := recurring.NewMockGenerationTx(ctrl)

	broken := rent(1)
	healthy := rent(2)
	asOf := day("2024-01-01")
	dbErr := errors.New("connection reset")

	repo.EXPECT().ActiveTemplates(gomock.Any(), asOf).Return([]*recurring.Template{broken, healthy}, nil)
	repo.EXPECT().InstanceExists(gomock.Any(), gomock.Any(), asOf).Return(false, nil).Times(2)
	repo.EXPECT().BeginGeneration(gomock.Any(), int64(1), asOf).Return(nil, dbErr)
	repo.EXPECT().BeginGeneration(gomock.Any(), int64(2), asOf).Return(tx, nil)

	tx.EXPECT().TemplateActive(gomock.Any(), int64(2)).Return(true, nil)
	tx.EXPECT().InstanceExists(gomock.Any(), int64(2), asOf).Return(false, nil)
	tx.EXPECT().CreateSharedDebt(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *ledger.SharedDebt) error {
		d.ID = 50
		return nil
	})
	tx.EXPECT().RecordInstance(gomock.Any(), recurring.Instance{TemplateID: 2, DueDate: asOf, SharedDebtID: 50}).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil).AnyTimes()

	res, err := recurring.NewScheduler(repo, nil).Tick(context.Background(), asOf)
	require.NoError(t, err)

	require.Len(t, res.Generated, 1)
	assert.Equal(t, int64(2), res.Generated[0].TemplateID)

	require.Len(t, res.Failed, 1)
	assert.Equal(t, int64(1), res.Failed[0].TemplateID)
	assert.ErrorIs(t, res.Failed[0], dbErr)
}

func TestScheduler_Tick_LostRaceIsSkipped(t *testing.T) {
	asOf := day("2024-01-01")

	type testCase struct {
		name  string
		setup func(tx *recurring.MockGenerationTx)
	}

	tests := []testCase{
		{
			name: "Deactivated",
			setup: func(tx *recurring.MockGenerationTx) {
				tx.EXPECT().TemplateActive(gomock.Any(), int64(1)).Return(false, nil)
			},
		},
		{
			name: "InstanceSeenUnderLock",
			setup: func(tx *recurring.MockGenerationTx) {
				tx.EXPECT().TemplateActive(gomock.Any(), int64(1)).Return(true, nil)
				tx.EXPECT().InstanceExists(gomock.Any(), int64(1), asOf).Return(true, nil)
			},
		},
		{
			name: "UniqueConstraint",
			setup: func(tx *recurring.MockGenerationTx) {
				tx.EXPECT().TemplateActive(gomock.Any(), int64(1)).Return(true, nil)
				tx.EXPECT().InstanceExists(gomock.Any(), int64(1), asOf).Return(false, nil)
				tx.EXPECT().CreateSharedDebt(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().RecordInstance(gomock.Any(), gomock.Any()).Return(recurring.ErrAlreadyGenerated)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := recurring.NewMockRepository(ctrl)
			tx := recurring.NewMockGenerationTx(ctrl)

			repo.EXPECT().ActiveTemplates(gomock.Any(), asOf).Return([]*recurring.Template{rent(1)}, nil)
			repo.EXPECT().InstanceExists(gomock.Any(), int64(1), asOf).Return(false, nil)
			repo.EXPECT().BeginGeneration(gomock.Any(), int64(1), asOf).Return(tx, nil)
			tt.setup(tx)
			tx.EXPECT().Rollback().Return(nil)

			res, err := recurring.NewScheduler(repo, nil).Tick(context.Background(), asOf)
			require.NoError(t, err)
			assert.Empty(t, res.Generated)
			assert.Empty(t, res.Failed)
			assert.Equal(t, 1, res.Skipped)
		})
	}
}

func TestScheduler_Tick_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := recurring.NewMockRepository(ctrl)
	repo.EXPECT().ActiveTemplates(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := recurring.NewScheduler(repo, nil).Tick(context.Background(), day("2024-01-01"))
	assert.ErrorContains(t, err, "fetching active templates")
}

func TestScheduler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := recurring.NewMetrics(reg)

	repo := newMemRepo(rent(1))
	s := recurring.NewScheduler(repo, metrics)

	_, err := s.Tick(context.Background(), day("2024-01-01"))
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "tally_scheduler_occurrences_generated_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP tally_scheduler_occurrences_generated_total Recurring occurrences materialized into shared debts.
# TYPE tally_scheduler_occurrences_generated_total counter
tally_scheduler_occurrences_generated_total 1
`), "tally_scheduler_occurrences_generated_total"))
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	repo := newMemRepo()
	r := recurring.NewRunner(recurring.NewScheduler(repo, nil), time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, r.Run(ctx))
}

func TestScheduler_Tick_GeneratedDebtSplitsEvenly(t *testing.T) {
	repo := newMemRepo(rent(1))

	res, err := recurring.NewScheduler(repo, nil).Tick(context.Background(), day("2024-01-01"))
	require.NoError(t, err)
	require.Len(t, res.Generated, 1)

	debts := repo.generatedDebts()
	require.Len(t, debts, 1)

	shares := split.Ordered(debts[0].Amount, debts[0].SplitParticipants())
	require.Len(t, shares, 3)

	for i, want := range []int64{1, 2, 3} {
		assert.Equal(t, want, shares[i].Participant.UserID)
		assert.True(t, dec("300.00").Equal(shares[i].Amount), "share %d is %s", i, shares[i].Amount)
	}
}

func TestScheduler_Tick_CancelledStillRecordsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := recurring.NewMockRepository(ctrl)
	tx := recurring.NewMockGenerationTx(ctrl)

	reg := prometheus.NewRegistry()
	asOf := day("2024-01-01")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo.EXPECT().ActiveTemplates(gomock.Any(), asOf).Return([]*recurring.Template{rent(1), rent(2)}, nil)
	repo.EXPECT().InstanceExists(gomock.Any(), int64(1), asOf).Return(false, nil)
	repo.EXPECT().BeginGeneration(gomock.Any(), int64(1), asOf).Return(tx, nil)

	tx.EXPECT().TemplateActive(gomock.Any(), int64(1)).Return(true, nil)
	tx.EXPECT().InstanceExists(gomock.Any(), int64(1), asOf).Return(false, nil)
	tx.EXPECT().CreateSharedDebt(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *ledger.SharedDebt) error {
		d.ID = 70
		return nil
	})
	tx.EXPECT().RecordInstance(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().DoAndReturn(func() error {
		cancel()
		return nil
	})
	tx.EXPECT().Rollback().Return(nil).AnyTimes()

	res, err := recurring.NewScheduler(repo, recurring.NewMetrics(reg)).Tick(ctx, asOf)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, res.Generated, 1)

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP tally_scheduler_occurrences_generated_total Recurring occurrences materialized into shared debts.
# TYPE tally_scheduler_occurrences_generated_total counter
tally_scheduler_occurrences_generated_total 1
`), "tally_scheduler_occurrences_generated_total"))
}

func TestRunner_RunOnce_CancelledIsNotLoggedAsError(t *testing.T) {
	var buf bytes.Buffer

	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	r := recurring.NewRunner(recurring.NewScheduler(newMemRepo(rent(1)), nil), time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r.RunOnce(ctx)

	assert.Contains(t, buf.String(), "recurring tick interrupted")
	assert.NotContains(t, buf.String(), "level=ERROR")
}
