package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suitadmin/internal/config"
)

func newScheduler(t *testing.T, cfg config.SchedulerConfig) *Scheduler {
	t.Helper()
	s := NewScheduler(cfg)
	s.retryDelay = func(int) time.Duration { return time.Millisecond }
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)
	return s
}

func TestSchedulerRunsImmediatelyAndOnTick(t *testing.T) {
	s := newScheduler(t, config.SchedulerConfig{WorkerCount: 1})

	var runs atomic.Int32
	require.NoError(t, s.AddJob(&Job{
		ID:       "count",
		Interval: 10 * time.Millisecond,
		Task: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}))

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, s.JobCount())
}

func TestSchedulerRetries(t *testing.T) {
	s := newScheduler(t, config.SchedulerConfig{WorkerCount: 1, MaxRetries: 2})

	var calls atomic.Int32
	done := make(chan struct{})
	require.NoError(t, s.AddJob(&Job{
		ID:       "flaky",
		Interval: time.Hour,
		Task: func(context.Context) error {
			if calls.Add(1) < 3 {
				return errors.New("database is locked")
			}
			close(done)
			return nil
		},
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not succeed after retries")
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestSchedulerRejectsDuplicatesAndStoppedAdds(t *testing.T) {
	s := NewScheduler(config.SchedulerConfig{WorkerCount: 1})
	job := &Job{ID: "a", Interval: time.Hour, Task: func(context.Context) error { return nil }}

	assert.Error(t, s.AddJob(job), "not running")

	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()), "already running")

	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(&Job{ID: "a", Interval: time.Hour, Task: job.Task}))
	assert.Error(t, s.AddJob(&Job{ID: "b", Task: job.Task}), "zero interval")

	assert.Equal(t, 1, s.JobCount())

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestSchedulerStopCancelsTasks(t *testing.T) {
	s := NewScheduler(config.SchedulerConfig{WorkerCount: 1})
	require.NoError(t, s.Start(context.Background()))

	started := make(chan struct{})
	require.NoError(t, s.AddJob(&Job{
		ID:       "slow",
		Interval: time.Hour,
		Task: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	}))

	<-started
	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
	assert.Zero(t, s.JobCount())
}

type fakePruner struct {
	now    time.Time
	cutoff time.Time
	err    error
}

func (f *fakePruner) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.now = now
	return 2, f.err
}

func (f *fakePruner) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 5, f.err
}

func TestHousekeeping(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	p := &fakePruner{}

	require.NoError(t, PruneSessions(p, clock)(context.Background()))
	assert.Equal(t, now, p.now)

	require.NoError(t, PruneAttendanceLogs(p, 48*time.Hour, clock)(context.Background()))
	assert.Equal(t, now.Add(-48*time.Hour), p.cutoff)

	p.err = errors.New("disk full")
	assert.Error(t, PruneSessions(p, clock)(context.Background()))

	cfg := config.SchedulerConfig{SessionCleanupInterval: time.Minute, LogCleanupInterval: time.Hour}
	assert.Len(t, Housekeeping(cfg, p, p), 1)

	cfg.LogRetention = 90 * 24 * time.Hour
	list := Housekeeping(cfg, p, p)
	require.Len(t, list, 2)
	assert.Equal(t, JobPruneSessions, list[0].ID)
	assert.Equal(t, JobPruneAttendanceLogs, list[1].ID)
	assert.Equal(t, time.Hour, list[1].Interval)
}
