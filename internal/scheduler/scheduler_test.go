package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pennantcast/internal/config"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := New(config.ScheduleConfig{
		DailyUpdate: "0 6 * * *",
		Timezone:    "America/New_York",
	}, log)
	require.NoError(t, err)
	return s
}

func TestNewRejectsBadTimezone(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	_, err := New(config.ScheduleConfig{DailyUpdate: "0 6 * * *", Timezone: "Mars/Olympus"}, log)
	assert.Error(t, err)
}

func TestStartRequiresJobs(t *testing.T) {
	s := newTestScheduler(t)
	assert.Error(t, s.Start())
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	s := newTestScheduler(t)
	err := s.Schedule("not a cron line", "daily-update", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestSchedulerRunsJob(t *testing.T) {
	s := newTestScheduler(t)
	var runs atomic.Int32
	require.NoError(t, s.Schedule("@every 10ms", "tick", func(context.Context) error {
		runs.Add(1)
		return nil
	}))
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.NextRun().IsZero())

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}

func TestScheduleWhileRunning(t *testing.T) {
	s := newTestScheduler(t)
	require.NoError(t, s.Schedule("@every 1h", "noop", func(context.Context) error { return nil }))
	require.NoError(t, s.Start())
	defer s.Stop()

	err := s.Schedule("@every 1h", "late", func(context.Context) error { return nil })
	assert.Error(t, err)
}
