package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsTasksUntilStopped(t *testing.T) {
	var runs atomic.Int64
	s := NewScheduler(SchedulerConfig{},
		Task{
			Name:     "counter",
			Interval: 5 * time.Millisecond,
			Run: func(context.Context) error {
				runs.Add(1)
				return nil
			},
		},
	)

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	settled := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, settled, runs.Load())
}

func TestSchedulerSkipsInvalidTasks(t *testing.T) {
	s := NewScheduler(SchedulerConfig{},
		Task{Name: "no-interval", Run: func(context.Context) error { return nil }},
		Task{Name: "no-run", Interval: time.Millisecond},
	)

	s.Start(context.Background())
	s.Stop()
}

func TestSchedulerSurvivesFailingTask(t *testing.T) {
	var runs atomic.Int64
	s := NewScheduler(SchedulerConfig{},
		Task{
			Name:     "flaky",
			Interval: 5 * time.Millisecond,
			Run: func(context.Context) error {
				runs.Add(1)
				return errors.New("boom")
			},
		},
	)

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
}
