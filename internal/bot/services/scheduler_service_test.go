package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls atomic.Int32
}

func (r *countingRunner) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	r.calls.Add(1)
	return &RunReport{ID: "test", Gated: true}, nil
}

func TestSchedulerService_SchedulesOneJob(t *testing.T) {
	runner := &countingRunner{}
	svc, err := NewSchedulerService(context.Background(), runner, "0 18 * * *", time.UTC)
	require.NoError(t, err)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	jobs := svc.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, runJobName, jobs[0].Name())

	next, err := jobs[0].NextRun()
	require.NoError(t, err)
	assert.Equal(t, 18, next.Hour())
}

func TestSchedulerService_RunNowInvokesRunner(t *testing.T) {
	runner := &countingRunner{}
	svc, err := NewSchedulerService(context.Background(), runner, "0 18 * * *", time.UTC)
	require.NoError(t, err)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	require.NoError(t, svc.Jobs()[0].RunNow())
	assert.Eventually(t, func() bool { return runner.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerService_InvalidCron(t *testing.T) {
	svc, err := NewSchedulerService(context.Background(), &countingRunner{}, "not a cron", time.UTC)
	require.NoError(t, err)

	assert.Error(t, svc.Start())
}
