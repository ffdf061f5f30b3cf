package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minslab/revmomo/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	err      error
	runs     int
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func newTestScheduler() *Scheduler {
	s := New(logger.NewWriter(io.Discard))
	s.maxRetries = 0
	s.retryDelay = 0
	return s
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@daily"}))
	err := s.AddJob(&fakeJob{name: "a", schedule: "@daily"})
	assert.ErrorContains(t, err, "already exists")
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := newTestScheduler()

	err := s.AddJob(&fakeJob{name: "a", schedule: "not a cron expr"})
	assert.Error(t, err)
}

func TestRunNowRecordsHistory(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "a", schedule: "@daily"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	h, err := s.History("a")
	require.NoError(t, err)
	require.Len(t, h.Results, 1)
	assert.True(t, h.Results[0].Success)
	assert.Equal(t, 1.0, h.SuccessRate())
}

func TestRunJobRetriesAndRecordsFailure(t *testing.T) {
	s := newTestScheduler()
	s.maxRetries = 2
	job := &fakeJob{name: "a", schedule: "@daily", err: errors.New("boom")}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	assert.Equal(t, 3, job.runs)

	h, err := s.History("a")
	require.NoError(t, err)
	require.Len(t, h.Results, 1)
	assert.False(t, h.Results[0].Success)
	assert.Equal(t, "boom", h.Results[0].Error)
}

func TestHistoryUnknownJob(t *testing.T) {
	s := newTestScheduler()
	_, err := s.History("missing")
	assert.Error(t, err)
}

func TestJobHistoryCapped(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+10; i++ {
		h.Add(JobResult{JobName: "a", Success: true})
	}
	assert.Len(t, h.Results, historyLimit)
}

func TestStats(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "a", schedule: "@daily"}
	require.NoError(t, s.AddJob(job))
	s.runJob(job)

	stats := s.Stats()
	require.Contains(t, stats, "a")
	assert.Equal(t, 1, stats["a"].TotalRuns)
	assert.Equal(t, 0, stats["a"].Failures)
	assert.NotNil(t, stats["a"].LastRun)
}
