package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neil-k-zero/intrinsic-value-calc/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	runs     int
	err      error
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(logger.Discard())

	require.NoError(t, s.AddJob(&fakeJob{name: "revalue", schedule: "@daily"}))

	err := s.AddJob(&fakeJob{name: "revalue", schedule: "@hourly"})
	assert.ErrorContains(t, err, "already registered")
}

func TestScheduler_RejectsBadCronExpression(t *testing.T) {
	s := New(logger.Discard())
	err := s.AddJob(&fakeJob{name: "broken", schedule: "not a cron expr"})
	assert.Error(t, err)
}

func TestScheduler_RecordsHistory(t *testing.T) {
	s := New(logger.Discard())

	ok := &fakeJob{name: "ok", schedule: "@daily"}
	failing := &fakeJob{name: "failing", schedule: "@daily", err: errors.New("boom")}

	s.runJob(ok)
	s.runJob(failing)
	s.runJob(ok)

	okHistory := s.History("ok")
	require.Len(t, okHistory, 2)
	assert.True(t, okHistory[0].Success)
	assert.Empty(t, okHistory[0].Error)
	assert.Equal(t, 2, ok.runs)

	failHistory := s.History("failing")
	require.Len(t, failHistory, 1)
	assert.False(t, failHistory[0].Success)
	assert.Equal(t, "boom", failHistory[0].Error)
}

func TestScheduler_HistoryIsBounded(t *testing.T) {
	s := New(logger.Discard())
	job := &fakeJob{name: "busy", schedule: "@daily"}

	for i := 0; i < historyLimit+20; i++ {
		s.runJob(job)
	}
	assert.Len(t, s.History("busy"), historyLimit)
}
