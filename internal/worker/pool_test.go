package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pvieira/flashdeck/internal/testutil/mocks"
	"github.com/pvieira/flashdeck/internal/worker"
)

type countingJob struct {
	runs int32
	done chan struct{}
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(ctx context.Context) error {
	atomic.AddInt32(&j.runs, 1)
	close(j.done)
	return nil
}

func TestPoolRunsSubmittedJobs(t *testing.T) {
	pool := worker.NewPool("janitor", 1, 4)
	assert.Equal(t, "janitor", pool.Name())

	pool.Start(context.Background())
	defer pool.Stop()

	job := &countingJob{done: make(chan struct{})}
	pool.Submit(job)

	select {
	case <-job.done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&job.runs))
}

func TestPoolRunsDraftExpirySweep(t *testing.T) {
	drafts := new(mocks.MockDraftRepository)
	done := make(chan struct{})
	drafts.On("DeleteExpired", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(done) }).
		Return(int64(2), nil)

	pool := worker.NewPool("janitor", 1, 1)
	pool.Start(context.Background())
	defer pool.Stop()

	pool.Submit(&worker.DraftExpiryJob{DraftRepo: drafts})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run")
	}
	drafts.AssertExpectations(t)
}
