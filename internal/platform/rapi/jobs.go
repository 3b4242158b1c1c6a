package rapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/clusterkit/gntsync/internal/metrics"
)

// JobStatus is the cluster's job lifecycle status.
type JobStatus string

const (
	JobQueued   JobStatus = "queued"
	JobWaiting  JobStatus = "waiting"
	JobRunning  JobStatus = "running"
	JobSuccess  JobStatus = "success"
	JobError    JobStatus = "error"
	JobCanceled JobStatus = "canceled"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobSuccess, JobError, JobCanceled:
		return true
	}
	return false
}

// Job is the polled view of an in-flight cluster job.
type Job struct {
	ID     JobID     `json:"id"`
	Status JobStatus `json:"status"`
}

// GetJob fetches the current job record.
func (c *RealClient) GetJob(ctx context.Context, id JobID) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/jobs/%d", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// WaitForJob polls the job at a fixed interval until it reaches a terminal
// status. A terminal status other than success yields a JobFailedError.
// Context cancellation or deadline expiry aborts the wait, so a stuck remote
// job cannot hang the caller forever.
func (c *RealClient) WaitForJob(ctx context.Context, id JobID) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.JobWaitDuration)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		job, err := c.GetJob(ctx, id)
		if err != nil {
			return fmt.Errorf("poll job %d: %w", id, err)
		}

		if job.Status.Terminal() {
			if job.Status != JobSuccess {
				return &JobFailedError{ID: id, Status: job.Status}
			}
			c.logger.Debug().Int64("job", int64(id)).Msg("job succeeded")
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for job %d: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}
