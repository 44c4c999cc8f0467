package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvidenceDeleteJobPayloadRoundTrip(t *testing.T) {
	p := EvidenceDeleteJobPayload{
		Table:      "vehicle_alerts",
		RecordID:   42,
		ObjectKeys: []string{"evidence/vehicle_alerts/2026/08/a.jpg", "evidence/vehicle_alerts/2026/08/b.jpg"},
	}

	got, err := EvidenceDeleteJobPayloadFromMap(p.ToMap())
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestApprovalMailJobPayloadRoundTrip(t *testing.T) {
	p := ApprovalMailJobPayload{UserID: 7, Email: "thandi@example.com", Name: "Thandi"}

	got, err := ApprovalMailJobPayloadFromMap(p.ToMap())
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestJobRetryLifecycle(t *testing.T) {
	job := &Job{
		ID:         "j1",
		Type:       JobTypeEvidenceDelete,
		Status:     JobStatusPending,
		MaxRetries: DefaultMaxRetries,
	}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("bucket unreachable")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsFailed("bucket unreachable")
	job.MarkAsFailed("bucket unreachable")
	assert.Equal(t, DefaultMaxRetries, job.RetryCount)
	assert.False(t, job.IsRetryable())

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
	require.NotNil(t, job.CompletedAt)
	assert.WithinDuration(t, time.Now(), *job.CompletedAt, time.Second)
}

func TestNewQueueDefaults(t *testing.T) {
	q := NewQueue(0, nil)
	assert.Equal(t, 3, q.workers)
	assert.Equal(t, 3, cap(q.workerPool))

	q = NewQueue(5, nil)
	assert.Equal(t, 5, q.workers)
}
