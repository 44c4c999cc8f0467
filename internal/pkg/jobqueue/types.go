package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeEvidenceDelete JobType = "evidence_delete"
	JobTypeApprovalMail   JobType = "approval_mail"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// EvidenceDeleteJobPayload carries the object keys to remove from S3 after
// a report with images is deleted.
type EvidenceDeleteJobPayload struct {
	Table      string   `json:"table"`
	RecordID   uint     `json:"record_id"`
	ObjectKeys []string `json:"object_keys"`
}

// ToMap converts the payload to a map for storage
func (p EvidenceDeleteJobPayload) ToMap() map[string]interface{} {
	keys := make([]interface{}, len(p.ObjectKeys))
	for i, k := range p.ObjectKeys {
		keys[i] = k
	}
	return map[string]interface{}{
		"table":       p.Table,
		"record_id":   p.RecordID,
		"object_keys": keys,
	}
}

// EvidenceDeleteJobPayloadFromMap creates a payload from a map
func EvidenceDeleteJobPayloadFromMap(data map[string]interface{}) (*EvidenceDeleteJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload EvidenceDeleteJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// ApprovalMailJobPayload carries the recipient of an account-approved mail.
type ApprovalMailJobPayload struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// ToMap converts the payload to a map for storage
func (p ApprovalMailJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"user_id": p.UserID,
		"email":   p.Email,
		"name":    p.Name,
	}
}

// ApprovalMailJobPayloadFromMap creates a payload from a map
func ApprovalMailJobPayloadFromMap(data map[string]interface{}) (*ApprovalMailJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload ApprovalMailJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
