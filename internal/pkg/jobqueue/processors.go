package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/LwandleM/SafeSuburb/internal/pkg/mail"
)

// processEvidenceDeleteJob removes a deleted report's evidence images from S3.
func (q *Queue) processEvidenceDeleteJob(ctx context.Context, job *Job) error {
	payload, err := EvidenceDeleteJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid evidence delete payload: %w", err)
	}

	if q.s3 == nil {
		// Nothing to clean up without a bucket; treat as done so the job
		// does not retry forever.
		log.Warnf("[JobQueue] S3 storage disabled, skipping evidence delete for %s/%d", payload.Table, payload.RecordID)
		return nil
	}

	var firstErr error
	deleted := 0
	for _, key := range payload.ObjectKeys {
		if err := q.s3.Delete(ctx, key); err != nil {
			log.Errorf("[JobQueue] Evidence delete %s: %v", key, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deleted++
	}

	if firstErr != nil {
		return fmt.Errorf("deleted %d/%d evidence objects: %w", deleted, len(payload.ObjectKeys), firstErr)
	}

	log.Infof("[JobQueue] Deleted %d evidence objects for %s/%d", deleted, payload.Table, payload.RecordID)
	return nil
}

// processApprovalMailJob sends the account-approved notification.
func (q *Queue) processApprovalMailJob(job *Job) error {
	payload, err := ApprovalMailJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid approval mail payload: %w", err)
	}

	if err := mail.SendAccountApprovedMail(payload.Email, payload.Name); err != nil {
		return fmt.Errorf("approval mail to %s: %w", payload.Email, err)
	}
	return nil
}
