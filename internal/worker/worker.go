package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zookeepr/backend/pkg/queue"
)

// BlobDeleter removes attachment bodies in bulk and reports the keys it could not remove.
type BlobDeleter interface {
	DeleteObjects(ctx context.Context, keys []string) ([]string, error)
}

// JobSource hands out jobs and takes failed ones back.
type JobSource interface {
	Dequeue(ctx context.Context) (*queue.Job, string, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// maxKeysPerRequest is the S3 DeleteObjects limit.
const maxKeysPerRequest = 1000

// AttachmentJanitor processes attachment purge jobs: the bodies of
// attachments whose rows are gone are deleted from object storage.
type AttachmentJanitor struct {
	blobs   BlobDeleter
	jobs    JobSource
	backoff time.Duration
	logger  *zap.Logger
}

// NewAttachmentJanitor creates a purge processor. A zero backoff uses queue.RetryBackoff.
func NewAttachmentJanitor(blobs BlobDeleter, jobs JobSource, backoff time.Duration, logger *zap.Logger) *AttachmentJanitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if backoff <= 0 {
		backoff = queue.RetryBackoff
	}
	return &AttachmentJanitor{blobs: blobs, jobs: jobs, backoff: backoff, logger: logger}
}

// Process executes one purge job.
func (p *AttachmentJanitor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeAttachmentPurge {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.AttachmentPurgePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	var failed []string
	for start := 0; start < len(payload.Keys); start += maxKeysPerRequest {
		end := min(start+maxKeysPerRequest, len(payload.Keys))
		left, err := p.blobs.DeleteObjects(ctx, payload.Keys[start:end])
		if err != nil {
			return fmt.Errorf("delete objects: %w", err)
		}
		failed = append(failed, left...)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d attachment bodies not deleted", len(failed), len(payload.Keys))
	}

	p.logger.Info("attachment bodies purged", zap.Int("proposal_id", payload.ProposalID), zap.Int("keys", len(payload.Keys)))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *AttachmentJanitor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("attachment worker stopping")
			return
		default:
		}

		job, _, err := p.jobs.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			if reErr := p.jobs.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *AttachmentJanitor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
