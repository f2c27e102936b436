// Package attachments keeps the files presenters upload with a proposal:
// metadata in PostgreSQL, bodies in object storage.
package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/queue"
	"github.com/zookeepr/backend/pkg/storage"
)

// ErrTooLarge is returned for uploads above storage.MaxAttachmentSize.
var ErrTooLarge = errors.New("attachment too large")

// Repo is the metadata persistence the service needs.
type Repo interface {
	Create(ctx context.Context, a *models.Attachment) error
	GetByID(ctx context.Context, id int) (*models.Attachment, error)
	ListByProposal(ctx context.Context, proposalID int) ([]models.Attachment, error)
	Delete(ctx context.Context, id int) (string, error)
}

// BlobStore holds attachment bodies.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) error
	GetObjectStream(ctx context.Context, key string) (io.ReadCloser, string, error)
	GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
	PresignExpire() time.Duration
}

// Purger schedules removal of bodies that could not be deleted inline.
type Purger interface {
	EnqueueAttachmentPurge(ctx context.Context, payload queue.AttachmentPurgePayload) error
}

// Service stores attachments.
type Service struct {
	repo   Repo
	blobs  BlobStore
	purger Purger
	// maxSize caps the bytes read from an upload body.
	maxSize int64
	logger  *zap.Logger
}

// sizeLimiter fails reads once more than limit bytes came through.
type sizeLimiter struct {
	r        io.Reader
	limit    int64
	read     int64
	exceeded bool
}

func (l *sizeLimiter) Read(p []byte) (int, error) {
	if l.exceeded {
		return 0, ErrTooLarge
	}
	if room := l.limit - l.read + 1; int64(len(p)) > room {
		p = p[:room]
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.limit {
		l.exceeded = true
		return n, ErrTooLarge
	}
	return n, err
}

// NewService creates an attachments service.
func NewService(repo Repo, blobs BlobStore, purger Purger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, blobs: blobs, purger: purger, maxSize: storage.MaxAttachmentSize, logger: logger}
}

// Upload stores body under a fresh key and records it against the proposal.
// An empty contentType is derived from the filename. A size of zero or less
// means unknown; the body is still cut off at the attachment size limit.
func (s *Service) Upload(ctx context.Context, proposalID int, filename, contentType string, body io.Reader, size int64) (*models.Attachment, error) {
	if size > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(filename)
	}
	a := &models.Attachment{
		ProposalID:  proposalID,
		Filename:    filename,
		ContentType: contentType,
		StorageKey:  storage.AttachmentKey(proposalID, filename),
	}
	limited := &sizeLimiter{r: body, limit: s.maxSize}
	err := s.blobs.Upload(ctx, a.StorageKey, contentType, limited, size)
	if limited.exceeded {
		if err == nil {
			if delErr := s.blobs.DeleteObject(ctx, a.StorageKey); delErr != nil {
				s.logger.Warn("orphaned attachment body", zap.String("key", a.StorageKey), zap.Error(delErr))
			}
		}
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.maxSize)
	}
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if delErr := s.blobs.DeleteObject(ctx, a.StorageKey); delErr != nil {
			s.logger.Warn("orphaned attachment body", zap.String("key", a.StorageKey), zap.Error(delErr))
		}
		return nil, err
	}
	s.logger.Info("attachment stored", zap.Int("proposal_id", proposalID), zap.Int("attachment_id", a.ID))
	return a, nil
}

// Open returns the attachment and a reader over its body. The caller closes the reader.
func (s *Service) Open(ctx context.Context, id int) (*models.Attachment, io.ReadCloser, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	body, _, err := s.blobs.GetObjectStream(ctx, a.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open attachment %d: %w", id, err)
	}
	return a, body, nil
}

// DownloadURL returns a short-lived URL for fetching the body directly.
func (s *Service) DownloadURL(ctx context.Context, id int) (string, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.blobs.GeneratePresignedDownloadURL(ctx, a.StorageKey, s.blobs.PresignExpire())
}

// ListByProposal returns a proposal's attachments.
func (s *Service) ListByProposal(ctx context.Context, proposalID int) ([]models.Attachment, error) {
	return s.repo.ListByProposal(ctx, proposalID)
}

// Delete removes an attachment. If the body cannot be deleted right away it
// is handed to the purge worker.
func (s *Service) Delete(ctx context.Context, id int) error {
	key, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blobs.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("attachment body delete failed, queueing purge", zap.String("key", key), zap.Error(err))
		if s.purger == nil {
			return nil
		}
		if err := s.purger.EnqueueAttachmentPurge(ctx, queue.AttachmentPurgePayload{Keys: []string{key}}); err != nil {
			s.logger.Error("enqueue attachment purge failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}
