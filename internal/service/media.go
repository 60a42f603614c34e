package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
)

// MediaService is the public contract of the upload pipeline: initiate an
// upload, confirm it (which enqueues background processing), patch metadata,
// delete, and read. No media bytes ever pass through this service; clients
// PUT directly to object storage via a presigned URL.
type MediaService struct {
	media         domain.MediaRepository
	store         domain.ObjectStorage
	transcoder    domain.Transcoder
	queue         domain.JobQueue
	presignExpiry time.Duration
	logger        zerolog.Logger
}

func NewMediaService(
	media domain.MediaRepository,
	store domain.ObjectStorage,
	transcoder domain.Transcoder,
	queue domain.JobQueue,
	presignExpiry time.Duration,
	logger zerolog.Logger,
) *MediaService {
	return &MediaService{
		media:         media,
		store:         store,
		transcoder:    transcoder,
		queue:         queue,
		presignExpiry: presignExpiry,
		logger:        logger,
	}
}

// InitUploadResult is returned by InitUpload.
type InitUploadResult struct {
	Media     *domain.Media
	UploadURL string
}

// InitUpload validates the declared content type, reserves a new media id and
// storage key, presigns a PUT URL for the client, and persists the record in
// the uploading status. Non-image content types are rejected before any row is
// created.
func (s *MediaService) InitUpload(ctx context.Context, filename, contentType string, size int64, alt string) (*InitUploadResult, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: unsupported content type %q", domain.ErrValidation, contentType)
	}
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrValidation)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", domain.ErrValidation)
	}

	id := uuid.NewString()
	key := uploadKey(id, filename)

	uploadURL, err := s.store.PresignUpload(ctx, key, contentType, s.presignExpiry)
	if err != nil {
		return nil, err
	}

	media := &domain.Media{
		ID:        id,
		Filename:  filename,
		MimeType:  contentType,
		Size:      size,
		Alt:       alt,
		Status:    domain.MediaStatusUploading,
		UploadKey: key,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.media.Create(ctx, media); err != nil {
		return nil, err
	}

	s.logger.Info().Str("media_id", id).Str("upload_key", key).Msg("upload initiated")
	return &InitUploadResult{Media: media, UploadURL: uploadURL}, nil
}

// ConfirmUpload transitions the record from uploading to processing and
// enqueues exactly one job. Confirming a missing record, or one in any other
// status, reports ErrNotFound. The call never waits for transcoding.
func (s *MediaService) ConfirmUpload(ctx context.Context, id string) (*domain.Media, error) {
	media, err := s.media.MarkProcessing(ctx, id)
	if err != nil {
		return nil, err
	}

	s.queue.Enqueue(domain.ProcessingJob{
		MediaID:   media.ID,
		UploadKey: media.UploadKey,
		Filename:  media.Filename,
		MimeType:  media.MimeType,
	})

	s.logger.Info().Str("media_id", media.ID).Msg("upload confirmed, job enqueued")
	return media, nil
}

// Update patches the alt text. Legal in any status. A nil alt leaves the row
// unchanged.
func (s *MediaService) Update(ctx context.Context, id string, alt *string) (*domain.Media, error) {
	if alt == nil {
		return s.media.GetByID(ctx, id)
	}
	return s.media.UpdateAlt(ctx, id, *alt)
}

// Delete removes the variant objects and the original from storage
// best-effort, then deletes the record. Storage failures are logged and
// swallowed; only a missing record fails the call.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	media, err := s.media.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.transcoder.DeleteVariants(ctx, media.ID)
	if media.UploadKey != "" {
		if err := s.store.Delete(ctx, media.UploadKey); err != nil {
			s.logger.Warn().Err(err).Str("media_id", media.ID).Msg("original delete failed")
		}
	}

	return s.media.Delete(ctx, id)
}

// Get returns one media record.
func (s *MediaService) Get(ctx context.Context, id string) (*domain.Media, error) {
	return s.media.GetByID(ctx, id)
}

// List returns a newest-first page plus the total count.
func (s *MediaService) List(ctx context.Context, limit, offset int) ([]domain.Media, int, error) {
	return s.media.List(ctx, limit, offset)
}

// uploadKey derives the object key the client will PUT to. It lives under the
// media id so deletion can sweep the whole prefix, and keeps the original
// extension for content-type sniffing on the storage side.
func uploadKey(id, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return fmt.Sprintf("media/%s/upload/%s", id, base)
}
