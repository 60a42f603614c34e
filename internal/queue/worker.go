package queue

import (
	"context"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// Worker is the single background consumer that turns processing jobs into
// finalized media records. Exactly one job is in flight per process; the
// serialization is a deliberate throttle on CPU-bound transcoding.
type Worker struct {
	queue      *Queue
	media      domain.MediaRepository
	store      domain.ObjectStorage
	transcoder domain.Transcoder
	logger     zerolog.Logger
}

func NewWorker(q *Queue, media domain.MediaRepository, store domain.ObjectStorage, transcoder domain.Transcoder, logger zerolog.Logger) *Worker {
	return &Worker{
		queue:      q,
		media:      media,
		store:      store,
		transcoder: transcoder,
		logger:     logger,
	}
}

// Start launches the consumer loop. Call it once at process startup. The loop
// survives every job failure and exits only when the queue is closed.
func (w *Worker) Start() {
	go w.run()
}

func (w *Worker) run() {
	w.logger.Info().Msg("media worker started")
	for {
		job, ok := w.queue.Take()
		if !ok {
			w.logger.Info().Msg("media worker stopped")
			return
		}
		w.process(job)
	}
}

func (w *Worker) process(job domain.ProcessingJob) {
	ctx := context.Background()
	log := w.logger.With().Str("media_id", job.MediaID).Logger()
	log.Info().Str("upload_key", job.UploadKey).Msg("processing media")

	// Confirm already set the status; re-assert in case the row was created by
	// an older server version.
	if err := w.media.EnsureProcessing(ctx, job.MediaID); err != nil {
		log.Warn().Err(err).Msg("could not re-assert processing status")
	}

	original, err := w.store.GetObject(ctx, job.UploadKey)
	if err != nil {
		w.fail(ctx, log, job.MediaID, err)
		return
	}

	res, err := w.transcoder.Process(ctx, job.MediaID, original, job.Filename)
	if err != nil {
		w.fail(ctx, log, job.MediaID, err)
		return
	}

	if err := w.media.MarkReady(ctx, job.MediaID, res); err != nil {
		w.fail(ctx, log, job.MediaID, err)
		return
	}

	log.Info().Int("width", res.Width).Int("height", res.Height).Int64("size", res.Size).Msg("media ready")
}

// fail marks the record failed. The status write itself is best-effort: a
// failure here must not take down the loop.
func (w *Worker) fail(ctx context.Context, log zerolog.Logger, mediaID string, cause error) {
	log.Error().Err(cause).Msg("media processing failed")
	if err := w.media.MarkFailed(ctx, mediaID); err != nil {
		log.Error().Err(err).Msg("could not mark media failed")
	}
}
