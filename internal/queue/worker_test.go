package queue

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server/internal/domain"
)

type fakeMediaRepo struct {
	mu     sync.Mutex
	rows   map[string]*domain.Media
	failMu sync.Mutex
	// failWrites makes MarkFailed itself error, to prove the loop survives a
	// failed failure-write.
	failWrites bool
}

func newFakeMediaRepo(rows ...*domain.Media) *fakeMediaRepo {
	repo := &fakeMediaRepo{rows: make(map[string]*domain.Media)}
	for _, row := range rows {
		repo.rows[row.ID] = row
	}
	return repo
}

func (f *fakeMediaRepo) Create(ctx context.Context, media *domain.Media) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[media.ID] = media
	return nil
}

func (f *fakeMediaRepo) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (f *fakeMediaRepo) List(ctx context.Context, limit, offset int) ([]domain.Media, int, error) {
	return nil, 0, nil
}

func (f *fakeMediaRepo) UpdateAlt(ctx context.Context, id, alt string) (*domain.Media, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeMediaRepo) MarkProcessing(ctx context.Context, id string) (*domain.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok || row.Status != domain.MediaStatusUploading {
		return nil, domain.ErrNotFound
	}
	row.Status = domain.MediaStatusProcessing
	copied := *row
	return &copied, nil
}

func (f *fakeMediaRepo) EnsureProcessing(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[id]; ok && !row.IsTerminal() {
		row.Status = domain.MediaStatusProcessing
	}
	return nil
}

func (f *fakeMediaRepo) MarkReady(ctx context.Context, id string, res *domain.TranscodeResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok || row.Status != domain.MediaStatusProcessing {
		return domain.ErrNotFound
	}
	row.Status = domain.MediaStatusReady
	row.URLs = res.URLs
	row.Width = res.Width
	row.Height = res.Height
	row.Size = res.Size
	row.MimeType = res.MimeType
	return nil
}

func (f *fakeMediaRepo) MarkFailed(ctx context.Context, id string) error {
	f.failMu.Lock()
	shouldFail := f.failWrites
	f.failMu.Unlock()
	if shouldFail {
		return errors.New("db down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok || row.Status != domain.MediaStatusProcessing {
		return domain.ErrNotFound
	}
	row.Status = domain.MediaStatusFailed
	row.URLs = nil
	row.Width = 0
	row.Height = 0
	return nil
}

func (f *fakeMediaRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failGet bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, &domain.StorageError{Op: "get_object", Key: key, Err: errors.New("unavailable")}
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, &domain.StorageError{Op: "get_object", Key: key, Err: errors.New("no such key")}
	}
	return data, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) PresignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	return "https://storage.test/presigned/" + key, nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://storage.test/" + key
}

type fakeTranscoder struct {
	mu        sync.Mutex
	processed []string
	delay     time.Duration
	failFor   map[string]bool
	done      chan string
}

func newFakeTranscoder() *fakeTranscoder {
	return &fakeTranscoder{failFor: make(map[string]bool), done: make(chan string, 16)}
}

func (f *fakeTranscoder) Process(ctx context.Context, id string, original []byte, filename string) (*domain.TranscodeResult, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.processed = append(f.processed, id)
	shouldFail := f.failFor[id]
	f.mu.Unlock()

	defer func() { f.done <- id }()
	if shouldFail {
		return nil, &domain.ImageProcessingError{Stage: "decode", Err: errors.New("corrupt input")}
	}
	return &domain.TranscodeResult{
		URLs: map[string]string{
			"original":  "https://storage.test/media/" + id + "/original.jpg",
			"thumbnail": "https://storage.test/media/" + id + "/thumbnail.jpg",
			"small":     "https://storage.test/media/" + id + "/small.jpg",
			"large":     "https://storage.test/media/" + id + "/large.jpg",
		},
		Width:    640,
		Height:   480,
		Size:     int64(len(original)),
		MimeType: "image/jpeg",
	}, nil
}

func (f *fakeTranscoder) DeleteVariants(ctx context.Context, id string) {}

func (f *fakeTranscoder) order() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.processed))
	copy(out, f.processed)
	return out
}

func waitFor(t *testing.T, done <-chan string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
}

func processingMedia(id string) *domain.Media {
	return &domain.Media{
		ID:        id,
		Filename:  id + ".png",
		MimeType:  "image/png",
		Size:      100,
		Status:    domain.MediaStatusProcessing,
		UploadKey: "media/" + id + "/upload/" + id + ".png",
	}
}

func jobFor(media *domain.Media) domain.ProcessingJob {
	return domain.ProcessingJob{
		MediaID:   media.ID,
		UploadKey: media.UploadKey,
		Filename:  media.Filename,
		MimeType:  media.MimeType,
	}
}

func TestWorkerSuccessMarksReady(t *testing.T) {
	media := processingMedia("m1")
	repo := newFakeMediaRepo(media)
	store := newFakeStore()
	store.objects[media.UploadKey] = []byte("png-bytes")
	trans := newFakeTranscoder()

	q := New()
	defer q.Close()
	NewWorker(q, repo, store, trans, zerolog.Nop()).Start()

	q.Enqueue(jobFor(media))
	waitFor(t, trans.done, 1)

	// The ready write happens after Process returns; poll briefly.
	require.Eventually(t, func() bool {
		row, err := repo.GetByID(context.Background(), "m1")
		return err == nil && row.Status == domain.MediaStatusReady
	}, 2*time.Second, 10*time.Millisecond)

	row, err := repo.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Len(t, row.URLs, 4)
	assert.Equal(t, 640, row.Width)
	assert.Equal(t, 480, row.Height)
	assert.Equal(t, int64(len("png-bytes")), row.Size)
	assert.Equal(t, "image/jpeg", row.MimeType)
}

func TestWorkerDownloadFailureMarksFailed(t *testing.T) {
	media := processingMedia("m1")
	repo := newFakeMediaRepo(media)
	store := newFakeStore()
	store.failGet = true
	trans := newFakeTranscoder()

	q := New()
	defer q.Close()
	NewWorker(q, repo, store, trans, zerolog.Nop()).Start()

	q.Enqueue(jobFor(media))

	require.Eventually(t, func() bool {
		row, err := repo.GetByID(context.Background(), "m1")
		return err == nil && row.Status == domain.MediaStatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	row, err := repo.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Nil(t, row.URLs)
	assert.Zero(t, row.Width)
	assert.Zero(t, row.Height)
	assert.Empty(t, trans.order(), "transcoder must not run when download fails")
}

func TestWorkerSurvivesTranscodeFailure(t *testing.T) {
	failing := processingMedia("bad")
	healthy := processingMedia("good")
	repo := newFakeMediaRepo(failing, healthy)
	store := newFakeStore()
	store.objects[failing.UploadKey] = []byte("x")
	store.objects[healthy.UploadKey] = []byte("y")
	trans := newFakeTranscoder()
	trans.failFor["bad"] = true

	q := New()
	defer q.Close()
	NewWorker(q, repo, store, trans, zerolog.Nop()).Start()

	q.Enqueue(jobFor(failing))
	q.Enqueue(jobFor(healthy))
	waitFor(t, trans.done, 2)

	require.Eventually(t, func() bool {
		bad, _ := repo.GetByID(context.Background(), "bad")
		good, _ := repo.GetByID(context.Background(), "good")
		return bad != nil && bad.Status == domain.MediaStatusFailed &&
			good != nil && good.Status == domain.MediaStatusReady
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerSurvivesFailedFailureWrite(t *testing.T) {
	failing := processingMedia("bad")
	healthy := processingMedia("good")
	repo := newFakeMediaRepo(failing, healthy)
	repo.failWrites = true
	store := newFakeStore()
	store.objects[failing.UploadKey] = []byte("x")
	store.objects[healthy.UploadKey] = []byte("y")
	trans := newFakeTranscoder()
	trans.failFor["bad"] = true

	q := New()
	defer q.Close()
	NewWorker(q, repo, store, trans, zerolog.Nop()).Start()

	q.Enqueue(jobFor(failing))
	q.Enqueue(jobFor(healthy))
	waitFor(t, trans.done, 2)

	require.Eventually(t, func() bool {
		good, _ := repo.GetByID(context.Background(), "good")
		return good != nil && good.Status == domain.MediaStatusReady
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerProcessesJobsInOrder(t *testing.T) {
	var medias []*domain.Media
	for _, id := range []string{"a", "b", "c", "d"} {
		medias = append(medias, processingMedia(id))
	}
	repo := newFakeMediaRepo(medias...)
	store := newFakeStore()
	for _, m := range medias {
		store.objects[m.UploadKey] = []byte("bytes")
	}
	trans := newFakeTranscoder()
	trans.delay = 20 * time.Millisecond

	q := New()
	defer q.Close()
	NewWorker(q, repo, store, trans, zerolog.Nop()).Start()

	for _, m := range medias {
		q.Enqueue(jobFor(m))
	}
	waitFor(t, trans.done, len(medias))

	assert.Equal(t, []string{"a", "b", "c", "d"}, trans.order())
}
