package domain

import (
	"context"
	"io"
	"time"
)

// MediaRepository defines persistence for media records. Status transitions
// are conditional single-row writes; a transition whose precondition does not
// hold reports ErrNotFound so racing writers fail closed.
type MediaRepository interface {
	Create(ctx context.Context, media *Media) error
	GetByID(ctx context.Context, id string) (*Media, error)
	List(ctx context.Context, limit, offset int) ([]Media, int, error)
	UpdateAlt(ctx context.Context, id, alt string) (*Media, error)

	// MarkProcessing transitions uploading -> processing and returns the
	// updated row. Any other current status yields ErrNotFound.
	MarkProcessing(ctx context.Context, id string) (*Media, error)

	// EnsureProcessing re-asserts the processing status without failing on a
	// row that is already processing. Terminal rows are left untouched.
	EnsureProcessing(ctx context.Context, id string) error

	MarkReady(ctx context.Context, id string, res *TranscodeResult) error
	MarkFailed(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ObjectStorage abstracts the S3-compatible object store.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	PresignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	PublicURL(key string) string
}

// Transcoder produces the variant set for one media asset.
type Transcoder interface {
	Process(ctx context.Context, id string, original []byte, filename string) (*TranscodeResult, error)

	// DeleteVariants removes every variant object, best-effort.
	DeleteVariants(ctx context.Context, id string)
}

// JobQueue accepts processing jobs for the background worker. Enqueue never
// blocks.
type JobQueue interface {
	Enqueue(job ProcessingJob)
}

// PostRepository defines persistence for posts.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, limit, offset int) ([]Post, int, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines persistence for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
}

// GalleryRepository defines persistence for galleries.
type GalleryRepository interface {
	Create(ctx context.Context, gallery *Gallery) error
	GetByID(ctx context.Context, id string) (*Gallery, error)
	List(ctx context.Context, limit, offset int) ([]Gallery, int, error)
	Update(ctx context.Context, gallery *Gallery) error
	Delete(ctx context.Context, id string) error
}

// HomePageRepository reads and writes the singleton home page row.
type HomePageRepository interface {
	Get(ctx context.Context) (*HomePage, error)
	Update(ctx context.Context, page *HomePage) error
}
