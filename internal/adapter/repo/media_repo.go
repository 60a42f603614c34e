package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const mediaColumns = `id, filename, mime_type, size, COALESCE(alt, ''), urls, COALESCE(width, 0), COALESCE(height, 0), status, upload_key, created_at`

// MediaRepositoryPG implements domain.MediaRepository using PostgreSQL.
type MediaRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewMediaRepository creates a new media repository backed by PostgreSQL.
func NewMediaRepository(pool *pgxpool.Pool) *MediaRepositoryPG {
	return &MediaRepositoryPG{pool: pool}
}

// Create inserts a new media record.
func (r *MediaRepositoryPG) Create(ctx context.Context, media *domain.Media) error {
	query := `
INSERT INTO media (id, filename, mime_type, size, alt, status, upload_key, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8);
`
	_, err := r.pool.Exec(ctx, query,
		media.ID,
		media.Filename,
		media.MimeType,
		media.Size,
		media.Alt,
		media.Status,
		media.UploadKey,
		media.CreatedAt,
	)
	return dbErr("insert media", err)
}

// GetByID fetches a media record by its identifier.
func (r *MediaRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	query := fmt.Sprintf(`SELECT %s FROM media WHERE id = $1;`, mediaColumns)
	return scanMedia(r.pool.QueryRow(ctx, query, id))
}

// List returns a page of media ordered newest-first plus the total count.
func (r *MediaRepositoryPG) List(ctx context.Context, limit, offset int) ([]domain.Media, int, error) {
	query := fmt.Sprintf(`
SELECT %s FROM media
ORDER BY created_at DESC
LIMIT $1 OFFSET $2;
`, mediaColumns)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dbErr("list media", err)
	}
	defer rows.Close()

	var items []domain.Media
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *media)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dbErr("list media", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM media;`).Scan(&total); err != nil {
		return nil, 0, dbErr("count media", err)
	}
	return items, total, nil
}

// UpdateAlt patches the alt text regardless of status and returns the row.
func (r *MediaRepositoryPG) UpdateAlt(ctx context.Context, id, alt string) (*domain.Media, error) {
	query := fmt.Sprintf(`
UPDATE media SET alt = NULLIF($2, '')
WHERE id = $1
RETURNING %s;
`, mediaColumns)
	return scanMedia(r.pool.QueryRow(ctx, query, id, alt))
}

// MarkProcessing transitions uploading -> processing. A row in any other
// status (or a missing row) yields ErrNotFound so re-confirmation fails closed.
func (r *MediaRepositoryPG) MarkProcessing(ctx context.Context, id string) (*domain.Media, error) {
	query := fmt.Sprintf(`
UPDATE media SET status = $2
WHERE id = $1 AND status = $3
RETURNING %s;
`, mediaColumns)
	return scanMedia(r.pool.QueryRow(ctx, query, id, domain.MediaStatusProcessing, domain.MediaStatusUploading))
}

// EnsureProcessing re-asserts the processing status. Terminal rows are left
// untouched and no error is reported for them.
func (r *MediaRepositoryPG) EnsureProcessing(ctx context.Context, id string) error {
	query := `
UPDATE media SET status = $2
WHERE id = $1 AND status IN ($3, $2);
`
	_, err := r.pool.Exec(ctx, query, id, domain.MediaStatusProcessing, domain.MediaStatusUploading)
	return dbErr("update media status", err)
}

// MarkReady finalizes a processed record with its variant URLs, dimensions and
// canonical size/mime type. Only a processing row can become ready.
func (r *MediaRepositoryPG) MarkReady(ctx context.Context, id string, res *domain.TranscodeResult) error {
	urls, err := json.Marshal(res.URLs)
	if err != nil {
		return err
	}

	query := `
UPDATE media
SET status = $2, urls = $3, width = $4, height = $5, size = $6, mime_type = $7
WHERE id = $1 AND status = $8;
`
	tag, err := r.pool.Exec(ctx, query,
		id,
		domain.MediaStatusReady,
		urls,
		res.Width,
		res.Height,
		res.Size,
		res.MimeType,
		domain.MediaStatusProcessing,
	)
	if err != nil {
		return dbErr("update media", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkFailed moves a processing record to the terminal failed status, clearing
// any partial variant data.
func (r *MediaRepositoryPG) MarkFailed(ctx context.Context, id string) error {
	query := `
UPDATE media
SET status = $2, urls = NULL, width = NULL, height = NULL
WHERE id = $1 AND status = $3;
`
	tag, err := r.pool.Exec(ctx, query, id, domain.MediaStatusFailed, domain.MediaStatusProcessing)
	if err != nil {
		return dbErr("update media", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the record, reporting ErrNotFound when zero rows matched
// (e.g. a race with a concurrent delete).
func (r *MediaRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id = $1;`, id)
	if err != nil {
		return dbErr("delete media", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMedia(row pgx.Row) (*domain.Media, error) {
	var media domain.Media
	var urls []byte
	if err := row.Scan(
		&media.ID,
		&media.Filename,
		&media.MimeType,
		&media.Size,
		&media.Alt,
		&urls,
		&media.Width,
		&media.Height,
		&media.Status,
		&media.UploadKey,
		&media.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, dbErr("scan media", err)
	}
	if len(urls) > 0 {
		if err := json.Unmarshal(urls, &media.URLs); err != nil {
			return nil, dbErr("scan media", err)
		}
	}
	return &media, nil
}
