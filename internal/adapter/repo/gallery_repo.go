package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// GalleryRepositoryPG implements domain.GalleryRepository using PostgreSQL.
// The ordered media id list is stored as a jsonb array.
type GalleryRepositoryPG struct {
	pool *pgxpool.Pool
}

func NewGalleryRepository(pool *pgxpool.Pool) *GalleryRepositoryPG {
	return &GalleryRepositoryPG{pool: pool}
}

func (r *GalleryRepositoryPG) Create(ctx context.Context, gallery *domain.Gallery) error {
	mediaIDs, err := json.Marshal(orEmpty(gallery.MediaIDs))
	if err != nil {
		return err
	}
	query := `
INSERT INTO galleries (id, title, description, media_ids, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err = r.pool.Exec(ctx, query,
		gallery.ID, gallery.Title, gallery.Description, mediaIDs, gallery.CreatedAt, gallery.UpdatedAt)
	return dbErr("insert gallery", err)
}

func (r *GalleryRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Gallery, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, title, description, media_ids, created_at, updated_at
FROM galleries WHERE id = $1;
`, id)
	return scanGallery(row)
}

func (r *GalleryRepositoryPG) List(ctx context.Context, limit, offset int) ([]domain.Gallery, int, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, title, description, media_ids, created_at, updated_at
FROM galleries
ORDER BY created_at DESC
LIMIT $1 OFFSET $2;
`, limit, offset)
	if err != nil {
		return nil, 0, dbErr("list galleries", err)
	}
	defer rows.Close()

	var galleries []domain.Gallery
	for rows.Next() {
		gallery, err := scanGallery(rows)
		if err != nil {
			return nil, 0, err
		}
		galleries = append(galleries, *gallery)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dbErr("list galleries", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM galleries;`).Scan(&total); err != nil {
		return nil, 0, dbErr("count galleries", err)
	}
	return galleries, total, nil
}

func (r *GalleryRepositoryPG) Update(ctx context.Context, gallery *domain.Gallery) error {
	mediaIDs, err := json.Marshal(orEmpty(gallery.MediaIDs))
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
UPDATE galleries
SET title = $2, description = $3, media_ids = $4, updated_at = NOW()
WHERE id = $1;
`, gallery.ID, gallery.Title, gallery.Description, mediaIDs)
	if err != nil {
		return dbErr("update gallery", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GalleryRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM galleries WHERE id = $1;`, id)
	if err != nil {
		return dbErr("delete gallery", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanGallery(row pgx.Row) (*domain.Gallery, error) {
	var gallery domain.Gallery
	var mediaIDs []byte
	if err := row.Scan(
		&gallery.ID,
		&gallery.Title,
		&gallery.Description,
		&mediaIDs,
		&gallery.CreatedAt,
		&gallery.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, dbErr("scan gallery", err)
	}
	if len(mediaIDs) > 0 {
		if err := json.Unmarshal(mediaIDs, &gallery.MediaIDs); err != nil {
			return nil, dbErr("scan gallery", err)
		}
	}
	return &gallery, nil
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
