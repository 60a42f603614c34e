package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const postColumns = `id, title, slug, excerpt, body, category_id, cover_media_id, published, created_at, updated_at`

// PostRepositoryPG implements domain.PostRepository using PostgreSQL.
type PostRepositoryPG struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepositoryPG {
	return &PostRepositoryPG{pool: pool}
}

func (r *PostRepositoryPG) Create(ctx context.Context, post *domain.Post) error {
	query := `
INSERT INTO posts (id, title, slug, excerpt, body, category_id, cover_media_id, published, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Body,
		post.CategoryID,
		post.CoverMediaID,
		post.Published,
		post.CreatedAt,
		post.UpdatedAt,
	)
	return dbErr("insert post", err)
}

func (r *PostRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1;`, id)
	return scanPost(row)
}

func (r *PostRepositoryPG) List(ctx context.Context, limit, offset int) ([]domain.Post, int, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+postColumns+` FROM posts
ORDER BY created_at DESC
LIMIT $1 OFFSET $2;
`, limit, offset)
	if err != nil {
		return nil, 0, dbErr("list posts", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dbErr("list posts", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts;`).Scan(&total); err != nil {
		return nil, 0, dbErr("count posts", err)
	}
	return posts, total, nil
}

func (r *PostRepositoryPG) Update(ctx context.Context, post *domain.Post) error {
	query := `
UPDATE posts
SET title = $2, slug = $3, excerpt = $4, body = $5, category_id = $6, cover_media_id = $7, published = $8, updated_at = NOW()
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Body,
		post.CategoryID,
		post.CoverMediaID,
		post.Published,
	)
	if err != nil {
		return dbErr("update post", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1;`, id)
	if err != nil {
		return dbErr("delete post", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Excerpt,
		&post.Body,
		&post.CategoryID,
		&post.CoverMediaID,
		&post.Published,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, dbErr("scan post", err)
	}
	return &post, nil
}
