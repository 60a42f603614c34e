package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// CategoryRepositoryPG implements domain.CategoryRepository using PostgreSQL.
type CategoryRepositoryPG struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepositoryPG {
	return &CategoryRepositoryPG{pool: pool}
}

func (r *CategoryRepositoryPG) Create(ctx context.Context, category *domain.Category) error {
	query := `
INSERT INTO categories (id, name, slug, created_at)
VALUES ($1, $2, $3, $4);
`
	_, err := r.pool.Exec(ctx, query, category.ID, category.Name, category.Slug, category.CreatedAt)
	return dbErr("insert category", err)
}

func (r *CategoryRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, slug, created_at FROM categories WHERE id = $1;`, id)
	var category domain.Category
	if err := row.Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, dbErr("scan category", err)
	}
	return &category, nil
}

func (r *CategoryRepositoryPG) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug, created_at FROM categories ORDER BY name ASC;`)
	if err != nil {
		return nil, dbErr("list categories", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt); err != nil {
			return nil, dbErr("scan category", err)
		}
		categories = append(categories, category)
	}
	return categories, dbErr("list categories", rows.Err())
}

func (r *CategoryRepositoryPG) Update(ctx context.Context, category *domain.Category) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET name = $2, slug = $3 WHERE id = $1;`,
		category.ID, category.Name, category.Slug)
	if err != nil {
		return dbErr("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		return dbErr("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
