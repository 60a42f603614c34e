package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// HomePageRepositoryPG reads and writes the singleton home page row.
type HomePageRepositoryPG struct {
	pool *pgxpool.Pool
}

func NewHomePageRepository(pool *pgxpool.Pool) *HomePageRepositoryPG {
	return &HomePageRepositoryPG{pool: pool}
}

func (r *HomePageRepositoryPG) Get(ctx context.Context) (*domain.HomePage, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, title, intro, hero_media_id, updated_at
FROM home_page WHERE id = $1;
`, domain.HomePageID)

	var page domain.HomePage
	if err := row.Scan(&page.ID, &page.Title, &page.Intro, &page.HeroMediaID, &page.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, dbErr("scan home page", err)
	}
	return &page, nil
}

func (r *HomePageRepositoryPG) Update(ctx context.Context, page *domain.HomePage) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE home_page
SET title = $2, intro = $3, hero_media_id = $4, updated_at = NOW()
WHERE id = $1;
`, domain.HomePageID, page.Title, page.Intro, page.HeroMediaID)
	if err != nil {
		return dbErr("update home page", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
