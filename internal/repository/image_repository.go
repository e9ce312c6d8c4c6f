package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"microblog/internal/models"
)

type ImageRepositoryImpl struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) *ImageRepositoryImpl {
	return &ImageRepositoryImpl{db: db}
}

func (r *ImageRepositoryImpl) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (post_id, image_url, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now().UTC()
	}

	err := r.db.GetContext(ctx, &image.ID, query, image.PostID, image.ImageURL, image.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при создании изображения: %w", err)
	}

	return nil
}

// GetByPostIDs загружает вложения сразу для страницы постов
func (r *ImageRepositoryImpl) GetByPostIDs(ctx context.Context, postIDs []int64) ([]models.Image, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	query := `SELECT * FROM images WHERE post_id = ANY($1) ORDER BY created_at`

	var images []models.Image
	err := r.db.SelectContext(ctx, &images, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении изображений: %w", err)
	}

	return images, nil
}
