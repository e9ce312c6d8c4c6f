package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"microblog/internal/models"
)

type PostRepositoryImpl struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

// postColumns - столбцы поста вместе с данными автора для рендеринга
const postColumns = `
	p.id, p.author_id, p.body, p.created_at,
	u.username AS author_username, u.email AS author_email
`

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (author_id, body, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	post.CreatedAt = time.Now().UTC()

	err := r.db.GetContext(ctx, &post.ID, query, post.AuthorID, post.Body, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`

	var post models.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост с ID %d: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) ByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`

	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts, query, authorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов пользователя: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) All(ctx context.Context, limit, offset int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`

	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении глобальной ленты: %w", err)
	}

	return posts, nil
}

// Feed возвращает собственные посты пользователя вместе с постами тех, на кого
// он подписан. Подзапрос IN не размножает строки, поэтому дедупликация не
// нужна; порядок детерминирован за счет вторичного ключа id.
func (r *PostRepositoryImpl) Feed(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		   OR p.author_id IN (SELECT followed_id FROM followers WHERE follower_id = $1)
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`

	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении ленты: %w", err)
	}

	return posts, nil
}
