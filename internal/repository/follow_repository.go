package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"microblog/internal/models"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow идемпотентен: повторная подписка не создает дубликата ребра
func (r *followRepository) Follow(ctx context.Context, followerID, followedID int64) error {
	query := `
		INSERT INTO followers (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return fmt.Errorf("ошибка при создании подписки: %w", err)
	}

	return nil
}

// Unfollow идемпотентен: удаление отсутствующего ребра - no-op
func (r *followRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	query := `DELETE FROM followers WHERE follower_id = $1 AND followed_id = $2`

	_, err := r.db.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении подписки: %w", err)
	}

	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM followers WHERE follower_id = $1 AND followed_id = $2`

	var count int
	err := r.db.GetContext(ctx, &count, query, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке подписки: %w", err)
	}

	return count > 0, nil
}

func (r *followRepository) Followers(ctx context.Context, userID int64) ([]models.User, error) {
	query := `
		SELECT u.* FROM users u
		JOIN followers f ON f.follower_id = u.id
		WHERE f.followed_id = $1
	`

	var users []models.User
	err := r.db.SelectContext(ctx, &users, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении подписчиков: %w", err)
	}

	return users, nil
}

func (r *followRepository) Following(ctx context.Context, userID int64) ([]models.User, error) {
	query := `
		SELECT u.* FROM users u
		JOIN followers f ON f.followed_id = u.id
		WHERE f.follower_id = $1
	`

	var users []models.User
	err := r.db.SelectContext(ctx, &users, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении подписок: %w", err)
	}

	return users, nil
}

func (r *followRepository) FollowerCount(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM followers WHERE followed_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте подписчиков: %w", err)
	}

	return count, nil
}

func (r *followRepository) FollowingCount(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM followers WHERE follower_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте подписок: %w", err)
	}

	return count, nil
}
