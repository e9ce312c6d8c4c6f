package repository

import (
	"context"
	"errors"
	"io"

	"github.com/jmoiron/sqlx"

	"microblog/internal/models"
)

var (
	// ErrNotFound - запись не найдена
	ErrNotFound = errors.New("запись не найдена")
	// ErrDuplicateIdentity - username или email уже заняты
	ErrDuplicateIdentity = errors.New("username или email уже заняты")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	SetPassword(ctx context.Context, userID int64, newPassword string) error
	VerifyPassword(ctx context.Context, username, password string) (*models.User, error)
	TouchLastSeen(ctx context.Context, userID int64) error
}

type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	Followers(ctx context.Context, userID int64) ([]models.User, error)
	Following(ctx context.Context, userID int64) ([]models.User, error)
	FollowerCount(ctx context.Context, userID int64) (int, error)
	FollowingCount(ctx context.Context, userID int64) (int, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID int64) (*models.Post, error)
	ByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]models.Post, error)
	All(ctx context.Context, limit, offset int) ([]models.Post, error)
	Feed(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByPostIDs(ctx context.Context, postIDs []int64) ([]models.Image, error)
}

// Storage - объектное хранилище для вложений постов
type Storage interface {
	UploadImage(ctx context.Context, postID int64, fileName string, file io.Reader, size int64) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
}

type Repository struct {
	User   UserRepository
	Follow FollowRepository
	Post   PostRepository
	Image  ImageRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:   NewUserRepository(db),
		Follow: NewFollowRepository(db),
		Post:   NewPostRepository(db),
		Image:  NewImageRepository(db),
	}
}
