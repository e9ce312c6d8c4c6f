package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"microblog/internal/models"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) SetPassword(ctx context.Context, userID int64, newPassword string) error {
	args := m.Called(ctx, userID, newPassword)
	return args.Error(0)
}

func (m *mockUserRepository) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) TouchLastSeen(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockFollowRepository struct {
	mock.Mock
}

func (m *mockFollowRepository) Follow(ctx context.Context, followerID, followedID int64) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *mockFollowRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *mockFollowRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *mockFollowRepository) Followers(ctx context.Context, userID int64) ([]models.User, error) {
	args := m.Called(ctx, userID)
	if users, ok := args.Get(0).([]models.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFollowRepository) Following(ctx context.Context, userID int64) ([]models.User, error) {
	args := m.Called(ctx, userID)
	if users, ok := args.Get(0).([]models.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFollowRepository) FollowerCount(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockFollowRepository) FollowingCount(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if post, ok := args.Get(0).(*models.Post); ok {
		return post, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepository) ByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]models.Post, error) {
	args := m.Called(ctx, authorID, limit, offset)
	if posts, ok := args.Get(0).([]models.Post); ok {
		return posts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepository) All(ctx context.Context, limit, offset int) ([]models.Post, error) {
	args := m.Called(ctx, limit, offset)
	if posts, ok := args.Get(0).([]models.Post); ok {
		return posts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepository) Feed(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error) {
	args := m.Called(ctx, userID, limit, offset)
	if posts, ok := args.Get(0).([]models.Post); ok {
		return posts, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockImageRepository struct {
	mock.Mock
}

func (m *mockImageRepository) Create(ctx context.Context, image *models.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *mockImageRepository) GetByPostIDs(ctx context.Context, postIDs []int64) ([]models.Image, error) {
	args := m.Called(ctx, postIDs)
	if images, ok := args.Get(0).([]models.Image); ok {
		return images, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) UploadImage(ctx context.Context, postID int64, fileName string, file io.Reader, size int64) (string, string, error) {
	args := m.Called(ctx, postID, fileName, file, size)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockStorage) DeleteImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendPasswordReset(user *models.User, token string) {
	m.Called(user, token)
}
