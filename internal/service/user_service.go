package service

import (
	"context"
	"fmt"

	"microblog/internal/models"
	"microblog/internal/repository"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, username, aboutMe string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	// username мог не меняться - unique-ограничение сработает только на чужом
	user.Username = username
	user.AboutMe = aboutMe

	return s.userRepo.UpdateProfile(ctx, user)
}

// FollowUser подписывает follower на пользователя с именем username.
// Self-follow отклоняется здесь, на уровне приложения.
func (s *UserService) FollowUser(ctx context.Context, followerID int64, username string) (*models.User, error) {
	target, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if target.ID == followerID {
		return nil, fmt.Errorf("follow %s: %w", username, ErrSelfFollow)
	}

	if err := s.followRepo.Follow(ctx, followerID, target.ID); err != nil {
		return nil, err
	}

	return target, nil
}

func (s *UserService) UnfollowUser(ctx context.Context, followerID int64, username string) (*models.User, error) {
	target, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if target.ID == followerID {
		return nil, fmt.Errorf("unfollow %s: %w", username, ErrSelfFollow)
	}

	if err := s.followRepo.Unfollow(ctx, followerID, target.ID); err != nil {
		return nil, err
	}

	return target, nil
}

func (s *UserService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followedID)
}

// ProfileStats - счетчики для страницы профиля
type ProfileStats struct {
	Followers int
	Following int
}

func (s *UserService) Stats(ctx context.Context, userID int64) (*ProfileStats, error) {
	followers, err := s.followRepo.FollowerCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	following, err := s.followRepo.FollowingCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileStats{Followers: followers, Following: following}, nil
}
