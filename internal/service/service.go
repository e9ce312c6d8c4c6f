package service

import (
	"errors"

	"go.uber.org/zap"

	"microblog/internal/config"
	"microblog/internal/repository"
)

var (
	// ErrValidation - некорректные данные формы (пустой или слишком длинный пост и т.п.)
	ErrValidation = errors.New("некорректные данные")
	// ErrAuthentication - неверный username/пароль или неизвестный пользователь
	ErrAuthentication = errors.New("неверный username или пароль")
	// ErrSelfFollow - попытка подписаться на самого себя
	ErrSelfFollow = errors.New("нельзя подписаться на самого себя")
)

type Service struct {
	Auth *AuthService
	Feed *FeedService
	User *UserService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage repository.Storage, mailer Mailer, log *zap.Logger) *Service {
	return &Service{
		Auth: NewAuthService(rep.User, cfg, mailer),
		Feed: NewFeedService(rep.Post, rep.Image, storage, cfg, log),
		User: NewUserService(rep.User, rep.Follow),
	}
}
