package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"microblog/internal/config"
	"microblog/internal/models"
	"microblog/internal/repository"
)

// Mailer - отправка писем; интерфейс определяет потребитель, реализация в internal/mailer
type Mailer interface {
	SendPasswordReset(user *models.User, token string)
}

type AuthService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	mailer   Mailer
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, mailer Mailer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		mailer:   mailer,
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	// pre-check, сама таблица защищена unique-ограничениями
	if existing, err := s.userRepo.GetUserByUsername(ctx, username); err == nil && existing != nil {
		return nil, fmt.Errorf("username %s: %w", username, repository.ErrDuplicateIdentity)
	}
	if existing, err := s.userRepo.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %s: %w", email, repository.ErrDuplicateIdentity)
	}

	user := &models.User{
		Username: username,
		Email:    email,
	}

	err := s.userRepo.CreateUser(ctx, user, password)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.VerifyPassword(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("ошибка аутентификации: %w", ErrAuthentication)
	}

	return user, nil
}

// IssueResetToken выдает подписанный HS256-токен сброса пароля с полезной
// нагрузкой {reset_password: userID, exp: now+ttl}
func (s *AuthService) IssueResetToken(userID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}

	claims := jwt.MapClaims{
		"reset_password": userID,
		"exp":            time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

// VerifyResetToken разбирает токен и возвращает пользователя. Fail-closed:
// на любой дефект (подпись, срок, формат, неизвестный пользователь)
// возвращается nil без различения причин.
func (s *AuthService) VerifyResetToken(ctx context.Context, tokenString string) *models.User {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})

	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	rawID, ok := claims["reset_password"].(float64)
	if !ok {
		return nil
	}

	user, err := s.userRepo.GetUserByID(ctx, int64(rawID))
	if err != nil {
		return nil
	}

	return user
}

// RequestPasswordReset отправляет письмо со ссылкой сброса, если адрес
// известен. Наружу не сообщается, существует ли такой адрес.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := s.IssueResetToken(user.ID, s.cfg.ResetTokenTTL)
	if err != nil {
		return err
	}

	s.mailer.SendPasswordReset(user, token)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	user := s.VerifyResetToken(ctx, tokenString)
	if user == nil {
		return fmt.Errorf("недействительный токен сброса: %w", ErrAuthentication)
	}

	return s.userRepo.SetPassword(ctx, user.ID, newPassword)
}
