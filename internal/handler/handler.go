package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"microblog/internal/config"
	"microblog/internal/mailer"
	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/service"
	"microblog/internal/session"
)

type Handlers struct {
	AuthService *service.AuthService
	FeedService *service.FeedService
	UserService *service.UserService
	UserRepo    repository.UserRepository
	Sessions    *session.Store
	Mailer      *mailer.Mailer
	Cfg         *config.Config
	Validate    *validator.Validate
	Log         *zap.Logger
	Templates   *Templates
}

func NewHandlers(repo *repository.Repository, services *service.Service, sessions *session.Store, m *mailer.Mailer, cfg *config.Config, log *zap.Logger, templates *Templates) *Handlers {
	return &Handlers{
		AuthService: services.Auth,
		FeedService: services.Feed,
		UserService: services.User,
		UserRepo:    repo.User,
		Sessions:    sessions,
		Mailer:      m,
		Cfg:         cfg,
		Validate:    validator.New(),
		Log:         log,
		Templates:   templates,
	}
}

// currentUser достает пользователя, положенного в контекст AuthMiddleware
func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
