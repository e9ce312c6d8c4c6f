package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"microblog/internal/config"
	"microblog/internal/mailer"
	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/service"
	"microblog/internal/session"
)

type testRepos struct {
	user   *mockUserRepository
	follow *mockFollowRepository
	post   *mockPostRepository
	image  *mockImageRepository
}

// newTestHandlers собирает Handlers поверх мок-репозиториев с настоящими
// сервисами, шаблонами и cookie-сессиями
func newTestHandlers(t *testing.T) (*Handlers, *testRepos) {
	t.Helper()

	repos := &testRepos{
		user:   new(mockUserRepository),
		follow: new(mockFollowRepository),
		post:   new(mockPostRepository),
		image:  new(mockImageRepository),
	}

	cfg := &config.Config{
		SecretKey:     "test-secret-key",
		BaseURL:       "http://localhost:8080",
		PostsPerPage:  3,
		ResetTokenTTL: time.Hour,
	}
	log := zap.NewNop()

	templates, err := NewTemplates("../../web/templates")
	require.NoError(t, err)

	repo := &repository.Repository{
		User:   repos.user,
		Follow: repos.follow,
		Post:   repos.post,
		Image:  repos.image,
	}
	m := mailer.NewMailer(cfg, log)
	services := service.NewService(repo, cfg, nil, m, log)

	return NewHandlers(repo, services, session.NewStore(cfg.SecretKey), m, cfg, log, templates), repos
}

func newTestRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/login", h.Login).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/user/{username}", h.Profile).Methods(http.MethodGet)
	r.HandleFunc("/follow/{username}", h.Follow).Methods(http.MethodPost)
	r.HandleFunc("/unfollow/{username}", h.Unfollow).Methods(http.MethodPost)
	r.HandleFunc("/reset_password/{token}", h.ResetPassword).Methods(http.MethodGet, http.MethodPost)
	return r
}

// asUser кладет пользователя в контекст запроса, как это делает AuthMiddleware
func asUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userContextKey, user))
}

func postForm(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// flashesAfter читает flash-сообщения, отложенные обработчиком в cookie ответа
func flashesAfter(h *Handlers, w *httptest.ResponseRecorder) []string {
	r := httptest.NewRequest(http.MethodGet, "/index", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return h.Sessions.Flashes(httptest.NewRecorder(), r)
}
