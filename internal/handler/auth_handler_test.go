package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"microblog/internal/models"
	"microblog/internal/repository"
)

func TestLoginHandler(t *testing.T) {
	t.Run("GET отдает форму входа", func(t *testing.T) {
		h, _ := newTestHandlers(t)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Вход")
	})

	t.Run("Успешный вход уходит на безопасный next", func(t *testing.T) {
		h, repos := newTestHandlers(t)
		router := newTestRouter(h)

		repos.user.On("VerifyPassword", mock.Anything, "john", "cat").
			Return(&models.User{ID: 1, Username: "john"}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postForm("/login?next="+url.QueryEscape("/explore?page=2"), url.Values{
			"username": {"john"},
			"password": {"cat"},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/explore?page=2", w.Header().Get("Location"))

		// сессия установлена
		next := httptest.NewRequest(http.MethodGet, "/index", nil)
		for _, c := range w.Result().Cookies() {
			next.AddCookie(c)
		}
		userID, ok := h.Sessions.CurrentUserID(next)
		require.True(t, ok)
		assert.Equal(t, int64(1), userID)
	})

	t.Run("Внешний next игнорируется", func(t *testing.T) {
		h, repos := newTestHandlers(t)
		router := newTestRouter(h)

		repos.user.On("VerifyPassword", mock.Anything, "john", "cat").
			Return(&models.User{ID: 1, Username: "john"}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postForm("/login?next="+url.QueryEscape("http://evil.example.com/phish"), url.Values{
			"username": {"john"},
			"password": {"cat"},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/index", w.Header().Get("Location"))
	})

	t.Run("Неверный пароль - flash и возврат на /login", func(t *testing.T) {
		h, repos := newTestHandlers(t)
		router := newTestRouter(h)

		repos.user.On("VerifyPassword", mock.Anything, "john", "dog").
			Return(nil, repository.ErrNotFound)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postForm("/login", url.Values{
			"username": {"john"},
			"password": {"dog"},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Contains(t, flashesAfter(h, w), "Неверный username или пароль")
	})

	t.Run("Залогиненный уходит на главную", func(t *testing.T) {
		h, _ := newTestHandlers(t)
		router := newTestRouter(h)

		r := asUser(httptest.NewRequest(http.MethodGet, "/login", nil), &models.User{ID: 1, Username: "john"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/index", w.Header().Get("Location"))
	})
}

func TestResetPasswordHandler(t *testing.T) {
	t.Run("Недействительный токен - молча на главную", func(t *testing.T) {
		h, repos := newTestHandlers(t)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reset_password/not-a-token", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/index", w.Header().Get("Location"))
		repos.user.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("Действительный токен показывает форму", func(t *testing.T) {
		h, repos := newTestHandlers(t)
		router := newTestRouter(h)

		repos.user.On("GetUserByID", mock.Anything, int64(7)).
			Return(&models.User{ID: 7, Username: "susan"}, nil)

		token, err := h.AuthService.IssueResetToken(7, time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reset_password/"+token, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Новый пароль")
	})

	t.Run("POST с действительным токеном меняет пароль", func(t *testing.T) {
		h, repos := newTestHandlers(t)
		router := newTestRouter(h)

		repos.user.On("GetUserByID", mock.Anything, int64(7)).
			Return(&models.User{ID: 7, Username: "susan"}, nil)
		repos.user.On("SetPassword", mock.Anything, int64(7), "newpassword").Return(nil)

		token, err := h.AuthService.IssueResetToken(7, time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postForm("/reset_password/"+token, url.Values{
			"password":  {"newpassword"},
			"password2": {"newpassword"},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		repos.user.AssertCalled(t, "SetPassword", mock.Anything, int64(7), "newpassword")
	})
}
