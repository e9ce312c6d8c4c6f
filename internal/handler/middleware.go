package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	userContextKey      contextKey = "currentUser"
	requestIDContextKey contextKey = "requestID"
)

type Middleware func(http.Handler) http.Handler

func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware присваивает запросу id и логирует метод/путь/статус/длительность
func LoggingMiddleware(log *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.New().String()

			ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(ctx))

			log.Info("запрос обработан",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

// AuthMiddleware восстанавливает пользователя из cookie-сессии, кладет его в
// контекст и обновляет last_seen на каждом аутентифицированном запросе.
// Анонимные запросы проходят дальше без пользователя в контексте.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.Sessions.CurrentUserID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := h.UserRepo.GetUserByID(r.Context(), userID)
		if err != nil {
			// сессия указывает на несуществующего пользователя - сбрасываем ее
			h.Sessions.SignOut(w, r)
			next.ServeHTTP(w, r)
			return
		}

		if err := h.UserRepo.TouchLastSeen(r.Context(), user.ID); err != nil {
			h.Log.Warn("не удалось обновить last_seen",
				zap.Int64("user_id", user.ID),
				zap.Error(err))
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireLogin пускает только аутентифицированных, остальных отправляет
// на /login c параметром next для возврата
func (h *Handlers) RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			loginURL := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, loginURL, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// safeNext принимает только относительный same-origin путь, иначе /index
func safeNext(next string) string {
	if next == "" {
		return "/index"
	}

	parsed, err := url.Parse(next)
	if err != nil || parsed.Host != "" || parsed.Scheme != "" {
		return "/index"
	}
	if !strings.HasPrefix(parsed.Path, "/") || strings.HasPrefix(parsed.Path, "//") {
		return "/index"
	}

	return parsed.String()
}
