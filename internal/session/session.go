package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "microblog_session"
	userIDKey   = "user_id"
)

// Store - cookie-сессии, подписанные SECRET_KEY
type Store struct {
	store *sessions.CookieStore
}

func NewStore(secretKey string) *Store {
	store := sessions.NewCookieStore([]byte(secretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: store}
}

// SignIn сохраняет id пользователя в сессии
func (s *Store) SignIn(w http.ResponseWriter, r *http.Request, userID int64) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

func (s *Store) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, sessionName)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// CurrentUserID возвращает id из сессии; ok=false для анонима
func (s *Store) CurrentUserID(r *http.Request) (int64, bool) {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		return 0, false
	}

	userID, ok := sess.Values[userIDKey].(int64)
	if !ok || userID == 0 {
		return 0, false
	}

	return userID, true
}

// AddFlash откладывает сообщение до следующего запроса
func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, message string) {
	sess, _ := s.store.Get(r, sessionName)
	sess.AddFlash(message)
	sess.Save(r, w)
}

// Flashes забирает и очищает отложенные сообщения
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, _ := s.store.Get(r, sessionName)

	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	sess.Save(r, w)

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
