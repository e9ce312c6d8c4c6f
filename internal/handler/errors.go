package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"microblog/internal/repository"
	"microblog/internal/service"
)

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := h.Templates.pages["404.html"]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	tmpl.ExecuteTemplate(w, "base", viewData{Title: "Страница не найдена", CurrentUser: currentUser(r)})
}

// serverError логирует ошибку, уведомляет администраторов и отдает страницу 500
func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestIDFrom(r)

	h.Log.Error("внутренняя ошибка",
		zap.String("request_id", requestID),
		zap.String("path", r.URL.Path),
		zap.Error(err))

	h.Mailer.SendErrorAlert(requestID, err)

	tmpl, ok := h.Templates.pages["500.html"]
	if !ok {
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	tmpl.ExecuteTemplate(w, "base", viewData{Title: "Внутренняя ошибка", CurrentUser: currentUser(r)})
}

// flashAndRedirect - стандартное завершение мутации: сообщение плюс redirect
func (h *Handlers) flashAndRedirect(w http.ResponseWriter, r *http.Request, message, location string) {
	h.Sessions.AddFlash(w, r, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// handleError переводит ошибки доменного слоя в пользовательский ответ;
// все, что не входит в таксономию, считается инфраструктурной 500-й
func (h *Handlers) handleError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.NotFound(w, r)
	case errors.Is(err, repository.ErrDuplicateIdentity):
		h.flashAndRedirect(w, r, "Такой username или email уже заняты", fallback)
	case errors.Is(err, service.ErrSelfFollow):
		h.flashAndRedirect(w, r, "Нельзя подписаться на самого себя!", fallback)
	case errors.Is(err, service.ErrValidation):
		h.flashAndRedirect(w, r, "Некорректные данные формы", fallback)
	case errors.Is(err, service.ErrAuthentication):
		h.flashAndRedirect(w, r, "Неверный username или пароль", fallback)
	default:
		h.serverError(w, r, err)
	}
}
