package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"microblog/internal/repository"
)

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type registerForm struct {
	Username string `validate:"required,min=3,max=64,alphanum"`
	Email    string `validate:"required,email,max=120"`
	Password string `validate:"required,min=6"`
}

type resetRequestForm struct {
	Email string `validate:"required,email"`
}

type resetPasswordForm struct {
	Password  string `validate:"required,min=6"`
	Password2 string `validate:"required,eqfield=Password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	// залогиненному здесь делать нечего
	if currentUser(r) != nil {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}

	next := r.URL.Query().Get("next")

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "login.html", "Вход", map[string]string{"Next": next})
		return
	}

	form := loginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	if err := h.Validate.Struct(form); err != nil {
		h.flashAndRedirect(w, r, "Заполните username и пароль", "/login")
		return
	}

	user, err := h.AuthService.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		h.handleError(w, r, err, "/login")
		return
	}

	if err := h.Sessions.SignIn(w, r, user.ID); err != nil {
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/index", http.StatusSeeOther)
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "register.html", "Регистрация", nil)
		return
	}

	form := registerForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if err := h.Validate.Struct(form); err != nil {
		h.flashAndRedirect(w, r, "Некорректные данные формы", "/register")
		return
	}

	_, err := h.AuthService.Register(r.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentity) {
			h.flashAndRedirect(w, r, "Такой username или email уже заняты", "/register")
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.flashAndRedirect(w, r, "Поздравляем, вы зарегистрированы!", "/login")
}

func (h *Handlers) ResetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "reset_password_request.html", "Сброс пароля", nil)
		return
	}

	form := resetRequestForm{Email: r.PostFormValue("email")}

	if err := h.Validate.Struct(form); err != nil {
		h.flashAndRedirect(w, r, "Введите корректный email", "/reset_password_request")
		return
	}

	// ответ одинаков для известного и неизвестного адреса
	if err := h.AuthService.RequestPasswordReset(r.Context(), form.Email); err != nil {
		h.serverError(w, r, err)
		return
	}

	h.flashAndRedirect(w, r, "Проверьте почту: мы отправили инструкции по сбросу пароля", "/login")
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}

	token := mux.Vars(r)["token"]

	// токен проверяется до показа формы; недействительный - молча на главную
	user := h.AuthService.VerifyResetToken(r.Context(), token)
	if user == nil {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "reset_password.html", "Новый пароль", map[string]string{"Token": token})
		return
	}

	form := resetPasswordForm{
		Password:  r.PostFormValue("password"),
		Password2: r.PostFormValue("password2"),
	}

	if err := h.Validate.Struct(form); err != nil {
		h.flashAndRedirect(w, r, "Пароли не совпадают или слишком короткие", "/reset_password/"+token)
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), token, form.Password); err != nil {
		h.handleError(w, r, err, "/index")
		return
	}

	h.flashAndRedirect(w, r, "Пароль изменен", "/login")
}
