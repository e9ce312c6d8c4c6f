package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/service"
)

type editProfileForm struct {
	Username string `validate:"required,min=3,max=64,alphanum"`
	AboutMe  string `validate:"max=140"`
}

// pageParam читает ?page=N, по умолчанию 1
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

type profileView struct {
	User        *models.User
	Page        *service.Page
	PageNum     int
	Stats       *service.ProfileStats
	IsFollowing bool
	IsSelf      bool
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	me := currentUser(r)

	user, err := h.UserRepo.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	page := pageParam(r)
	posts, err := h.FeedService.PostsBy(r.Context(), user.ID, page, h.Cfg.PostsPerPage)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	stats, err := h.UserService.Stats(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	isFollowing := false
	if me.ID != user.ID {
		isFollowing, err = h.UserService.IsFollowing(r.Context(), me.ID, user.ID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
	}

	h.render(w, r, http.StatusOK, "user.html", user.Username, profileView{
		User:        user,
		Page:        posts,
		PageNum:     page,
		Stats:       stats,
		IsFollowing: isFollowing,
		IsSelf:      me.ID == user.ID,
	})
}

func (h *Handlers) EditProfile(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "edit_profile.html", "Редактирование профиля", me)
		return
	}

	form := editProfileForm{
		Username: r.PostFormValue("username"),
		AboutMe:  r.PostFormValue("about_me"),
	}

	if err := h.Validate.Struct(form); err != nil {
		h.flashAndRedirect(w, r, "Некорректные данные формы", "/edit_profile")
		return
	}

	err := h.UserService.UpdateProfile(r.Context(), me.ID, form.Username, form.AboutMe)
	if err != nil {
		h.handleError(w, r, err, "/edit_profile")
		return
	}

	h.flashAndRedirect(w, r, "Изменения сохранены", "/edit_profile")
}

func (h *Handlers) Follow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	me := currentUser(r)

	target, err := h.UserService.FollowUser(r.Context(), me.ID, username)
	if err != nil {
		if errors.Is(err, service.ErrSelfFollow) {
			h.flashAndRedirect(w, r, "Нельзя подписаться на самого себя!", "/user/"+username)
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			h.flashAndRedirect(w, r, fmt.Sprintf("Пользователь %s не найден", username), "/index")
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.flashAndRedirect(w, r, fmt.Sprintf("Вы подписаны на %s!", target.Username), "/user/"+username)
}

func (h *Handlers) Unfollow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	me := currentUser(r)

	target, err := h.UserService.UnfollowUser(r.Context(), me.ID, username)
	if err != nil {
		if errors.Is(err, service.ErrSelfFollow) {
			h.flashAndRedirect(w, r, "Нельзя отписаться от самого себя!", "/user/"+username)
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			h.flashAndRedirect(w, r, fmt.Sprintf("Пользователь %s не найден", username), "/index")
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.flashAndRedirect(w, r, fmt.Sprintf("Вы отписались от %s", target.Username), "/user/"+username)
}
