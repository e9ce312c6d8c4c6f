package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"microblog/internal/models"
	"microblog/internal/service"
)

type feedView struct {
	Page     *service.Page
	PageNum  int
	ShowForm bool
}

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)

	if r.Method == http.MethodPost {
		h.createPost(w, r, me)
		return
	}

	page := pageParam(r)
	feed, err := h.FeedService.FeedFor(r.Context(), me.ID, page, h.Cfg.PostsPerPage)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "index.html", "Главная", feedView{
		Page:     feed,
		PageNum:  page,
		ShowForm: true,
	})
}

// Explore - глобальная лента без формы создания поста
func (h *Handlers) Explore(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	feed, err := h.FeedService.Explore(r.Context(), page, h.Cfg.PostsPerPage)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "index.html", "Обзор", feedView{
		Page:    feed,
		PageNum: page,
	})
}

func (h *Handlers) createPost(w http.ResponseWriter, r *http.Request, me *models.User) {
	// форма multipart из-за необязательного вложения
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.flashAndRedirect(w, r, "Некорректные данные формы", "/index")
		return
	}

	post, err := h.FeedService.CreatePost(r.Context(), me.ID, r.FormValue("body"))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.flashAndRedirect(w, r, "Пост должен быть непустым и не длиннее 140 символов", "/index")
			return
		}
		h.serverError(w, r, err)
		return
	}

	// вложение необязательно; ошибка загрузки не отменяет сам пост
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()

		_, attachErr := h.FeedService.AttachImage(r.Context(), post.ID, header.Filename, file, header.Size)
		if attachErr != nil {
			h.Log.Error("ошибка загрузки вложения",
				zap.Int64("post_id", post.ID),
				zap.Error(attachErr))
			h.flashAndRedirect(w, r, "Пост опубликован, но изображение загрузить не удалось", "/index")
			return
		}
	}

	h.flashAndRedirect(w, r, "Ваш пост опубликован!", "/index")
}
