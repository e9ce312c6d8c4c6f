package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gorilla/csrf"

	"microblog/internal/models"
)

// Templates - набор страниц, каждая собрана вместе с base.html
type Templates struct {
	pages map[string]*template.Template
}

// funcMap - арифметика страниц для ссылок пагинации
var funcMap = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

func NewTemplates(dir string) (*Templates, error) {
	base := filepath.Join(dir, "base.html")

	pageFiles, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска шаблонов: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, page := range pageFiles {
		name := filepath.Base(page)
		if name == "base.html" {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFiles(base, page)
		if err != nil {
			return nil, fmt.Errorf("ошибка разбора шаблона %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Templates{pages: pages}, nil
}

// viewData - общие данные каждой страницы плюс данные конкретной страницы
type viewData struct {
	Title       string
	CurrentUser *models.User
	Flashes     []string
	CSRFField   template.HTML
	Data        any
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	tmpl, ok := h.Templates.pages[page]
	if !ok {
		h.serverError(w, r, fmt.Errorf("шаблон %s не найден", page))
		return
	}

	vd := viewData{
		Title:       title,
		CurrentUser: currentUser(r),
		Flashes:     h.Sessions.Flashes(w, r),
		CSRFField:   csrf.TemplateField(r),
		Data:        data,
	}

	// рендер в буфер, чтобы ошибка шаблона не отдала полстраницы
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", vd); err != nil {
		h.serverError(w, r, fmt.Errorf("ошибка рендеринга %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
