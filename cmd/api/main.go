package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"microblog/cmd/app"
	"microblog/internal/config"
	handlers "microblog/internal/handler"
	"microblog/internal/logger"
	"microblog/internal/session"
	"microblog/internal/storage"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	log := logger.Must(os.Getenv("LOG_LEVEL"))
	defer log.Sync()

	if cfg.SecretKey == "" {
		log.Fatal("SECRET_KEY не установлен в .env файле")
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatal("не удалось инициализировать MinIO", zap.Error(err))
	}

	db, repo, services, mailClient := app.App(cfg, log, minioClient)
	defer db.CloseDB()

	sessions := session.NewStore(cfg.SecretKey)

	templates, err := handlers.NewTemplates("web/templates")
	if err != nil {
		log.Fatal("не удалось загрузить шаблоны", zap.Error(err))
	}

	handler := handlers.NewHandlers(repo, services, sessions, mailClient, cfg, log, templates)

	r := mux.NewRouter()

	// setting up routes
	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	r.HandleFunc("/", handler.RequireLogin(handler.Index)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/index", handler.RequireLogin(handler.Index)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/explore", handler.RequireLogin(handler.Explore)).Methods(http.MethodGet)

	r.HandleFunc("/login", handler.Login).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/logout", handler.Logout).Methods(http.MethodGet)
	r.HandleFunc("/register", handler.Register).Methods(http.MethodGet, http.MethodPost)

	r.HandleFunc("/user/{username}", handler.RequireLogin(handler.Profile)).Methods(http.MethodGet)
	r.HandleFunc("/edit_profile", handler.RequireLogin(handler.EditProfile)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/follow/{username}", handler.RequireLogin(handler.Follow)).Methods(http.MethodPost)
	r.HandleFunc("/unfollow/{username}", handler.RequireLogin(handler.Unfollow)).Methods(http.MethodPost)

	r.HandleFunc("/reset_password_request", handler.ResetPasswordRequest).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/reset_password/{token}", handler.ResetPassword).Methods(http.MethodGet, http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)

	csrfProtect := csrf.Protect([]byte(cfg.SecretKey), csrf.Secure(cfg.SecureCookies()))

	handlerChain := handlers.Chain(
		r,
		csrfProtect,
		handler.AuthMiddleware,
		handlers.LoggingMiddleware(log),
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Info("сервер запущен",
		zap.String("addr", addr),
		zap.String("db", cfg.DB.DbNAME))

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatal("ошибка запуска сервера", zap.Error(err))
	}
}
