package app

import (
	"go.uber.org/zap"

	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/mailer"
	"microblog/internal/repository"
	"microblog/internal/service"
)

func App(cfg *config.Config, log *zap.Logger, storage repository.Storage) (*database.DB, *repository.Repository, *service.Service, *mailer.Mailer) {
	// connection DB
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.Fatal("не удалось подключиться к БД", zap.Error(err))
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)

	m := mailer.NewMailer(cfg, log)

	services := service.NewService(repo, cfg, storage, m, log)

	return db, repo, services, m
}
