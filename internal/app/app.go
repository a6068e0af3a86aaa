package app

import (
	"fmt"
	"net/http"

	"church-admin-go/internal/config"
	"church-admin-go/internal/db"
	congregationdomain "church-admin-go/internal/domain/congregation"
	"church-admin-go/internal/repository/inmemory"
	congregationrepo "church-admin-go/internal/repository/postgres/congregation"
	"church-admin-go/internal/transport/httpserver"
	"church-admin-go/internal/transport/httpserver/handler"
	"church-admin-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	repo := congregationrepo.NewPostgres(dbConn)
	statsCache := inmemory.NewStatsCache()
	congregationService := congregationdomain.NewServiceWithCache(repo, statsCache, cfg.Dashboard.StatsCacheTTL, loc)

	handlers := handler.New(congregationService, cfg.Dashboard.ReminderDays, log)
	router := httpserver.NewRouter(cfg, handlers, log)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
