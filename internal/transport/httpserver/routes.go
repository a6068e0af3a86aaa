package httpserver

import (
	"net/http"
	"time"

	"church-admin-go/internal/config"
	"church-admin-go/internal/transport/httpserver/handler"
	authmw "church-admin-go/internal/transport/httpserver/middleware"
	"church-admin-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewJWTAuth(cfg.Auth, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Route("/families", func(r chi.Router) {
				r.Get("/", handlers.ListFamilies)
				r.Post("/", handlers.CreateFamily)
				r.Get("/trash", handlers.ListFamilyTrash)
				r.Get("/{id}", handlers.GetFamily)
				r.Put("/{id}", handlers.UpdateFamily)
				r.Delete("/{id}", handlers.DeleteFamily)
				r.Patch("/{id}/restore", handlers.RestoreFamily)
				r.Delete("/{id}/permanent", handlers.PermanentlyDeleteFamily)
				r.Post("/{id}/members", handlers.AddMember)
				r.Put("/{id}/assign-head", handlers.AssignHead)
			})

			r.Route("/believers", func(r chi.Router) {
				r.Get("/", handlers.ListBelievers)
				r.Get("/trash", handlers.ListBelieverTrash)
				r.Delete("/trash/empty", handlers.EmptyBelieverTrash)
				r.Get("/{id}", handlers.GetBeliever)
				r.Put("/{id}", handlers.UpdateBeliever)
				r.Delete("/{id}", handlers.DeleteBeliever)
				r.Patch("/{id}/restore", handlers.RestoreBeliever)
				r.Delete("/{id}/permanent", handlers.PermanentlyDeleteBeliever)
			})

			r.Get("/dashboard/stats", handlers.DashboardStats)
			r.Get("/dashboard/reminders", handlers.DashboardReminders)
		})
	})

	return r
}
