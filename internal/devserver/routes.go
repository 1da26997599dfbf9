package devserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route(s.cfg.BasePath, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Post("/verify-2fa", s.verifyTwoFactor)
			r.Post("/signup", s.signup)
			r.Post("/verify", s.verify)
			r.Post("/resend-verification", s.resendVerification)
			r.Post("/forgot-password", s.forgotPassword)
			r.Post("/reset-password", s.resetPassword)
		})

		r.Route("/shared-entry", func(r chi.Router) {
			r.With(s.optionalAuth).Get("/{id}", s.getShare)
			r.With(s.requireAuth).Post("/new", s.createShare)
			r.With(s.requireAuth).Post("/{id}/add-user", s.addShareUser)
			r.With(s.requireAuth).Delete("/{id}/remove-user", s.removeShareUser)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/entry", func(r chi.Router) {
				r.Get("/", s.listEntries)
				r.Post("/", s.createEntry)
				r.Get("/uuid/{uuid}", s.getEntryByUUID)
				r.Get("/date/{date}", s.listEntriesByDate)
				r.Get("/time-range", s.listEntriesByTimeRange)
				r.Post("/tag", s.listEntriesByTags)
				r.Get("/search", s.searchEntries)
				r.Get("/folder/{folderID}", s.listEntriesByFolder)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.getEntry)
					r.Delete("/", s.deleteEntry)
					r.Put("/update", s.updateEntry)
					r.Post("/tag/new", s.addTags)
					r.Delete("/tag/{tag}", s.removeTag)
					r.Post("/add-to-folder/{folderID}", s.addToFolder)
					r.Delete("/remove-from-folder", s.removeFromFolder)
					r.Get("/media", s.listMedia)
					r.Post("/media/new", s.uploadMedia)
				})
			})

			r.Get("/tags", s.listTags)
			r.Get("/media/{id}", s.downloadMedia)

			r.Route("/folder", func(r chi.Router) {
				r.Get("/", s.listFolders)
				r.Post("/", s.createFolder)
				r.Get("/{id}", s.getFolder)
				r.Put("/{id}/update-name/{name}", s.renameFolder)
				r.Delete("/{id}", s.deleteFolder)
			})

			r.Get("/ai/daily-prompt", s.dailyPrompt)
			r.Get("/user/me", s.me)
		})
	})

	return r
}
