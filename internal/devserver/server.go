// Package devserver is a protocol-compatible stand-in for the production
// document-chat backend, used for local development and end-to-end tests.
package devserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server bundles the stub backend's state.
type Server struct {
	files      *FileStore
	trainer    *Trainer
	ai         *ModelStreamer
	chunkDelay time.Duration
}

// New assembles a server. ai may be nil; canned replies are used then.
// chunkDelay spaces out canned chat chunks so streaming is visible during
// manual testing; tests pass zero.
func New(files *FileStore, trainer *Trainer, ai *ModelStreamer, chunkDelay time.Duration) *Server {
	return &Server{
		files:      files,
		trainer:    trainer,
		ai:         ai,
		chunkDelay: chunkDelay,
	}
}

// Router wires the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api", func(api chi.Router) {
		api.Post("/upload", s.handleUpload("pdf"))
		api.Post("/csv/upload", s.handleUpload("csv"))

		api.Get("/pdf/list", s.handleList("pdf"))
		api.Get("/csv/list", s.handleList("csv"))
		api.Delete("/pdf/delete", s.handleDelete("pdf"))
		api.Delete("/csv/delete", s.handleDelete("csv"))

		api.Post("/{fileType}/chat", s.handleChat)
		api.Get("/csv/chart-data/{sessionID}", s.handleChartData)

		api.Post("/input/key", s.handleSetAPIKey)

		api.Post("/train", s.handleStartTraining)
		api.Get("/train/status", s.handleTrainingStatus)
		api.Get("/train/ws", s.trainer.handleFeed)
	})

	return r
}
