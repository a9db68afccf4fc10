package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/watchman-lab/argus/pkg/utils/logging"
)

type Server struct {
	router             *chi.Mux
	commandHandler     *SlackCommandHandler
	eventHandler       *SlackEventHandler
	slackSigningSecret string
}

type Options func(*Server)

// WithSlackCommand registers the slash command endpoint. Requests are
// rejected unless they carry a valid Slack signature.
func WithSlackCommand(handler *SlackCommandHandler, signingSecret string) Options {
	return func(s *Server) {
		s.commandHandler = handler
		s.slackSigningSecret = signingSecret
	}
}

// WithSlackEvent registers the Events API endpoint
func WithSlackEvent(handler *SlackEventHandler, signingSecret string) Options {
	return func(s *Server) {
		s.eventHandler = handler
		s.slackSigningSecret = signingSecret
	}
}

func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	})

	// Slack endpoints use signature verification, no other auth
	if s.commandHandler != nil || s.eventHandler != nil {
		r.Route("/hooks/slack", func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.slackSigningSecret))

			if s.commandHandler != nil {
				r.Post("/command", s.commandHandler.ServeHTTP)
			}
			if s.eventHandler != nil {
				r.Post("/event", s.eventHandler.ServeHTTP)
			}
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
