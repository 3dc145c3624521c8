// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the presentation layer: a server-rendered page driven by
// the per-browser session state machine, and a small JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pdiddy/tangente/internal/logging"
	"github.com/pdiddy/tangente/internal/metrics"
	"github.com/pdiddy/tangente/internal/session"
	"github.com/pdiddy/tangente/pkg/types"
)

//go:embed templates/*.html static/*
var assets embed.FS

// SessionCookie names the cookie that carries the session id.
const SessionCookie = "tangente_session"

const (
	chartWidth  = 316
	chartHeight = 116
)

// Options configures a Server.
type Options struct {
	Explorer       session.Explorer
	Sessions       *session.Store
	Metrics        *metrics.Collector
	Logger         *zap.Logger
	Provider       string
	ExploreTimeout time.Duration
}

// Server owns the session store and the background explorations it starts.
type Server struct {
	explorer session.Explorer
	sessions *session.Store
	metrics  *metrics.Collector
	logger   *zap.Logger
	provider string
	timeout  time.Duration
	page     *template.Template

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer builds a Server. Missing optional fields get defaults.
func NewServer(opts Options) *Server {
	if opts.Sessions == nil {
		opts.Sessions = session.NewStore()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ExploreTimeout <= 0 {
		opts.ExploreTimeout = types.DefaultExploreTimeout
	}
	if opts.Provider == "" {
		opts.Provider = string(types.ProviderGemini)
	}

	page := template.Must(template.New("index.html").Funcs(template.FuncMap{
		"score": formatScore,
	}).ParseFS(assets, "templates/index.html"))

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		explorer: opts.Explorer,
		sessions: opts.Sessions,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		provider: opts.Provider,
		timeout:  opts.ExploreTimeout,
		page:     page,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Routes returns the HTTP handler with all routes and middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(logging.Middleware(s.logger))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	static, _ := fs.Sub(assets, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleIndex)
	r.Post("/explore", s.handleSubmit)

	r.Route("/api", func(r chi.Router) {
		r.Post("/explore", s.handleAPIExplore)
		r.Get("/session", s.handleAPISession)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

// Shutdown cancels in-flight explorations and waits for them to record
// their outcome, or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until all background explorations have finished.
func (s *Server) Wait() {
	s.wg.Wait()
}

// PruneSessions drops sessions idle for longer than maxAge.
func (s *Server) PruneSessions(maxAge time.Duration) int {
	return s.sessions.Prune(maxAge)
}

// session resolves the caller's session, creating one and setting the
// cookie when the request carries no known id.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	id := sessionID(r)
	newID, sess := s.sessions.Get(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// snapshot returns the caller's session state without allocating a session.
// Unknown callers see the Idle state.
func (s *Server) snapshot(r *http.Request) session.Snapshot {
	if sess, ok := s.sessions.Lookup(sessionID(r)); ok {
		return sess.Snapshot()
	}
	return session.New().Snapshot()
}

func sessionID(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// startExploration runs the adapter call for an accepted submit in the
// background. Only the call's own token can write its outcome.
func (s *Server) startExploration(sess *session.Session, tok session.Token, topic string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()

		err := session.Finish(ctx, sess, s.explorer, tok, topic)
		switch {
		case err == nil:
		case errors.Is(err, session.ErrStale):
			s.logger.Info("discarded stale exploration", zap.String("topic", topic), zap.Uint64("token", uint64(tok)))
		default:
			s.logger.Error("exploration failed", zap.String("topic", topic), zap.Error(err))
		}
	}()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
