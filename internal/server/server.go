// Package server provides the web front: server-rendered search pages and a
// JSON proxy that attaches the service credential server-side.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/f3rmion/sentences/internal/clipboard"
	"github.com/f3rmion/sentences/internal/location"
	"github.com/f3rmion/sentences/internal/pinyin"
	"github.com/f3rmion/sentences/internal/search"
	"github.com/f3rmion/sentences/internal/sentences"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds server configuration.
type Config struct {
	Addr              string
	AllowedOrigins    []string
	ReferenceLanguage string
	RequestTimeout    time.Duration
	Romanizer         *pinyin.Romanizer // Fills missing pinyin on rendered pages, may be nil
}

// Server is the web front.
type Server struct {
	cfg        Config
	executor   search.Executor
	logger     *slog.Logger
	page       *template.Template
	router     chi.Router
	httpServer *http.Server
}

// New creates a server answering queries through executor.
func New(cfg Config, executor search.Executor, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	page, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		executor: executor,
		logger:   logger,
		page:     page,
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get(location.RootPath, s.handleHome)
	r.Get(location.SearchPath, s.handleSearch)

	r.Route("/api", func(r chi.Router) {
		origins := s.cfg.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/examples/{term}", s.handleExamples)
	})

	// Unknown paths fall back to the home page.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, location.RootURL().String(), http.StatusFound)
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address. It returns nil once the
// server has been shut down, also when Shutdown ran first.
func (s *Server) Start() error {
	s.logger.Info("server listening", slog.String("addr", s.cfg.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// pageData is the view model of page.html.
type pageData struct {
	Input       string
	State       sentences.State
	Reference   string
	Cards       []card
	ShowDetails bool
	CopyText    string
}

// card is one example as displayed.
type card struct {
	Target        string
	Pronunciation string
	English       string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, pageData{Reference: s.cfg.ReferenceLanguage})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term, ok := sentences.NormalizeTerm(r.URL.Query().Get(location.QueryParam))
	if !ok {
		s.handleHome(w, r)
		return
	}

	ctrl := search.NewController(search.NewStore(), s.executor, nil, s.logger)
	st, _ := ctrl.Run(r.Context(), term)

	data := pageData{
		Input:     term,
		State:     st,
		Reference: s.cfg.ReferenceLanguage,
	}
	if st.Result != nil {
		data.ShowDetails = !sentences.SameLanguage(st.Result.DetectedLanguage, s.cfg.ReferenceLanguage)
		data.CopyText = clipboard.Serialize(st.Result, s.cfg.ReferenceLanguage)
		for _, ex := range st.Result.Examples {
			data.Cards = append(data.Cards, card{
				Target:        ex.Target,
				Pronunciation: s.cfg.Romanizer.Pronounce(st.Result.DetectedLanguage, ex),
				English:       ex.English,
			})
		}
	}
	s.render(w, data)
}

func (s *Server) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("rendering page", slog.String("error", err.Error()))
	}
}

// examplesResponse mirrors the service's response body.
type examplesResponse struct {
	Message   string              `json:"message,omitempty"`
	Language  string              `json:"language"`
	Sentences []sentences.Example `json:"sentences"`
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	// chi routes on RawPath when the path holds escapes that Path cannot
	// represent (e.g. %2F); only then is the segment still escaped.
	raw := chi.URLParam(r, "term")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(raw)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Please enter a word or phrase"})
			return
		}
		raw = unescaped
	}

	term, ok := sentences.NormalizeTerm(raw)
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Please enter a word or phrase"})
		return
	}

	out := s.executor.Execute(r.Context(), term)
	if !out.Succeeded() {
		status := out.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		s.writeJSON(w, status, map[string]string{"message": out.Message})
		return
	}

	s.writeJSON(w, http.StatusOK, examplesResponse{
		Language:  out.DetectedLanguage,
		Sentences: out.Examples,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", slog.String("error", err.Error()))
	}
}
