package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/atlasbio/atlas/internal/clients/chembl"
	"github.com/atlasbio/atlas/internal/clients/ctgov"
	"github.com/atlasbio/atlas/internal/clients/fmp"
	"github.com/atlasbio/atlas/internal/config"
	"github.com/atlasbio/atlas/internal/modules/analysis"
	"github.com/atlasbio/atlas/internal/modules/companies"
	"github.com/atlasbio/atlas/internal/modules/criteria"
	"github.com/atlasbio/atlas/internal/modules/ranking"
	"github.com/atlasbio/atlas/internal/modules/sessions"
)

// Config holds server configuration
type Config struct {
	Port    int
	Log     zerolog.Logger
	Config  *config.Config
	DevMode bool

	FMPClient    *fmp.Client
	CTGovClient  *ctgov.Client
	ChEMBLClient *chembl.Client

	CompanyHandlers  *companies.Handlers
	AnalysisHandlers *analysis.Handlers
	CriteriaHandlers *criteria.Handlers
	RankingHandlers  *ranking.Handlers
	SessionHandlers  *sessions.Handlers
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    Config
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		cfg:    cfg,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout: 15 * time.Second,
		// Must outlast the 120s route timeout or long batch runs lose
		// their connection before the response is written.
		WriteTimeout: 125 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	// Batch runs call providers one company at a time, so they can
	// legitimately take a while.
	s.router.Use(middleware.Timeout(120 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", s.cfg.CompanyHandlers.HandleList)
			r.Post("/", s.cfg.CompanyHandlers.HandleCreate)
			r.Delete("/", s.cfg.CompanyHandlers.HandleClear)
			r.Post("/bulk", s.cfg.CompanyHandlers.HandleBulkCreate)
			r.Get("/{id}", s.cfg.CompanyHandlers.HandleGet)
			r.Put("/{id}", s.cfg.CompanyHandlers.HandleUpdate)
			r.Delete("/{id}", s.cfg.CompanyHandlers.HandleDelete)
		})

		r.Route("/finance", func(r chi.Router) {
			r.Get("/profile/{ticker}", s.handleGetProfile)
			r.Get("/search", s.handleSearch)
		})

		r.Get("/clinical-trials/{company}", s.handleGetTrials)
		r.Get("/molecules/{id}", s.handleGetMolecule)

		r.Route("/analysis", func(r chi.Router) {
			r.Post("/run", s.cfg.AnalysisHandlers.HandleRun)
			r.Get("/status", s.cfg.AnalysisHandlers.HandleStatus)
			r.Get("/table", s.cfg.AnalysisHandlers.HandleTable)
		})

		r.Route("/criteria", func(r chi.Router) {
			r.Get("/", s.cfg.CriteriaHandlers.HandleDefaults)
			r.Post("/", s.cfg.CriteriaHandlers.HandleResolve)
		})

		r.Route("/ranking", func(r chi.Router) {
			r.Post("/run", s.cfg.RankingHandlers.HandleRun)
			r.Get("/export.csv", s.cfg.RankingHandlers.HandleExportCSV)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.cfg.SessionHandlers.HandleCreate)
			r.Get("/{id}", s.cfg.SessionHandlers.HandleGet)
			r.Put("/{id}", s.cfg.SessionHandlers.HandleSave)
			r.Delete("/{id}", s.cfg.SessionHandlers.HandleClear)
		})
	})
}

// Router exposes the configured router, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
