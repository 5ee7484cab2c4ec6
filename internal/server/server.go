package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/playercard/internal/config"
	"github.com/five82/playercard/internal/profile"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Catalog           profile.Catalog
	RequestsPerMinute int
	Logger            zerolog.Logger
}

// Server is the reference profile service.
type Server struct {
	repo              *Repository
	catalog           profile.Catalog
	requestsPerMinute int
	log               zerolog.Logger
}

// New builds a Server over repo. An empty catalog uses the stock avatars.
func New(repo *Repository, opts Options) *Server {
	catalog := opts.Catalog
	if catalog.Len() == 0 {
		catalog = profile.DefaultCatalog()
	}
	return &Server{
		repo:              repo,
		catalog:           catalog,
		requestsPerMinute: opts.RequestsPerMinute,
		log:               opts.Logger,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.instrument)

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(s.authenticate)
		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handlePutProfile)
		r.Post("/session/signout", s.handleSignOut)
	})
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("event", "server.listen").Str("addr", addr).Msg("profile service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log.Info().Str("event", "server.stopped").Msg("profile service stopped")
		return nil
	})
	return g.Wait()
}

// Run opens the database, seeds the configured accounts and serves until ctx
// is cancelled.
func Run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	catalog, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("avatar catalog: %w", err)
	}

	repo, err := OpenRepository(cfg.Server.DatabasePath)
	if err != nil {
		return err
	}
	defer repo.Close()

	for _, acct := range cfg.Server.Accounts {
		rec, err := repo.EnsureAccount(ctx, acct.Token, acct.Email)
		if err != nil {
			return err
		}
		log.Debug().Str("event", "server.account").Str("profile_id", rec.ID).Str("email", rec.Email).Msg("account ready")
	}

	srv := New(repo, Options{
		Catalog:           catalog,
		RequestsPerMinute: cfg.Server.RateLimit,
		Logger:            log,
	})
	return srv.Serve(ctx, cfg.Server.Listen)
}
