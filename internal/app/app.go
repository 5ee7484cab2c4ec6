package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/playercard/internal/config"
	"github.com/five82/playercard/internal/logging"
	"github.com/five82/playercard/internal/prefs"
	"github.com/five82/playercard/internal/profileapi"
	"github.com/five82/playercard/internal/state"
	"github.com/five82/playercard/internal/ui"
)

// Options configure the playercard client.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/playercard/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
	Version    string
}

// Run boots the playercard TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	log := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		Output:  logFile,
		Version: opts.Version,
	})

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.Warn().Err(err).Str("event", "prefs.load_failed").Msg("using default preferences")
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("avatar catalog: %w", err)
	}

	client, err := profileapi.NewClient(cfg.APIURL, cfg.Token, profileapi.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return fmt.Errorf("init profile client: %w", err)
	}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	store := &state.Store{}
	poller := NewPoller(store, client, interval, cfg.RequestTimeout, logging.WithComponent(log, "poller"))

	// Populate the store before the first frame; failures surface in the header.
	poller.Refresh(ctx)

	log.Info().
		Str("event", "app.start").
		Str("api_url", cfg.APIURL).
		Dur("poll_interval", interval).
		Msg("playercard starting")

	return runUntilQuit(ctx, log, poller, ui.Options{
		Store:          client,
		Sessions:       client,
		Snapshots:      store,
		Refresher:      poller,
		Catalog:        catalog,
		Logger:         logging.WithComponent(log, "ui"),
		RequestTimeout: cfg.RequestTimeout,
		ThemeName:      userPrefs.Theme,
		PrefsPath:      opts.PrefsPath,
	})
}

// runUntilQuit runs the poller alongside the UI. Quitting the UI stops the
// poller.
func runUntilQuit(ctx context.Context, log zerolog.Logger, poller *Poller, uiOpts ui.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return poller.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return ui.Run(gctx, uiOpts)
	})

	err := g.Wait()
	log.Info().Str("event", "app.stop").Err(err).Msg("playercard stopped")
	return err
}
