package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/pickup/internal/config"
	"github.com/five82/pickup/internal/imagehost"
	"github.com/five82/pickup/internal/listing"
	"github.com/five82/pickup/internal/logging"
	"github.com/five82/pickup/internal/prefs"
	"github.com/five82/pickup/internal/registry"
	"github.com/five82/pickup/internal/session"
	"github.com/five82/pickup/internal/toggle"
	"github.com/five82/pickup/internal/ui"
)

var (
	_ ui.Authenticator = (*Auth)(nil)
	_ ui.Loader        = (*Loader)(nil)
	_ ui.Publisher     = (*Poster)(nil)
)

// Options configure the pickup application.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/pickup/prefs.toml
	RefreshEvery int    // seconds; zero uses default
}

// Run boots the pickup TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogPath())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	userPrefs := prefs.Load(opts.PrefsPath)

	store, err := session.OpenBolt(cfg.SessionPath())
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() { _ = store.Close() }()

	client, err := registry.NewClient(cfg.APIURL, cfg.RequestTimeout, logger)
	if err != nil {
		return fmt.Errorf("init registry client: %w", err)
	}
	uploader := imagehost.New(cfg.UploadURL, cfg.UploadPreset, 3*cfg.RequestTimeout, logger)

	list := &listing.List{}
	synchronizer := toggle.New(list, store, client,
		toggle.WithTimeout(cfg.RequestTimeout),
		toggle.WithLogger(logger),
		toggle.WithInFlightGuard(),
	)
	auth := NewAuth(client, store, logger)
	loader := NewLoader(client, list, store, logger)
	poster := NewPoster(client, uploader, store, list, logger)

	interval := defaultRefreshInterval
	if opts.RefreshEvery > 0 {
		interval = time.Duration(opts.RefreshEvery) * time.Second
	}
	StartRefresher(ctx, loader, interval, logger)

	logger.Info("pickup starting", "api_url", cfg.APIURL, "uploads", uploader.Enabled())

	return ui.Run(ui.Options{
		Context:   ctx,
		List:      list,
		Session:   store,
		Auth:      auth,
		Loader:    loader,
		Poster:    poster,
		Toggler:   synchronizer,
		ThemeName: userPrefs.Theme,
		SortName:  userPrefs.Sort,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogPath(),
		Logger:    logger,
	})
}
