package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/kiosk/internal/api"
	"github.com/five82/kiosk/internal/config"
	"github.com/five82/kiosk/internal/logging"
	"github.com/five82/kiosk/internal/prefs"
	"github.com/five82/kiosk/internal/state"
	"github.com/five82/kiosk/internal/ui"
)

// Options configure the kiosk application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/kiosk/prefs.toml
	PollEvery  time.Duration // zero uses the configured poll_interval
	APIBaseURL string        // overrides api_base_url when set
}

// Run boots the kiosk TUI until the context is cancelled or the operator quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if base := strings.TrimSpace(opts.APIBaseURL); base != "" {
		cfg.APIBaseURL = base
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}

	log := zerolog.Nop()
	fileLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err == nil {
		defer fileLog.Close()
		log = fileLog.Logger
	}

	prefsPath := opts.PrefsPath
	if strings.TrimSpace(prefsPath) == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		log.Warn().Err(err).Msg("prefs unreadable, using defaults")
	}
	pageSize := cfg.PageSize
	if userPrefs.PageSize > 0 {
		pageSize = userPrefs.PageSize
	}

	client, err := api.NewClient(cfg.APIBaseURL, api.Options{
		Timeout: cfg.RequestTimeout,
		Logger:  log.With().Str("component", "api").Logger(),
	})
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	log.Info().
		Str("api", client.BaseURL()).
		Dur("poll", cfg.PollInterval).
		Int("page_size", pageSize).
		Msg("kiosk starting")

	store := &state.Store{}
	StartPoller(ctx, store, client, cfg.PollInterval, log.With().Str("component", "poller").Logger())

	return ui.Run(ui.Options{
		Context:       ctx,
		Client:        client,
		Store:         store,
		Logger:        log.With().Str("component", "ui").Logger(),
		PollTick:      time.Second,
		PageSize:      pageSize,
		ToastDuration: cfg.ToastDuration,
		ToastLimit:    cfg.ToastLimit,
		ThemeName:     userPrefs.Theme,
		StartView:     userPrefs.LastView,
		PrefsPath:     prefsPath,
		Prefs:         userPrefs,
	})
}
