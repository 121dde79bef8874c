package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/five82/kiosk/internal/app"
	"github.com/five82/kiosk/internal/config"
	"github.com/five82/kiosk/internal/logging"
	"github.com/five82/kiosk/internal/logtail"
	"github.com/five82/kiosk/internal/mockapi"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "kiosk: %v\n", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "kiosk",
		Usage: "terminal admin console for venues, devices and orders",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "config file path (default ~/.config/kiosk/config.toml)"},
			&cli.StringFlag{Name: "prefs", Usage: "prefs file path (default ~/.config/kiosk/prefs.toml)"},
			&cli.StringFlag{Name: "api", Usage: "admin API base URL, overrides api_base_url"},
			&cli.DurationFlag{Name: "poll", Usage: "monitor refresh interval, overrides poll_interval"},
		},
		Action: func(c *cli.Context) error {
			return app.Run(c.Context, app.Options{
				ConfigPath: c.String("config"),
				PrefsPath:  c.String("prefs"),
				APIBaseURL: c.String("api"),
				PollEvery:  c.Duration("poll"),
			})
		},
		Commands: []*cli.Command{
			{
				Name:  "mock",
				Usage: "serve an in-memory admin API with fixture data",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: "127.0.0.1:8080", Usage: "listen address"},
					&cli.Int64Flag{Name: "seed", Value: 7, Usage: "fixture seed"},
					&cli.DurationFlag{Name: "latency", Usage: "base delay added to every request"},
					&cli.DurationFlag{Name: "jitter", Usage: "random extra delay up to this value"},
					&cli.StringFlag{Name: "log-level", Value: "info"},
				},
				Action: serveMock,
			},
			{
				Name:  "logs",
				Usage: "print the tail of the console log file",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "lines", Aliases: []string{"n"}, Value: 200, Usage: "number of lines, 0 for all"},
					&cli.StringFlag{Name: "level", Value: "debug", Usage: "minimum level to show"},
					&cli.BoolFlag{Name: "no-color", Usage: "disable colors"},
				},
				Action: printLogs,
			},
		},
	}
}

func serveMock(c *cli.Context) error {
	log := logging.Console(os.Stderr, c.String("log-level"))
	mock := mockapi.New(mockapi.Options{
		Seed:    c.Int64("seed"),
		Latency: c.Duration("latency"),
		Jitter:  c.Duration("jitter"),
		Logger:  log,
	})

	srv := &http.Server{
		Addr:         c.String("addr"),
		Handler:      mock.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("mock admin API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mock server: %w", err)
		}
		return nil
	case <-c.Context.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown mock server: %w", err)
	}
	log.Info().Msg("mock server stopped")
	return nil
}

func printLogs(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	lines, err := logtail.Read(cfg.LogFile, c.Int("lines"))
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintf(os.Stderr, "no log entries in %s\n", cfg.LogFile)
		return nil
	}
	return logtail.Render(os.Stdout, lines, logtail.Options{
		NoColor:  c.Bool("no-color"),
		MinLevel: logging.ParseLevel(c.String("level")),
	})
}
