package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/ayusman/noel/internal/app"
	"github.com/ayusman/noel/internal/config"
	"github.com/ayusman/noel/internal/control"
	"github.com/ayusman/noel/internal/logging"
	"github.com/ayusman/noel/internal/server"
	"github.com/ayusman/noel/internal/store"
	"github.com/ayusman/noel/internal/tray"
)

// trayRefresh is how often the tray polls the gesture and photo count.
const trayRefresh = 250 * time.Millisecond

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load("", flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, nil)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Noel failed")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	log := logging.Component(logger, "main")
	log.Info().Msg("Noel - gesture holiday tree")

	st, err := store.New(cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	hub := server.NewFrameHub(cfg.Server.BroadcastFPS, logger)
	defer hub.Close()

	application, err := app.New(app.Config{
		Settings: cfg,
		Store:    st,
		Renderer: hub,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var t *tray.Tray
	if cfg.Tray.Enabled {
		t = wireTray(ctx, application, cfg, stop, log)
	}

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	defer application.Stop()

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		log.Info().Str("dir", staticDir).Msg("Serving static files")
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		State:     application,
		Gestures:  application,
		Camera:    application,
		Hub:       hub,
		Logger:    logger,
	})

	var wg sync.WaitGroup
	var srvErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
			srvErr = err
			log.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	if t != nil {
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		t.Run()
		stop()
	} else {
		<-ctx.Done()
	}

	log.Info().Msg("Shutting down")
	wg.Wait()
	return srvErr
}

// wireTray connects the tray menu to the app. The tray only mirrors state;
// the app stays the source of truth.
func wireTray(ctx context.Context, a *app.App, cfg *config.Config, quit func(), log zerolog.Logger) *tray.Tray {
	t := tray.New()

	t.OnToggle(a.SetEnabled)
	t.OnQuit(quit)
	t.OnOpen(func() {
		url := viewerURL(cfg.Server.Addr)
		if err := openBrowser(url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Failed to open browser")
		}
	})

	a.OnModeChange(func(_, to control.Mode) {
		t.SetMode(string(to))
	})
	a.OnGesturesChanged(func(enabled bool) {
		if enabled {
			t.SetEnabled(true)
			return
		}
		if !a.Ready() {
			t.Lock()
			return
		}
		t.SetEnabled(false)
	})

	go func() {
		ticker := time.NewTicker(trayRefresh)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.SetLastGesture(string(a.Context().Gesture()))
				t.SetPhotos(a.Context().PhotoCount())
			}
		}
	}()

	return t
}

// viewerURL turns a listen address into a browsable URL.
func viewerURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.noel/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".noel", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
