package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/constellation/internal/app"
	"github.com/coreman2200/constellation/internal/config"
	diag "github.com/coreman2200/constellation/internal/diagnostics"
	"github.com/coreman2200/constellation/internal/driver/fake"
	"github.com/coreman2200/constellation/internal/driver/panel"
	"github.com/coreman2200/constellation/internal/driver/pngout"
	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/layer"
	"github.com/coreman2200/constellation/internal/logger"
	"github.com/coreman2200/constellation/internal/render"
	"github.com/coreman2200/constellation/internal/source"
	"github.com/coreman2200/constellation/internal/ws"
)

func main() {
	config.LoadDotEnv()

	// ---- Flags (config.yaml and env can override) ----
	var (
		configPath = flag.String("config", config.ConfigPath("config.yaml"), "path to config.yaml")
		platform   = flag.String("platform", geometry.DefaultPlatform, "display platform")
		driver     = flag.String("driver", "png", "driver: png | panel | none (frames kept in memory)")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		settings   = flag.String("settings", "", "settings file (.json/.yaml) or sqlite db (.db)")
		assetsDir  = flag.String("assets", "", "directory of PNG assets (builtin when empty)")
		outDir     = flag.String("out", "frames", "PNG output directory")
		clock24h   = flag.Bool("24h", false, "24 hour clock")
		bordered   = flag.Bool("bordered-power", false, "outlined power bar with charging indicator")
		logLevel   = flag.String("log-level", "info", "debug | info | warn | error")
	)
	flag.Parse()

	cfg := &config.Config{}
	if c, err := config.Load(*configPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		}
	} else {
		cfg = c
	}
	cfg.Platform = firstNonEmpty(cfg.Platform, *platform)
	cfg.Driver = firstNonEmpty(cfg.Driver, *driver)
	cfg.Addr = firstNonEmpty(cfg.Addr, *addr)
	cfg.Assets = firstNonEmpty(cfg.Assets, *assetsDir)
	cfg.OutDir = firstNonEmpty(cfg.OutDir, *outDir)
	cfg.LogLevel = firstNonEmpty(cfg.LogLevel, *logLevel)
	cfg.Clock24h = cfg.Clock24h || *clock24h
	if *settings != "" && cfg.Settings.Path == "" {
		cfg.Settings = config.SettingsFor(*settings)
	}
	config.ApplyEnv(cfg)

	// ---- Logging ----
	lg := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})
	logger.SetGlobal(lg)

	plat, ok := geometry.Lookup(cfg.Platform)
	if !ok {
		log.Fatal().Str("platform", cfg.Platform).Strs("known", geometry.Platforms()).Msg("unknown platform")
	}

	store, storeCloser, err := config.OpenStore(cfg.Settings, lg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Settings.Backend).Msg("settings store")
	}

	// ---- Driver selection ----
	var (
		out      layer.Driver
		closers  []io.Closer
		selected = cfg.Driver
	)
	switch selected {
	case "panel":
		p, err := panel.Open(cfg.Panel, lg)
		if err != nil {
			log.Warn().Err(err).Str("bus", cfg.Panel.Bus).Msg("panel init failed; falling back to PNG")
			selected = "png"
			break
		}
		out = p
		closers = append(closers, p)
	case "none":
		out = fake.NewDriver(lg)
	case "png":
	default:
		log.Warn().Str("driver", selected).Msg("unknown driver; using PNG")
		selected = "png"
	}
	if selected == "png" {
		p, err := pngout.New(cfg.OutDir, false, lg)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.OutDir).Msg("png output")
		}
		out = p
	}

	poll := time.Duration(cfg.Battery.PollS) * time.Second
	battery := source.NewBattery(firstNonEmpty(cfg.Battery.Path, source.DefaultBatteryPath), poll, lg)

	bar := render.PlainPowerBar
	if *bordered {
		bar = render.BorderedPowerBar
	}
	journal := diag.NewJournal(0)
	core, err := app.InitCore(app.Options{
		Platform:  plat,
		Store:     store,
		AssetsDir: cfg.Assets,
		Clock24h:  cfg.Clock24h,
		PowerBar:  bar,
		Power:     battery.Peek,
		Journal:   journal,
		Log:       lg,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init face")
	}

	hub := ws.NewHub(core.Loop, journal, lg)
	hub.Driver = selected
	core.Eng.Drv = layer.Fanout{out, hub}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      hub.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run loop, sources & server ----
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- core.Run(ctx) }()
	go func() {
		if err := source.NewClock().Run(ctx, core.Loop.Post); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("clock source stopped")
		}
	}()
	go func() {
		if err := battery.Run(ctx, core.Loop.Post); err != nil && !errors.Is(err, context.Canceled) {
			journal.Report(diag.Diagnostic{
				Severity: diag.Warn, Code: diag.SourceFailed, Summary: "Battery source stopped",
				Detail: err.Error(), Evidence: map[string]any{"path": cfg.Battery.Path},
			})
		}
	}()
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("driver", selected).Str("platform", plat.Name).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	exited := false
	select {
	case s := <-ch:
		log.Info().Str("signal", s.String()).Msg("shutting down")
	case err := <-done:
		exited = true
		log.Error().Err(err).Msg("face loop exited")
	}

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 3*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)
	if !exited {
		select {
		case <-done:
		case <-shutdownCtx.Done():
		}
	}
	if err := core.Close(); err != nil {
		log.Warn().Err(err).Msg("close core")
	}
	for _, c := range closers {
		_ = c.Close()
	}
	_ = storeCloser.Close()
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
