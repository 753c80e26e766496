package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpadapter "lightbridge/internal/adapters/input/http"
	"lightbridge/internal/adapters/output/hue"
	"lightbridge/internal/adapters/output/persistence"
	"lightbridge/internal/adapters/output/ssdp"
	"lightbridge/internal/config"
	"lightbridge/internal/domain/service"
	"lightbridge/internal/metrics"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	portOverride := flag.Int("port", 0, "HTTP port, overrides the port in the settings file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Colors)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := persistence.NewJSONCredentialRepository(cfg.SettingsPath)
	creds, err := repo.Get(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("path", repo.Path()).Msg("Failed to read settings")
	}

	m := metrics.New()
	gateway := hue.NewGateway(hue.Options{
		Host:            cfg.Gateway.Host,
		RequestTimeout:  cfg.Gateway.RequestTimeout.Duration(),
		ObserveInterval: cfg.Gateway.ObserveInterval.Duration(),
		Discoverers: []hue.Discoverer{
			ssdp.NewClient(cfg.Gateway.DiscoveryTimeout.Duration()),
			hue.CloudDiscoverer{},
		},
	})

	cache := service.NewDeviceCache(gateway, m)
	bootstrapper := service.NewBootstrapper(gateway, repo)
	bootstrapper.OnDeviceChange(cache.Invalidate)

	if _, err := bootstrapper.Bootstrap(ctx, creds); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to gateway")
	}

	bridge := service.NewBridgeService(bootstrapper, cache, service.NewCommandDispatcher(gateway, cache, m))
	api := httpadapter.NewServer(bridge, m.Handler(), cfg.Server.StaticDir)

	port := creds.ListenPort()
	if *portOverride > 0 {
		port = *portOverride
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", port).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Warn().Msg("Received shutdown signal")
	case err := <-errCh:
		log.Fatal().Err(err).Msg("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Stopped")
}

func setupLogging(level string, useJSON bool, colors bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
