package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"booth/internal/booth"
	"booth/internal/catalog"
	"booth/internal/compose"
	"booth/internal/connectivity"
	"booth/internal/http/handlers"
	httpapi "booth/internal/http/httpapi"
	"booth/internal/infra"
	"booth/internal/infra/geoip"
	imageprovider "booth/internal/providers/image"
	"booth/internal/share"
	"booth/pkg/sse"
)

func main() {
	// Load .env when present
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	styles, err := catalog.Load(cfg.StylesPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load style catalog")
	}

	transformer, err := imageprovider.New(imageprovider.Options{
		Provider:   cfg.ImageProvider,
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		HTTPClient: infra.NewHTTPClient(cfg.GenerationTimeout),
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image provider")
	}

	logo, err := compose.LoadLogo(cfg.LogoPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.LogoPath).Msg("failed to load watermark logo")
	}
	watermark, err := compose.NewWatermarker(logo, cfg.WatermarkText)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure watermark")
	}

	publisher := share.NewTmpFiles(share.TmpFilesOptions{
		UploadURL:      cfg.ShareUploadURL,
		FilenamePrefix: cfg.ShareFilenamePrefix,
		HTTPClient:     infra.NewHTTPClient(cfg.ShareTimeout),
		Logger:         &logger,
	})

	monitor := connectivity.NewMonitor(connectivity.Options{
		ProbeURL: cfg.ConnectivityProbeURL,
		Interval: cfg.ConnectivityInterval,
		Logger:   &logger,
	})
	go monitor.Run(ctx)

	orchestrator := booth.NewOrchestrator(styles.Styles(), transformer, compose.NewCompositor(watermark), &logger)
	sessions := booth.NewRegistry(booth.SessionDeps{
		Orchestrator: orchestrator,
		Publisher:    publisher,
		Online:       monitor.Online,
		Logger:       &logger,
	}, cfg.SessionTTL)
	go sessions.Run(ctx, cfg.SessionTTL/4)

	hub := sse.NewHub()
	go hub.Run(ctx)

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	app := &handlers.App{
		Config:     cfg,
		Logger:     &logger,
		Catalog:    styles,
		Sessions:   sessions,
		Monitor:    monitor,
		Hub:        hub,
		RunContext: ctx,
	}
	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   resolver.Lookup(),
	})

	server := infra.NewHTTPServer(cfg, router, ctx)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Int("styles", styles.Len()).
			Str("provider", cfg.ImageProvider).
			Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
