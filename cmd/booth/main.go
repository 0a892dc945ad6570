package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
	"github.com/joho/godotenv"

	"booth/internal/acquire"
	"booth/internal/booth"
	"booth/internal/catalog"
	"booth/internal/compose"
	"booth/internal/domain"
	"booth/internal/infra"
	imageprovider "booth/internal/providers/image"
	"booth/internal/share"
	"booth/internal/storage"
)

func main() {
	var (
		inFlag       string
		outDirFlag   string
		stylesFlag   string
		providerFlag string
		sourceFlag   string
		shareFlag    bool
		qrFlag       bool
	)
	flag.StringVar(&inFlag, "in", "", "Photo to restyle (required)")
	flag.StringVar(&outDirFlag, "out-dir", "out", "Directory receiving the styled images and the final collage")
	flag.StringVar(&stylesFlag, "styles", "", "YAML style catalog (defaults to STYLES_PATH or the built-in catalog)")
	flag.StringVar(&providerFlag, "provider", "", "Image provider (gemini or synthetic); overrides IMAGE_PROVIDER")
	flag.StringVar(&sourceFlag, "source", string(acquire.SourceUpload), "Where the photo came from (camera or upload)")
	flag.BoolVar(&shareFlag, "share", false, "Upload the collage and print a temporary download link")
	flag.BoolVar(&qrFlag, "qr", false, "Write a QR code for the download link (implies -share)")
	flag.Parse()

	if strings.TrimSpace(inFlag) == "" {
		fmt.Fprintln(os.Stderr, "-in is required")
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if stylesFlag != "" {
		cfg.StylesPath = stylesFlag
	}
	if providerFlag != "" {
		cfg.ImageProvider = providerFlag
	}

	logger := infra.NewLoggerTo(os.Stderr, "cli").With().Str("cmd", "booth").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, &logger, inFlag, outDirFlag, acquire.ParseSource(sourceFlag), shareFlag || qrFlag, qrFlag); err != nil {
		logger.Error().Err(err).Msg("booth run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *infra.Config, logger *infra.Logger, in, outDir string, src acquire.Source, doShare, doQR bool) error {
	styles, err := catalog.Load(cfg.StylesPath)
	if err != nil {
		return err
	}
	transformer, err := imageprovider.New(imageprovider.Options{
		Provider:   cfg.ImageProvider,
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		HTTPClient: infra.NewHTTPClient(cfg.GenerationTimeout),
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	logo, err := compose.LoadLogo(cfg.LogoPath)
	if err != nil {
		return err
	}
	watermark, err := compose.NewWatermarker(logo, cfg.WatermarkText)
	if err != nil {
		return err
	}
	store, err := storage.NewFileStore(outDir)
	if err != nil {
		return err
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrIO, in, err)
	}
	defer f.Close()
	photo, err := acquire.FromReader(f, "", src, acquire.Options{MaxBytes: cfg.MaxUploadBytes})
	if err != nil {
		return err
	}

	orchestrator := booth.NewOrchestrator(styles.Styles(), transformer, compose.NewCompositor(watermark), logger)
	outcome, err := orchestrator.Run(ctx, &photo, func(p booth.Progress) {
		logger.Info().Str("phase", string(p.Phase)).Msg(p.Text(cfg.DefaultLocale))
	})
	if err != nil {
		return err
	}

	for i, ref := range outcome.Results {
		mediaType, _, err := domain.ParseDataURI(ref)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("%02d-%s%s", i+1, styles.Styles()[i].ID, extension(mediaType))
		if _, err := store.WriteDataURI(ctx, key, ref); err != nil {
			return err
		}
	}
	final := strings.TrimSuffix(cfg.DownloadFilename, filepath.Ext(cfg.DownloadFilename)) + extension(outcome.Artifact.MediaType)
	path, err := store.WriteDataURI(ctx, final, outcome.Artifact.URL)
	if err != nil {
		return err
	}
	logger.Info().Str("path", path).Int("styles", len(outcome.Results)).Msg("collage written")
	fmt.Println(path)

	if !doShare {
		return nil
	}
	publisher := share.NewTmpFiles(share.TmpFilesOptions{
		UploadURL:      cfg.ShareUploadURL,
		FilenamePrefix: cfg.ShareFilenamePrefix,
		HTTPClient:     infra.NewHTTPClient(cfg.ShareTimeout),
		Logger:         logger,
	})
	shareCtx, cancel := infra.WithTimeout(ctx, cfg.ShareTimeout)
	defer cancel()
	link, err := publisher.Publish(shareCtx, outcome.Artifact.URL)
	if err != nil {
		return err
	}
	fmt.Println(link.URL)

	if !doQR {
		return nil
	}
	png, err := share.RenderQR(link.URL, share.DefaultQRSize)
	if err != nil {
		return err
	}
	qrPath, err := store.Write(ctx, "share-qr.png", png)
	if err != nil {
		return err
	}
	logger.Info().Str("path", qrPath).Time("expires_at", link.ExpiresAt).Msg("share qr written")
	return nil
}

func extension(mediaType string) string {
	if m := mimetype.Lookup(mediaType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ".bin"
}
