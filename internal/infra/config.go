package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv               string
	Port                 string
	GeminiAPIKey         string
	GeminiModel          string
	GeminiBaseURL        string
	ImageProvider        string
	StylesPath           string
	LogoPath             string
	WatermarkText        string
	ShareUploadURL       string
	ShareFilenamePrefix  string
	DownloadFilename     string
	ConnectivityProbeURL string
	ConnectivityInterval time.Duration
	GeoIPDBPath          string
	DefaultLocale        string
	CORSAllowedOrigins   []string
	HTTPReadTimeout      time.Duration
	HTTPWriteTimeout     time.Duration
	HTTPIdleTimeout      time.Duration
	RateLimitPerMin      int
	MaxUploadBytes       int64
	SessionTTL           time.Duration
	GenerationTimeout    time.Duration
	ShareTimeout         time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// A missing Gemini key is not an error here: generation reports it when it is attempted.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Port:                 getEnv("PORT", "8080"),
		GeminiAPIKey:         strings.TrimSpace(firstEnv("GEMINI_API_KEY", "API_KEY")),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL:        getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		ImageProvider:        strings.ToLower(getEnv("IMAGE_PROVIDER", "gemini")),
		StylesPath:           os.Getenv("STYLES_PATH"),
		LogoPath:             os.Getenv("LOGO_PATH"),
		WatermarkText:        getEnv("WATERMARK_TEXT", "P&D RFeitosa Group"),
		ShareUploadURL:       getEnv("SHARE_UPLOAD_URL", "https://tmpfiles.org/api/v1/upload"),
		ShareFilenamePrefix:  getEnv("SHARE_FILENAME_PREFIX", "foto-cabine-pd"),
		DownloadFilename:     getEnv("DOWNLOAD_FILENAME", "foto-cabine-pd-stories.png"),
		ConnectivityProbeURL: os.Getenv("CONNECTIVITY_PROBE_URL"),
		ConnectivityInterval: time.Second * time.Duration(getEnvInt("CONNECTIVITY_INTERVAL_SECONDS", 15)),
		GeoIPDBPath:          os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:        getEnv("DEFAULT_LOCALE", "pt-BR"),
		CORSAllowedOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:      getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		SessionTTL:           time.Minute * time.Duration(getEnvInt("SESSION_TTL_MINUTES", 30)),
		GenerationTimeout:    time.Second * time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 90)),
		ShareTimeout:         time.Second * time.Duration(getEnvInt("SHARE_TIMEOUT_SECONDS", 30)),
	}

	if cfg.ConnectivityProbeURL == "" {
		cfg.ConnectivityProbeURL = cfg.GeminiBaseURL
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
