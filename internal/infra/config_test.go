package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_BASE_URL", "")
	t.Setenv("CONNECTIVITY_PROBE_URL", "")
	t.Setenv("IMAGE_PROVIDER", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GeminiAPIKey != "" {
		t.Fatalf("GeminiAPIKey = %q, want empty", cfg.GeminiAPIKey)
	}
	if cfg.GeminiModel != "gemini-2.5-flash-image" {
		t.Fatalf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.ImageProvider != "gemini" {
		t.Fatalf("ImageProvider = %q", cfg.ImageProvider)
	}
	if cfg.ConnectivityProbeURL != cfg.GeminiBaseURL {
		t.Fatalf("ConnectivityProbeURL = %q, want %q", cfg.ConnectivityProbeURL, cfg.GeminiBaseURL)
	}
	if cfg.DownloadFilename != "foto-cabine-pd-stories.png" {
		t.Fatalf("DownloadFilename = %q", cfg.DownloadFilename)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("SessionTTL = %s", cfg.SessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("CORSAllowedOrigins = %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigLegacyAPIKeyAndOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", " legacy-key ")
	t.Setenv("IMAGE_PROVIDER", "Synthetic")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://booth.example.com, http://localhost:5173 ,")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("SESSION_TTL_MINUTES", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GeminiAPIKey != "legacy-key" {
		t.Fatalf("GeminiAPIKey = %q, want legacy-key", cfg.GeminiAPIKey)
	}
	if cfg.ImageProvider != "synthetic" {
		t.Fatalf("ImageProvider = %q", cfg.ImageProvider)
	}
	want := []string{"https://booth.example.com", "http://localhost:5173"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins = %#v", cfg.CORSAllowedOrigins)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], want[i])
		}
	}
	if cfg.RateLimitPerMin != 30 {
		t.Fatalf("RateLimitPerMin = %d, want fallback 30", cfg.RateLimitPerMin)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Fatalf("SessionTTL = %s", cfg.SessionTTL)
	}
}
