package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	tests := []struct {
		name     string
		actual   interface{}
		expected interface{}
	}{
		{"Port", cfg.Server.Port, "8080"},
		{"Env", cfg.Server.Env, "development"},
		{"ReadTimeout", cfg.Server.ReadTimeout, 15 * time.Second},
		{"WriteTimeout", cfg.Server.WriteTimeout, 15 * time.Second},
		{"IdleTimeout", cfg.Server.IdleTimeout, 60 * time.Second},
		{"RateLimitPerMinute", cfg.Server.RateLimitPerMinute, 120},
		{"SourceURL", cfg.Directory.SourceURL, "https://jsonplaceholder.typicode.com/users"},
		{"SeedFile", cfg.Directory.SeedFile, ""},
		{"WatchSeedFile", cfg.Directory.WatchSeedFile, true},
		{"FetchTimeout", cfg.Directory.FetchTimeout, 10 * time.Second},
		{"RefreshInterval", cfg.Directory.RefreshInterval, 5 * time.Minute},
		{"DefaultPageSize", cfg.Directory.DefaultPageSize, 5},
		{"ReportsSeed", cfg.Reports.Seed, uint64(0)},
		{"ReportsMaxDays", cfg.Reports.MaxDays, 366},
		{"ReplyDelay", cfg.Chat.ReplyDelay, 2 * time.Second},
	}

	for _, tt := range tests {
		if tt.actual != tt.expected {
			t.Errorf("%s: got %v, want %v", tt.name, tt.actual, tt.expected)
		}
	}

	if len(cfg.Server.AllowedOrigins) == 0 {
		t.Error("development should allow localhost origins")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("PORT", "9090")
	os.Setenv("DIRECTORY_SOURCE_URL", "http://users.internal/api")
	os.Setenv("DIRECTORY_SEED_FILE", "data/users.yaml")
	os.Setenv("DIRECTORY_DEFAULT_PAGE_SIZE", "25")
	os.Setenv("DIRECTORY_REFRESH_INTERVAL", "30s")
	os.Setenv("REPORTS_SEED", "42")
	os.Setenv("CHAT_REPLY_DELAY", "250ms")
	os.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1/32,")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Port: got %q", cfg.Server.Port)
	}
	if cfg.Directory.SourceURL != "http://users.internal/api" {
		t.Errorf("SourceURL: got %q", cfg.Directory.SourceURL)
	}
	if cfg.Directory.SeedFile != "data/users.yaml" {
		t.Errorf("SeedFile: got %q", cfg.Directory.SeedFile)
	}
	if cfg.Directory.DefaultPageSize != 25 {
		t.Errorf("DefaultPageSize: got %d", cfg.Directory.DefaultPageSize)
	}
	if cfg.Directory.RefreshInterval != 30*time.Second {
		t.Errorf("RefreshInterval: got %v", cfg.Directory.RefreshInterval)
	}
	if cfg.Reports.Seed != 42 {
		t.Errorf("Seed: got %d", cfg.Reports.Seed)
	}
	if cfg.Chat.ReplyDelay != 250*time.Millisecond {
		t.Errorf("ReplyDelay: got %v", cfg.Chat.ReplyDelay)
	}
	if len(cfg.Server.TrustedProxies) != 2 || cfg.Server.TrustedProxies[1] != "127.0.0.1/32" {
		t.Errorf("TrustedProxies: got %v", cfg.Server.TrustedProxies)
	}
}

func TestLoad_SeedFileOnly(t *testing.T) {
	os.Clearenv()
	os.Setenv("DIRECTORY_SOURCE_URL", "none")
	os.Setenv("DIRECTORY_SEED_FILE", "data/users.yaml")
	os.Setenv("DIRECTORY_WATCH_SEED_FILE", "false")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Directory.SourceURL != "" {
		t.Errorf("SourceURL: got %q, want empty", cfg.Directory.SourceURL)
	}
	if cfg.Directory.WatchSeedFile {
		t.Error("WatchSeedFile: got true, want false")
	}
}

func TestLoad_NoSourceAtAll(t *testing.T) {
	os.Clearenv()
	os.Setenv("DIRECTORY_SOURCE_URL", "NONE")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Error("Load() = nil, want error when neither source URL nor seed file is set")
	}
}

func TestDirectoryConfig_SeedWatchEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  DirectoryConfig
		want bool
	}{
		{"seed file is the only source", DirectoryConfig{SeedFile: "data/users.yaml", WatchSeedFile: true}, true},
		{"seed file behind an upstream", DirectoryConfig{SourceURL: "http://users.internal/api", SeedFile: "data/users.yaml", WatchSeedFile: true}, false},
		{"watching turned off", DirectoryConfig{SeedFile: "data/users.yaml", WatchSeedFile: false}, false},
		{"no seed file", DirectoryConfig{SourceURL: "http://users.internal/api", WatchSeedFile: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.SeedWatchEnabled(); got != tt.want {
				t.Errorf("SeedWatchEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad_InvalidDurationFallsBackToDefault(t *testing.T) {
	os.Clearenv()
	os.Setenv("DIRECTORY_FETCH_TIMEOUT", "soon")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Directory.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout: got %v, want 10s", cfg.Directory.FetchTimeout)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero page size", map[string]string{"DIRECTORY_DEFAULT_PAGE_SIZE": "0"}},
		{"negative refresh interval", map[string]string{"DIRECTORY_REFRESH_INTERVAL": "-1m"}},
		{"zero rate limit", map[string]string{"RATE_LIMIT_PER_MINUTE": "0"}},
		{"negative reply delay", map[string]string{"CHAT_REPLY_DELAY": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			defer os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			if _, err := Load(); err == nil {
				t.Error("Load() = nil, want error")
			}
		})
	}
}

func TestLoad_ReportsSeed(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    uint64
		wantErr bool
	}{
		{"above MaxInt64", "18446744073709551615", 18446744073709551615, false},
		{"plain", "42", 42, false},
		{"negative", "-1", 0, true},
		{"not a number", "lucky", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			defer os.Clearenv()
			os.Setenv("REPORTS_SEED", tt.value)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Load() = nil, want error for REPORTS_SEED=%q", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() = %v, want nil", err)
			}
			if cfg.Reports.Seed != tt.want {
				t.Errorf("Seed: got %d, want %d", cfg.Reports.Seed, tt.want)
			}
		})
	}
}

func TestLoad_ProductionOrigins(t *testing.T) {
	os.Clearenv()
	os.Setenv("ENV", "production")
	os.Setenv("ALLOWED_ORIGINS", "https://admin.example.com, https://ops.example.com")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	want := []string{"https://admin.example.com", "https://ops.example.com"}
	if len(cfg.Server.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins: got %v, want %v", cfg.Server.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.Server.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d]: got %q, want %q", i, cfg.Server.AllowedOrigins[i], want[i])
		}
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		c := ServerConfig{LogLevel: in}
		if got := c.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
