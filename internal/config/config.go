package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Directory DirectoryConfig
	Reports   ReportsConfig
	Chat      ChatConfig
}

type ServerConfig struct {
	Port               string
	Env                string
	LogLevel           string
	AllowedOrigins     []string
	TrustedProxies     []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	RateLimitPerMinute int
}

type DirectoryConfig struct {
	SourceURL       string
	SeedFile        string
	WatchSeedFile   bool
	FetchTimeout    time.Duration
	RefreshInterval time.Duration
	DefaultPageSize int
}

type ReportsConfig struct {
	Seed    uint64
	MaxDays int
}

type ChatConfig struct {
	ReplyDelay time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	seed, err := getEnvAsUint64("REPORTS_SEED", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			Env:                env,
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			AllowedOrigins:     parseAllowedOrigins(env),
			TrustedProxies:     splitList(getEnv("TRUSTED_PROXIES", "")),
			ReadTimeout:        getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:       getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:        getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		},
		Directory: DirectoryConfig{
			SourceURL:       parseSourceURL(getEnv("DIRECTORY_SOURCE_URL", "https://jsonplaceholder.typicode.com/users")),
			SeedFile:        getEnv("DIRECTORY_SEED_FILE", ""),
			WatchSeedFile:   getEnvAsBool("DIRECTORY_WATCH_SEED_FILE", true),
			FetchTimeout:    getEnvAsDuration("DIRECTORY_FETCH_TIMEOUT", 10*time.Second),
			RefreshInterval: getEnvAsDuration("DIRECTORY_REFRESH_INTERVAL", 5*time.Minute),
			DefaultPageSize: getEnvAsInt("DIRECTORY_DEFAULT_PAGE_SIZE", 5),
		},
		Reports: ReportsConfig{
			Seed:    seed,
			MaxDays: getEnvAsInt("REPORTS_MAX_DAYS", 366),
		},
		Chat: ChatConfig{
			ReplyDelay: getEnvAsDuration("CHAT_REPLY_DELAY", 2*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Directory.SourceURL == "" && c.Directory.SeedFile == "" {
		return fmt.Errorf("DIRECTORY_SOURCE_URL or DIRECTORY_SEED_FILE is required")
	}
	if c.Directory.DefaultPageSize < 1 {
		return fmt.Errorf("DIRECTORY_DEFAULT_PAGE_SIZE must be at least 1 (got %d)", c.Directory.DefaultPageSize)
	}
	if c.Directory.RefreshInterval <= 0 {
		return fmt.Errorf("DIRECTORY_REFRESH_INTERVAL must be positive (got %s)", c.Directory.RefreshInterval)
	}
	if c.Server.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1 (got %d)", c.Server.RateLimitPerMinute)
	}
	if c.Chat.ReplyDelay < 0 {
		return fmt.Errorf("CHAT_REPLY_DELAY must not be negative (got %s)", c.Chat.ReplyDelay)
	}
	return nil
}

// SeedWatchEnabled reports whether seed file edits should reload the directory.
// With an upstream configured the file is only a fallback, so edits would not show.
func (c *DirectoryConfig) SeedWatchEnabled() bool {
	return c.WatchSeedFile && c.SeedFile != "" && c.SourceURL == ""
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *ServerConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsUint64 fails on malformed input instead of falling back to the default
func getEnvAsUint64(key string, defaultVal uint64) (uint64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a non-negative integer (got %q)", key, value)
	}
	return n, nil
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

// parseSourceURL treats "none" as no upstream, leaving the seed file as the only source
func parseSourceURL(value string) string {
	if strings.EqualFold(strings.TrimSpace(value), "none") {
		return ""
	}
	return value
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		return splitList(getEnv("ALLOWED_ORIGINS", ""))
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:5173", // Vite default
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://127.0.0.1:5173",
	}
}
