package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"contractorreg-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string   `yaml:"port"`
	Env             string   `yaml:"env"`
	CORSAllowOrigin []string `yaml:"corsAllowOrigins"`
	UploadDir       string   `yaml:"uploadDir"`
	MaxUploadBytes  int64    `yaml:"maxUploadBytes"`
	RetainUploads   bool     `yaml:"retainUploads"`
	RateLimitRPS    float64  `yaml:"rateLimitRps"`
	RateLimitBurst  int      `yaml:"rateLimitBurst"`
	LogLevel        string   `yaml:"logLevel"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:            "3000",
		Env:             "dev",
		CORSAllowOrigin: []string{"*"},
		UploadDir:       "uploads",
		MaxUploadBytes:  10 << 20,
		RateLimitRPS:    5,
		RateLimitBurst:  10,
		LogLevel:        "info",
	}
}

// Load reads configuration from an optional YAML file named by CONFIG_FILE and then
// from environment variables, which take precedence.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			telemetry.Warn("config.file.ignored", map[string]any{"path": path, "err": err.Error()})
		}
	}
	applyEnv(&cfg)
	cfg.Env = normalizeEnv(cfg.Env)
	return cfg
}

// LoadFile overlays the YAML document at path onto cfg. Keys absent from the file keep
// their current values.
func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config YAML: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	if raw, ok := os.LookupEnv("CORS_ALLOW_ORIGINS"); ok && strings.TrimSpace(raw) != "" {
		cfg.CORSAllowOrigin = splitAndTrim(raw)
	}
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.MaxUploadBytes = getEnvInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.RetainUploads = getEnvBool("RETAIN_UPLOADS", cfg.RetainUploads)
	cfg.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = int(getEnvInt64("RATE_LIMIT_BURST", int64(cfg.RateLimitBurst)))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		invalidEnv(key, raw)
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		invalidEnv(key, raw)
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		invalidEnv(key, raw)
		return def
	}
	return v
}

func invalidEnv(key, raw string) {
	telemetry.Warn("config.env.invalid", map[string]any{"key": key, "value": raw})
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
