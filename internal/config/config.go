package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Parser    ParserConfig
	CORS      CORSConfig
	Upload    UploadConfig
	Merge     MergeConfig
	Session   SessionConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserProviderConfig holds settings for a single LLM extraction provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ParserConfig holds extraction provider settings with multi-provider support.
type ParserConfig struct {
	// Mode is one of single, fallback, merge.
	Mode          string `mapstructure:"mode"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`

	// Legacy flat fields (backwards-compatible)
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	// Multi-provider fields
	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
	Tertiary  ParserProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary parser provider config, falling back to legacy flat fields.
func (p *ParserConfig) PrimaryConfig() *ParserProviderConfig {
	if p.Primary.Provider != "" {
		return &p.Primary
	}
	return &ParserProviderConfig{
		Provider:     p.Provider,
		APIKey:       p.APIKey,
		DefaultModel: p.DefaultModel,
		TimeoutSecs:  p.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary parser provider config, or nil if not configured.
func (p *ParserConfig) SecondaryConfig() *ParserProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary parser provider config, or nil if not configured.
func (p *ParserConfig) TertiaryConfig() *ParserProviderConfig {
	if p.Tertiary.Provider != "" {
		return &p.Tertiary
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UploadConfig bounds what a session accepts.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	MaxFiles      int   `mapstructure:"max_files"`
}

// MaxFileBytes returns the per-file limit in bytes.
func (u *UploadConfig) MaxFileBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// MergeConfig holds template merge settings.
type MergeConfig struct {
	Strict         bool   `mapstructure:"strict"`
	OutputPrefix   string `mapstructure:"output_prefix"`
	MaxPartSizeMB  int64  `mapstructure:"max_part_size_mb"`
	ExportFileBase string `mapstructure:"export_file_base"`
}

// SessionConfig holds in-memory session settings.
type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// StorageConfig holds template library settings. Provider is "none" or "s3".
type StorageConfig struct {
	Provider      string `mapstructure:"provider"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether a template store is configured.
func (s *StorageConfig) Enabled() bool {
	return s.Provider == "s3"
}

// RateLimitConfig holds per-client rate limiting for expensive endpoints.
type RateLimitConfig struct {
	Every time.Duration `mapstructure:"every"`
	Burst int           `mapstructure:"burst"`
}

// Load reads configuration from environment variables with the LEXMERGE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEXMERGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)
	v.SetDefault("upload.max_files", 20)

	// Merge defaults
	v.SetDefault("merge.strict", true)
	v.SetDefault("merge.output_prefix", "Populated_")
	v.SetDefault("merge.max_part_size_mb", 64)
	v.SetDefault("merge.export_file_base", "Extracted_Legal_Data")

	// Session defaults
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.sweep_interval", "5m")

	// Storage defaults
	v.SetDefault("storage.provider", "none")
	v.SetDefault("storage.region", "ap-south-1")
	v.SetDefault("storage.bucket", "lexmerge-templates")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.presign_expiry", 900)

	// Rate limit defaults
	v.SetDefault("rate_limit.every", "2s")
	v.SetDefault("rate_limit.burst", 5)

	// Parser defaults (legacy flat)
	v.SetDefault("parser.mode", "single")
	v.SetDefault("parser.max_concurrent", 4)
	v.SetDefault("parser.provider", "gemini")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "gemini-3-pro-preview")
	v.SetDefault("parser.timeout_secs", 180)

	// Parser primary/secondary/tertiary defaults
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("parser."+tier+".provider", "")
		v.SetDefault("parser."+tier+".api_key", "")
		v.SetDefault("parser."+tier+".default_model", "")
		v.SetDefault("parser."+tier+".timeout_secs", 180)
	}

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "LEXMERGE_SERVER_PORT",
		"server.read_timeout":            "LEXMERGE_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "LEXMERGE_SERVER_WRITE_TIMEOUT",
		"server.environment":             "LEXMERGE_SERVER_ENVIRONMENT",
		"log.level":                      "LEXMERGE_LOG_LEVEL",
		"log.format":                     "LEXMERGE_LOG_FORMAT",
		"cors.allowed_origins":           "LEXMERGE_CORS_ALLOWED_ORIGINS",
		"upload.max_file_size_mb":        "LEXMERGE_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.max_files":               "LEXMERGE_UPLOAD_MAX_FILES",
		"merge.strict":                   "LEXMERGE_MERGE_STRICT",
		"merge.output_prefix":            "LEXMERGE_MERGE_OUTPUT_PREFIX",
		"merge.max_part_size_mb":         "LEXMERGE_MERGE_MAX_PART_SIZE_MB",
		"merge.export_file_base":         "LEXMERGE_MERGE_EXPORT_FILE_BASE",
		"session.ttl":                    "LEXMERGE_SESSION_TTL",
		"session.sweep_interval":         "LEXMERGE_SESSION_SWEEP_INTERVAL",
		"storage.provider":               "LEXMERGE_STORAGE_PROVIDER",
		"storage.region":                 "LEXMERGE_STORAGE_REGION",
		"storage.bucket":                 "LEXMERGE_STORAGE_BUCKET",
		"storage.endpoint":               "LEXMERGE_STORAGE_ENDPOINT",
		"storage.access_key":             "LEXMERGE_STORAGE_ACCESS_KEY",
		"storage.secret_key":             "LEXMERGE_STORAGE_SECRET_KEY",
		"storage.presign_expiry":         "LEXMERGE_STORAGE_PRESIGN_EXPIRY",
		"rate_limit.every":               "LEXMERGE_RATE_LIMIT_EVERY",
		"rate_limit.burst":               "LEXMERGE_RATE_LIMIT_BURST",
		"parser.mode":                    "LEXMERGE_PARSER_MODE",
		"parser.max_concurrent":          "LEXMERGE_PARSER_MAX_CONCURRENT",
		"parser.provider":                "LEXMERGE_PARSER_PROVIDER",
		"parser.api_key":                 "LEXMERGE_PARSER_API_KEY",
		"parser.default_model":           "LEXMERGE_PARSER_DEFAULT_MODEL",
		"parser.timeout_secs":            "LEXMERGE_PARSER_TIMEOUT_SECS",
		"parser.primary.provider":        "LEXMERGE_PARSER_PRIMARY_PROVIDER",
		"parser.primary.api_key":         "LEXMERGE_PARSER_PRIMARY_API_KEY",
		"parser.primary.default_model":   "LEXMERGE_PARSER_PRIMARY_DEFAULT_MODEL",
		"parser.primary.timeout_secs":    "LEXMERGE_PARSER_PRIMARY_TIMEOUT_SECS",
		"parser.secondary.provider":      "LEXMERGE_PARSER_SECONDARY_PROVIDER",
		"parser.secondary.api_key":       "LEXMERGE_PARSER_SECONDARY_API_KEY",
		"parser.secondary.default_model": "LEXMERGE_PARSER_SECONDARY_DEFAULT_MODEL",
		"parser.secondary.timeout_secs":  "LEXMERGE_PARSER_SECONDARY_TIMEOUT_SECS",
		"parser.tertiary.provider":       "LEXMERGE_PARSER_TERTIARY_PROVIDER",
		"parser.tertiary.api_key":        "LEXMERGE_PARSER_TERTIARY_API_KEY",
		"parser.tertiary.default_model":  "LEXMERGE_PARSER_TERTIARY_DEFAULT_MODEL",
		"parser.tertiary.timeout_secs":   "LEXMERGE_PARSER_TERTIARY_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if LEXMERGE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LEXMERGE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		MaxFiles:      v.GetInt("upload.max_files"),
	}
	cfg.Merge = MergeConfig{
		Strict:         v.GetBool("merge.strict"),
		OutputPrefix:   v.GetString("merge.output_prefix"),
		MaxPartSizeMB:  v.GetInt64("merge.max_part_size_mb"),
		ExportFileBase: v.GetString("merge.export_file_base"),
	}
	cfg.Session = SessionConfig{
		TTL:           v.GetDuration("session.ttl"),
		SweepInterval: v.GetDuration("session.sweep_interval"),
	}
	cfg.Storage = StorageConfig{
		Provider:      v.GetString("storage.provider"),
		Region:        v.GetString("storage.region"),
		Bucket:        v.GetString("storage.bucket"),
		Endpoint:      v.GetString("storage.endpoint"),
		AccessKey:     v.GetString("storage.access_key"),
		SecretKey:     v.GetString("storage.secret_key"),
		PresignExpiry: v.GetInt64("storage.presign_expiry"),
	}
	cfg.RateLimit = RateLimitConfig{
		Every: v.GetDuration("rate_limit.every"),
		Burst: v.GetInt("rate_limit.burst"),
	}

	provider := func(tier string) ParserProviderConfig {
		return ParserProviderConfig{
			Provider:     v.GetString("parser." + tier + ".provider"),
			APIKey:       v.GetString("parser." + tier + ".api_key"),
			DefaultModel: v.GetString("parser." + tier + ".default_model"),
			TimeoutSecs:  v.GetInt("parser." + tier + ".timeout_secs"),
		}
	}
	cfg.Parser = ParserConfig{
		Mode:          v.GetString("parser.mode"),
		MaxConcurrent: v.GetInt("parser.max_concurrent"),
		Provider:      v.GetString("parser.provider"),
		APIKey:        v.GetString("parser.api_key"),
		DefaultModel:  v.GetString("parser.default_model"),
		TimeoutSecs:   v.GetInt("parser.timeout_secs"),
		Primary:       provider("primary"),
		Secondary:     provider("secondary"),
		Tertiary:      provider("tertiary"),
	}

	return cfg, nil
}
