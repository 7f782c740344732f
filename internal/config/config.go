package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	Timezone               string
	DatabaseDriver         string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	NATSSubjectPrefix      string
	JWTSecret              string
	TokenTTL               time.Duration
	BcryptCost             int
	ResetTokenTTL          time.Duration
	ExposeResetToken       bool
	LoginRateLimit         int
	DashboardCacheTTL      time.Duration
	StartingCapital        decimal.Decimal
	LogoMaxSizeMB          int
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	CORSAllowOrigins       string

	location *time.Location
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Location returns the business timezone used for calendar-day boundaries.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// CloudinaryEnabled reports whether logo uploads should go to Cloudinary.
func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PADIDOC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "PadiDoc API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.timezone", "Asia/Jakarta")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("nats.subject_prefix", "padidoc")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.reset_token_ttl", "1h")
	v.SetDefault("auth.expose_reset_token", false)
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("dashboard.cache_ttl", "1m")
	v.SetDefault("dashboard.starting_capital", "50000000")
	v.SetDefault("settings.logo_max_size_mb", 2)
	v.SetDefault("cloudinary.folder", "padidoc/settings")
	v.SetDefault("http.cors_origins", "*")

	tokenTTL, err := parseDuration(v, "auth.token_ttl")
	if err != nil {
		return Config{}, err
	}
	resetTTL, err := parseDuration(v, "auth.reset_token_ttl")
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseDuration(v, "dashboard.cache_ttl")
	if err != nil {
		return Config{}, err
	}

	capital, err := decimal.NewFromString(strings.TrimSpace(v.GetString("dashboard.starting_capital")))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard starting capital: %w", err)
	}

	location, err := time.LoadLocation(v.GetString("app.timezone"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid app timezone: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		Timezone:               v.GetString("app.timezone"),
		DatabaseDriver:         strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		NATSSubjectPrefix:      v.GetString("nats.subject_prefix"),
		JWTSecret:              v.GetString("jwt.secret"),
		TokenTTL:               tokenTTL,
		BcryptCost:             v.GetInt("auth.bcrypt_cost"),
		ResetTokenTTL:          resetTTL,
		ExposeResetToken:       v.GetBool("auth.expose_reset_token"),
		LoginRateLimit:         v.GetInt("auth.login_rate_limit"),
		DashboardCacheTTL:      cacheTTL,
		StartingCapital:        capital,
		LogoMaxSizeMB:          v.GetInt("settings.logo_max_size_mb"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		CORSAllowOrigins:       v.GetString("http.cors_origins"),
		location:               location,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	switch cfg.DatabaseDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 10
	}

	if cfg.LogoMaxSizeMB <= 0 {
		cfg.LogoMaxSizeMB = 2
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	duration, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return duration, nil
}
